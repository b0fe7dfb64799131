package convert

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
)

type fakeSpeciesTable map[string]SpeciesInfo

func (t fakeSpeciesTable) Lookup(name string) (SpeciesInfo, bool) {
	info, ok := t[name]
	return info, ok
}

type fakeUnitTable map[string]float64

func (t fakeUnitTable) Scalar(name string) (float64, bool) {
	s, ok := t[name]
	return s, ok
}

func TestDataRecord(t *testing.T) {
	opts := DefaultOptions()
	opts.NSim = 2
	opts.SpeciesTable = fakeSpeciesTable{
		"RedPorgy": {
			Genus:      "Pagrus",
			Species:    "pagrus",
			CommonName: "red porgy",
			Region:     "US South Atlantic",
		},
	}
	c, err := New(opts, testLogger())
	require.NoError(t, err)

	d, err := c.Data(context.Background(), rawFixture())
	require.NoError(t, err)

	t.Run("identity from species table", func(t *testing.T) {
		assert.Equal(t, "RedPorgy", d.Name)
		assert.Equal(t, "Pagrus pagrus", d.Species)
		assert.Equal(t, "red porgy", d.CommonName)
		assert.Equal(t, "US South Atlantic", d.Region)
	})

	t.Run("replicate dimension on every array", func(t *testing.T) {
		require.Len(t, d.Cat, 2)
		require.Len(t, d.Ind, 2)
		require.Len(t, d.CAA, 2)
		require.Len(t, d.CAL, 2)
		require.Len(t, d.Rec, 2)
		require.Len(t, d.ML, 2)
		assert.Equal(t, d.Cat[0], d.Cat[1])
		assert.Equal(t, d.CAA[0], d.CAA[1])
	})

	t.Run("year axes align", func(t *testing.T) {
		assert.Equal(t, []int{1990, 1991, 1992, 1993, 1994}, d.Years)
		assert.Len(t, d.Cat[0], 5)
		assert.Len(t, d.Ind[0][0], 5)
		assert.Len(t, d.CAA[0], 5)
		assert.Len(t, d.CAL[0], 5)
		assert.Len(t, d.Rec[0], 5)
		assert.Equal(t, 5, d.T)
	})

	t.Run("age axis covers 0..max", func(t *testing.T) {
		assert.Equal(t, 5, d.MaxAge)
		assert.Len(t, d.CAA[0][0], 6)
		assert.Len(t, d.IndV[0][0], 6)
	})

	t.Run("indices sorted and restandardized", func(t *testing.T) {
		assert.Equal(t, []string{"cHL", "sVD"}, d.IndNames)
		for i := range d.IndNames {
			sum, n := 0.0, 0
			for _, v := range d.Ind[0][i] {
				if !math.IsNaN(v) {
					sum += v
					n++
				}
			}
			require.Positive(t, n)
			assert.InDelta(t, 1.0, sum/float64(n), 1e-9)
		}
		// Gaps stay missing.
		assert.True(t, math.IsNaN(d.Ind[0][1][1]))
	})

	t.Run("index units classified by first letter", func(t *testing.T) {
		assert.Equal(t, []int{1, 0}, d.IndUnits)
	})

	t.Run("index vulnerability from matching selectivity", func(t *testing.T) {
		// sVD has its own curve; values preserved at original ages.
		assert.Equal(t, 0.5, d.IndV[0][1][1])
		// cHL uses the most recent matrix row.
		assert.Equal(t, 0.3, d.IndV[0][0][1])
	})

	t.Run("composition numbers preserve fish counts", func(t *testing.T) {
		// 1990 age comp: proportions sum to 1, N=50.
		sum := 0.0
		for _, v := range d.CAA[0][0] {
			sum += v
		}
		assert.InDelta(t, 50.0, sum, 1e-9)

		// Years with zero sample size are zero-filled, not dropped.
		for _, v := range d.CAA[0][1] {
			assert.Zero(t, v)
		}
	})

	t.Run("length bins and mean length", func(t *testing.T) {
		assert.Equal(t, []float64{200, 250, 300, 350}, d.CALMids)
		assert.Equal(t, []float64{175, 225, 275, 325, 375}, d.CALBins)

		// 1992 has no length sample, so mean length is missing there.
		assert.True(t, math.IsNaN(d.ML[0][2]))
		assert.Greater(t, d.ML[0][0], 200.0)
		assert.Less(t, d.ML[0][0], 350.0)
	})

	t.Run("recruitment rescaled to age zero", func(t *testing.T) {
		// Age-0 M extrapolates to 0.55; recruitment age is 1.
		factor := math.Exp(0.55)
		assert.InDelta(t, 1e6*factor, d.Rec[0][0], 1)
	})

	t.Run("scalar parameters", func(t *testing.T) {
		assert.InDelta(t, 0.25, d.Mort, 1e-12)
		assert.InDelta(t, 450.0, d.VBLinf, 1e-12)
		assert.InDelta(t, 0.12, d.LenCV, 1e-12)
		assert.InDelta(t, 5e-8, d.WLA, 1e-18)
		assert.InDelta(t, 3.0, d.WLB, 1e-12)
		assert.InDelta(t, 0.84, d.Steep, 1e-12)
		assert.InDelta(t, 0.6, d.SigmaR, 1e-12)
		assert.Greater(t, d.L50, 0.0)
		assert.Greater(t, d.LFS, d.LFC)
	})

	t.Run("reference points and summaries", func(t *testing.T) {
		assert.InDelta(t, 540.0, d.Cref, 1e-12)
		assert.InDelta(t, 8200.0, d.Bref, 1e-12)
		assert.InDelta(t, 0.31, d.Fref, 1e-12)
		assert.InDelta(t, 0.35, d.Dep, 1e-12)
		assert.InDelta(t, 103.0, d.AvC, 1e-9)
	})
}

func TestDataUnknownRefPoint(t *testing.T) {
	opts := DefaultOptions()
	opts.RefPoint = "F01"
	c, err := New(opts, testLogger())
	require.NoError(t, err)

	_, err = c.Data(context.Background(), rawFixture())
	require.Error(t, err)

	var refErr *UnknownRefPointError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "F01", refErr.Name)
	assert.Contains(t, refErr.Available, "Fmsy")
}

func TestDataAlternateRefPoint(t *testing.T) {
	opts := DefaultOptions()
	opts.RefPoint = "F30"
	c, err := New(opts, testLogger())
	require.NoError(t, err)

	d, err := c.Data(context.Background(), rawFixture())
	require.NoError(t, err)
	assert.InDelta(t, 500.0, d.Cref, 1e-12)
	assert.InDelta(t, 0.4, d.Fref, 1e-12)
}

func TestDataStandardizeFailureIsFatal(t *testing.T) {
	c, err := New(DefaultOptions(), testLogger())
	require.NoError(t, err)

	raw := rawFixture()
	delete(raw.Parms, "Linf")
	_, err = c.Data(context.Background(), raw)
	require.Error(t, err)

	var missing *rdat.MissingFieldError
	assert.True(t, errors.As(err, &missing))
}

func TestDataIndexFilters(t *testing.T) {
	t.Run("explicit list", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Indices = Only("sVD")
		c, err := New(opts, testLogger())
		require.NoError(t, err)

		d, err := c.Data(context.Background(), rawFixture())
		require.NoError(t, err)
		assert.Equal(t, []string{"sVD"}, d.IndNames)
	})

	t.Run("none", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Indices = None()
		c, err := New(opts, testLogger())
		require.NoError(t, err)

		d, err := c.Data(context.Background(), rawFixture())
		require.NoError(t, err)
		assert.Empty(t, d.IndNames)
		assert.Nil(t, d.Ind)
	})

	t.Run("no match falls back to all combined", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Indices = Only("xZZ")
		c, err := New(opts, testLogger())
		require.NoError(t, err)

		d, err := c.Data(context.Background(), rawFixture())
		require.NoError(t, err)
		require.Equal(t, []string{"combined"}, d.IndNames)
		require.Len(t, d.Ind[0], 1)

		// The combined series averages 1 over observed years.
		sum, n := 0.0, 0
		for _, v := range d.Ind[0][0] {
			if !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		assert.InDelta(t, 1.0, sum/float64(n), 1e-9)
	})
}

func TestDataIndexOrderHint(t *testing.T) {
	opts := DefaultOptions()
	opts.IndexOrder = []string{"sVD"}
	c, err := New(opts, testLogger())
	require.NoError(t, err)

	d, err := c.Data(context.Background(), rawFixture())
	require.NoError(t, err)
	assert.Equal(t, []string{"sVD", "cHL"}, d.IndNames)
}

func TestDataSelectivityFallbackMapping(t *testing.T) {
	raw := rawFixture()
	raw.YearVecs["U.sCT.ob"] = []float64{1.0, 1.1, 0.9, 1.0, 1.0}
	raw.YearVecs["cv.U.sCT"] = []float64{0.2, 0.2, 0.2, 0.2, 0.2}

	opts := DefaultOptions()
	opts.SelFallback = map[string]string{"sCT": "sVD"}
	c, err := New(opts, testLogger())
	require.NoError(t, err)

	d2, err := c.Data(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, []string{"cHL", "sCT", "sVD"}, d2.IndNames)
	// sCT maps onto sVD's curve rather than the total.
	assert.Equal(t, d2.IndV[0][2], d2.IndV[0][1])
}

func TestDataCatchCVFallback(t *testing.T) {
	raw := rawFixture()
	delete(raw.YearVecs, "cv.L")

	c, err := New(DefaultOptions(), testLogger())
	require.NoError(t, err)

	d, err := c.Data(context.Background(), raw)
	require.NoError(t, err)
	for _, cv := range d.CatCV[0] {
		assert.Equal(t, DefaultCatchCV, cv)
	}
}

func TestDataMissingCatchBecomesNaN(t *testing.T) {
	raw := rawFixture()
	raw.YearVecs["total.L.klb"] = []float64{100, rdat.Missing, 90, 110, 95}
	raw.YearVecs["cv.L"] = []float64{0.05, rdat.Missing, 0.05, 0.05, 0.05}

	c, err := New(DefaultOptions(), testLogger())
	require.NoError(t, err)

	d, err := c.Data(context.Background(), raw)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(d.Cat[0][1]))
	assert.True(t, math.IsNaN(d.CatCV[0][1]))
	assert.InDelta(t, 100.0, d.Cat[0][0], 1e-9)

	// The average skips the missing year rather than absorbing it.
	assert.InDelta(t, (100.0+90+110+95)/4, d.AvC, 1e-9)
}

func TestDataCatchMultiplier(t *testing.T) {
	opts := DefaultOptions()
	opts.CatchMult = 0.4536 // 1000 lb to metric tons
	c, err := New(opts, testLogger())
	require.NoError(t, err)

	d, err := c.Data(context.Background(), rawFixture())
	require.NoError(t, err)
	assert.InDelta(t, 100*0.4536, d.Cat[0][0], 1e-9)
	assert.InDelta(t, 540*0.4536, d.Cref, 1e-9)
}

func TestDataUnitTableResolution(t *testing.T) {
	opts := DefaultOptions()
	opts.LengthUnitName = "mm-to-cm"
	opts.Units = fakeUnitTable{"mm-to-cm": 0.1}
	c, err := New(opts, testLogger())
	require.NoError(t, err)

	d, err := c.Data(context.Background(), rawFixture())
	require.NoError(t, err)
	assert.InDelta(t, 45.0, d.VBLinf, 1e-9)
	assert.InDeltaSlice(t, []float64{20, 25, 30, 35}, d.CALMids, 1e-9)
}

func TestDataSpeciesOverrides(t *testing.T) {
	opts := DefaultOptions()
	opts.Genus = "Pagrus"
	opts.Species = "pagrus"
	opts.Region = "South Atlantic"
	c, err := New(opts, testLogger())
	require.NoError(t, err)

	d, err := c.Data(context.Background(), rawFixture())
	require.NoError(t, err)
	assert.Equal(t, "Pagrus pagrus", d.Species)
	assert.Equal(t, "South Atlantic", d.Region)
}

func TestDataScaleRows(t *testing.T) {
	opts := DefaultOptions()
	opts.ScaleRows = true
	c, err := New(opts, testLogger())
	require.NoError(t, err)

	d, err := c.Data(context.Background(), rawFixture())
	require.NoError(t, err)

	// Rows with data re-proportion to 1.
	sum := 0.0
	for _, v := range d.CAA[0][0] {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
