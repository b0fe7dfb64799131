package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
)

func TestProportionMature(t *testing.T) {
	table := rdat.AgeTable{
		Ages:       []int{0, 1, 2, 3},
		MatFemale:  []float64{0.1, 0.4, 0.8, 1.0},
		MatMale:    []float64{0.3, 0.6, 0.9, 1.0},
		PropFemale: []float64{0.5, 0.5, 0.4, 0.4},
	}

	t.Run("gonochoristic uses female vector", func(t *testing.T) {
		out := ProportionMature(table, Gonochoristic, 0.49)
		assert.Equal(t, []float64{0.1, 0.4, 0.8, 1.0}, out)
	})

	t.Run("protogynous blends by sex ratio", func(t *testing.T) {
		out := ProportionMature(table, Protogynous, 0.49)
		require.Len(t, out, 4)
		assert.InDelta(t, 0.5*0.1+0.5*0.3, out[0], 1e-12)
		assert.InDelta(t, 0.4*0.8+0.6*0.9, out[2], 1e-12)
	})

	t.Run("protogynous without sex ratio uses equal weights", func(t *testing.T) {
		noRatio := table
		noRatio.PropFemale = nil
		out := ProportionMature(noRatio, Protogynous, 0.49)
		assert.InDelta(t, 0.5*0.4+0.5*0.6, out[1], 1e-12)
	})

	t.Run("youngest class capped", func(t *testing.T) {
		high := table
		high.MatFemale = []float64{0.9, 0.95, 1.0, 1.0}
		out := ProportionMature(high, Gonochoristic, 0.49)
		assert.Equal(t, 0.49, out[0])
		assert.Equal(t, 0.95, out[1])
	})

	t.Run("cap never raises a low value", func(t *testing.T) {
		out := ProportionMature(table, Gonochoristic, 0.49)
		assert.Equal(t, 0.1, out[0])
	})

	t.Run("gonochoristic returns a copy", func(t *testing.T) {
		out := ProportionMature(table, Gonochoristic, 0.49)
		out[1] = 99
		assert.Equal(t, 0.4, table.MatFemale[1])
	})
}

func TestMaturityAtLength(t *testing.T) {
	g := Growth{Linf: 450, K: 0.22, T0: -0.8}
	ages := []int{0, 1, 2, 3, 4, 5}

	t.Run("monotonic maturity", func(t *testing.T) {
		maturity := []float64{0.0, 0.2, 0.5, 0.8, 0.95, 1.0}
		l50, inc := MaturityAtLength(ages, maturity, g, 1000)

		// Maturity crosses 0.5 exactly at age 2 and 0.95 at age 4.
		assert.InDelta(t, g.LengthAtAge(2), l50, 1.0)
		assert.InDelta(t, g.LengthAtAge(4)-g.LengthAtAge(2), inc, 2.0)
		assert.Greater(t, inc, 0.0)
	})

	t.Run("non-monotonic maturity can yield negative increment", func(t *testing.T) {
		// 95% maturity is nearest at a younger age than 50%.
		maturity := []float64{0.95, 0.94, 0.5, 0.45, 0.44, 0.43}
		_, inc := MaturityAtLength(ages, maturity, g, 1000)
		assert.Less(t, inc, 0.0)
	})

	t.Run("empty input", func(t *testing.T) {
		l50, inc := MaturityAtLength(nil, nil, g, 1000)
		assert.Zero(t, l50)
		assert.Zero(t, inc)
	})
}

func TestNearestOnGrid(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 0.5, 1.0}

	// Exact hit at a node.
	assert.InDelta(t, 1.0, nearestOnGrid(xs, ys, 0.5, 1001), 1e-9)
	// Ties broken by first occurrence: a flat curve returns the grid start.
	flat := []float64{0.5, 0.5, 0.5}
	assert.InDelta(t, 0.0, nearestOnGrid(xs, flat, 0.5, 1001), 1e-9)
}
