package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
)

func TestResolveIndexSelectivity(t *testing.T) {
	sels := map[string]rdat.Selectivity{
		"cHL": {Abbrev: "cHL", Values: [][]float64{{0.1, 0.9, 1.0}}},
		"sVD": {Abbrev: "sVD", Values: [][]float64{{0.5, 1.0, 0.8}}},
	}
	total := rdat.Selectivity{Abbrev: "tot", Values: [][]float64{{0.3, 0.95, 1.0}}}
	fallback := map[string]string{"sCT": "sVD"}

	tests := []struct {
		name        string
		abbrev      string
		wantAbbrev  string
		wantMatched bool
	}{
		{"exact match", "cHL", "cHL", true},
		{"fallback mapping", "sCT", "sVD", true},
		{"no match falls back to total", "sBL", "tot", false},
		{"fallback target absent falls back to total", "xZZ", "tot", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, matched := ResolveIndexSelectivity(tt.abbrev, sels, fallback, total)
			assert.Equal(t, tt.wantAbbrev, sel.Abbrev)
			assert.Equal(t, tt.wantMatched, matched)
		})
	}
}

func TestSelectivityCurrent(t *testing.T) {
	matrix := rdat.Selectivity{
		Ages:  []int{0, 1, 2},
		Years: []int{1990, 1991, 1992},
		Values: [][]float64{
			{0.2, 0.9, 1.0},
			{0.25, 0.95, 1.0},
			{0.3, 1.0, 1.0},
		},
	}
	// The most recent row is authoritative.
	assert.Equal(t, []float64{0.3, 1.0, 1.0}, matrix.Current())

	vector := rdat.Selectivity{Ages: []int{0, 1, 2}, Values: [][]float64{{0.5, 1.0, 0.8}}}
	assert.Equal(t, []float64{0.5, 1.0, 0.8}, vector.Current())
}

func TestVulnerabilityLengths(t *testing.T) {
	g := Growth{Linf: 450, K: 0.22, T0: -0.8}
	ages := []int{0, 1, 2, 3, 4}

	t.Run("first capture and full selection", func(t *testing.T) {
		// Total rises linearly 0..1; 5% of max is nearest age 0.2.
		total := []float64{0, 0.25, 0.5, 0.75, 1.0}
		// Landings peak at age 3.
		landings := []float64{0, 0.3, 0.8, 1.0, 0.9}

		lfc, lfs := VulnerabilityLengths(ages, total, landings, g, 1001)
		assert.InDelta(t, g.LengthAtAge(0.2), lfc, 1.0)
		assert.InDelta(t, g.LengthAtAge(3), lfs, 1.0)
	})

	t.Run("no landings curve", func(t *testing.T) {
		total := []float64{0, 0.5, 1.0, 1.0, 1.0}
		lfc, lfs := VulnerabilityLengths(ages, total, nil, g, 1001)
		assert.Greater(t, lfc, 0.0)
		assert.Zero(t, lfs)
	})

	t.Run("empty input", func(t *testing.T) {
		lfc, lfs := VulnerabilityLengths(nil, nil, nil, g, 1001)
		assert.Zero(t, lfc)
		assert.Zero(t, lfs)
	})
}

func TestModalOnGrid(t *testing.T) {
	xs := []float64{0, 1, 2}

	// Ties broken by first occurrence: a plateau returns its left edge.
	plateau := []float64{0.5, 1.0, 1.0}
	assert.InDelta(t, 1.0, modalOnGrid(xs, plateau, 1001), 1e-9)

	peak := []float64{0, 1.0, 0}
	assert.InDelta(t, 1.0, modalOnGrid(xs, peak, 1001), 1e-9)
}
