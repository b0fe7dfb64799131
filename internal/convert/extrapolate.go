package convert

import (
	"math"

	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
)

// ExtendToAgeZero linearly extends an age-indexed vector down to age 0 when
// its minimum age is later. Values at originally-present ages are preserved
// exactly; extrapolated values are clamped to [min, max]. The returned age
// sequence covers 0..max(ages) with no gaps. Inputs already starting at age
// 0 are returned as copies.
func ExtendToAgeZero(ages []int, values []float64, min, max float64) ([]int, []float64) {
	if len(ages) == 0 || len(values) == 0 {
		return nil, nil
	}
	maxAge := ages[len(ages)-1]
	outAges := make([]int, maxAge+1)
	outVals := make([]float64, maxAge+1)

	have := make(map[int]float64, len(ages))
	for i, a := range ages {
		if i < len(values) {
			have[a] = values[i]
		}
	}

	xs := make([]float64, len(ages))
	for i, a := range ages {
		xs[i] = float64(a)
	}

	for a := 0; a <= maxAge; a++ {
		outAges[a] = a
		if v, ok := have[a]; ok {
			outVals[a] = v
			continue
		}
		outVals[a] = clamp(linInterp(xs, values, float64(a)), min, max)
	}
	return outAges, outVals
}

// ExtendMatrixToAgeZero applies ExtendToAgeZero to every row of a
// year-by-age matrix, returning the extended age sequence and matrix.
func ExtendMatrixToAgeZero(ages []int, rows [][]float64, min, max float64) ([]int, [][]float64) {
	if len(rows) == 0 {
		return nil, nil
	}
	var outAges []int
	out := make([][]float64, len(rows))
	for i, row := range rows {
		a, v := ExtendToAgeZero(ages, row, min, max)
		outAges = a
		out[i] = v
	}
	return outAges, out
}

// extendSelectivity extends a selectivity's age domain to 0, preserving its
// vector/matrix form.
func extendSelectivity(sel rdat.Selectivity) rdat.Selectivity {
	if len(sel.Ages) == 0 || sel.Ages[0] == 0 {
		return sel
	}
	ages, values := ExtendMatrixToAgeZero(sel.Ages, sel.Values, 0, 1)
	return rdat.Selectivity{
		Abbrev: sel.Abbrev,
		Ages:   ages,
		Years:  sel.Years,
		Values: values,
	}
}

// linInterp evaluates the piecewise-linear function through (xs, ys) at x,
// extrapolating with the end-segment slopes outside the domain. xs must be
// strictly increasing.
func linInterp(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return ys[0]
	}

	// Locate the segment; ends extrapolate.
	i := 0
	switch {
	case x <= xs[0]:
		i = 0
	case x >= xs[n-1]:
		i = n - 2
	default:
		for i = 0; i < n-2; i++ {
			if x < xs[i+1] {
				break
			}
		}
	}

	slope := (ys[i+1] - ys[i]) / (xs[i+1] - xs[i])
	return ys[i] + slope*(x-xs[i])
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
