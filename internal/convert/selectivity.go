package convert

import (
	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
)

// ResolveIndexSelectivity picks the selectivity-at-age curve attributed to
// an abundance index. Precedence: exact abbreviation match, then the
// caller-supplied fallback mapping, then the combined total selectivity.
// matched is false only on the final fallback, so callers can emit the
// diagnostic naming the unmatched index.
func ResolveIndexSelectivity(abbrev string, sels map[string]rdat.Selectivity, fallback map[string]string, total rdat.Selectivity) (sel rdat.Selectivity, matched bool) {
	if s, ok := sels[abbrev]; ok {
		return s, true
	}
	if alt, ok := fallback[abbrev]; ok {
		if s, ok := sels[alt]; ok {
			return s, true
		}
	}
	return total, false
}

// VulnerabilityLengths estimates two lengths from the current selectivity
// curves: the length at 5% of maximum total selectivity (first capture) and
// the length at modal landings selectivity (full selection). Both use the
// same nearest-grid-point search as the maturity-at-length derivation, on a
// gridSize-point grid over the age range.
func VulnerabilityLengths(ages []int, total, landings []float64, g Growth, gridSize int) (lfc, lfs float64) {
	if len(ages) == 0 || len(total) == 0 {
		return 0, 0
	}
	if gridSize < 2 {
		gridSize = 2
	}

	xs := make([]float64, len(ages))
	for i, a := range ages {
		xs[i] = float64(a)
	}

	target := 0.05 * maxOf(total)
	ageFC := nearestOnGrid(xs, total, target, gridSize)
	lfc = g.LengthAtAge(ageFC)

	if len(landings) == 0 {
		return lfc, 0
	}
	ageFS := modalOnGrid(xs, landings, gridSize)
	lfs = g.LengthAtAge(ageFS)
	return lfc, lfs
}

// modalOnGrid returns the grid x at which the interpolated curve attains its
// maximum, first occurrence winning ties.
func modalOnGrid(xs, ys []float64, gridSize int) float64 {
	lo, hi := xs[0], xs[len(xs)-1]
	step := (hi - lo) / float64(gridSize-1)

	best := lo
	bestVal := linInterp(xs, ys, lo)
	for i := 1; i < gridSize; i++ {
		x := lo + float64(i)*step
		v := linInterp(xs, ys, x)
		if v > bestVal {
			bestVal = v
			best = x
		}
	}
	return best
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
