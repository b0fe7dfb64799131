package convert

import (
	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
)

// ProportionMature derives the maturity-at-age vector from the age table.
// Gonochoristic stocks use the female vector directly; protogynous stocks
// blend female and male maturity weighted by the proportion female at age
// (equal weights when no sex-ratio column is present). The youngest age
// class is capped at matAge1Max: assessment models can produce implausibly
// high maturity there, and the cap is a deliberate correction.
func ProportionMature(table rdat.AgeTable, mode Hermaphroditism, matAge1Max float64) []float64 {
	n := len(table.MatFemale)
	out := make([]float64, n)

	switch mode {
	case Protogynous:
		for i := 0; i < n; i++ {
			pf := 0.5
			if i < len(table.PropFemale) {
				pf = table.PropFemale[i]
			}
			male := 0.0
			if i < len(table.MatMale) {
				male = table.MatMale[i]
			}
			out[i] = pf*table.MatFemale[i] + (1-pf)*male
		}
	default:
		copy(out, table.MatFemale)
	}

	if n > 0 && out[0] > matAge1Max {
		out[0] = matAge1Max
	}
	return out
}

// MaturityAtLength derives L50 and the increment L95-L50 from a
// maturity-at-age vector. Maturity is linearly interpolated onto a
// gridSize-point grid over the age range; the grid ages nearest to 50% and
// 95% maturity (minimum absolute difference, first occurrence on ties) are
// converted to lengths through the growth curve. The increment can be
// negative when maturity is non-monotonic; it is returned as computed.
func MaturityAtLength(ages []int, maturity []float64, g Growth, gridSize int) (l50, l50ToL95 float64) {
	if len(ages) == 0 || len(maturity) == 0 {
		return 0, 0
	}
	if gridSize < 2 {
		gridSize = 2
	}

	xs := make([]float64, len(ages))
	for i, a := range ages {
		xs[i] = float64(a)
	}

	age50 := nearestOnGrid(xs, maturity, 0.50, gridSize)
	age95 := nearestOnGrid(xs, maturity, 0.95, gridSize)

	l50 = g.LengthAtAge(age50)
	l95 := g.LengthAtAge(age95)
	return l50, l95 - l50
}

// nearestOnGrid interpolates ys over a uniform grid spanning xs and returns
// the grid x whose interpolated value is nearest to target, first occurrence
// winning ties.
func nearestOnGrid(xs, ys []float64, target float64, gridSize int) float64 {
	lo, hi := xs[0], xs[len(xs)-1]
	step := (hi - lo) / float64(gridSize-1)

	best := lo
	bestDiff := -1.0
	for i := 0; i < gridSize; i++ {
		x := lo + float64(i)*step
		diff := linInterp(xs, ys, x) - target
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			best = x
		}
	}
	return best
}
