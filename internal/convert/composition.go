package convert

import (
	"math"
	"sort"

	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
)

// CombineComposition turns per-fleet composition matrices (proportions by
// year and class) into one numbers-of-fish matrix on the common
// [years x bins] grid. Each fleet cell contributes proportion times that
// year's effective sample size; a missing or zero sample size contributes
// nothing, and years or classes a fleet lacks are zero-filled rather than
// dropped. Fleets combine by summation per cell; with scaleRows each
// combined row is instead re-proportioned to sum to 1.
func CombineComposition(mats []rdat.CompMatrix, years []int, bins []float64, scaleRows bool) [][]float64 {
	out := make([][]float64, len(years))
	for i := range out {
		out[i] = make([]float64, len(bins))
	}

	yearRow := make(map[int]int, len(years))
	for i, y := range years {
		yearRow[y] = i
	}

	for _, m := range mats {
		for i, y := range m.Years {
			row, ok := yearRow[y]
			if !ok || i >= len(m.Props) {
				continue
			}
			n := 0.0
			if i < len(m.N) && !rdat.IsMissing(m.N[i]) {
				n = m.N[i]
			}
			if n <= 0 {
				continue
			}
			for j, b := range m.Bins {
				col := binIndex(bins, b)
				if col < 0 || j >= len(m.Props[i]) {
					continue
				}
				p := m.Props[i][j]
				if rdat.IsMissing(p) {
					continue
				}
				out[row][col] += p * n
			}
		}
	}

	if scaleRows {
		for _, row := range out {
			total := 0.0
			for _, v := range row {
				total += v
			}
			if total <= 0 {
				continue
			}
			for j := range row {
				row[j] /= total
			}
		}
	}
	return out
}

// CommonBins returns the sorted union of the class bins across matrices.
func CommonBins(mats []rdat.CompMatrix) []float64 {
	seen := make(map[float64]bool)
	var bins []float64
	for _, m := range mats {
		for _, b := range m.Bins {
			if !seen[b] {
				seen[b] = true
				bins = append(bins, b)
			}
		}
	}
	sort.Float64s(bins)
	return bins
}

// BinEdges derives nbin+1 bin edges from bin midpoints, halving the gap
// between neighbors and mirroring the end gaps outward.
func BinEdges(mids []float64) []float64 {
	n := len(mids)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []float64{mids[0] - 0.5, mids[0] + 0.5}
	}
	edges := make([]float64, n+1)
	edges[0] = mids[0] - (mids[1]-mids[0])/2
	for i := 1; i < n; i++ {
		edges[i] = (mids[i-1] + mids[i]) / 2
	}
	edges[n] = mids[n-1] + (mids[n-1]-mids[n-2])/2
	return edges
}

// MeanLengthSeries computes the mean length per year from a numbers-at-bin
// matrix and its bin midpoints. Years with no fish yield NaN.
func MeanLengthSeries(numbers [][]float64, mids []float64) []float64 {
	out := make([]float64, len(numbers))
	for i, row := range numbers {
		sumN := 0.0
		sumLN := 0.0
		for j, n := range row {
			if j >= len(mids) || n <= 0 {
				continue
			}
			sumN += n
			sumLN += n * mids[j]
		}
		if sumN == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sumLN / sumN
	}
	return out
}

// binIndex locates a bin by value with a small tolerance for float drift.
func binIndex(bins []float64, b float64) int {
	for i, v := range bins {
		if math.Abs(v-b) < 1e-9 {
			return i
		}
	}
	return -1
}
