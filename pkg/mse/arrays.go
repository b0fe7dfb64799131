package mse

// Replicate2D copies a single series across the replicate axis, producing a
// [nsim][len(series)] matrix. Each replicate gets its own backing slice so
// that mutating one replicate never aliases another.
func Replicate2D(nsim int, series []float64) [][]float64 {
	if nsim < 1 {
		nsim = 1
	}
	out := make([][]float64, nsim)
	for i := range out {
		row := make([]float64, len(series))
		copy(row, series)
		out[i] = row
	}
	return out
}

// Replicate3D copies a matrix across the replicate axis, producing a
// [nsim][rows][cols] cube with fully independent backing slices.
func Replicate3D(nsim int, matrix [][]float64) [][][]float64 {
	if nsim < 1 {
		nsim = 1
	}
	out := make([][][]float64, nsim)
	for i := range out {
		rows := make([][]float64, len(matrix))
		for j, src := range matrix {
			row := make([]float64, len(src))
			copy(row, src)
			rows[j] = row
		}
		out[i] = rows
	}
	return out
}
