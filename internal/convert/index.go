package convert

import (
	"math"

	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
)

// CombineIndices merges N abundance-index series of equal length into one:
// per year, the geometric mean across available series (the Missing sentinel
// and non-positive values count as unavailable), then the whole series is
// divided by its own mean so the result averages 1. A year with no available
// series stays NaN, never zero.
func CombineIndices(series ...[]float64) []float64 {
	out := geometricMeanByYear(series)
	return Restandardize(out)
}

// CombineCVs merges CV series via per-year geometric mean, with no
// restandardization.
func CombineCVs(series ...[]float64) []float64 {
	return geometricMeanByYear(series)
}

// Restandardize divides every value by the series mean (ignoring NaN),
// rescaling the series to mean 1. A series with no usable values is
// returned unchanged.
func Restandardize(values []float64) []float64 {
	sum := 0.0
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 || sum == 0 {
		return values
	}
	mean := sum / float64(n)

	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		out[i] = v / mean
	}
	return out
}

func geometricMeanByYear(series [][]float64) []float64 {
	nyear := 0
	for _, s := range series {
		if len(s) > nyear {
			nyear = len(s)
		}
	}

	out := make([]float64, nyear)
	for y := 0; y < nyear; y++ {
		logSum := 0.0
		n := 0
		for _, s := range series {
			if y >= len(s) {
				continue
			}
			v := s[y]
			if rdat.IsMissing(v) || v <= 0 {
				continue
			}
			logSum += math.Log(v)
			n++
		}
		if n == 0 {
			out[y] = math.NaN()
			continue
		}
		out[y] = math.Exp(logSum / float64(n))
	}
	return out
}

// sentinelToNaN copies a series with the Missing sentinel replaced by NaN.
func sentinelToNaN(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if rdat.IsMissing(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out
}
