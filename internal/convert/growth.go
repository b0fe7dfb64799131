package convert

import (
	"math"

	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
)

// Growth holds von Bertalanffy growth parameters.
type Growth struct {
	Linf float64
	K    float64
	T0   float64
}

// LengthAtAge evaluates the von Bertalanffy growth curve
// L(a) = Linf * (1 - exp(-K*(a - t0))). Ages may be fractional.
func (g Growth) LengthAtAge(age float64) float64 {
	return g.Linf * (1 - math.Exp(-g.K*(age-g.T0)))
}

// AgeAtLength is the analytic inverse of LengthAtAge, defined for lengths
// in [0, Linf).
func (g Growth) AgeAtLength(length float64) float64 {
	return g.T0 - math.Log(1-length/g.Linf)/g.K
}

// RecruitsToAgeZero rescales a recruitment series expressed at the model's
// recruitment age back to age 0 using the inverse survivorship
// exp(sum of M over ages 0..recAge-1). m must start at age 0. Missing
// values pass through unchanged; recAge 0 is the identity.
func RecruitsToAgeZero(rec, m []float64, recAge int) []float64 {
	out := make([]float64, len(rec))
	factor := survivorshipInverse(m, recAge)
	for i, v := range rec {
		if rdat.IsMissing(v) {
			out[i] = v
			continue
		}
		out[i] = v * factor
	}
	return out
}

func survivorshipInverse(m []float64, recAge int) float64 {
	if recAge <= 0 {
		return 1
	}
	sum := 0.0
	for a := 0; a < recAge && a < len(m); a++ {
		sum += m[a]
	}
	return math.Exp(sum)
}
