package convert

import "math"

// WeightUnit is the inferred unit of a weight-length coefficient.
type WeightUnit string

const (
	// WeightUnitGrams means the coefficient produces grams.
	WeightUnitGrams WeightUnit = "g"
	// WeightUnitKilograms means the coefficient produces kilograms.
	WeightUnitKilograms WeightUnit = "kg"
	// WeightUnitMetricTons means the coefficient produces metric tons.
	WeightUnitMetricTons WeightUnit = "mt"
	// WeightUnitUnknown means the magnitude fell in no known range; the
	// coefficient is passed through unscaled and no diagnostic is emitted.
	WeightUnitUnknown WeightUnit = "unknown"
)

// Known allometric coefficient magnitude ranges, [low, high) on |a|.
const (
	gramsLow = 1e-6
	gramsHi  = 1e-3
	kgLow    = 1e-9
	kgHi     = 1e-6
	mtLow    = 1e-12
	mtHi     = 1e-9
)

// ResolveWeightUnit infers the unit a weight-length coefficient was
// expressed in from its magnitude and returns the multiplicative correction
// normalizing it to kilograms. Outside all three known ranges the unit is
// unknown and the scalar is 1.
func ResolveWeightUnit(a float64) (WeightUnit, float64) {
	mag := math.Abs(a)
	switch {
	case mag >= gramsLow && mag < gramsHi:
		return WeightUnitGrams, 1e-3
	case mag >= kgLow && mag < kgHi:
		return WeightUnitKilograms, 1
	case mag >= mtLow && mag < mtHi:
		return WeightUnitMetricTons, 1e3
	default:
		return WeightUnitUnknown, 1
	}
}

// RescaleWLA compensates the weight-length coefficient for a change of
// length unit: with lengths multiplied by lengthMult, the coefficient
// becomes a * lengthMult^-b so that predicted weights are unchanged.
func RescaleWLA(a, b, lengthMult float64) float64 {
	if lengthMult == 1 || lengthMult <= 0 {
		return a
	}
	return a * math.Pow(lengthMult, -b)
}
