package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveWeightUnit(t *testing.T) {
	tests := []struct {
		name      string
		a         float64
		wantUnit  WeightUnit
		wantScale float64
	}{
		{"grams-range coefficient", 5e-5, WeightUnitGrams, 1e-3},
		{"kilograms-range coefficient", 2e-8, WeightUnitKilograms, 1},
		{"metric-tons-range coefficient", 3e-11, WeightUnitMetricTons, 1e3},
		{"above all ranges passes through", 0.5, WeightUnitUnknown, 1},
		{"below all ranges passes through", 1e-14, WeightUnitUnknown, 1},
		{"negative coefficient judged by magnitude", -5e-5, WeightUnitGrams, 1e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, scale := ResolveWeightUnit(tt.a)
			assert.Equal(t, tt.wantUnit, unit)
			assert.Equal(t, tt.wantScale, scale)
		})
	}
}

func TestResolveWeightUnitGramsCoefficient(t *testing.T) {
	// 5e-5 infers as grams and normalizes to kilograms by 0.001.
	unit, scale := ResolveWeightUnit(5e-5)
	assert.Equal(t, WeightUnitGrams, unit)
	assert.InDelta(t, 5e-8, 5e-5*scale, 1e-18)
}

func TestRescaleWLA(t *testing.T) {
	t.Run("length unit change compensated", func(t *testing.T) {
		// W = a*L^b must predict the same weight after lengths are
		// multiplied by c.
		a, b, c := 5e-8, 3.02, 0.1
		length := 300.0
		want := a * math.Pow(length, b)

		a2 := RescaleWLA(a, b, c)
		got := a2 * math.Pow(length*c, b)
		assert.InDelta(t, want, got, want*1e-12)
	})

	t.Run("identity multiplier", func(t *testing.T) {
		assert.Equal(t, 5e-8, RescaleWLA(5e-8, 3.0, 1))
	})

	t.Run("non-positive multiplier ignored", func(t *testing.T) {
		assert.Equal(t, 5e-8, RescaleWLA(5e-8, 3.0, 0))
	})
}
