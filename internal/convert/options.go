package convert

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Hermaphroditism selects how maturity-at-age is derived from the male and
// female maturity vectors.
type Hermaphroditism string

const (
	// Gonochoristic stocks use the female maturity vector directly.
	Gonochoristic Hermaphroditism = "gonochoristic"
	// Protogynous stocks blend female and male maturity weighted by the
	// proportion female at age.
	Protogynous Hermaphroditism = "protogynous"
)

// FilterMode is the selection mode of a Filter.
type FilterMode string

const (
	// FilterAll includes every available series.
	FilterAll FilterMode = "all"
	// FilterNone includes no series.
	FilterNone FilterMode = "none"
	// FilterList includes only the listed abbreviations.
	FilterList FilterMode = "list"
)

// Filter selects index or composition series by fleet abbreviation.
type Filter struct {
	Mode    FilterMode `validate:"oneof=all none list"`
	Abbrevs []string
}

// All returns a filter including every available series.
func All() Filter { return Filter{Mode: FilterAll} }

// None returns a filter including no series.
func None() Filter { return Filter{Mode: FilterNone} }

// Only returns a filter including exactly the named abbreviations.
func Only(abbrevs ...string) Filter {
	return Filter{Mode: FilterList, Abbrevs: abbrevs}
}

// Select applies the filter to the available abbreviations, preserving their
// order. A list filter returns only exact matches; the caller decides what
// to do when nothing matches.
func (f Filter) Select(available []string) []string {
	switch f.Mode {
	case FilterNone:
		return nil
	case FilterList:
		want := make(map[string]bool, len(f.Abbrevs))
		for _, a := range f.Abbrevs {
			want[a] = true
		}
		var out []string
		for _, a := range available {
			if want[a] {
				out = append(out, a)
			}
		}
		return out
	default:
		return available
	}
}

// SpeciesInfo is the metadata resolved from the external lookup-by-model-name
// table.
type SpeciesInfo struct {
	Genus           string
	Species         string
	CommonName      string
	Region          string
	Hermaphroditism Hermaphroditism
}

// SpeciesTable resolves species metadata by assessment-model name. It is an
// external collaborator; implementations must be safe for concurrent reads.
type SpeciesTable interface {
	Lookup(modelName string) (SpeciesInfo, bool)
}

// UnitTable resolves a unit name (e.g. "mm", "metric tons") to a
// multiplicative scalar. External collaborator, read-only.
type UnitTable interface {
	Scalar(name string) (float64, bool)
}

// Options is the configuration surface of a Converter.
type Options struct {
	Hermaphroditism Hermaphroditism `validate:"oneof=gonochoristic protogynous"`

	// NSim is the size of the replicate dimension on every output array.
	NSim int `validate:"min=1"`

	// Species metadata overrides; when empty, resolved via SpeciesTable.
	Genus   string
	Species string
	Region  string

	// RefPoint names the benchmark whose (catch, biomass, F) triple feeds
	// the reference-point fields, e.g. "Fmsy" or "F30".
	RefPoint string `validate:"required"`

	// Series filters.
	Indices     Filter
	AgeComps    Filter
	LengthComps Filter

	// Unit scalars. A zero WeightMult means "infer from the coefficient's
	// magnitude" (ResolveWeightUnit). Unit names take precedence over the
	// numeric scalars when a UnitTable is supplied.
	LengthMult     float64 `validate:"gt=0"`
	WeightMult     float64 `validate:"gte=0"`
	CatchMult      float64 `validate:"gt=0"`
	LengthUnitName string
	WeightUnitName string
	CatchUnitName  string

	// IndexOrder is an ordering hint: indices matching earlier entries sort
	// earlier, unmatched indices keep their original relative order.
	IndexOrder []string

	// FleetUnits classifies indices by the first letter of their
	// abbreviation into the engine's numeric unit codes.
	FleetUnits map[string]int

	// SelFallback maps an index abbreviation to the selectivity
	// abbreviation to use when no exact match exists.
	SelFallback map[string]string

	// ScaleRows re-proportions each combined composition row to sum to 1
	// instead of leaving summed counts.
	ScaleRows bool

	// MatAge1Max caps maturity in the youngest age class.
	MatAge1Max float64 `validate:"gt=0,lte=1"`

	// GridSize is the interpolation grid resolution for maturity and
	// vulnerability length searches.
	GridSize int `validate:"min=2"`

	// ParmSpread is the half-width, as a fraction of the point estimate,
	// used to expand point estimates into stock-parameter bound pairs.
	ParmSpread float64 `validate:"gte=0"`

	Units        UnitTable
	SpeciesTable SpeciesTable
}

// Default configuration values.
const (
	DefaultNSim       = 1
	DefaultRefPoint   = "Fmsy"
	DefaultMatAge1Max = 0.49
	DefaultGridSize   = 1000
	DefaultParmSpread = 0.1
	DefaultCatchCV    = 0.05
	DefaultLenCV      = 0.1
)

// DefaultFleetUnits classifies index abbreviations by first letter:
// surveys ("s") report numbers (0), commercial and recreational fleets
// ("c", "r") report biomass (1).
func DefaultFleetUnits() map[string]int {
	return map[string]int{"s": 0, "c": 1, "r": 1}
}

// DefaultOptions returns the conversion defaults.
func DefaultOptions() Options {
	return Options{
		Hermaphroditism: Gonochoristic,
		NSim:            DefaultNSim,
		RefPoint:        DefaultRefPoint,
		Indices:         All(),
		AgeComps:        All(),
		LengthComps:     All(),
		LengthMult:      1,
		CatchMult:       1,
		FleetUnits:      DefaultFleetUnits(),
		MatAge1Max:      DefaultMatAge1Max,
		GridSize:        DefaultGridSize,
		ParmSpread:      DefaultParmSpread,
	}
}

var optionsValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the options, including nested filters.
func (o Options) Validate() error {
	if o.Indices.Mode == "" || o.AgeComps.Mode == "" || o.LengthComps.Mode == "" {
		return fmt.Errorf("options: filter mode must be one of all, none, list")
	}
	if err := optionsValidator.Struct(o); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	return nil
}

// resolveScalar resolves a unit scalar: an explicit unit name wins when a
// UnitTable can resolve it, otherwise the numeric multiplier is used.
func (o Options) resolveScalar(name string, numeric float64) float64 {
	if name != "" && o.Units != nil {
		if s, ok := o.Units.Scalar(name); ok {
			return s
		}
	}
	return numeric
}
