package rdat

import "math"

// Missing is the sentinel value BAM writes for absent observations.
const Missing = -99999.0

// IsMissing reports whether a value is the BAM missing-value sentinel or NaN.
func IsMissing(v float64) bool {
	return math.IsNaN(v) || v <= Missing+0.5
}

// CompKind distinguishes age from length composition matrices.
type CompKind string

const (
	// CompAge marks a year-by-age composition matrix.
	CompAge CompKind = "age"
	// CompLength marks a year-by-length-bin composition matrix.
	CompLength CompKind = "length"
)

// Info holds scalar run metadata.
type Info struct {
	Title      string `json:"title"`
	ModelName  string `json:"model_name"` // short key used for species lookup
	LengthUnit string `json:"length_unit"`
	WeightUnit string `json:"weight_unit"`
	CatchUnit  string `json:"catch_unit"`
	StartYear  int    `json:"start_year"`
	EndYear    int    `json:"end_year"`
}

// Parms holds the named parameter scalars after standardization.
type Parms struct {
	Linf  float64 `json:"linf"`
	K     float64 `json:"k"`
	T0    float64 `json:"t0"`
	LenCV float64 `json:"len_cv"`

	WLA float64 `json:"wla"` // weight-length coefficient, W = a*L^b
	WLB float64 `json:"wlb"` // allometric exponent

	M      float64 `json:"m"` // constant natural mortality
	Steep  float64 `json:"steep"`
	SigmaR float64 `json:"sigma_r"`
	RecAC  float64 `json:"rec_ac"` // recruitment autocorrelation
	R0     float64 `json:"r0"`
	RecAge int     `json:"rec_age"` // age at which recruitment enters the model
	MaxAge int     `json:"max_age"`
	Dep    float64 `json:"dep"` // terminal-year SSB / SSB0
}

// RefPoint is one named management benchmark: its catch, biomass and
// fishing-mortality values.
type RefPoint struct {
	Catch   float64 `json:"catch"`
	Biomass float64 `json:"biomass"`
	F       float64 `json:"f"`
}

// AgeTable holds age-indexed biological vectors, one entry per age class.
// After standardization (and age-0 extrapolation in the converter) Ages is
// the contiguous sequence 0..MaxAge.
type AgeTable struct {
	Ages       []int     `json:"ages"`
	M          []float64 `json:"m"`
	MatFemale  []float64 `json:"mat_female"`
	MatMale    []float64 `json:"mat_male"`
	PropFemale []float64 `json:"prop_female"`
	WeightKg   []float64 `json:"weight_kg"`
	Length     []float64 `json:"length"`
}

// TimeSeries holds year-indexed vectors over the contiguous model year range.
type TimeSeries struct {
	Years    []int     `json:"years"`
	Catch    []float64 `json:"catch"`
	CatchCV  []float64 `json:"catch_cv"`
	Recruits []float64 `json:"recruits"`
	SSB      []float64 `json:"ssb"`
}

// IndexSeries is one abundance-index time series. Values and CVs align
// positionally with Years; absent years carry the Missing sentinel.
type IndexSeries struct {
	Abbrev string    `json:"abbrev"`
	Years  []int     `json:"years"`
	Values []float64 `json:"values"`
	CVs    []float64 `json:"cvs"`
}

// CompMatrix is one fleet's composition matrix: rows are years, columns are
// age or length classes, cells are proportions. N is the effective sample
// size by year (zero or Missing meaning the year contributes nothing).
type CompMatrix struct {
	Abbrev string      `json:"abbrev"`
	Kind   CompKind    `json:"kind"`
	Years  []int       `json:"years"`
	Bins   []float64   `json:"bins"`
	Props  [][]float64 `json:"props"` // [year][bin]
	N      []float64   `json:"n"`
}

// Selectivity is one fleet's selectivity-at-age, stored either as a single
// curve (Years nil, one row) or as a year-by-age matrix where the most
// recent row is the current curve.
type Selectivity struct {
	Abbrev string      `json:"abbrev"`
	Ages   []int       `json:"ages"`
	Years  []int       `json:"years"`
	Values [][]float64 `json:"values"`
}

// IsMatrix reports whether the selectivity is stored in year-by-age form.
func (s Selectivity) IsMatrix() bool { return len(s.Years) > 0 }

// Current returns the authoritative selectivity-at-age curve: the single
// stored curve, or the final (most recent) row of the matrix form.
func (s Selectivity) Current() []float64 {
	if len(s.Values) == 0 {
		return nil
	}
	return s.Values[len(s.Values)-1]
}

// AgeMatrix is a year-by-age matrix, e.g. vulnerable biomass at age.
type AgeMatrix struct {
	Years  []int       `json:"years"`
	Ages   []int       `json:"ages"`
	Values [][]float64 `json:"values"` // [year][age]
}

// Rdat is the canonical assessment-output structure produced by Standardize.
type Rdat struct {
	Info      Info                `json:"info"`
	Parms     Parms               `json:"parms"`
	RefPoints map[string]RefPoint `json:"ref_points"`

	AgeTable   AgeTable   `json:"age_table"`
	TimeSeries TimeSeries `json:"time_series"`

	Indices       map[string]IndexSeries `json:"indices"`
	Comps         map[string]CompMatrix  `json:"comps"`
	Selectivities map[string]Selectivity `json:"selectivities"`

	TotalSel    Selectivity `json:"total_sel"`
	LandingsSel Selectivity `json:"landings_sel"`
	VulnBiomass AgeMatrix   `json:"vuln_biomass"`
}
