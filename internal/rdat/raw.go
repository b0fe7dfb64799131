package rdat

// Raw is the loader's direct representation of an rdat file: named scalars,
// vectors and matrices whose field names follow whichever convention the
// producing assessment-model version used. Standardize turns it into an Rdat.
type Raw struct {
	Info  map[string]string  `json:"info"`
	Parms map[string]float64 `json:"parms"`

	// Age-indexed columns of the age table, keyed by column name.
	Ages    []int                `json:"ages"`
	AgeVecs map[string][]float64 `json:"age_vecs"`

	// Year-indexed columns of the time series table, keyed by column name.
	// Index observations ("U.<abbrev>.ob"), index CVs ("cv.U.<abbrev>") and
	// composition sample sizes ("acomp.<abbrev>.n", "lcomp.<abbrev>.n")
	// live here as well.
	Years    []int                `json:"years"`
	YearVecs map[string][]float64 `json:"year_vecs"`

	// Composition matrices keyed by their rdat name, e.g. "acomp.cHL.ob".
	Comps map[string]RawMatrix `json:"comps"`

	// Selectivity vectors/matrices keyed by their rdat name, e.g.
	// "sel.m.cHL" (year x age matrix) or "sel.v.sVD" (single curve).
	Sels map[string]RawMatrix `json:"sels"`

	// Vulnerable biomass at age, year x age. May be empty.
	BAtAge RawMatrix `json:"b_at_age"`
}

// RawMatrix is a named numeric matrix with its row and column indices.
// Rows is the year index (nil for single-curve selectivities); Cols is the
// age or length-bin index. Orientation is not guaranteed: some producers
// write classes as rows and years as columns.
type RawMatrix struct {
	Rows   []int       `json:"rows"`
	Cols   []float64   `json:"cols"`
	Values [][]float64 `json:"values"`
}

// oriented returns the matrix values with years as rows, transposing when
// the stored orientation is classes-as-rows. A square matrix is returned
// unchanged.
func (m RawMatrix) oriented() [][]float64 {
	if len(m.Values) == 0 || len(m.Rows) == 0 {
		return m.Values
	}
	if len(m.Values) == len(m.Rows) {
		return m.Values
	}
	if len(m.Values) == len(m.Cols) && len(m.Values[0]) == len(m.Rows) {
		return transpose(m.Values)
	}
	return m.Values
}

func transpose(in [][]float64) [][]float64 {
	if len(in) == 0 {
		return in
	}
	out := make([][]float64, len(in[0]))
	for i := range out {
		out[i] = make([]float64, len(in))
		for j := range in {
			out[i][j] = in[j][i]
		}
	}
	return out
}
