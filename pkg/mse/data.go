package mse

// Data is the observed-data record handed to the simulation engine.
//
// Array axis conventions:
//
//	Cat, CatCV, ML        [nsim][nyear]
//	Ind, IndCV            [nsim][nindex][nyear]
//	IndV                  [nsim][nindex][nage]
//	CAA                   [nsim][nyear][nage]
//	CAL                   [nsim][nyear][nbin]
//
// The year axis is positionally aligned to Years across every array.
type Data struct {
	Name       string `json:"name"`
	CommonName string `json:"common_name"`
	Species    string `json:"species"` // "Genus species"
	Region     string `json:"region"`

	NSim  int   `json:"nsim"`
	Years []int `json:"years"`

	// Annual catch and its CV.
	Cat   [][]float64 `json:"cat"`
	CatCV [][]float64 `json:"cat_cv"`

	// Abundance indices, their CVs, per-index vulnerability-at-age, and
	// per-index unit codes (numbers vs biomass).
	Ind      [][][]float64 `json:"ind"`
	IndCV    [][][]float64 `json:"ind_cv"`
	IndV     [][][]float64 `json:"ind_v"`
	IndNames []string      `json:"ind_names"`
	IndUnits []int         `json:"ind_units"`

	// Composition data in numbers of fish.
	CAA     [][][]float64 `json:"caa"`
	CAL     [][][]float64 `json:"cal"`
	CALBins []float64     `json:"cal_bins"` // bin edges, len nbin+1
	CALMids []float64     `json:"cal_mids"` // bin midpoints, len nbin

	// Recruitment by year, rescaled to age 0.
	Rec [][]float64 `json:"rec"`

	// Mean length in the catch by year.
	ML [][]float64 `json:"ml"`

	// Point parameters.
	MaxAge   int     `json:"max_age"`
	Mort     float64 `json:"mort"`
	VBLinf   float64 `json:"vb_linf"`
	VBK      float64 `json:"vb_k"`
	VBT0     float64 `json:"vb_t0"`
	LenCV    float64 `json:"len_cv"`
	WLA      float64 `json:"wla"` // weight-length coefficient, kg
	WLB      float64 `json:"wlb"` // allometric exponent
	Steep    float64 `json:"steep"`
	SigmaR   float64 `json:"sigma_r"`
	L50      float64 `json:"l50"`
	L50ToL95 float64 `json:"l50_to_l95"`
	LFC      float64 `json:"lfc"` // length at first capture
	LFS      float64 `json:"lfs"` // length at full selection

	// Reference points and summary statistics.
	Cref float64 `json:"cref"`
	Bref float64 `json:"bref"`
	Fref float64 `json:"fref"`
	Dep  float64 `json:"dep"`
	AvC  float64 `json:"avc"` // average annual catch
	T    int     `json:"t"`   // number of years of data
}

// NewData returns a Data record with every array allocated to its final
// shape and every cell NaN-free (zero-valued). Assemblers fill fields in a
// fixed order and never read an already-assigned output field.
func NewData(nsim int, years []int, nage, nbin int) *Data {
	if nsim < 1 {
		nsim = 1
	}
	nyear := len(years)
	yrs := make([]int, nyear)
	copy(yrs, years)

	d := &Data{
		NSim:   nsim,
		Years:  yrs,
		Cat:    Replicate2D(nsim, make([]float64, nyear)),
		CatCV:  Replicate2D(nsim, make([]float64, nyear)),
		ML:     Replicate2D(nsim, make([]float64, nyear)),
		CAA:    Replicate3D(nsim, zeroMatrix(nyear, nage)),
		CAL:    Replicate3D(nsim, zeroMatrix(nyear, nbin)),
		MaxAge: nage - 1,
		T:      nyear,
	}
	return d
}

func zeroMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}
