package mse

// Bounds is a [lower, upper] parameter pair. The simulation engine draws
// parameter values uniformly between the two; a point estimate is expressed
// as a zero-width or symmetric pair.
type Bounds [2]float64

// Lower returns the lower bound.
func (b Bounds) Lower() float64 { return b[0] }

// Upper returns the upper bound.
func (b Bounds) Upper() float64 { return b[1] }

// IsValid reports whether the pair is ordered.
func (b Bounds) IsValid() bool { return b[0] <= b[1] }

// PointBounds expands a point estimate into a symmetric bound pair
// [point*(1-spread), point*(1+spread)]. A zero spread yields a zero-width
// pair. For negative points the factors are swapped so the pair stays
// ordered.
func PointBounds(point, spread float64) Bounds {
	if spread < 0 {
		spread = -spread
	}
	lo := point * (1 - spread)
	hi := point * (1 + spread)
	if lo > hi {
		lo, hi = hi, lo
	}
	return Bounds{lo, hi}
}

// Stock is the biological/stock-parameter record handed to the simulation
// engine. Every continuous parameter is a Bounds pair satisfying
// lower <= upper.
type Stock struct {
	Name   string `json:"name"`
	MaxAge int    `json:"max_age"`

	R0       Bounds `json:"r0"`        // virgin recruitment, at age 0
	M        Bounds `json:"m"`         // natural mortality
	H        Bounds `json:"h"`         // stock-recruit steepness
	Linf     Bounds `json:"linf"`      // asymptotic length
	K        Bounds `json:"k"`         // growth rate
	T0       Bounds `json:"t0"`        // theoretical age at length zero
	LenCV    Bounds `json:"len_cv"`    // CV of length at age
	L50      Bounds `json:"l50"`       // length at 50% maturity
	L50ToL95 Bounds `json:"l50_to_l95"`
	D        Bounds `json:"d"`    // depletion, SSB/SSB0
	Perr     Bounds `json:"perr"` // recruitment process error (sigma R)
	AC       Bounds `json:"ac"`   // recruitment autocorrelation

	Fdisc       Bounds `json:"fdisc"` // discard mortality fraction
	SizeArea1   Bounds `json:"size_area_1"`
	FracArea1   Bounds `json:"frac_area_1"`
	ProbStaying Bounds `json:"prob_staying"`
}

// NewStock returns a Stock with the movement and discard parameters at
// their conventional single-area defaults; everything else is filled by the
// assembler.
func NewStock() *Stock {
	return &Stock{
		Fdisc:       Bounds{0, 0},
		SizeArea1:   Bounds{0.5, 0.5},
		FracArea1:   Bounds{0.5, 0.5},
		ProbStaying: Bounds{0.5, 0.5},
	}
}
