package rdat

import (
	"fmt"
	"sort"
	"strings"
)

// MissingFieldError is returned when a required field is absent from the raw
// structure under every known name. It is fatal: downstream modules cannot
// degrade gracefully without these fields.
type MissingFieldError struct {
	Field   string
	Aliases []string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("rdat: required field %q not found under any known name %v", e.Field, e.Aliases)
}

// Field aliases across assessment-model versions. Newer conventions first.
var (
	parmAliases = map[string][]string{
		"Linf":   {"Linf", "vb.linf", "L.inf"},
		"K":      {"K", "vb.k"},
		"T0":     {"t0", "vb.t0"},
		"LenCV":  {"len.cv.val", "len.cv", "cv.len"},
		"WLA":    {"wgt.a", "a.lw", "wla"},
		"WLB":    {"wgt.b", "b.lw", "wlb"},
		"M":      {"M.constant", "M", "M.val"},
		"Steep":  {"BH.steep", "steep", "h"},
		"SigmaR": {"R.sigma.par", "R.sigma", "sigma.R"},
		"RecAC":  {"R.autocorr", "rec.AC"},
		"R0":     {"BH.R0", "R0", "R.virgin"},
		"RecAge": {"age.rec", "rec.age"},
		"MaxAge": {"age.max", "max.age"},
		"Dep":    {"SSB.SSB0", "SSBend.SSB0", "D.end"},
	}

	ageColAliases = map[string][]string{
		"M":          {"M", "M.age"},
		"MatFemale":  {"mat.female", "mat.fem", "prop.female.mature"},
		"MatMale":    {"mat.male"},
		"PropFemale": {"prop.female", "sex.ratio"},
		"WeightKg":   {"wgt.klb", "wgt.mt", "weight"},
		"Length":     {"length", "len"},
	}

	yearColAliases = map[string][]string{
		"Catch":    {"total.L.klb", "total.L.mt", "L.klb", "total.L"},
		"CatchCV":  {"cv.L", "total.L.cv"},
		"Recruits": {"recruits", "N.age0", "R"},
		"SSB":      {"SSB", "ssb"},
	}

	// Benchmark reference points assembled from parameter scalars. Each
	// triple lists (catch, biomass, F) alias sets keyed by selector name.
	refPointAliases = map[string][3][]string{
		"Fmsy": {
			{"msy.klb", "msy.mt", "msy"},
			{"Bmsy", "SSBmsy"},
			{"Fmsy"},
		},
		"F30": {
			{"L.F30.klb", "L.F30.mt"},
			{"B.F30", "SSB.F30"},
			{"F30"},
		},
		"F40": {
			{"L.F40.klb", "L.F40.mt"},
			{"B.F40", "SSB.F40"},
			{"F40"},
		},
	}
)

// Reserved selectivity abbreviations carrying combined curves.
const (
	selTotalAbbrev    = "tot"
	selLandingsAbbrev = "L"
)

// Standardize reconciles a raw assessment structure into the canonical Rdat
// form: parameter scalars resolved across naming conventions, matrices
// oriented years-as-rows, and index/composition/selectivity series keyed by
// plain fleet abbreviation. It is pure and returns a fresh value; the only
// failure mode is a required field missing under every known name.
func Standardize(raw *Raw) (*Rdat, error) {
	if raw == nil {
		return nil, fmt.Errorf("rdat: nil raw structure")
	}

	out := &Rdat{
		Indices:       make(map[string]IndexSeries),
		Comps:         make(map[string]CompMatrix),
		Selectivities: make(map[string]Selectivity),
		RefPoints:     make(map[string]RefPoint),
	}

	out.Info = standardizeInfo(raw)

	parms, err := standardizeParms(raw)
	if err != nil {
		return nil, err
	}
	out.Parms = parms

	table, err := standardizeAgeTable(raw)
	if err != nil {
		return nil, err
	}
	out.AgeTable = table

	ts, err := standardizeTimeSeries(raw)
	if err != nil {
		return nil, err
	}
	out.TimeSeries = ts

	out.Info.StartYear = ts.Years[0]
	out.Info.EndYear = ts.Years[len(ts.Years)-1]

	out.RefPoints = standardizeRefPoints(raw)
	out.Indices = standardizeIndices(raw, ts.Years)
	out.Comps = standardizeComps(raw)
	standardizeSels(raw, out)

	if len(raw.BAtAge.Values) > 0 {
		out.VulnBiomass = AgeMatrix{
			Years:  append([]int(nil), raw.BAtAge.Rows...),
			Ages:   colsToAges(raw.BAtAge.Cols),
			Values: raw.BAtAge.oriented(),
		}
	}

	if out.Parms.MaxAge == 0 && len(out.AgeTable.Ages) > 0 {
		out.Parms.MaxAge = out.AgeTable.Ages[len(out.AgeTable.Ages)-1]
	}

	return out, nil
}

func standardizeInfo(raw *Raw) Info {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := raw.Info[k]; ok && v != "" {
				return v
			}
		}
		return ""
	}
	return Info{
		Title:      get("title"),
		ModelName:  get("species", "model", "title"),
		LengthUnit: get("units.length", "length.units"),
		WeightUnit: get("units.wgt", "wgt.units", "weight.units"),
		CatchUnit:  get("units.landings", "catch.units", "landings.units"),
	}
}

func lookupParm(raw *Raw, field string) (float64, bool) {
	for _, k := range parmAliases[field] {
		if v, ok := raw.Parms[k]; ok && !IsMissing(v) {
			return v, true
		}
	}
	return 0, false
}

func requireParm(raw *Raw, field string) (float64, error) {
	v, ok := lookupParm(raw, field)
	if !ok {
		return 0, &MissingFieldError{Field: field, Aliases: parmAliases[field]}
	}
	return v, nil
}

func standardizeParms(raw *Raw) (Parms, error) {
	var p Parms
	var err error

	if p.Linf, err = requireParm(raw, "Linf"); err != nil {
		return p, err
	}
	if p.K, err = requireParm(raw, "K"); err != nil {
		return p, err
	}
	if p.T0, err = requireParm(raw, "T0"); err != nil {
		return p, err
	}
	if p.WLA, err = requireParm(raw, "WLA"); err != nil {
		return p, err
	}
	if p.WLB, err = requireParm(raw, "WLB"); err != nil {
		return p, err
	}
	if p.M, err = requireParm(raw, "M"); err != nil {
		return p, err
	}

	p.LenCV, _ = lookupParm(raw, "LenCV")
	p.Steep, _ = lookupParm(raw, "Steep")
	p.SigmaR, _ = lookupParm(raw, "SigmaR")
	p.RecAC, _ = lookupParm(raw, "RecAC")
	p.R0, _ = lookupParm(raw, "R0")
	p.Dep, _ = lookupParm(raw, "Dep")
	if v, ok := lookupParm(raw, "RecAge"); ok {
		p.RecAge = int(v)
	}
	if v, ok := lookupParm(raw, "MaxAge"); ok {
		p.MaxAge = int(v)
	}
	return p, nil
}

func lookupVec(vecs map[string][]float64, keys []string) []float64 {
	for _, k := range keys {
		if v, ok := vecs[k]; ok && len(v) > 0 {
			return v
		}
	}
	return nil
}

func standardizeAgeTable(raw *Raw) (AgeTable, error) {
	if len(raw.Ages) == 0 {
		return AgeTable{}, &MissingFieldError{Field: "ages", Aliases: []string{"a.series ages"}}
	}
	t := AgeTable{Ages: append([]int(nil), raw.Ages...)}

	t.M = lookupVec(raw.AgeVecs, ageColAliases["M"])
	if t.M == nil {
		return t, &MissingFieldError{Field: "M-at-age", Aliases: ageColAliases["M"]}
	}
	t.MatFemale = lookupVec(raw.AgeVecs, ageColAliases["MatFemale"])
	if t.MatFemale == nil {
		return t, &MissingFieldError{Field: "maturity-at-age", Aliases: ageColAliases["MatFemale"]}
	}
	t.MatMale = lookupVec(raw.AgeVecs, ageColAliases["MatMale"])
	t.PropFemale = lookupVec(raw.AgeVecs, ageColAliases["PropFemale"])
	t.WeightKg = lookupVec(raw.AgeVecs, ageColAliases["WeightKg"])
	t.Length = lookupVec(raw.AgeVecs, ageColAliases["Length"])
	return t, nil
}

func standardizeTimeSeries(raw *Raw) (TimeSeries, error) {
	if len(raw.Years) == 0 {
		return TimeSeries{}, &MissingFieldError{Field: "years", Aliases: []string{"t.series years"}}
	}
	ts := TimeSeries{Years: append([]int(nil), raw.Years...)}

	ts.Catch = lookupVec(raw.YearVecs, yearColAliases["Catch"])
	if ts.Catch == nil {
		return ts, &MissingFieldError{Field: "catch", Aliases: yearColAliases["Catch"]}
	}
	ts.CatchCV = lookupVec(raw.YearVecs, yearColAliases["CatchCV"])
	ts.Recruits = lookupVec(raw.YearVecs, yearColAliases["Recruits"])
	ts.SSB = lookupVec(raw.YearVecs, yearColAliases["SSB"])
	return ts, nil
}

func standardizeRefPoints(raw *Raw) map[string]RefPoint {
	out := make(map[string]RefPoint)
	for name, triple := range refPointAliases {
		catch, okC := firstParm(raw, triple[0])
		biomass, okB := firstParm(raw, triple[1])
		f, okF := firstParm(raw, triple[2])
		if okC || okB || okF {
			out[name] = RefPoint{Catch: catch, Biomass: biomass, F: f}
		}
	}
	return out
}

func firstParm(raw *Raw, keys []string) (float64, bool) {
	for _, k := range keys {
		if v, ok := raw.Parms[k]; ok && !IsMissing(v) {
			return v, true
		}
	}
	return 0, false
}

// standardizeIndices scans the year-indexed columns for abundance-index
// series. New convention "U.<abbrev>.ob", old convention "U.<abbrev>"; CVs
// under "cv.U.<abbrev>". Abbreviations are collected in sorted order so the
// result is deterministic.
func standardizeIndices(raw *Raw, years []int) map[string]IndexSeries {
	out := make(map[string]IndexSeries)
	var abbrevs []string
	for key := range raw.YearVecs {
		if !strings.HasPrefix(key, "U.") {
			continue
		}
		ab := strings.TrimPrefix(key, "U.")
		ab = strings.TrimSuffix(ab, ".ob")
		if strings.Contains(ab, ".") {
			continue // derived column such as U.cHL.pred
		}
		if _, seen := out[ab]; seen {
			continue
		}
		out[ab] = IndexSeries{}
		abbrevs = append(abbrevs, ab)
	}
	sort.Strings(abbrevs)

	for _, ab := range abbrevs {
		values := lookupVec(raw.YearVecs, []string{"U." + ab + ".ob", "U." + ab})
		cvs := lookupVec(raw.YearVecs, []string{"cv.U." + ab, "U." + ab + ".cv"})
		out[ab] = IndexSeries{
			Abbrev: ab,
			Years:  years,
			Values: values,
			CVs:    cvs,
		}
	}
	return out
}

// standardizeComps collects composition matrices keyed "acomp.<abbrev>.ob"
// or "lcomp.<abbrev>.ob" (the ".ob" suffix optional in older files), pairing
// each with its effective-sample-size column from the time series table.
func standardizeComps(raw *Raw) map[string]CompMatrix {
	out := make(map[string]CompMatrix)
	for key, m := range raw.Comps {
		var kind CompKind
		var rest string
		switch {
		case strings.HasPrefix(key, "acomp."):
			kind = CompAge
			rest = strings.TrimPrefix(key, "acomp.")
		case strings.HasPrefix(key, "lcomp."):
			kind = CompLength
			rest = strings.TrimPrefix(key, "lcomp.")
		default:
			continue
		}
		ab := strings.TrimSuffix(rest, ".ob")
		if strings.Contains(ab, ".") {
			continue // predicted or auxiliary matrix
		}

		prefix := "acomp."
		if kind == CompLength {
			prefix = "lcomp."
		}
		n := lookupVec(raw.YearVecs, []string{prefix + ab + ".n", prefix + ab + ".nfish"})
		// Sample sizes are stored on the full time-series year axis; subset
		// them to the matrix's own years.
		n = subsetByYear(n, raw.Years, m.Rows)

		out[ab+"."+string(kind)] = CompMatrix{
			Abbrev: ab,
			Kind:   kind,
			Years:  append([]int(nil), m.Rows...),
			Bins:   append([]float64(nil), m.Cols...),
			Props:  m.oriented(),
			N:      n,
		}
	}
	return out
}

// standardizeSels collects selectivity curves keyed "sel.m.<abbrev>"
// (year x age matrix) or "sel.v.<abbrev>" (single curve). The reserved
// abbreviations "tot" and "L" carry the combined-total and landings curves.
func standardizeSels(raw *Raw, out *Rdat) {
	for key, m := range raw.Sels {
		var ab string
		matrix := false
		switch {
		case strings.HasPrefix(key, "sel.m."):
			ab = strings.TrimPrefix(key, "sel.m.")
			matrix = true
		case strings.HasPrefix(key, "sel.v."):
			ab = strings.TrimPrefix(key, "sel.v.")
		case strings.HasPrefix(key, "sel."):
			ab = strings.TrimPrefix(key, "sel.")
			matrix = len(m.Rows) > 1
		default:
			continue
		}

		sel := Selectivity{
			Abbrev: ab,
			Ages:   colsToAges(m.Cols),
			Values: m.oriented(),
		}
		if matrix {
			sel.Years = append([]int(nil), m.Rows...)
		}

		switch ab {
		case selTotalAbbrev:
			out.TotalSel = sel
		case selLandingsAbbrev:
			out.LandingsSel = sel
		default:
			out.Selectivities[ab] = sel
		}
	}
}

// subsetByYear picks the entries of a full-axis column matching the target
// years. Years absent from the full axis yield zero.
func subsetByYear(full []float64, axis, target []int) []float64 {
	if full == nil {
		return nil
	}
	byYear := make(map[int]float64, len(axis))
	for i, y := range axis {
		if i < len(full) {
			byYear[y] = full[i]
		}
	}
	out := make([]float64, len(target))
	for i, y := range target {
		out[i] = byYear[y]
	}
	return out
}

func colsToAges(cols []float64) []int {
	ages := make([]int, len(cols))
	for i, c := range cols {
		ages[i] = int(c)
	}
	return ages
}
