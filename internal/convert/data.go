package convert

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
	"github.com/Nikolai-Klibansky/bamMSE/pkg/mse"
)

// Data converts a raw assessment structure into the observed-data record.
// Fatal conditions (unreconcilable input fields, unknown reference-point
// selector) abort the call with no partial output; everything else recovers
// with a substitute value and a diagnostic.
func (c *Converter) Data(ctx context.Context, raw *rdat.Raw) (*mse.Data, error) {
	log := c.conversionLogger(modelNameOf(raw))

	p, err := c.prepare(ctx, log, raw)
	if err != nil {
		return nil, err
	}
	rd := p.rd

	refPoint, ok := rd.RefPoints[c.opts.RefPoint]
	if !ok {
		names := make([]string, 0, len(rd.RefPoints))
		for n := range rd.RefPoints {
			names = append(names, n)
		}
		return nil, &UnknownRefPointError{Name: c.opts.RefPoint, Available: names}
	}

	years := rd.TimeSeries.Years
	nage := rd.Parms.MaxAge + 1

	ageMats := c.selectedComps(ctx, log, rd, rdat.CompAge, c.opts.AgeComps)
	lenMats := c.selectedComps(ctx, log, rd, rdat.CompLength, c.opts.LengthComps)

	ageBins := make([]float64, nage)
	for a := range ageBins {
		ageBins[a] = float64(a)
	}
	lenBins := CommonBins(lenMats)

	d := mse.NewData(c.opts.NSim, years, nage, len(lenBins))

	// Identity.
	d.Name = rd.Info.ModelName
	c.fillSpecies(ctx, log, d, rd)

	// Catch.
	catch := scaleSeries(rd.TimeSeries.Catch, p.catchMult)
	d.Cat = mse.Replicate2D(c.opts.NSim, catch)
	d.CatCV = mse.Replicate2D(c.opts.NSim, c.catchCV(ctx, log, rd))

	// Indices.
	c.fillIndices(ctx, log, d, p)

	// Compositions.
	caa := CombineComposition(ageMats, years, ageBins, c.opts.ScaleRows)
	d.CAA = mse.Replicate3D(c.opts.NSim, caa)

	cal := CombineComposition(lenMats, years, lenBins, c.opts.ScaleRows)
	d.CAL = mse.Replicate3D(c.opts.NSim, cal)
	d.CALMids = scaleSeries(lenBins, p.lengthMult)
	d.CALBins = BinEdges(d.CALMids)

	// Recruitment and mean length.
	d.Rec = mse.Replicate2D(c.opts.NSim, RecruitsToAgeZero(sentinelToNaN(rd.TimeSeries.Recruits), p.m, rd.Parms.RecAge))
	d.ML = mse.Replicate2D(c.opts.NSim, MeanLengthSeries(cal, d.CALMids))

	// Point parameters.
	d.MaxAge = rd.Parms.MaxAge
	d.Mort = rd.Parms.M
	d.VBLinf = p.growth.Linf
	d.VBK = p.growth.K
	d.VBT0 = p.growth.T0
	d.LenCV = orDefault(rd.Parms.LenCV, DefaultLenCV)
	d.WLA = p.wla
	d.WLB = rd.Parms.WLB
	d.Steep = rd.Parms.Steep
	d.SigmaR = rd.Parms.SigmaR
	d.L50 = p.l50
	d.L50ToL95 = p.l50ToL95
	d.LFC = p.lfc
	d.LFS = p.lfs

	// Reference points and summaries.
	d.Cref = refPoint.Catch * p.catchMult
	d.Bref = refPoint.Biomass
	d.Fref = refPoint.F
	d.Dep = rd.Parms.Dep
	d.AvC = meanPresent(catch)
	d.T = len(years)

	log.InfoContext(ctx, "observed-data record assembled",
		"years", len(years),
		"ages", nage,
		"length_bins", len(lenBins),
		"indices", len(d.IndNames),
		"nsim", c.opts.NSim,
	)
	return d, nil
}

// fillSpecies resolves identity fields: explicit overrides win, then the
// species lookup table, then blanks with a diagnostic.
func (c *Converter) fillSpecies(ctx context.Context, log *slog.Logger, d *mse.Data, rd *rdat.Rdat) {
	var info SpeciesInfo
	found := false
	if c.opts.SpeciesTable != nil {
		info, found = c.opts.SpeciesTable.Lookup(rd.Info.ModelName)
	}

	genus, species := c.opts.Genus, c.opts.Species
	if genus == "" && found {
		genus = info.Genus
	}
	if species == "" && found {
		species = info.Species
	}
	switch {
	case genus != "" && species != "":
		d.Species = genus + " " + species
	case genus != "":
		d.Species = genus
	}

	d.Region = c.opts.Region
	if d.Region == "" && found {
		d.Region = info.Region
	}
	if found {
		d.CommonName = info.CommonName
	}

	if d.Species == "" {
		log.WarnContext(ctx, "no species metadata available",
			"model", rd.Info.ModelName,
		)
	}
}

// fillIndices applies the index filter, restandardizes each surviving
// series, attributes a vulnerability-at-age curve and a unit code to each,
// and assembles the index arrays. A list filter matching nothing falls back
// to the combination of all available series.
func (c *Converter) fillIndices(ctx context.Context, log *slog.Logger, d *mse.Data, p *prepared) {
	rd := p.rd
	available := c.sortedIndexAbbrevs(rd)
	if c.opts.Indices.Mode == FilterNone || len(available) == 0 {
		return
	}

	selected := c.opts.Indices.Select(available)
	if c.opts.Indices.Mode == FilterList && len(selected) == 0 {
		log.WarnContext(ctx, "no abundance index matches filter, using all available combined",
			"filter", c.opts.Indices.Abbrevs,
			"available", available,
		)
		c.fillCombinedIndex(ctx, log, d, p, available)
		return
	}

	var ind, indCV, indV [][]float64
	for _, ab := range selected {
		series := rd.Indices[ab]
		ind = append(ind, Restandardize(sentinelToNaN(series.Values)))
		indCV = append(indCV, sentinelToNaN(series.CVs))
		indV = append(indV, c.indexVulnerability(ctx, log, p, ab))

		d.IndNames = append(d.IndNames, ab)
		d.IndUnits = append(d.IndUnits, c.indexUnit(ab))
	}

	d.Ind = mse.Replicate3D(c.opts.NSim, ind)
	d.IndCV = mse.Replicate3D(c.opts.NSim, indCV)
	d.IndV = mse.Replicate3D(c.opts.NSim, indV)
}

// fillCombinedIndex merges every available series into a single combined
// index row.
func (c *Converter) fillCombinedIndex(ctx context.Context, log *slog.Logger, d *mse.Data, p *prepared, available []string) {
	rd := p.rd
	values := make([][]float64, 0, len(available))
	cvs := make([][]float64, 0, len(available))
	for _, ab := range available {
		values = append(values, rd.Indices[ab].Values)
		cvs = append(cvs, rd.Indices[ab].CVs)
	}

	d.IndNames = []string{"combined"}
	d.IndUnits = []int{c.indexUnit(available[0])}
	d.Ind = mse.Replicate3D(c.opts.NSim, [][]float64{CombineIndices(values...)})
	d.IndCV = mse.Replicate3D(c.opts.NSim, [][]float64{CombineCVs(cvs...)})
	d.IndV = mse.Replicate3D(c.opts.NSim, [][]float64{p.totalSel.Current()})
}

// indexVulnerability resolves the selectivity curve attributed to an index,
// warning when only the combined total is available.
func (c *Converter) indexVulnerability(ctx context.Context, log *slog.Logger, p *prepared, abbrev string) []float64 {
	sel, matched := ResolveIndexSelectivity(abbrev, p.sels, c.opts.SelFallback, p.totalSel)
	if !matched {
		log.WarnContext(ctx, "no selectivity matches index, using combined total selectivity",
			"index", abbrev,
		)
	}
	return sel.Current()
}

// indexUnit classifies an index by the first letter of its abbreviation.
func (c *Converter) indexUnit(abbrev string) int {
	if abbrev == "" {
		return 0
	}
	return c.opts.FleetUnits[string(abbrev[0])]
}

// catchCV returns the catch CV series, substituting a constant default with
// a diagnostic when the assessment output carries none.
func (c *Converter) catchCV(ctx context.Context, log *slog.Logger, rd *rdat.Rdat) []float64 {
	if len(rd.TimeSeries.CatchCV) > 0 {
		return sentinelToNaN(rd.TimeSeries.CatchCV)
	}
	log.WarnContext(ctx, "no catch CV series in assessment output, using constant default",
		"default", DefaultCatchCV,
	)
	cv := make([]float64, len(rd.TimeSeries.Years))
	for i := range cv {
		cv[i] = DefaultCatchCV
	}
	return cv
}

// selectedComps applies a composition filter for one kind, falling back to
// all available with a diagnostic when a list filter matches nothing.
func (c *Converter) selectedComps(ctx context.Context, log *slog.Logger, rd *rdat.Rdat, kind rdat.CompKind, f Filter) []rdat.CompMatrix {
	var available []string
	byAbbrev := make(map[string]rdat.CompMatrix)
	for _, cm := range rd.Comps {
		if cm.Kind != kind {
			continue
		}
		available = append(available, cm.Abbrev)
		byAbbrev[cm.Abbrev] = cm
	}
	sort.Strings(available)

	selected := c.selectOrFallback(ctx, log, f, available, string(kind)+" composition")
	out := make([]rdat.CompMatrix, 0, len(selected))
	for _, ab := range selected {
		out = append(out, byAbbrev[ab])
	}
	return out
}

// scaleSeries multiplies a series by a unit scalar. Missing observations
// come out as NaN, the representation the output record declares.
func scaleSeries(values []float64, mult float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if rdat.IsMissing(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v * mult
	}
	return out
}

func meanPresent(values []float64) float64 {
	sum := 0.0
	n := 0
	for _, v := range values {
		if rdat.IsMissing(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
