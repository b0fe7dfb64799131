package convert

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
)

// Converter maps BAM assessment output onto the MSE input records. It holds
// no mutable state across calls; every invocation works on its own copies.
type Converter struct {
	opts   Options
	logger *slog.Logger
}

// New validates the options and returns a ready Converter.
func New(opts Options, logger *slog.Logger) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{opts: opts, logger: logger}, nil
}

// prepared carries everything both assemblers derive from the standardized
// input before field assignment starts.
type prepared struct {
	rd *rdat.Rdat

	ages []int     // 0..MaxAge
	m    []float64 // natural mortality at age
	mat  []float64 // maturity at age, capped

	growth Growth // Linf in the output length unit

	lengthMult float64
	catchMult  float64
	weightUnit WeightUnit
	wla        float64 // normalized to kg and the output length unit

	sels        map[string]rdat.Selectivity
	totalSel    rdat.Selectivity
	landingsSel rdat.Selectivity

	l50, l50ToL95 float64
	lfc, lfs      float64
}

// prepare runs the shared head of both pipelines: standardize, extend every
// age-indexed structure to age 0, resolve units, and compute the derived
// growth/maturity/vulnerability scalars.
func (c *Converter) prepare(ctx context.Context, log *slog.Logger, raw *rdat.Raw) (*prepared, error) {
	rd, err := rdat.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("standardize: %w", err)
	}

	p := &prepared{rd: rd}

	c.extendAgeTable(ctx, log, rd)
	p.ages = rd.AgeTable.Ages
	p.m = rd.AgeTable.M

	p.sels = make(map[string]rdat.Selectivity, len(rd.Selectivities))
	for ab, sel := range rd.Selectivities {
		p.sels[ab] = c.extendNamed(ctx, log, sel, "selectivity "+ab)
	}
	p.totalSel = c.extendNamed(ctx, log, rd.TotalSel, "total selectivity")
	p.landingsSel = c.extendNamed(ctx, log, rd.LandingsSel, "landings selectivity")

	if len(rd.VulnBiomass.Ages) > 0 && rd.VulnBiomass.Ages[0] > 0 {
		log.InfoContext(ctx, "extending age-indexed structure to age 0",
			"structure", "vulnerable biomass at age",
			"min_age", rd.VulnBiomass.Ages[0],
		)
		ages, values := ExtendMatrixToAgeZero(rd.VulnBiomass.Ages, rd.VulnBiomass.Values, 0, math.Inf(1))
		rd.VulnBiomass.Ages = ages
		rd.VulnBiomass.Values = values
	}

	p.lengthMult = c.opts.resolveScalar(c.opts.LengthUnitName, c.opts.LengthMult)
	p.catchMult = c.opts.resolveScalar(c.opts.CatchUnitName, c.opts.CatchMult)

	p.growth = Growth{
		Linf: rd.Parms.Linf * p.lengthMult,
		K:    rd.Parms.K,
		T0:   rd.Parms.T0,
	}

	p.weightUnit, p.wla = c.resolveWeight(ctx, log, rd.Parms.WLA, rd.Parms.WLB, p.lengthMult)

	p.mat = ProportionMature(rd.AgeTable, c.opts.Hermaphroditism, c.opts.MatAge1Max)
	p.l50, p.l50ToL95 = MaturityAtLength(p.ages, p.mat, p.growth, c.opts.GridSize)
	if p.l50ToL95 < 0 {
		log.WarnContext(ctx, "maturity-at-age is non-monotonic, L50-to-L95 increment is negative",
			"l50", p.l50,
			"l50_to_l95", p.l50ToL95,
		)
	}

	p.lfc, p.lfs = VulnerabilityLengths(p.ages, p.totalSel.Current(), p.landingsSel.Current(), p.growth, c.opts.GridSize)

	return p, nil
}

// extendAgeTable extends every column of the age table to age 0, proportions
// clamped to [0,1] and unconstrained quantities to [0, +inf). Each structure
// recomputes its own minimum age.
func (c *Converter) extendAgeTable(ctx context.Context, log *slog.Logger, rd *rdat.Rdat) {
	ages := rd.AgeTable.Ages
	if len(ages) == 0 || ages[0] == 0 {
		return
	}
	log.InfoContext(ctx, "extending age-indexed structure to age 0",
		"structure", "age table",
		"min_age", ages[0],
	)

	inf := math.Inf(1)
	_, rd.AgeTable.M = ExtendToAgeZero(ages, rd.AgeTable.M, 0, inf)
	if rd.AgeTable.MatFemale != nil {
		_, rd.AgeTable.MatFemale = ExtendToAgeZero(ages, rd.AgeTable.MatFemale, 0, 1)
	}
	if rd.AgeTable.MatMale != nil {
		_, rd.AgeTable.MatMale = ExtendToAgeZero(ages, rd.AgeTable.MatMale, 0, 1)
	}
	if rd.AgeTable.PropFemale != nil {
		_, rd.AgeTable.PropFemale = ExtendToAgeZero(ages, rd.AgeTable.PropFemale, 0, 1)
	}
	if rd.AgeTable.WeightKg != nil {
		_, rd.AgeTable.WeightKg = ExtendToAgeZero(ages, rd.AgeTable.WeightKg, 0, inf)
	}
	if rd.AgeTable.Length != nil {
		_, rd.AgeTable.Length = ExtendToAgeZero(ages, rd.AgeTable.Length, 0, inf)
	}
	maxAge := ages[len(ages)-1]
	full := make([]int, maxAge+1)
	for a := range full {
		full[a] = a
	}
	rd.AgeTable.Ages = full
}

func (c *Converter) extendNamed(ctx context.Context, log *slog.Logger, sel rdat.Selectivity, name string) rdat.Selectivity {
	if len(sel.Ages) == 0 || sel.Ages[0] == 0 {
		return sel
	}
	log.InfoContext(ctx, "extending age-indexed structure to age 0",
		"structure", name,
		"min_age", sel.Ages[0],
	)
	return extendSelectivity(sel)
}

// resolveWeight normalizes the weight-length coefficient to kilograms and
// the output length unit. An explicit multiplier or unit name bypasses
// magnitude inference; an out-of-range magnitude passes through silently.
func (c *Converter) resolveWeight(ctx context.Context, log *slog.Logger, a, b, lengthMult float64) (WeightUnit, float64) {
	scale := c.opts.resolveScalar(c.opts.WeightUnitName, c.opts.WeightMult)
	unit := WeightUnitUnknown
	if scale == 0 {
		unit, scale = ResolveWeightUnit(a)
		if unit != WeightUnitUnknown {
			log.InfoContext(ctx, "inferred weight-length coefficient unit",
				"coefficient", a,
				"unit", string(unit),
				"scale", scale,
			)
		}
	}
	return unit, RescaleWLA(a*scale, b, lengthMult)
}

// sortedIndexAbbrevs returns the index abbreviations in deterministic order,
// then applies the configured ordering hint: abbreviations matching earlier
// hint entries sort earlier, unmatched ones keep their relative order.
func (c *Converter) sortedIndexAbbrevs(rd *rdat.Rdat) []string {
	abbrevs := make([]string, 0, len(rd.Indices))
	for ab := range rd.Indices {
		abbrevs = append(abbrevs, ab)
	}
	sort.Strings(abbrevs)
	return orderByHint(abbrevs, c.opts.IndexOrder)
}

func orderByHint(abbrevs, hint []string) []string {
	if len(hint) == 0 {
		return abbrevs
	}
	used := make(map[string]bool, len(abbrevs))
	var out []string
	for _, h := range hint {
		for _, ab := range abbrevs {
			if ab == h && !used[ab] {
				used[ab] = true
				out = append(out, ab)
			}
		}
	}
	for _, ab := range abbrevs {
		if !used[ab] {
			out = append(out, ab)
		}
	}
	return out
}

// selectOrFallback applies a series filter; a list filter matching nothing
// falls back to all available series with a diagnostic.
func (c *Converter) selectOrFallback(ctx context.Context, log *slog.Logger, f Filter, available []string, what string) []string {
	selected := f.Select(available)
	if f.Mode == FilterList && len(selected) == 0 && len(available) > 0 {
		log.WarnContext(ctx, "series filter matched nothing, falling back to all available",
			"what", what,
			"filter", f.Abbrevs,
			"available", available,
		)
		return available
	}
	return selected
}

// modelNameOf peeks the model name out of the raw info block for logging
// before standardization has run.
func modelNameOf(raw *rdat.Raw) string {
	if raw == nil {
		return ""
	}
	for _, k := range []string{"species", "model", "title"} {
		if v, ok := raw.Info[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

// conversionLogger stamps a fresh conversion id onto the diagnostics for one
// call.
func (c *Converter) conversionLogger(modelName string) *slog.Logger {
	return c.logger.With(
		slog.String("conversion_id", uuid.NewString()),
		slog.String("model", modelName),
	)
}
