package convert

import (
	"context"

	"github.com/Nikolai-Klibansky/bamMSE/internal/rdat"
	"github.com/Nikolai-Klibansky/bamMSE/pkg/mse"
)

// Stock converts a raw assessment structure into the stock-parameter record.
// Point estimates become symmetric bound pairs of half-width ParmSpread;
// every pair satisfies lower <= upper by construction.
func (c *Converter) Stock(ctx context.Context, raw *rdat.Raw) (*mse.Stock, error) {
	log := c.conversionLogger(modelNameOf(raw))

	p, err := c.prepare(ctx, log, raw)
	if err != nil {
		return nil, err
	}
	rd := p.rd
	spread := c.opts.ParmSpread

	s := mse.NewStock()
	s.Name = rd.Info.ModelName
	s.MaxAge = rd.Parms.MaxAge

	// Recruitment is expressed at the model's recruitment age; back it up
	// to age 0 via inverse survivorship before it becomes R0.
	r0 := rd.Parms.R0 * survivorshipInverse(p.m, rd.Parms.RecAge)

	s.R0 = mse.PointBounds(r0, spread)
	s.M = mse.PointBounds(rd.Parms.M, spread)
	s.H = mse.PointBounds(rd.Parms.Steep, spread)
	s.Linf = mse.PointBounds(p.growth.Linf, spread)
	s.K = mse.PointBounds(p.growth.K, spread)
	s.T0 = mse.PointBounds(p.growth.T0, spread)
	s.LenCV = mse.PointBounds(orDefault(rd.Parms.LenCV, DefaultLenCV), spread)
	s.L50 = mse.PointBounds(p.l50, spread)
	s.L50ToL95 = mse.PointBounds(p.l50ToL95, spread)
	s.D = mse.PointBounds(rd.Parms.Dep, spread)
	s.Perr = mse.PointBounds(rd.Parms.SigmaR, spread)
	s.AC = mse.PointBounds(rd.Parms.RecAC, spread)

	log.InfoContext(ctx, "stock-parameter record assembled",
		"max_age", s.MaxAge,
		"r0", r0,
		"spread", spread,
	)
	return s, nil
}
