// Package config loads conversion defaults from an optional YAML file with
// environment-variable overrides (BAMMSE_* prefix). Library callers can skip
// it entirely and fill convert.Options directly; it exists so batch tooling
// can share one defaults file across many assessment runs.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/Nikolai-Klibansky/bamMSE/internal/convert"
)

// Config is the file/env representation of conversion defaults.
type Config struct {
	Hermaphroditism string  `yaml:"hermaphroditism" envconfig:"HERMAPHRODITISM" default:"gonochoristic"`
	NSim            int     `yaml:"nsim" envconfig:"NSIM" default:"1"`
	RefPoint        string  `yaml:"ref_point" envconfig:"REF_POINT" default:"Fmsy"`
	LengthMult      float64 `yaml:"length_mult" envconfig:"LENGTH_MULT" default:"1"`
	WeightMult      float64 `yaml:"weight_mult" envconfig:"WEIGHT_MULT" default:"0"`
	CatchMult       float64 `yaml:"catch_mult" envconfig:"CATCH_MULT" default:"1"`
	MatAge1Max      float64 `yaml:"mat_age1_max" envconfig:"MAT_AGE1_MAX" default:"0.49"`
	GridSize        int     `yaml:"grid_size" envconfig:"GRID_SIZE" default:"1000"`
	ParmSpread      float64 `yaml:"parm_spread" envconfig:"PARM_SPREAD" default:"0.1"`
	ScaleRows       bool    `yaml:"scale_rows" envconfig:"SCALE_ROWS" default:"false"`

	Genus   string `yaml:"genus" envconfig:"GENUS"`
	Species string `yaml:"species" envconfig:"SPECIES"`
	Region  string `yaml:"region" envconfig:"REGION"`

	IndexOrder  []string          `yaml:"index_order" envconfig:"INDEX_ORDER"`
	SelFallback map[string]string `yaml:"sel_fallback"`
	FleetUnits  map[string]int    `yaml:"fleet_units"`
}

// Load reads configuration from the YAML file at path (when one is given)
// with environment variables taking precedence over file values. A missing
// file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("BAMMSE", &cfg); err != nil {
		return nil, fmt.Errorf("config: load from env: %w", err)
	}

	if path != "" {
		fileCfg, err := loadFromFile(path)
		switch {
		case os.IsNotExist(err):
			// Env-only configuration.
		case err != nil:
			return nil, err
		default:
			mergeConfigs(&cfg, fileCfg)
		}
	}
	return &cfg, nil
}

// loadFromFile reads the YAML file into a fresh Config so unset keys stay at
// their zero values and can be told apart from explicit ones.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfigs overlays file values onto the env-processed config. Env takes
// precedence: a file value applies only when its BAMMSE_* variable is unset
// and the file actually carries the key.
func mergeConfigs(cfg *Config, file *Config) {
	envSet := func(key string) bool {
		_, ok := os.LookupEnv("BAMMSE_" + key)
		return ok
	}

	if !envSet("HERMAPHRODITISM") && file.Hermaphroditism != "" {
		cfg.Hermaphroditism = file.Hermaphroditism
	}
	if !envSet("NSIM") && file.NSim != 0 {
		cfg.NSim = file.NSim
	}
	if !envSet("REF_POINT") && file.RefPoint != "" {
		cfg.RefPoint = file.RefPoint
	}
	if !envSet("LENGTH_MULT") && file.LengthMult != 0 {
		cfg.LengthMult = file.LengthMult
	}
	if !envSet("WEIGHT_MULT") && file.WeightMult != 0 {
		cfg.WeightMult = file.WeightMult
	}
	if !envSet("CATCH_MULT") && file.CatchMult != 0 {
		cfg.CatchMult = file.CatchMult
	}
	if !envSet("MAT_AGE1_MAX") && file.MatAge1Max != 0 {
		cfg.MatAge1Max = file.MatAge1Max
	}
	if !envSet("GRID_SIZE") && file.GridSize != 0 {
		cfg.GridSize = file.GridSize
	}
	if !envSet("PARM_SPREAD") && file.ParmSpread != 0 {
		cfg.ParmSpread = file.ParmSpread
	}
	if !envSet("SCALE_ROWS") && file.ScaleRows {
		cfg.ScaleRows = file.ScaleRows
	}

	if !envSet("GENUS") && file.Genus != "" {
		cfg.Genus = file.Genus
	}
	if !envSet("SPECIES") && file.Species != "" {
		cfg.Species = file.Species
	}
	if !envSet("REGION") && file.Region != "" {
		cfg.Region = file.Region
	}

	if !envSet("INDEX_ORDER") && file.IndexOrder != nil {
		cfg.IndexOrder = file.IndexOrder
	}
	if file.SelFallback != nil {
		cfg.SelFallback = file.SelFallback
	}
	if file.FleetUnits != nil {
		cfg.FleetUnits = file.FleetUnits
	}
}

// Options maps the configuration onto converter options, starting from the
// package defaults so unset collections keep their default values.
func (c *Config) Options() convert.Options {
	opts := convert.DefaultOptions()

	if c.Hermaphroditism != "" {
		opts.Hermaphroditism = convert.Hermaphroditism(c.Hermaphroditism)
	}
	if c.NSim > 0 {
		opts.NSim = c.NSim
	}
	if c.RefPoint != "" {
		opts.RefPoint = c.RefPoint
	}
	if c.LengthMult > 0 {
		opts.LengthMult = c.LengthMult
	}
	opts.WeightMult = c.WeightMult
	if c.CatchMult > 0 {
		opts.CatchMult = c.CatchMult
	}
	if c.MatAge1Max > 0 {
		opts.MatAge1Max = c.MatAge1Max
	}
	if c.GridSize > 1 {
		opts.GridSize = c.GridSize
	}
	if c.ParmSpread >= 0 {
		opts.ParmSpread = c.ParmSpread
	}
	opts.ScaleRows = c.ScaleRows

	opts.Genus = c.Genus
	opts.Species = c.Species
	opts.Region = c.Region
	opts.IndexOrder = c.IndexOrder
	if c.SelFallback != nil {
		opts.SelFallback = c.SelFallback
	}
	if c.FleetUnits != nil {
		opts.FleetUnits = c.FleetUnits
	}
	return opts
}
