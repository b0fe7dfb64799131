package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikolai-Klibansky/bamMSE/internal/convert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gonochoristic", cfg.Hermaphroditism)
	assert.Equal(t, 1, cfg.NSim)
	assert.Equal(t, "Fmsy", cfg.RefPoint)
	assert.Equal(t, 0.49, cfg.MatAge1Max)
	assert.Equal(t, 1000, cfg.GridSize)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BAMMSE_NSIM", "48")
	t.Setenv("BAMMSE_REF_POINT", "F30")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.NSim)
	assert.Equal(t, "F30", cfg.RefPoint)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bammse.yaml")
	content := []byte("nsim: 100\nref_point: F40\nscale_rows: true\nindex_order:\n  - sVD\n  - cHL\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.NSim)
	assert.Equal(t, "F40", cfg.RefPoint)
	assert.True(t, cfg.ScaleRows)
	assert.Equal(t, []string{"sVD", "cHL"}, cfg.IndexOrder)
}

func TestLoadEnvTakesPrecedenceOverFile(t *testing.T) {
	t.Setenv("BAMMSE_NSIM", "48")

	dir := t.TempDir()
	path := filepath.Join(dir, "bammse.yaml")
	content := []byte("nsim: 100\nref_point: F40\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Env wins for keys set both ways; file wins over defaults for the rest.
	assert.Equal(t, 48, cfg.NSim)
	assert.Equal(t, "F40", cfg.RefPoint)
	assert.Equal(t, 0.49, cfg.MatAge1Max)
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.NSim)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nsim: [not an int"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestOptionsMapping(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.NSim = 10
	cfg.Hermaphroditism = "protogynous"
	cfg.SelFallback = map[string]string{"sCT": "sVD"}

	opts := cfg.Options()
	assert.Equal(t, 10, opts.NSim)
	assert.Equal(t, convert.Protogynous, opts.Hermaphroditism)
	assert.Equal(t, "sVD", opts.SelFallback["sCT"])
	// Unset collections keep package defaults.
	assert.Equal(t, convert.DefaultFleetUnits(), opts.FleetUnits)

	// The mapped options must validate as-is.
	_, err = convert.New(opts, nil)
	assert.NoError(t, err)
}
