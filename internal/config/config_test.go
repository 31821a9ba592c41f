package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"POLYSCAN_SCRAPER_URL", "POLYSCAN_SCRAPER_MAX_STEP", "POLYSCAN_SCRAPER_MIN_STEP",
		"POLYSCAN_OUTPUT_FORMAT", "POLYSCAN_LOGGING_LEVEL", "POLYSCAN_PATHS_DATA_DIR",
	}
	for _, v := range vars {
		old := os.Getenv(v)
		os.Unsetenv(v)
		t.Cleanup(func(v, old string) func() {
			return func() {
				if old != "" {
					os.Setenv(v, old)
				}
			}
		}(v, old))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	// Run from a directory without a config.yaml so only defaults apply.
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.Scraper.URL, "polypropylene-price-index")
	assert.Equal(t, "iframe[src*='datastudio']", cfg.Scraper.FrameSelector)
	assert.Equal(t, 50.0, cfg.Scraper.EdgeMargin)
	assert.Equal(t, 1.0, cfg.Scraper.MinStep)
	assert.Equal(t, 50.0, cfg.Scraper.MaxStep)
	assert.Equal(t, 2.0, cfg.Scraper.StepGrowth)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scraper.SampleTimeout)
	assert.True(t, cfg.Scraper.Headless)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, 12, cfg.Forecast.SeasonLength)
	assert.Equal(t, 8, cfg.Wavelet.MaxLevels)
}

func TestLoadFileOnlyValuesSurvive(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	yaml := []byte(`
scraper:
  min_step: 3
  max_step: 30
output:
  format: json
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	// With no environment variables set, the file layer must not be
	// reverted to defaults.
	assert.Equal(t, 3.0, cfg.Scraper.MinStep)
	assert.Equal(t, 30.0, cfg.Scraper.MaxStep)
	assert.Equal(t, "json", cfg.Output.Format)
	// Keys the file does not mention keep their defaults.
	assert.Equal(t, 2.0, cfg.Scraper.StepGrowth)
	assert.Equal(t, "polypropylene_data.csv", cfg.Output.File)
}

func TestLoadFileCanDisableBooleans(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	yaml := []byte(`
scraper:
  headless: false
  show_marker: false
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	// false is a real setting, not "unset".
	assert.False(t, cfg.Scraper.Headless)
	assert.False(t, cfg.Scraper.ShowMarker)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	yaml := []byte(`
scraper:
  max_step: 30
  min_step: 2
output:
  format: json
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	os.Setenv("POLYSCAN_SCRAPER_MAX_STEP", "40")
	defer os.Unsetenv("POLYSCAN_SCRAPER_MAX_STEP")

	cfg, err := Load()
	require.NoError(t, err)

	// Env wins over file, file wins over defaults.
	assert.Equal(t, 40.0, cfg.Scraper.MaxStep)
	assert.Equal(t, 2.0, cfg.Scraper.MinStep)
	assert.Equal(t, "json", cfg.Output.Format)
	// Untouched values keep defaults.
	assert.Equal(t, 2.0, cfg.Scraper.StepGrowth)
}

func TestLoadEnvParsesTypedValues(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	t.Setenv("POLYSCAN_SCRAPER_NAV_TIMEOUT", "45s")
	t.Setenv("POLYSCAN_SCRAPER_HEADLESS", "false")
	t.Setenv("POLYSCAN_WAVELET_MAX_LEVELS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Scraper.NavTimeout)
	assert.False(t, cfg.Scraper.Headless)
	assert.Equal(t, 5, cfg.Wavelet.MaxLevels)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"step ceiling below floor", func(c *Config) { c.Scraper.MaxStep = 0.5; c.Scraper.MinStep = 1 }},
		{"scan row out of range", func(c *Config) { c.Scraper.ScanRow = 1.5 }},
		{"growth not multiplicative", func(c *Config) { c.Scraper.StepGrowth = 1 }},
		{"unknown output format", func(c *Config) { c.Output.Format = "xml" }},
		{"missing url", func(c *Config) { c.Scraper.URL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPathsResolution(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(base, Default().Paths)

	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "normalized_files"), paths.NormalizedDir)
	assert.Equal(t, filepath.Join(base, "data", "pp.csv"), paths.GetDataPath("pp.csv"))

	require.NoError(t, paths.EnsureDirectories())
	for _, dir := range []string{paths.DataDir, paths.NormalizedDir, paths.DiagramsDir, paths.ForecastsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestPathsAbsoluteKept(t *testing.T) {
	abs := t.TempDir()
	cfg := Default().Paths
	cfg.DataDir = abs
	paths := NewPaths("/elsewhere", cfg)
	assert.Equal(t, abs, paths.DataDir)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"PP homopolymer", "PP homopolymer"},
		{"PVC: raw/virgin", "PVC_ raw_virgin"},
		{`a\b/c:d*e?f"g<h>i|j`, "a_b_c_d_e_f_g_h_i_j"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}
