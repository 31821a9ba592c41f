package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration. Defaults come
// from Default(); a YAML file and POLYSCAN_* environment variables overlay
// them through overlayConfig, in that order.
type Config struct {
	Scraper  ScraperConfig
	Output   OutputConfig
	Logging  LoggingConfig
	Paths    PathsConfig
	Forecast ForecastConfig
	Wavelet  WaveletConfig
}

// ScraperConfig contains the chart-scanning parameters.
type ScraperConfig struct {
	URL             string        `validate:"required,url"`
	FrameSelector   string        `validate:"required"`
	ChartSelector   string        `validate:"required"`
	TooltipSelector string        `validate:"required"`
	EdgeMargin      float64       `validate:"gte=0"`
	ScanRow         float64       `validate:"gt=0,lt=1"`
	MinStep         float64       `validate:"gt=0"`
	MaxStep         float64       `validate:"gt=0"`
	StepGrowth      float64       `validate:"gt=1"`
	SampleTimeout   time.Duration `validate:"gt=0"`
	NavTimeout      time.Duration `validate:"gt=0"`
	SamplesPerSec   float64       `validate:"gt=0"`
	Headless        bool
	ShowMarker      bool
}

// OutputConfig controls how the scanned series is written.
type OutputConfig struct {
	Format string `validate:"oneof=csv json"`
	File   string `validate:"required"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `validate:"oneof=debug info warn warning error"`
	Format   string
	Output   string `validate:"oneof=console file both"`
	FilePath string
}

// PathsConfig contains the pipeline directory layout.
type PathsConfig struct {
	DataDir       string `validate:"required"`
	NormalizedDir string `validate:"required"`
	DiagramsDir   string `validate:"required"`
	ForecastsDir  string `validate:"required"`
	LogsDir       string `validate:"required"`
}

// ForecastConfig tunes the seasonal trend model.
type ForecastConfig struct {
	SeasonLength int     `validate:"gt=1"`
	Horizon      int     `validate:"gt=0"`
	Alpha        float64 `validate:"gt=0,lte=1"`
	Beta         float64 `validate:"gte=0,lte=1"`
	Gamma        float64 `validate:"gte=0,lte=1"`
}

// WaveletConfig tunes the multi-resolution analysis.
type WaveletConfig struct {
	MaxLevels int `validate:"gt=0,lte=12"`
}

// overlayConfig mirrors Config with pointer fields so a YAML file or the
// environment can set any subset of values. A nil field means "not set" and
// leaves the current value alone, which keeps false and zero settable.
type overlayConfig struct {
	Scraper  scraperOverlay  `yaml:"scraper" envconfig:"SCRAPER"`
	Output   outputOverlay   `yaml:"output" envconfig:"OUTPUT"`
	Logging  loggingOverlay  `yaml:"logging" envconfig:"LOGGING"`
	Paths    pathsOverlay    `yaml:"paths" envconfig:"PATHS"`
	Forecast forecastOverlay `yaml:"forecast" envconfig:"FORECAST"`
	Wavelet  waveletOverlay  `yaml:"wavelet" envconfig:"WAVELET"`
}

type scraperOverlay struct {
	URL             *string        `yaml:"url" envconfig:"URL"`
	FrameSelector   *string        `yaml:"frame_selector" envconfig:"FRAME_SELECTOR"`
	ChartSelector   *string        `yaml:"chart_selector" envconfig:"CHART_SELECTOR"`
	TooltipSelector *string        `yaml:"tooltip_selector" envconfig:"TOOLTIP_SELECTOR"`
	EdgeMargin      *float64       `yaml:"edge_margin" envconfig:"EDGE_MARGIN"`
	ScanRow         *float64       `yaml:"scan_row" envconfig:"SCAN_ROW"`
	MinStep         *float64       `yaml:"min_step" envconfig:"MIN_STEP"`
	MaxStep         *float64       `yaml:"max_step" envconfig:"MAX_STEP"`
	StepGrowth      *float64       `yaml:"step_growth" envconfig:"STEP_GROWTH"`
	SampleTimeout   *time.Duration `yaml:"sample_timeout" envconfig:"SAMPLE_TIMEOUT"`
	NavTimeout      *time.Duration `yaml:"nav_timeout" envconfig:"NAV_TIMEOUT"`
	SamplesPerSec   *float64       `yaml:"samples_per_sec" envconfig:"SAMPLES_PER_SEC"`
	Headless        *bool          `yaml:"headless" envconfig:"HEADLESS"`
	ShowMarker      *bool          `yaml:"show_marker" envconfig:"SHOW_MARKER"`
}

type outputOverlay struct {
	Format *string `yaml:"format" envconfig:"FORMAT"`
	File   *string `yaml:"file" envconfig:"FILE"`
}

type loggingOverlay struct {
	Level    *string `yaml:"level" envconfig:"LEVEL"`
	Format   *string `yaml:"format" envconfig:"FORMAT"`
	Output   *string `yaml:"output" envconfig:"OUTPUT"`
	FilePath *string `yaml:"file_path" envconfig:"FILE_PATH"`
}

type pathsOverlay struct {
	DataDir       *string `yaml:"data_dir" envconfig:"DATA_DIR"`
	NormalizedDir *string `yaml:"normalized_dir" envconfig:"NORMALIZED_DIR"`
	DiagramsDir   *string `yaml:"diagrams_dir" envconfig:"DIAGRAMS_DIR"`
	ForecastsDir  *string `yaml:"forecasts_dir" envconfig:"FORECASTS_DIR"`
	LogsDir       *string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

type forecastOverlay struct {
	SeasonLength *int     `yaml:"season_length" envconfig:"SEASON_LENGTH"`
	Horizon      *int     `yaml:"horizon" envconfig:"HORIZON"`
	Alpha        *float64 `yaml:"alpha" envconfig:"ALPHA"`
	Beta         *float64 `yaml:"beta" envconfig:"BETA"`
	Gamma        *float64 `yaml:"gamma" envconfig:"GAMMA"`
}

type waveletOverlay struct {
	MaxLevels *int `yaml:"max_levels" envconfig:"MAX_LEVELS"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// POLYSCAN_* environment variables, in increasing precedence. Each layer
// only touches the values it explicitly sets.
func Load() (*Config, error) {
	cfg := Default()

	if path := configFilePath(); path != "" {
		fileOverlay, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		fileOverlay.apply(cfg)
	}

	var env overlayConfig
	if err := envconfig.Process("POLYSCAN", &env); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	env.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against the struct validation rules plus
// the cross-field constraints the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Scraper.MaxStep < c.Scraper.MinStep {
		return fmt.Errorf("config validation failed: max_step %.1f below min_step %.1f",
			c.Scraper.MaxStep, c.Scraper.MinStep)
	}
	return nil
}

// loadFromFile reads a YAML overlay. Unset keys stay nil.
func loadFromFile(path string) (*overlayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var overlay overlayConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, err
	}
	return &overlay, nil
}

// apply copies every set field of the overlay onto cfg.
func (o *overlayConfig) apply(cfg *Config) {
	override(&cfg.Scraper.URL, o.Scraper.URL)
	override(&cfg.Scraper.FrameSelector, o.Scraper.FrameSelector)
	override(&cfg.Scraper.ChartSelector, o.Scraper.ChartSelector)
	override(&cfg.Scraper.TooltipSelector, o.Scraper.TooltipSelector)
	override(&cfg.Scraper.EdgeMargin, o.Scraper.EdgeMargin)
	override(&cfg.Scraper.ScanRow, o.Scraper.ScanRow)
	override(&cfg.Scraper.MinStep, o.Scraper.MinStep)
	override(&cfg.Scraper.MaxStep, o.Scraper.MaxStep)
	override(&cfg.Scraper.StepGrowth, o.Scraper.StepGrowth)
	override(&cfg.Scraper.SampleTimeout, o.Scraper.SampleTimeout)
	override(&cfg.Scraper.NavTimeout, o.Scraper.NavTimeout)
	override(&cfg.Scraper.SamplesPerSec, o.Scraper.SamplesPerSec)
	override(&cfg.Scraper.Headless, o.Scraper.Headless)
	override(&cfg.Scraper.ShowMarker, o.Scraper.ShowMarker)

	override(&cfg.Output.Format, o.Output.Format)
	override(&cfg.Output.File, o.Output.File)

	override(&cfg.Logging.Level, o.Logging.Level)
	override(&cfg.Logging.Format, o.Logging.Format)
	override(&cfg.Logging.Output, o.Logging.Output)
	override(&cfg.Logging.FilePath, o.Logging.FilePath)

	override(&cfg.Paths.DataDir, o.Paths.DataDir)
	override(&cfg.Paths.NormalizedDir, o.Paths.NormalizedDir)
	override(&cfg.Paths.DiagramsDir, o.Paths.DiagramsDir)
	override(&cfg.Paths.ForecastsDir, o.Paths.ForecastsDir)
	override(&cfg.Paths.LogsDir, o.Paths.LogsDir)

	override(&cfg.Forecast.SeasonLength, o.Forecast.SeasonLength)
	override(&cfg.Forecast.Horizon, o.Forecast.Horizon)
	override(&cfg.Forecast.Alpha, o.Forecast.Alpha)
	override(&cfg.Forecast.Beta, o.Forecast.Beta)
	override(&cfg.Forecast.Gamma, o.Forecast.Gamma)

	override(&cfg.Wavelet.MaxLevels, o.Wavelet.MaxLevels)
}

func override[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// configFilePath returns the first config file found in the usual locations.
func configFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Default returns the built-in defaults without touching the environment or
// the filesystem.
func Default() *Config {
	return &Config{
		Scraper: ScraperConfig{
			URL:             "https://businessanalytiq.com/procurementanalytics/index/polypropylene-price-index/",
			FrameSelector:   "iframe[src*='datastudio']",
			ChartSelector:   "div.ng2-canvas-container.grid",
			TooltipSelector: "div.google-visualization-tooltip.visible",
			EdgeMargin:      50,
			ScanRow:         0.3,
			MinStep:         1,
			MaxStep:         50,
			StepGrowth:      2,
			SampleTimeout:   1500 * time.Millisecond,
			NavTimeout:      30 * time.Second,
			SamplesPerSec:   8,
			Headless:        true,
			ShowMarker:      true,
		},
		Output: OutputConfig{
			Format: "csv",
			File:   "polypropylene_data.csv",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/polyscan.log",
		},
		Paths: PathsConfig{
			DataDir:       "data",
			NormalizedDir: "normalized_files",
			DiagramsDir:   "mra_diagrams",
			ForecastsDir:  "regression_plots",
			LogsDir:       "logs",
		},
		Forecast: ForecastConfig{
			SeasonLength: 12,
			Horizon:      12,
			Alpha:        0.5,
			Beta:         0.05,
			Gamma:        0.3,
		},
		Wavelet: WaveletConfig{
			MaxLevels: 8,
		},
	}
}
