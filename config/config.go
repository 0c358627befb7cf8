// Package config loads the run configuration from file and FORECASTBENCH_ environment
// variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aouyang1/go-forecastbench/models"
	"github.com/aouyang1/go-forecastbench/ses"
	"github.com/aouyang1/go-forecastbench/split"
	"github.com/aouyang1/go-forecastbench/timedataset"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config represents the complete run configuration
type Config struct {
	Data    timedataset.Source `json:"data" mapstructure:"data"`
	Split   split.Options      `json:"split" mapstructure:"split"`
	SES     SESConfig          `json:"ses" mapstructure:"ses"`
	Models  ModelsConfig       `json:"models" mapstructure:"models"`
	Outlier OutlierConfig      `json:"outlier" mapstructure:"outlier"`
	Output  OutputConfig       `json:"output" mapstructure:"output"`
	Logging LoggingConfig      `json:"logging" mapstructure:"logging"`
}

// SESConfig is the alpha grid searched by the manual SES estimator
type SESConfig struct {
	AlphaMin float64 `json:"alpha_min" mapstructure:"alpha_min"`
	AlphaMax float64 `json:"alpha_max" mapstructure:"alpha_max"`
	GridSize int     `json:"grid_size" mapstructure:"grid_size"`
}

// ModelsConfig selects the roster and bounds each fit
type ModelsConfig struct {
	models.RosterOptions `mapstructure:",squash"`
	FitTimeout           time.Duration `json:"fit_timeout" mapstructure:"fit_timeout"`
}

// OutlierConfig sets the percentile fences used to flag outliers in the input series
type OutlierConfig struct {
	LowerPercentile float64 `json:"lower_percentile" mapstructure:"lower_percentile"`
	UpperPercentile float64 `json:"upper_percentile" mapstructure:"upper_percentile"`
	TukeyFactor     float64 `json:"tukey_factor" mapstructure:"tukey_factor"`
}

// OutputConfig controls where reports are written
type OutputConfig struct {
	Dir   string `json:"dir" mapstructure:"dir"`
	Plots bool   `json:"plots" mapstructure:"plots"`
}

type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// DefaultConfig returns the configuration used when no file or environment overrides exist
func DefaultConfig() *Config {
	return &Config{
		Data: timedataset.Source{
			Dataset:     timedataset.AirPassengers,
			DateColumn:  "date",
			ValueColumn: "value",
		},
		Split: *split.NewDefaultOptions(),
		SES: SESConfig{
			AlphaMin: ses.DefaultGridMin,
			AlphaMax: ses.DefaultGridMax,
			GridSize: ses.DefaultGridSize,
		},
		Models: ModelsConfig{
			RosterOptions: *models.NewDefaultRosterOptions(),
			FitTimeout:    models.DefaultFitTimeout,
		},
		Outlier: OutlierConfig{
			LowerPercentile: 0.1,
			UpperPercentile: 0.9,
			TukeyFactor:     1.0,
		},
		Output: OutputConfig{
			Dir:   "output",
			Plots: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Data.Dataset == "" && c.Data.Path == "" {
		return fmt.Errorf("data: dataset or path is required, %w", ErrInvalidConfig)
	}
	if c.Data.Path != "" && (c.Data.DateColumn == "" || c.Data.ValueColumn == "") {
		return fmt.Errorf("data: date_column and value_column are required with a path, %w", ErrInvalidConfig)
	}
	if err := c.Split.Validate(); err != nil {
		return fmt.Errorf("split: %w, %w", err, ErrInvalidConfig)
	}
	if err := c.SES.Validate(); err != nil {
		return fmt.Errorf("ses: %w", err)
	}
	if err := c.Models.Validate(); err != nil {
		return fmt.Errorf("models: %w, %w", err, ErrInvalidConfig)
	}
	if c.Models.FitTimeout < 0 {
		return fmt.Errorf("models: fit_timeout must not be negative, %w", ErrInvalidConfig)
	}
	if err := c.Outlier.Validate(); err != nil {
		return fmt.Errorf("outlier: %w", err)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output: dir is required, %w", ErrInvalidConfig)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Validate checks the grid bounds lie within [0, 1] and the grid is not empty
func (c *SESConfig) Validate() error {
	if c.GridSize < 1 {
		return fmt.Errorf("grid_size must be at least 1, %w", ErrInvalidConfig)
	}
	if c.AlphaMin < 0 || c.AlphaMax > 1 || c.AlphaMin > c.AlphaMax {
		return fmt.Errorf("alpha range [%v, %v] must be ordered within [0, 1], %w", c.AlphaMin, c.AlphaMax, ErrInvalidConfig)
	}
	return nil
}

// Alphas returns the configured candidate grid
func (c *SESConfig) Alphas() []float64 {
	return ses.Alphas(c.AlphaMin, c.AlphaMax, c.GridSize)
}

func (c *OutlierConfig) Validate() error {
	if c.LowerPercentile < 0 || c.UpperPercentile > 1 || c.LowerPercentile >= c.UpperPercentile {
		return fmt.Errorf("percentiles [%v, %v] must be ordered within [0, 1], %w", c.LowerPercentile, c.UpperPercentile, ErrInvalidConfig)
	}
	if c.TukeyFactor < 0 {
		return fmt.Errorf("tukey_factor must not be negative, %w", ErrInvalidConfig)
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error, %w", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("format must be json or console, %w", ErrInvalidConfig)
	}
	return nil
}
