package forecastbench

import (
	"time"

	"github.com/aouyang1/go-forecastbench/config"
	"github.com/aouyang1/go-forecastbench/logging"
	"github.com/aouyang1/go-forecastbench/models"
	"github.com/aouyang1/go-forecastbench/ses"
	"github.com/aouyang1/go-forecastbench/split"
)

// OutlierOptions sets the percentile fences used to flag outliers in the input series
type OutlierOptions struct {
	LowerPercentile float64
	UpperPercentile float64
	TukeyFactor     float64
}

func NewOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		LowerPercentile: 0.1,
		UpperPercentile: 0.9,
		TukeyFactor:     1.0,
	}
}

type Options struct {
	Split      *split.Options
	Alphas     []float64
	Roster     *models.RosterOptions
	FitTimeout time.Duration
	Outlier    *OutlierOptions
	Logger     *logging.Logger
}

func NewDefaultOptions() *Options {
	return &Options{
		Split:      split.NewDefaultOptions(),
		Alphas:     ses.DefaultAlphas(),
		Roster:     models.NewDefaultRosterOptions(),
		FitTimeout: models.DefaultFitTimeout,
		Outlier:    NewOutlierOptions(),
	}
}

// NewOptionsFromConfig maps a loaded configuration onto pipeline options
func NewOptionsFromConfig(cfg *config.Config, logger *logging.Logger) *Options {
	splitOpt := cfg.Split
	roster := cfg.Models.RosterOptions
	return &Options{
		Split:      &splitOpt,
		Alphas:     cfg.SES.Alphas(),
		Roster:     &roster,
		FitTimeout: cfg.Models.FitTimeout,
		Outlier: &OutlierOptions{
			LowerPercentile: cfg.Outlier.LowerPercentile,
			UpperPercentile: cfg.Outlier.UpperPercentile,
			TukeyFactor:     cfg.Outlier.TukeyFactor,
		},
		Logger: logger,
	}
}
