package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "FORECASTBENCH"

// Load reads configuration from configPath, or from forecastbench.yaml in the working
// directory or ./configs when configPath is empty. A missing default file falls back to the
// defaults. Environment variables such as FORECASTBENCH_SPLIT_TRAIN_FRACTION override both.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("forecastbench")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w, %w", err, ErrInvalidConfig)
		}
	}

	return parseConfig(v)
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("data.dataset", d.Data.Dataset)
	v.SetDefault("data.path", d.Data.Path)
	v.SetDefault("data.date_column", d.Data.DateColumn)
	v.SetDefault("data.value_column", d.Data.ValueColumn)

	v.SetDefault("split.train_fraction", d.Split.TrainFraction)
	v.SetDefault("split.val_fraction", d.Split.ValFraction)
	v.SetDefault("split.val_size", d.Split.ValSize)
	v.SetDefault("split.test_size", d.Split.TestSize)

	v.SetDefault("ses.alpha_min", d.SES.AlphaMin)
	v.SetDefault("ses.alpha_max", d.SES.AlphaMax)
	v.SetDefault("ses.grid_size", d.SES.GridSize)

	v.SetDefault("models.names", d.Models.Names)
	v.SetDefault("models.seasonal_period", d.Models.SeasonalPeriod)
	v.SetDefault("models.arima.p", d.Models.ARIMA.P)
	v.SetDefault("models.arima.d", d.Models.ARIMA.D)
	v.SetDefault("models.arima.q", d.Models.ARIMA.Q)
	v.SetDefault("models.fit_timeout", d.Models.FitTimeout)

	v.SetDefault("outlier.lower_percentile", d.Outlier.LowerPercentile)
	v.SetDefault("outlier.upper_percentile", d.Outlier.UpperPercentile)
	v.SetDefault("outlier.tukey_factor", d.Outlier.TukeyFactor)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.plots", d.Output.Plots)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w, %w", err, ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
