// Command forecastbench runs the forecasting comparison on a dataset and writes forecasts,
// scores, a run summary and plots to an output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	forecastbench "github.com/aouyang1/go-forecastbench"
	"github.com/aouyang1/go-forecastbench/config"
	"github.com/aouyang1/go-forecastbench/logging"
	"github.com/aouyang1/go-forecastbench/timedataset"
	"github.com/joho/godotenv"
	"github.com/pkg/profile"
)

type flags struct {
	configPath string
	outputDir  string
	csvPath    string
	dateCol    string
	valueCol   string
	dataset    string
	noPlots    bool
	cpuProfile bool
}

func parseFlags() *flags {
	f := &flags{}
	flag.StringVar(&f.configPath, "config", "", "path to a yaml config, defaults to ./forecastbench.yaml if present")
	flag.StringVar(&f.outputDir, "output", "", "directory for reports, overrides output.dir")
	flag.StringVar(&f.csvPath, "csv", "", "csv file to load instead of a builtin dataset")
	flag.StringVar(&f.dateCol, "date-col", "", "date column of the csv file")
	flag.StringVar(&f.valueCol, "value-col", "", "value column of the csv file")
	flag.StringVar(&f.dataset, "dataset", "", fmt.Sprintf("builtin dataset, one of %v", timedataset.BuiltinNames()))
	flag.BoolVar(&f.noPlots, "no-plots", false, "skip html plots")
	flag.BoolVar(&f.cpuProfile, "cpuprofile", false, "write a cpu profile to the output directory")
	flag.Parse()
	return f
}

// apply lets explicitly set flags override the loaded configuration
func (f *flags) apply(cfg *config.Config) {
	if f.outputDir != "" {
		cfg.Output.Dir = f.outputDir
	}
	if f.dataset != "" {
		cfg.Data.Dataset = f.dataset
		cfg.Data.Path = ""
	}
	if f.csvPath != "" {
		cfg.Data.Path = f.csvPath
	}
	if f.dateCol != "" {
		cfg.Data.DateColumn = f.dateCol
	}
	if f.valueCol != "" {
		cfg.Data.ValueColumn = f.valueCol
	}
	if f.noPlots {
		cfg.Output.Plots = false
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "forecastbench: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// a missing .env is fine
	_ = godotenv.Load()

	f := parseFlags()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logging.SetGlobal(logger)
	logger.Debug("logger ready", "level", logger.Level().String(), "format", cfg.Logging.Format)

	if f.cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Output.Dir), profile.Quiet).Stop()
	}

	td, err := timedataset.Load(cfg.Data)
	if err != nil {
		return err
	}
	logger.Info("loaded series", "observations", td.Len(), "dataset", cfg.Data.Dataset, "path", cfg.Data.Path)

	p, err := forecastbench.New(forecastbench.NewOptionsFromConfig(cfg, logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := p.Run(ctx, td)
	if err != nil {
		return err
	}

	if err := res.WriteReports(cfg.Output.Dir, cfg.Output.Plots, cfg, logger); err != nil {
		return fmt.Errorf("some reports failed to write, %w", err)
	}
	logger.Info("wrote reports", "dir", cfg.Output.Dir, "run_id", res.RunID)
	return nil
}
