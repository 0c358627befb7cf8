package forecastbench

import (
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/aouyang1/go-forecastbench/evaluation"
	"github.com/aouyang1/go-forecastbench/logging"
	"github.com/aouyang1/go-forecastbench/models"
	"github.com/aouyang1/go-forecastbench/report"
	"github.com/aouyang1/go-forecastbench/ses"
	"github.com/aouyang1/go-forecastbench/split"
	"github.com/aouyang1/go-forecastbench/stats"
	"github.com/aouyang1/go-forecastbench/timedataset"
)

// Results holds everything produced by a pipeline run
type Results struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	Series *timedataset.TimeDataset
	Split  *split.Split
	Grid   *ses.GridResult

	// SeasonalPeriod is the period used for the decomposition, 0 if none was found
	SeasonalPeriod int
	Outliers       []time.Time

	Fits          *models.Fits
	ValForecasts  models.Forecasts
	TestForecasts models.Forecasts
	ValReport     evaluation.Report
	TestReport    evaluation.Report

	Decomposition *stats.Decomposition
}

// Summary condenses the run into a serializable record. cfg is embedded as is.
func (r *Results) Summary(cfg interface{}) *report.Summary {
	s := &report.Summary{
		RunID:          r.RunID,
		StartedAt:      r.StartedAt,
		Duration:       r.Duration.String(),
		Config:         cfg,
		Observations:   r.Series.Len(),
		SeasonalPeriod: r.SeasonalPeriod,
		Outliers:       r.Outliers,
		ValScores:      r.ValReport,
		TestScores:     r.TestReport,
	}
	if r.Split != nil {
		s.Split = report.SplitSummary{
			Train: r.Split.Train.Len(),
			Val:   r.Split.Val.Len(),
			Test:  r.Split.Test.Len(),
		}
		if r.Split.Val.Len() > 0 {
			s.Split.ValStart = r.Split.Val.T[0]
		}
		if r.Split.Test.Len() > 0 {
			s.Split.TestStart = r.Split.Test.T[0]
		}
	}
	if r.Grid != nil {
		s.Grid = report.GridSummary{
			Alpha:      r.Grid.Alpha,
			RMSE:       r.Grid.Score,
			Candidates: len(r.Grid.Scores),
		}
	}
	if r.Fits != nil {
		for _, name := range r.Fits.Failed() {
			if s.FailedModels == nil {
				s.FailedModels = make(map[string]string)
			}
			s.FailedModels[name] = r.Fits.Err(name).Error()
		}
	}
	if r.Fits != nil {
		s.ModelParams = r.Fits.Params()
	}
	s.BestVal, _ = r.ValReport.Best()
	s.BestTest, _ = r.TestReport.Best()
	return s
}

// WriteReports writes every artifact of the run into dir. A failed artifact is logged and
// does not stop the others. The returned error joins every failure.
func (r *Results) WriteReports(dir string, plots bool, cfg interface{}, logger *logging.Logger) error {
	logger = logging.OrGlobal(logger)

	var errs []error
	record := func(artifact string, err error) {
		if err != nil {
			logger.Error("unable to write report", "artifact", artifact, "error", err)
			errs = append(errs, err)
			return
		}
		logger.Debug("wrote report", "artifact", artifact)
	}

	testT := r.Split.Test.T
	record(report.ForecastsFile, report.SaveForecasts(filepath.Join(dir, report.ForecastsFile), testT, r.TestForecasts))
	for _, name := range r.TestForecasts.Names() {
		forecast := r.TestForecasts[name]
		if forecast == nil {
			continue
		}
		_, err := report.SaveForecastSingle(dir, name, testT, forecast)
		record(name, err)
	}
	record(report.ValScoresFile, report.SaveMetrics(filepath.Join(dir, report.ValScoresFile), r.ValReport))
	record(report.TestScoresFile, report.SaveMetrics(filepath.Join(dir, report.TestScoresFile), r.TestReport))
	record(report.SummaryFile, report.SaveSummary(filepath.Join(dir, report.SummaryFile), r.Summary(cfg)))

	if !plots {
		return errors.Join(errs...)
	}

	record(report.SeriesPlotFile, report.Save(filepath.Join(dir, report.SeriesPlotFile), func(w io.Writer) error {
		return report.PlotSeriesAndForecasts(w, r.Split.Train, r.Split.Val, r.Split.Test, testT, r.TestForecasts)
	}))
	if r.Decomposition == nil {
		logger.Warn("skipping decomposition plot, no seasonal decomposition available")
		return errors.Join(errs...)
	}
	record(report.DecompositionFile, report.Save(filepath.Join(dir, report.DecompositionFile), func(w io.Writer) error {
		return report.PlotDecomposition(w, r.Series, r.Decomposition)
	}))
	return errors.Join(errs...)
}
