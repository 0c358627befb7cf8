// Package forecastbench compares a manually tuned simple exponential smoothing estimator
// against a roster of forecasting models on a train, validation and test split of a
// univariate series.
package forecastbench

import (
	"context"
	"fmt"
	"time"

	"github.com/aouyang1/go-forecastbench/evaluation"
	"github.com/aouyang1/go-forecastbench/logging"
	"github.com/aouyang1/go-forecastbench/models"
	"github.com/aouyang1/go-forecastbench/ses"
	"github.com/aouyang1/go-forecastbench/split"
	"github.com/aouyang1/go-forecastbench/stats"
	"github.com/aouyang1/go-forecastbench/timedataset"
	"github.com/google/uuid"
)

// SESManualName is the report key of the grid searched SES estimator
const SESManualName = "SES_manual"

// Pipeline runs a full comparison on a series
type Pipeline struct {
	opt    *Options
	roster []models.Model
	logger *logging.Logger
}

// New creates a pipeline using the provided options. If no options are provided a default is
// used.
func New(opt *Options) (*Pipeline, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if opt.Split == nil {
		opt.Split = split.NewDefaultOptions()
	}
	if opt.Outlier == nil {
		opt.Outlier = NewOutlierOptions()
	}
	if err := opt.Split.Validate(); err != nil {
		return nil, err
	}
	if len(opt.Alphas) == 0 {
		return nil, fmt.Errorf("no candidate alphas, %w", ses.ErrEmptyGrid)
	}

	roster, err := models.NewRoster(opt.Roster)
	if err != nil {
		return nil, fmt.Errorf("unable to build model roster, %w", err)
	}

	return &Pipeline{
		opt:    opt,
		roster: roster,
		logger: logging.OrGlobal(opt.Logger),
	}, nil
}

// Run splits td, tunes SES on the validation set, fits the roster on the training set and
// scores every forecast on the validation and test horizons. Split and grid search failures
// abort the run. Model failures only blank that model's forecasts.
func (p *Pipeline) Run(ctx context.Context, td *timedataset.TimeDataset) (*Results, error) {
	res := &Results{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger := p.logger.With("run_id", res.RunID)

	s, err := split.New(td, p.opt.Split)
	if err != nil {
		return nil, err
	}
	res.Split = s
	res.Series = td.Copy()
	logger.Info("split series", "train", s.Train.Len(), "val", s.Val.Len(), "test", s.Test.Len())
	checkSpacing(logger, s)

	grid, err := ses.GridSearch(s.Train.Y, s.Val.Y, p.opt.Alphas)
	if err != nil {
		return nil, err
	}
	res.Grid = grid
	logger.Info("ses grid search", "alpha", grid.Alpha, "val_rmse", grid.Score, "candidates", len(grid.Scores))

	trainVal, err := s.TrainVal()
	if err != nil {
		return nil, err
	}
	sesTest, err := ses.ForecastLast(trainVal.Y, grid.Alpha, s.Test.Len())
	if err != nil {
		return nil, fmt.Errorf("unable to forecast test horizon with ses, %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Fits = models.FitAll(ctx, s.Train.Y, p.roster, &models.FitOptions{
		Timeout: p.opt.FitTimeout,
		Logger:  logger,
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// roster models forecast from the end of train, so the test horizon is the tail of a
	// forecast spanning val and test
	res.ValForecasts = res.Fits.Forecast(s.Val.Len()).
		Merge(models.Forecasts{SESManualName: grid.Forecast})
	res.TestForecasts = res.Fits.Forecast(s.Val.Len() + s.Test.Len()).
		Tail(s.Test.Len()).
		Merge(models.Forecasts{SESManualName: sesTest})

	res.ValReport = evaluation.Evaluate(s.Val.Y, res.ValForecasts)
	res.TestReport = evaluation.Evaluate(s.Test.Y, res.TestForecasts)

	res.Outliers = p.outliers(td)
	res.SeasonalPeriod, res.Decomposition = p.decompose(logger, td)
	res.Duration = time.Since(res.StartedAt)

	for _, name := range res.TestReport.Names() {
		scores := res.TestReport[name]
		if !scores.Computed() {
			logger.Info("model scores", "model", name, "error", scores.Err)
			continue
		}
		logger.Info("model scores", "model", name, "val_rmse", res.ValReport[name].RMSE, "test_rmse", scores.RMSE, "test_mae", scores.MAE)
	}
	if best, ok := res.TestReport.Best(); ok {
		logger.Info("best test model", "model", best)
	}
	return res, nil
}

func (p *Pipeline) outliers(td *timedataset.TimeDataset) []time.Time {
	o := p.opt.Outlier
	idx := stats.DetectOutliers(td.Y, o.LowerPercentile, o.UpperPercentile, o.TukeyFactor)
	if len(idx) == 0 {
		return nil
	}
	t := make([]time.Time, 0, len(idx))
	for _, i := range idx {
		t = append(t, td.T[i])
	}
	return t
}

// decompose uses the configured seasonal period or infers one from the full series. A series
// without a usable period is reported without a decomposition.
func (p *Pipeline) decompose(logger *logging.Logger, td *timedataset.TimeDataset) (int, *stats.Decomposition) {
	period := 0
	if p.opt.Roster != nil {
		period = p.opt.Roster.SeasonalPeriod
	}
	if period == 0 {
		var err error
		period, err = stats.DominantPeriod(td.Y, 2, td.Len()/2)
		if err != nil {
			logger.Warn("unable to infer seasonal period", "error", err)
			return 0, nil
		}
	}

	d, err := stats.Decompose(td.Y, period)
	if err != nil {
		logger.Warn("unable to decompose series", "period", period, "error", err)
		return period, nil
	}
	return period, d
}

// checkSpacing warns when the observed test timestamps differ from the ones stepped out from
// the end of train. Roster forecasts are aligned to the test set by position.
func checkSpacing(logger *logging.Logger, s *split.Split) {
	nVal, nTest := s.Val.Len(), s.Test.Len()
	stepped, err := timedataset.TimeSlice(s.Train.T).Extend(nVal + nTest)
	if err != nil {
		logger.Warn("unable to infer series frequency", "error", err)
		return
	}
	for i, ts := range s.Test.T {
		if !ts.Equal(stepped[nVal+i]) {
			logger.Warn("series is irregularly spaced, forecasts are aligned by position",
				"expected", stepped[nVal+i], "observed", ts)
			return
		}
	}
}
