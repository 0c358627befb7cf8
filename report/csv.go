// Package report writes forecasts, metric reports, run summaries and plots. Failures are
// returned to the caller and never touch the in-memory results being reported.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/go-forecastbench/evaluation"
	"github.com/aouyang1/go-forecastbench/models"
)

var (
	ErrSeriesLenMismatch = errors.New("series length does not match timestamps")
	ErrNothingToPlot     = errors.New("nothing to plot")
	ErrInvalidName       = errors.New("invalid model name for a file name")
)

const (
	ForecastsFile      = "forecasts_all_models.csv"
	ValScoresFile      = "val_scores.csv"
	TestScoresFile     = "test_scores.csv"
	SummaryFile        = "summary.json"
	SeriesPlotFile     = "series_forecasts.html"
	DecompositionFile  = "decomposition.html"
	forecastFilePrefix = "forecast_"
)

// FormatTime renders dates without a time of day as YYYY-MM-DD and everything else as
// RFC3339
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// WriteForecasts writes one row per horizon timestamp with a column per model in sorted
// order. Cells are empty where a model has no forecast value.
func WriteForecasts(w io.Writer, t []time.Time, forecasts models.Forecasts) error {
	names := forecasts.Names()

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}
	for i, ts := range t {
		row := make([]string, 0, len(names)+1)
		row = append(row, FormatTime(ts))
		for _, name := range names {
			forecast := forecasts[name]
			if i >= len(forecast) {
				row = append(row, "")
				continue
			}
			row = append(row, formatFloat(&forecast[i]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveForecasts writes the forecasts of every model to path
func SaveForecasts(path string, t []time.Time, forecasts models.Forecasts) error {
	return Save(path, func(w io.Writer) error {
		return WriteForecasts(w, t, forecasts)
	})
}

// SaveForecastSingle writes one model's forecast to <dir>/forecast_<name>.csv and returns
// the path
func SaveForecastSingle(dir, name string, t []time.Time, forecast []float64) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%q, %w", name, ErrInvalidName)
	}
	path := filepath.Join(dir, forecastFilePrefix+name+".csv")
	err := Save(path, func(w io.Writer) error {
		return WriteForecasts(w, t, models.Forecasts{name: forecast})
	})
	return path, err
}

// WriteMetrics writes one row per model in sorted order with its rmse, mae, mape and the
// reason metrics were skipped. Metrics that were not computed are left empty.
func WriteMetrics(w io.Writer, report evaluation.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"model", "rmse", "mae", "mape", "error"}); err != nil {
		return err
	}
	for _, name := range report.Names() {
		s := report[name]
		if s == nil {
			s = &evaluation.Scores{}
		}
		row := []string{name, formatFloat(s.RMSE), formatFloat(s.MAE), formatFloat(s.MAPE), s.Err}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveMetrics writes a metric report to path
func SaveMetrics(path string, report evaluation.Report) error {
	return Save(path, func(w io.Writer) error {
		return WriteMetrics(w, report)
	})
}

// Save creates the parent directory of path and writes through write, closing the file
// even when write fails
func Save(path string, write func(w io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
