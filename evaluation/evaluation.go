// Package evaluation scores forecasts against the observed values of a horizon
package evaluation

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/aouyang1/go-forecastbench/models"
	"github.com/aouyang1/go-forecastbench/score"
)

var ErrNonFinite = errors.New("non-finite value in horizon")

// NoForecast is the Err of an entry whose model produced no forecast
const NoForecast = "no forecast"

// Scores holds the accuracy metrics of one forecast. A nil metric was not computed, and Err
// names why when the whole entry was skipped.
type Scores struct {
	RMSE *float64 `json:"rmse"`
	MAE  *float64 `json:"mae"`
	MAPE *float64 `json:"mape"`
	Err  string   `json:"error,omitempty"`
}

// Computed reports whether any metric is present
func (s *Scores) Computed() bool {
	return s != nil && (s.RMSE != nil || s.MAE != nil || s.MAPE != nil)
}

// Report maps a model name to its scores over one horizon
type Report map[string]*Scores

// Evaluate scores every forecast against actual. Every model in forecasts appears in the
// report. Absent forecasts, length mismatches and non-finite values yield nil metrics for that
// entry only.
// MAPE excludes zero actuals and is nil when none remain.
func Evaluate(actual []float64, forecasts models.Forecasts) Report {
	report := make(Report, len(forecasts))
	for name, forecast := range forecasts {
		report[name] = evaluate(actual, forecast)
	}
	return report
}

func evaluate(actual, forecast []float64) *Scores {
	if forecast == nil {
		return &Scores{Err: NoForecast}
	}

	rmse, err := score.RMSE(forecast, actual)
	if err != nil {
		return &Scores{Err: err.Error()}
	}
	mae, err := score.MAE(forecast, actual)
	if err != nil {
		return &Scores{Err: err.Error()}
	}
	// the metric functions skip NaN pairs, which would score a partial forecast as accurate
	if err := requireFinite(forecast, actual); err != nil {
		return &Scores{Err: err.Error()}
	}

	s := &Scores{
		RMSE: finite(rmse),
		MAE:  finite(mae),
	}
	if mape, err := score.MAPE(forecast, actual); err == nil {
		s.MAPE = finite(mape)
	}
	return s
}

func requireFinite(forecast, actual []float64) error {
	for i := range forecast {
		if math.IsNaN(forecast[i]) || math.IsInf(forecast[i], 0) {
			return fmt.Errorf("forecast at step %d, %w", i, ErrNonFinite)
		}
		if math.IsNaN(actual[i]) || math.IsInf(actual[i], 0) {
			return fmt.Errorf("actual at step %d, %w", i, ErrNonFinite)
		}
	}
	return nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Names returns the model names in sorted order
func (r Report) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// Best returns the model with the lowest RMSE, ties going to the first name in sorted
// order. ok is false when no entry has an RMSE.
func (r Report) Best() (name string, ok bool) {
	best := math.Inf(1)
	for _, n := range r.Names() {
		s := r[n]
		if s == nil || s.RMSE == nil {
			continue
		}
		if *s.RMSE < best {
			best = *s.RMSE
			name = n
			ok = true
		}
	}
	return name, ok
}
