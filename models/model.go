// Package models is the roster of forecasting models compared against the manually tuned
// SES estimator. Every model estimates its own parameters from the training series and
// forecasts from the end of it.
package models

import (
	"context"
	"fmt"
	"math"
	"slices"
)

const (
	NameSESAuto       = "SES_auto"
	NameHolt          = "Holt"
	NameHoltWinters   = "HoltWinters"
	NameARIMA         = "ARIMA"
	NameNaive         = "Naive"
	NameSeasonalNaive = "SeasonalNaive"
	NameDrift         = "Drift"
	NameLinearTrend   = "LinearTrend"
)

// Model fits itself to a training series
type Model interface {
	Name() string
	Fit(train []float64) (Fitted, error)
}

// ContextModel is implemented by models whose fit can stop early once ctx is done
type ContextModel interface {
	Model
	FitContext(ctx context.Context, train []float64) (Fitted, error)
}

// Fitted produces forecasts for horizon steps past the end of the training series
type Fitted interface {
	Forecast(horizon int) ([]float64, error)
}

// Described is implemented by fits that expose their estimated parameters
type Described interface {
	Params() map[string]float64
}

// Forecasts maps a model name to its forecast. A nil forecast means the model produced
// no prediction.
type Forecasts map[string][]float64

// Names returns the model names in sorted order
func (f Forecasts) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Tail returns a copy keeping the last n values of every forecast. Forecasts shorter than n
// are copied whole so a downstream length check still catches them.
func (f Forecasts) Tail(n int) Forecasts {
	res := make(Forecasts, len(f))
	for name, forecast := range f {
		if forecast == nil {
			res[name] = nil
			continue
		}
		start := max(len(forecast)-n, 0)
		res[name] = slices.Clone(forecast[start:])
	}
	return res
}

// Merge returns a copy of f with every entry of other added, other winning on conflicts
func (f Forecasts) Merge(other Forecasts) Forecasts {
	res := make(Forecasts, len(f)+len(other))
	for name, forecast := range f {
		res[name] = slices.Clone(forecast)
	}
	for name, forecast := range other {
		res[name] = slices.Clone(forecast)
	}
	return res
}

func validateHorizon(horizon int) error {
	if horizon < 1 {
		return fmt.Errorf("got %d, %w", horizon, ErrInvalidHorizon)
	}
	return nil
}

func requireLen(train []float64, minLen int) error {
	if len(train) < minLen {
		return fmt.Errorf("need at least %d points, got %d, %w", minLen, len(train), ErrInsufficientData)
	}
	return nil
}

func requireFinite(train []float64) error {
	for i, v := range train {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value at index %d, %w", i, ErrNonFinite)
		}
	}
	return nil
}
