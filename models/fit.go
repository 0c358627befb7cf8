package models

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/aouyang1/go-forecastbench/logging"
)

const DefaultFitTimeout = 30 * time.Second

type FitOptions struct {
	// Timeout bounds each model fit. 0 disables the bound. Models implementing ContextModel
	// stop working once the bound passes; a plain Model keeps running in its goroutine until
	// its Fit returns, and the result is discarded.
	Timeout time.Duration
	Logger  *logging.Logger
}

func NewDefaultFitOptions() *FitOptions {
	return &FitOptions{
		Timeout: DefaultFitTimeout,
	}
}

// Fits holds the outcome of fitting a roster in roster order. A failed model has a nil
// fit and the error explaining why.
type Fits struct {
	names  []string
	fitted map[string]Fitted
	errs   map[string]error
	logger *logging.Logger
}

// FitAll fits every model on train. Errors, panics and timeouts are logged and recorded as a
// nil fit for that model only; FitAll itself never fails. A cancelled ctx marks the
// remaining models as failed.
func FitAll(ctx context.Context, train []float64, roster []Model, opt *FitOptions) *Fits {
	if opt == nil {
		opt = NewDefaultFitOptions()
	}
	logger := logging.OrGlobal(opt.Logger)

	fits := &Fits{
		names:  make([]string, 0, len(roster)),
		fitted: make(map[string]Fitted, len(roster)),
		errs:   make(map[string]error),
		logger: logger,
	}
	for _, m := range roster {
		name := m.Name()
		start := time.Now()
		fitted, err := fitOne(ctx, m, train, opt.Timeout)

		fits.names = append(fits.names, name)
		fits.fitted[name] = fitted
		if err != nil {
			fits.errs[name] = err
			logger.Warn("model fit failed", "model", name, "error", err)
			continue
		}
		logger.Debug("model fit", "model", name, "duration", time.Since(start).String())
	}
	return fits
}

type fitResult struct {
	fitted Fitted
	err    error
}

func fitOne(ctx context.Context, m Model, train []float64, timeout time.Duration) (Fitted, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// buffered so an abandoned fit can still deliver and exit
	res := make(chan fitResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				res <- fitResult{err: fmt.Errorf("%v, %w", r, ErrFitPanic)}
			}
		}()
		var fitted Fitted
		var err error
		if cm, ok := m.(ContextModel); ok {
			fitted, err = cm.FitContext(ctx, slices.Clone(train))
		} else {
			fitted, err = m.Fit(slices.Clone(train))
		}
		if err == nil && fitted == nil {
			err = ErrNoFit
		}
		res <- fitResult{fitted: fitted, err: err}
	}()

	select {
	case r := <-res:
		if r.err != nil {
			return nil, r.err
		}
		return r.fitted, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("after %s, %w", timeout, ErrFitTimeout)
		}
		return nil, ctx.Err()
	}
}

// Names returns the model names in roster order
func (f *Fits) Names() []string {
	return slices.Clone(f.names)
}

// Get returns the fit for a model, nil when it failed or is not in the roster
func (f *Fits) Get(name string) Fitted {
	return f.fitted[name]
}

// Params returns the estimated parameters of every fitted model that exposes them. Non-finite
// values are left out.
func (f *Fits) Params() map[string]map[string]float64 {
	res := make(map[string]map[string]float64)
	for _, name := range f.names {
		d, ok := f.Get(name).(Described)
		if !ok {
			continue
		}
		params := d.Params()
		maps.DeleteFunc(params, func(_ string, v float64) bool {
			return math.IsNaN(v) || math.IsInf(v, 0)
		})
		res[name] = params
	}
	return res
}

// Err returns why a model failed to fit
func (f *Fits) Err(name string) error {
	return f.errs[name]
}

// Failed returns the names of models without a fit in roster order
func (f *Fits) Failed() []string {
	var failed []string
	for _, name := range f.names {
		if f.fitted[name] == nil {
			failed = append(failed, name)
		}
	}
	return failed
}

// Forecast forecasts horizon steps past the training series with every fitted model. Failed
// fits and forecasts that error or panic are recorded as nil.
func (f *Fits) Forecast(horizon int) Forecasts {
	res := make(Forecasts, len(f.names))
	for _, name := range f.names {
		fitted := f.fitted[name]
		if fitted == nil {
			res[name] = nil
			continue
		}
		forecast, err := forecastOne(fitted, horizon)
		if err != nil {
			f.logger.Warn("model forecast failed", "model", name, "horizon", horizon, "error", err)
			res[name] = nil
			continue
		}
		res[name] = forecast
	}
	return res
}

func forecastOne(fitted Fitted, horizon int) (forecast []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			forecast = nil
			err = fmt.Errorf("%v, %w", r, ErrFitPanic)
		}
	}()
	return fitted.Forecast(horizon)
}
