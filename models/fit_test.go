package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aouyang1/go-forecastbench/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	name string
	fit  func(train []float64) (Fitted, error)
}

func (s stubModel) Name() string { return s.name }

func (s stubModel) Fit(train []float64) (Fitted, error) { return s.fit(train) }

type panicForecast struct{}

func (panicForecast) Forecast(int) ([]float64, error) { panic("boom") }

func quietOptions(timeout time.Duration) *FitOptions {
	return &FitOptions{Timeout: timeout, Logger: logging.Nop()}
}

func TestNewRoster(t *testing.T) {
	roster, err := NewRoster(nil)
	require.NoError(t, err)

	names := make([]string, 0, len(roster))
	for _, m := range roster {
		names = append(names, m.Name())
	}
	assert.Equal(t, DefaultRosterNames(), names)

	roster, err = NewRoster(&RosterOptions{Names: []string{NameNaive, NameARIMA}, ARIMA: ARIMA{P: 2, D: 1}})
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, Naive{}, roster[0])
	assert.Equal(t, ARIMA{P: 2, D: 1}, roster[1])

	roster, err = NewRoster(&RosterOptions{Names: []string{NameHoltWinters}, SeasonalPeriod: 7})
	require.NoError(t, err)
	assert.Equal(t, HoltWinters{Period: 7}, roster[0])
}

func TestNewRosterErrors(t *testing.T) {
	testData := map[string]struct {
		opt *RosterOptions
		err error
	}{
		"unknown name": {
			opt: &RosterOptions{Names: []string{"Prophet"}},
			err: ErrUnknownModel,
		},
		"duplicate name": {
			opt: &RosterOptions{Names: []string{NameNaive, NameNaive}},
			err: ErrUnknownModel,
		},
		"period of one": {
			opt: &RosterOptions{SeasonalPeriod: 1},
			err: ErrInvalidPeriod,
		},
		"negative order": {
			opt: &RosterOptions{ARIMA: ARIMA{Q: -1}},
			err: ErrInvalidOrder,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := NewRoster(td.opt)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestFitAllShortSeries(t *testing.T) {
	roster, err := NewRoster(&RosterOptions{SeasonalPeriod: 12, ARIMA: NewDefaultARIMA()})
	require.NoError(t, err)

	train := []float64{4, 5, 3, 6, 5}
	fits := FitAll(context.Background(), train, roster, quietOptions(time.Second))

	assert.Equal(t, DefaultRosterNames(), fits.Names())
	assert.Equal(t, []string{NameHoltWinters, NameARIMA, NameSeasonalNaive}, fits.Failed())
	assert.ErrorIs(t, fits.Err(NameHoltWinters), ErrInsufficientData)
	assert.ErrorIs(t, fits.Err(NameARIMA), ErrInsufficientData)
	assert.Nil(t, fits.Get(NameARIMA))
	assert.NotNil(t, fits.Get(NameNaive))
	assert.NoError(t, fits.Err(NameNaive))

	forecasts := fits.Forecast(3)
	assert.Len(t, forecasts, len(roster))
	assert.Equal(t, []float64{5, 5, 5}, forecasts[NameNaive])
	assert.Nil(t, forecasts[NameHoltWinters])
	assert.Nil(t, forecasts[NameARIMA])
	for _, name := range []string{NameSESAuto, NameHolt, NameDrift, NameLinearTrend} {
		assert.Len(t, forecasts[name], 3, name)
	}

	assert.Equal(t, []float64{4, 5, 3, 6, 5}, train)
}

func TestFitAllIsolatesFailures(t *testing.T) {
	roster := []Model{
		stubModel{name: "slow", fit: func([]float64) (Fitted, error) {
			time.Sleep(200 * time.Millisecond)
			return Naive{}.Fit([]float64{1})
		}},
		stubModel{name: "panics", fit: func([]float64) (Fitted, error) {
			panic("divide by zero")
		}},
		stubModel{name: "empty", fit: func([]float64) (Fitted, error) {
			return nil, nil
		}},
		stubModel{name: "errors", fit: func([]float64) (Fitted, error) {
			return nil, errors.New("did not converge")
		}},
		stubModel{name: "bad forecast", fit: func([]float64) (Fitted, error) {
			return panicForecast{}, nil
		}},
		Naive{},
	}

	fits := FitAll(context.Background(), []float64{1, 2}, roster, quietOptions(20*time.Millisecond))

	assert.ErrorIs(t, fits.Err("slow"), ErrFitTimeout)
	assert.ErrorIs(t, fits.Err("panics"), ErrFitPanic)
	assert.ErrorIs(t, fits.Err("empty"), ErrNoFit)
	assert.EqualError(t, fits.Err("errors"), "did not converge")
	assert.Equal(t, []string{"slow", "panics", "empty", "errors"}, fits.Failed())

	forecasts := fits.Forecast(2)
	assert.Nil(t, forecasts["bad forecast"])
	assert.Contains(t, forecasts, "bad forecast")
	assert.Equal(t, []float64{2, 2}, forecasts[NameNaive])
}

func TestFitAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fits := FitAll(ctx, []float64{1, 2, 3}, []Model{Naive{}, Drift{}}, quietOptions(0))
	assert.Equal(t, []string{NameNaive, NameDrift}, fits.Failed())
	assert.ErrorIs(t, fits.Err(NameNaive), context.Canceled)
}

func TestFitAllNoTimeout(t *testing.T) {
	fits := FitAll(context.Background(), []float64{1, 2, 3}, []Model{Drift{}}, &FitOptions{Logger: logging.Nop()})
	assert.Empty(t, fits.Failed())
	assert.Equal(t, Forecasts{NameDrift: {4, 5}}, fits.Forecast(2))
}

func TestForecasts(t *testing.T) {
	f := Forecasts{
		"b": {1, 2, 3, 4},
		"a": nil,
		"c": {9},
	}
	assert.Equal(t, []string{"a", "b", "c"}, f.Names())

	tail := f.Tail(2)
	assert.Equal(t, Forecasts{"a": nil, "b": {3, 4}, "c": {9}}, tail)

	tail["b"][0] = 100
	assert.Equal(t, 3.0, f["b"][2])

	merged := f.Merge(Forecasts{"c": {7, 8}, "d": {1}})
	assert.Equal(t, []string{"a", "b", "c", "d"}, merged.Names())
	assert.Equal(t, []float64{7, 8}, merged["c"])
	assert.Nil(t, merged["a"])
	assert.Equal(t, []float64{9}, f["c"])
}

func TestFitContextStopsWhenDone(t *testing.T) {
	train := make([]float64, 48)
	for i := range train {
		train[i] = 100 + float64(i) + 10*float64(i%4)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()

	testData := map[string]struct {
		model ContextModel
		ctx   context.Context
		err   error
	}{
		"ses auto cancelled":     {model: SESAuto{}, ctx: cancelled, err: context.Canceled},
		"holt cancelled":         {model: Holt{}, ctx: cancelled, err: context.Canceled},
		"holt winters cancelled": {model: HoltWinters{Period: 4}, ctx: cancelled, err: context.Canceled},
		"arima cancelled":        {model: NewDefaultARIMA(), ctx: cancelled, err: context.Canceled},
		"arima deadline":         {model: NewDefaultARIMA(), ctx: expired, err: context.DeadlineExceeded},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			fitted, err := td.model.FitContext(td.ctx, train)
			assert.ErrorIs(t, err, td.err)
			assert.Nil(t, fitted)
		})
	}
}

func TestFitsParams(t *testing.T) {
	train := []float64{1, 3, 5, 7, 9}
	roster := []Model{LinearTrend{}, Drift{}, Naive{}, NewDefaultARIMA()}

	fits := FitAll(context.Background(), train, roster, quietOptions(time.Second))
	require.Equal(t, []string{NameARIMA}, fits.Failed())

	params := fits.Params()
	assert.NotContains(t, params, NameNaive)
	assert.NotContains(t, params, NameARIMA)

	require.Contains(t, params, NameLinearTrend)
	assert.InDelta(t, 1.0, params[NameLinearTrend]["intercept"], 1e-9)
	assert.InDelta(t, 2.0, params[NameLinearTrend]["slope"], 1e-9)
	assert.InDelta(t, 1.0, params[NameLinearTrend]["r_squared"], 1e-9)

	assert.Equal(t, map[string]float64{"slope": 2}, params[NameDrift])
}
