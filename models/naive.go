package models

import (
	"fmt"
	"slices"

	"github.com/aouyang1/go-forecastbench/stats"
)

// Naive repeats the last observation
type Naive struct{}

func (Naive) Name() string { return NameNaive }

func (Naive) Fit(train []float64) (Fitted, error) {
	if err := requireLen(train, 1); err != nil {
		return nil, err
	}
	return &driftFit{last: train[len(train)-1]}, nil
}

// Drift extends the line from the first to the last observation
type Drift struct{}

func (Drift) Name() string { return NameDrift }

func (Drift) Fit(train []float64) (Fitted, error) {
	if err := requireLen(train, 2); err != nil {
		return nil, err
	}
	n := len(train)
	return &driftFit{
		last:  train[n-1],
		slope: (train[n-1] - train[0]) / float64(n-1),
	}, nil
}

type driftFit struct {
	last  float64
	slope float64
}

func (f *driftFit) Params() map[string]float64 {
	return map[string]float64{"slope": f.slope}
}

func (f *driftFit) Forecast(horizon int) ([]float64, error) {
	if err := validateHorizon(horizon); err != nil {
		return nil, err
	}
	res := make([]float64, horizon)
	for h := range res {
		res[h] = f.last + float64(h+1)*f.slope
	}
	return res, nil
}

// SeasonalNaive repeats the last observed seasonal cycle. A Period of 0 infers it from the
// autocorrelation of the training series.
type SeasonalNaive struct {
	Period int
}

func (SeasonalNaive) Name() string { return NameSeasonalNaive }

func (s SeasonalNaive) Fit(train []float64) (Fitted, error) {
	m, err := resolvePeriod(train, s.Period)
	if err != nil {
		return nil, err
	}
	if err := requireLen(train, m); err != nil {
		return nil, err
	}
	return &seasonalNaiveFit{cycle: slices.Clone(train[len(train)-m:])}, nil
}

type seasonalNaiveFit struct {
	cycle []float64
}

func (f *seasonalNaiveFit) Forecast(horizon int) ([]float64, error) {
	if err := validateHorizon(horizon); err != nil {
		return nil, err
	}
	res := make([]float64, horizon)
	for h := range res {
		res[h] = f.cycle[h%len(f.cycle)]
	}
	return res, nil
}

// resolvePeriod returns period when set, otherwise the dominant autocorrelation period of
// train searched up to half its length
func resolvePeriod(train []float64, period int) (int, error) {
	if period < 0 || period == 1 {
		return 0, fmt.Errorf("got %d, %w", period, ErrInvalidPeriod)
	}
	if period > 0 {
		return period, nil
	}
	m, err := stats.DominantPeriod(train, 2, len(train)/2)
	if err != nil {
		return 0, fmt.Errorf("unable to infer seasonal period, %w", err)
	}
	return m, nil
}
