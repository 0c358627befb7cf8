package models

import (
	"gonum.org/v1/gonum/mat"
)

// LinearTrend regresses the series on its time index and extrapolates the line
type LinearTrend struct{}

func (LinearTrend) Name() string { return NameLinearTrend }

func (LinearTrend) Fit(train []float64) (Fitted, error) {
	if err := requireLen(train, 2); err != nil {
		return nil, err
	}
	if err := requireFinite(train); err != nil {
		return nil, err
	}

	x := mat.NewDense(len(train), 1, indexRange(0, len(train)))
	ols := NewOLSRegression(nil)
	if err := ols.Fit(x, train); err != nil {
		return nil, err
	}
	r2, err := ols.Score(x, train)
	if err != nil {
		return nil, err
	}
	return &linearTrendFit{ols: ols, n: len(train), r2: r2}, nil
}

type linearTrendFit struct {
	ols *OLSRegression
	n   int
	r2  float64
}

func (f *linearTrendFit) Params() map[string]float64 {
	return map[string]float64{
		"intercept": f.ols.Intercept(),
		"slope":     f.ols.Coef()[0],
		"r_squared": f.r2,
	}
}

func (f *linearTrendFit) Forecast(horizon int) ([]float64, error) {
	if err := validateHorizon(horizon); err != nil {
		return nil, err
	}
	x := mat.NewDense(horizon, 1, indexRange(f.n, f.n+horizon))
	return f.ols.Predict(x)
}

func indexRange(start, end int) []float64 {
	idx := make([]float64, 0, end-start)
	for i := start; i < end; i++ {
		idx = append(idx, float64(i))
	}
	return idx
}
