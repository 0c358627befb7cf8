package models

import (
	"context"
	"fmt"
	"math"

	"github.com/aouyang1/go-forecastbench/ses"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SESAuto is simple exponential smoothing with alpha and the initial level estimated by
// minimising the in-sample one step squared error
type SESAuto struct{}

func (SESAuto) Name() string { return NameSESAuto }

func (m SESAuto) Fit(train []float64) (Fitted, error) {
	return m.FitContext(context.Background(), train)
}

func (SESAuto) FitContext(ctx context.Context, train []float64) (Fitted, error) {
	if err := requireLen(train, 2); err != nil {
		return nil, err
	}
	if err := requireFinite(train); err != nil {
		return nil, err
	}

	// the leading placeholder is never read, it lets every observation be predicted
	// from the estimated initial level
	history := append([]float64{0}, train...)
	sse := func(alpha, level0 float64) (float64, float64) {
		fitted, level, err := ses.SmoothFrom(history, alpha, level0)
		if err != nil {
			return math.Inf(1), 0
		}
		d := floats.Distance(fitted, train, 2)
		return d * d, level
	}

	x, err := minimize(ctx, func(x []float64) float64 {
		v, _ := sse(logistic(x[0]), x[1])
		return v
	}, []float64{logit(0.5), train[0]})
	if err != nil {
		return nil, err
	}

	alpha := logistic(x[0])
	_, level := sse(alpha, x[1])
	return &smoothingFit{alpha: alpha, level: level}, nil
}

// Holt is additive trend exponential smoothing with alpha and beta estimated from the
// training series
type Holt struct{}

func (Holt) Name() string { return NameHolt }

func (m Holt) Fit(train []float64) (Fitted, error) {
	return m.FitContext(context.Background(), train)
}

func (Holt) FitContext(ctx context.Context, train []float64) (Fitted, error) {
	if err := requireLen(train, 3); err != nil {
		return nil, err
	}
	if err := requireFinite(train); err != nil {
		return nil, err
	}

	x, err := minimize(ctx, func(x []float64) float64 {
		sse, _, _ := holt(train, logistic(x[0]), logistic(x[1]))
		return sse
	}, []float64{logit(0.5), logit(0.1)})
	if err != nil {
		return nil, err
	}

	alpha, beta := logistic(x[0]), logistic(x[1])
	_, level, trend := holt(train, alpha, beta)
	return &smoothingFit{alpha: alpha, beta: beta, level: level, trend: trend}, nil
}

func holt(y []float64, alpha, beta float64) (float64, float64, float64) {
	level := y[0]
	trend := y[1] - y[0]
	var sse float64
	for t := 1; t < len(y); t++ {
		e := y[t] - (level + trend)
		sse += e * e

		prev := level
		level = alpha*y[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prev) + (1-beta)*trend
	}
	return sse, level, trend
}

// HoltWinters is additive trend and additive seasonality exponential smoothing. A Period
// of 0 infers the season length from the autocorrelation of the training series.
type HoltWinters struct {
	Period int
}

func (HoltWinters) Name() string { return NameHoltWinters }

func (hw HoltWinters) Fit(train []float64) (Fitted, error) {
	return hw.FitContext(context.Background(), train)
}

func (hw HoltWinters) FitContext(ctx context.Context, train []float64) (Fitted, error) {
	m, err := resolvePeriod(train, hw.Period)
	if err != nil {
		return nil, err
	}
	if err := requireLen(train, 2*m); err != nil {
		return nil, fmt.Errorf("period %d, %w", m, err)
	}
	if err := requireFinite(train); err != nil {
		return nil, err
	}

	x, err := minimize(ctx, func(x []float64) float64 {
		sse, _ := holtWinters(train, m, logistic(x[0]), logistic(x[1]), logistic(x[2]))
		return sse
	}, []float64{logit(0.3), logit(0.1), logit(0.1)})
	if err != nil {
		return nil, err
	}

	res := &smoothingFit{
		alpha: logistic(x[0]),
		beta:  logistic(x[1]),
		gamma: logistic(x[2]),
	}
	_, state := holtWinters(train, m, res.alpha, res.beta, res.gamma)
	res.level = state.level
	res.trend = state.trend
	res.season = state.season
	return res, nil
}

type hwState struct {
	level  float64
	trend  float64
	season []float64
}

// holtWinters runs the additive recurrence. The level starts at the mean of the first
// cycle, the trend at the average per step change between the first two cycles and the
// seasonal indices at the first cycle's deviations from its mean. The returned season holds
// the last m seasonal indices in cycle order following the final observation.
func holtWinters(y []float64, m int, alpha, beta, gamma float64) (float64, hwState) {
	first := stat.Mean(y[:m], nil)
	second := stat.Mean(y[m:2*m], nil)

	level := first
	trend := (second - first) / float64(m)
	season := make([]float64, len(y))
	for i := 0; i < m; i++ {
		season[i] = y[i] - first
	}

	var sse float64
	for t := m; t < len(y); t++ {
		e := y[t] - (level + trend + season[t-m])
		sse += e * e

		prev := level
		level = alpha*(y[t]-season[t-m]) + (1-alpha)*(level+trend)
		trend = beta*(level-prev) + (1-beta)*trend
		season[t] = gamma*(y[t]-level) + (1-gamma)*season[t-m]
	}

	last := make([]float64, m)
	copy(last, season[len(y)-m:])
	return sse, hwState{level: level, trend: trend, season: last}
}

// smoothingFit forecasts level + h*trend + season, covering SES (no trend or season), Holt
// (no season) and Holt-Winters
type smoothingFit struct {
	alpha, beta, gamma float64
	level, trend       float64
	season             []float64
}

func (f *smoothingFit) Params() map[string]float64 {
	p := map[string]float64{"alpha": f.alpha, "level": f.level}
	if f.beta > 0 {
		p["beta"] = f.beta
		p["trend"] = f.trend
	}
	if f.season != nil {
		p["gamma"] = f.gamma
	}
	return p
}

func (f *smoothingFit) Forecast(horizon int) ([]float64, error) {
	if err := validateHorizon(horizon); err != nil {
		return nil, err
	}
	res := make([]float64, horizon)
	for h := range res {
		res[h] = f.level + float64(h+1)*f.trend
		if len(f.season) > 0 {
			res[h] += f.season[h%len(f.season)]
		}
	}
	return res, nil
}
