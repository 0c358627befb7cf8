package models

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

const (
	maxFuncEvaluations = 5000
	convergeTolerance  = 1e-10
)

func logistic(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func logit(p float64) float64 {
	return math.Log(p / (1.0 - p))
}

// minimize runs Nelder-Mead on f from x0. Non-finite objective values are mapped to the
// largest float so the simplex moves away from them. The search stops with ctx's error once
// ctx is done.
func minimize(ctx context.Context, f func(x []float64) float64, x0 []float64) ([]float64, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			v := f(x)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return math.MaxFloat64
			}
			return v
		},
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: maxFuncEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   convergeTolerance,
			Relative:   convergeTolerance,
			Iterations: 200,
		},
	}

	res, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{SimplexSize: 0.5})
	if err != nil {
		return nil, fmt.Errorf("nelder-mead failed, %w", err)
	}
	for _, v := range res.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("parameters %v, %w", res.X, ErrNonFinite)
		}
	}
	if res.F == math.MaxFloat64 {
		return nil, fmt.Errorf("objective never finite, %w", ErrNonFinite)
	}
	return res.X, nil
}
