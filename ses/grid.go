package ses

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/aouyang1/go-forecastbench/score"
	"gonum.org/v1/gonum/floats"
)

var ErrEmptyGrid = errors.New("empty grid search")

// TieTolerance is the RMSE difference below which two candidates are treated as equal, in
// which case the smaller alpha is kept.
const TieTolerance = 1e-9

const (
	DefaultGridMin  = 0.01
	DefaultGridMax  = 0.99
	DefaultGridSize = 99
)

// DefaultAlphas returns the candidate grid 0.01, 0.02, ..., 0.99
func DefaultAlphas() []float64 {
	return Alphas(DefaultGridMin, DefaultGridMax, DefaultGridSize)
}

// Alphas returns n evenly spaced candidates from lo to hi inclusive
func Alphas(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// GridResult is the outcome of a grid search
type GridResult struct {
	Alpha    float64             `json:"alpha"`
	Score    float64             `json:"rmse"`
	Forecast []float64           `json:"forecast"`
	Scores   map[float64]float64 `json:"-"`
}

// GridSearch fits SES on train for every candidate alpha, forecasts len(val) steps and keeps
// the candidate with the lowest validation RMSE. Candidates are visited in ascending order
// and only replace the best when they improve on it by more than TieTolerance.
func GridSearch(train, val, alphas []float64) (*GridResult, error) {
	if len(alphas) == 0 {
		return nil, fmt.Errorf("no candidate alphas, %w", ErrEmptyGrid)
	}
	if len(train) == 0 {
		return nil, fmt.Errorf("no training data, %w", ErrEmptyGrid)
	}
	if len(val) == 0 {
		return nil, fmt.Errorf("no validation data, %w", ErrEmptyGrid)
	}

	candidates := slices.Clone(alphas)
	slices.Sort(candidates)
	for _, alpha := range candidates {
		if err := validateAlpha(alpha); err != nil {
			return nil, fmt.Errorf("%w, %w", err, ErrEmptyGrid)
		}
	}

	res := &GridResult{
		Score:  math.Inf(1),
		Scores: make(map[float64]float64, len(candidates)),
	}
	for _, alpha := range candidates {
		forecast, err := ForecastLast(train, alpha, len(val))
		if err != nil {
			return nil, err
		}
		rmse, err := score.RMSE(forecast, val)
		if err != nil {
			return nil, fmt.Errorf("unable to score alpha %v, %w", alpha, err)
		}
		res.Scores[alpha] = rmse

		if res.Forecast == nil || rmse < res.Score-TieTolerance {
			res.Alpha = alpha
			res.Score = rmse
			res.Forecast = forecast
		}
	}
	return res, nil
}
