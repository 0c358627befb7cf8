// Package ses implements simple exponential smoothing from its recurrence along with a grid
// search over the smoothing coefficient.
//
// The smoothed level follows
//
//	level[0] = level0
//	level[t] = alpha*y[t] + (1-alpha)*level[t-1]
//
// and the one step ahead prediction of y[t] is level[t-1]. Beyond the last observation the
// forecast is flat at the final level.
package ses

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyHistory   = errors.New("no history to smooth")
	ErrInvalidAlpha   = errors.New("alpha must be within [0, 1]")
	ErrInvalidHorizon = errors.New("horizon must be at least 1")
)

func validateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return fmt.Errorf("got %v, %w", alpha, ErrInvalidAlpha)
	}
	return nil
}

// SmoothFrom runs the smoothing recurrence over history[1:] starting from level0. The
// returned fitted values are the one step ahead predictions aligned with history[1:], and
// level is the final smoothed level. An alpha of 0 never moves off level0.
func SmoothFrom(history []float64, alpha, level0 float64) ([]float64, float64, error) {
	if len(history) == 0 {
		return nil, 0, ErrEmptyHistory
	}
	if err := validateAlpha(alpha); err != nil {
		return nil, 0, err
	}

	fitted := make([]float64, len(history)-1)
	level := level0
	for t := 1; t < len(history); t++ {
		fitted[t-1] = level
		level = alpha*history[t] + (1-alpha)*level
	}
	return fitted, level, nil
}

// Smooth runs SmoothFrom with the first observation as the initial level
func Smooth(history []float64, alpha float64) ([]float64, float64, error) {
	if len(history) == 0 {
		return nil, 0, ErrEmptyHistory
	}
	return SmoothFrom(history, alpha, history[0])
}

// ForecastLast smooths the full history and repeats the final level horizon times. With
// alpha=1 this is the naive forecast of the last observation.
func ForecastLast(history []float64, alpha float64, horizon int) ([]float64, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("got %d, %w", horizon, ErrInvalidHorizon)
	}
	_, level, err := Smooth(history, alpha)
	if err != nil {
		return nil, err
	}

	forecast := make([]float64, horizon)
	for i := range forecast {
		forecast[i] = level
	}
	return forecast, nil
}
