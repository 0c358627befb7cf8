package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidPeriod       = errors.New("period must be at least 2")
	ErrInsufficientPeriods = errors.New("need at least two full periods to decompose")
)

// Decomposition is a classical additive decomposition y = trend + seasonal + residual. Trend
// and Residual are NaN for the half period at each end where the centered moving average is
// undefined.
type Decomposition struct {
	Period   int       `json:"period"`
	Trend    []float64 `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
	Residual []float64 `json:"residual"`
}

// Decompose splits y into trend, seasonal and residual components. The trend is a centered
// moving average over one period (2xm for even periods), the seasonal pattern is the average
// detrended value at each position in the cycle shifted to sum to zero, and the residual is
// what remains.
func Decompose(y []float64, period int) (*Decomposition, error) {
	if period < 2 {
		return nil, fmt.Errorf("got %d, %w", period, ErrInvalidPeriod)
	}
	n := len(y)
	if n < 2*period {
		return nil, fmt.Errorf("got %d points for period %d, %w", n, period, ErrInsufficientPeriods)
	}

	trend := MovingAverage(y, period)

	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) {
			continue
		}
		pattern[i%period] += y[i] - trend[i]
		counts[i%period]++
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}
	floats.AddConst(-floats.Sum(pattern)/float64(period), pattern)

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period]
		residual[i] = y[i] - trend[i] - seasonal[i]
	}

	return &Decomposition{
		Period:   period,
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
	}, nil
}

// MovingAverage returns the centered moving average of y over window points, with NaN where
// the window does not fit. Even windows use a 2xm average with half weight on the end
// points so the result stays centered.
func MovingAverage(y []float64, window int) []float64 {
	n := len(y)
	res := make([]float64, n)
	for i := range res {
		res[i] = math.NaN()
	}
	if window < 1 || window > n {
		return res
	}

	half := window / 2
	for i := half; i < n-half; i++ {
		var sum float64
		if window%2 == 0 {
			sum = 0.5*y[i-half] + 0.5*y[i+half] + floats.Sum(y[i-half+1:i+half])
		} else {
			sum = floats.Sum(y[i-half : i+half+1])
		}
		res[i] = sum / float64(window)
	}
	return res
}
