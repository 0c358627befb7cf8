package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrTooFewObservations = errors.New("too few observations")
	ErrConstantSeries     = errors.New("series has zero variance")
	ErrNoSeasonality      = errors.New("no significant seasonal period found")
)

// ACF returns the sample autocorrelation of y for lags 0 through maxLag. maxLag is capped at
// len(y)-1.
func ACF(y []float64, maxLag int) ([]float64, error) {
	n := len(y)
	if n < 2 {
		return nil, fmt.Errorf("got %d points, %w", n, ErrTooFewObservations)
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		maxLag = 0
	}

	mean := stat.Mean(y, nil)
	var variance float64
	for _, v := range y {
		variance += (v - mean) * (v - mean)
	}
	if variance == 0 {
		return nil, ErrConstantSeries
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		var sum float64
		for i := k; i < n; i++ {
			sum += (y[i] - mean) * (y[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf, nil
}

// Diff returns the first difference of y
func Diff(y []float64) []float64 {
	if len(y) < 2 {
		return nil
	}
	res := make([]float64, len(y)-1)
	for i := 1; i < len(y); i++ {
		res[i-1] = y[i] - y[i-1]
	}
	return res
}

// DominantPeriod infers the seasonal period of y as the lag in [minLag, maxLag] with the
// largest autocorrelation peak of the first differenced series. Only local maxima above the
// 95% white noise bound 1.96/sqrt(n) qualify.
func DominantPeriod(y []float64, minLag, maxLag int) (int, error) {
	if minLag < 2 {
		minLag = 2
	}
	d := Diff(y)
	if maxLag > len(d)-2 {
		maxLag = len(d) - 2
	}
	if maxLag < minLag {
		return 0, fmt.Errorf("got %d points for lags [%d, %d], %w", len(y), minLag, maxLag, ErrTooFewObservations)
	}

	acf, err := ACF(d, maxLag+1)
	if err != nil {
		return 0, err
	}

	bound := 1.96 / math.Sqrt(float64(len(d)))
	period := 0
	best := bound
	for k := minLag; k <= maxLag; k++ {
		if acf[k] > acf[k-1] && acf[k] >= acf[k+1] && acf[k] > best {
			best = acf[k]
			period = k
		}
	}
	if period == 0 {
		return 0, ErrNoSeasonality
	}
	return period, nil
}
