// Package score computes forecast accuracy metrics between predicted and actual values.
package score

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch   = errors.New("predicted and actual have different lengths")
	ErrNoObservations   = errors.New("no observations to score")
	ErrNoNonZeroActuals = errors.New("no non-zero actual values to compute a percent error")
)

func validate(predicted, actual []float64) error {
	if len(predicted) != len(actual) {
		return fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return ErrNoObservations
	}
	return nil
}

// MSE computes the mean squared error. This is the same as sum((y-yhat)^2)/n.
// A score of 0 means a perfect match with no errors. Pairs with a NaN are skipped.
func MSE(predicted, actual []float64) (float64, error) {
	if err := validate(predicted, actual); err != nil {
		return 0, err
	}

	mse := 0.0
	n := 0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		diff := actual[i] - predicted[i]
		mse += diff * diff
		n++
	}
	if n == 0 {
		return 0, ErrNoObservations
	}
	mse /= float64(n)
	return mse, nil
}

// RMSE computes the root mean squared error
func RMSE(predicted, actual []float64) (float64, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error. This is the same as sum(abs(y-yhat))/n.
func MAE(predicted, actual []float64) (float64, error) {
	if err := validate(predicted, actual); err != nil {
		return 0, err
	}

	mae := 0.0
	n := 0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		mae += math.Abs(actual[i] - predicted[i])
		n++
	}
	if n == 0 {
		return 0, ErrNoObservations
	}
	mae /= float64(n)
	return mae, nil
}

// MAPE calculates the mean average percent error as a fraction, sum(abs((y-yhat)/y))/n.
// Points where the actual is zero are excluded from both the sum and the count.
// A score of 0 means a perfect match with no errors.
func MAPE(predicted, actual []float64) (float64, error) {
	if err := validate(predicted, actual); err != nil {
		return 0, err
	}

	mape := 0.0
	n := 0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) || actual[i] == 0 {
			continue
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
		n++
	}
	if n == 0 {
		return 0, ErrNoNonZeroActuals
	}
	mape /= float64(n)
	return mape, nil
}

// RSquared computes the r squared value between the predicted and actual where 1.0 means perfect
// fit and 0 represents no relationship
func RSquared(predicted, actual []float64) (float64, error) {
	if err := validate(predicted, actual); err != nil {
		return 0, err
	}

	predictCopy := make([]float64, 0, len(predicted))
	actualCopy := make([]float64, 0, len(actual))
	for i := 0; i < len(predicted); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		predictCopy = append(predictCopy, predicted[i])
		actualCopy = append(actualCopy, actual[i])
	}
	r2 := stat.RSquaredFrom(predictCopy, actualCopy, nil)
	if math.IsNaN(r2) {
		return 1.0, nil
	}
	return r2, nil
}
