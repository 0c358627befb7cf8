package models

import (
	"errors"
)

var (
	ErrUnknownModel       = errors.New("unknown model")
	ErrInsufficientData   = errors.New("insufficient training data")
	ErrInvalidHorizon     = errors.New("horizon must be at least 1")
	ErrInvalidPeriod      = errors.New("seasonal period must be at least 2")
	ErrInvalidOrder       = errors.New("invalid arima order")
	ErrNonStationary      = errors.New("estimated model is not stationary or not invertible")
	ErrNonFinite          = errors.New("estimation produced non-finite values")
	ErrFitTimeout         = errors.New("model fit timed out")
	ErrFitPanic           = errors.New("model fit panicked")
	ErrNoFit              = errors.New("model returned no fit")
	ErrNoDesignMatrix     = errors.New("no design matrix")
	ErrTargetLenMismatch  = errors.New("target length does not match design matrix rows")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
)
