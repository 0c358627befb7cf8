package timedataset

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMontonic        = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrCannotInferFreq    = errors.New("cannot infer frequency from time slice")
	ErrSliceOutOfRange    = errors.New("slice bounds out of range")
)

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length and time must be strictly increasing.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and value slice.
// The inputs are copied so later changes to them do not leak into the dataset.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMontonic)
		}
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	td := &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}

	return td, nil
}

// Len returns the number of observations
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.Y)
}

func (td *TimeDataset) Copy() *TimeDataset {
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.T))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

// Slice returns a new dataset holding the observations in [start, end).
func (td *TimeDataset) Slice(start, end int) (*TimeDataset, error) {
	if start < 0 || end > td.Len() || start >= end {
		return nil, fmt.Errorf("[%d:%d] of length %d, %w", start, end, td.Len(), ErrSliceOutOfRange)
	}
	return NewUnivariateDataset(td.T[start:end], td.Y[start:end])
}

// Concat appends the observations of the input datasets in order. The result must remain
// strictly increasing in time.
func Concat(tds ...*TimeDataset) (*TimeDataset, error) {
	var n int
	for _, td := range tds {
		n += td.Len()
	}
	t := make([]time.Time, 0, n)
	y := make([]float64, 0, n)
	for _, td := range tds {
		if td == nil {
			continue
		}
		t = append(t, td.T...)
		y = append(y, td.Y...)
	}
	return NewUnivariateDataset(t, y)
}
