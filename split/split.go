// Package split partitions a time series chronologically into train, validation and test sets.
package split

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-forecastbench/timedataset"
)

var ErrInvalidSplit = errors.New("invalid split")

const MinObservations = 3

// Options controls the partition sizes. When either ValSize or TestSize is set the split
// holds out fixed trailing lengths, otherwise the fractions are used and test takes the
// remainder.
type Options struct {
	TrainFraction float64 `json:"train_fraction" mapstructure:"train_fraction"`
	ValFraction   float64 `json:"val_fraction" mapstructure:"val_fraction"`
	ValSize       int     `json:"val_size" mapstructure:"val_size"`
	TestSize      int     `json:"test_size" mapstructure:"test_size"`
}

func NewDefaultOptions() *Options {
	return &Options{
		TrainFraction: 0.70,
		ValFraction:   0.15,
	}
}

func (o *Options) fixed() bool {
	return o.ValSize > 0 || o.TestSize > 0
}

// Validate checks the options independent of any series length
func (o *Options) Validate() error {
	if o.ValSize < 0 || o.TestSize < 0 {
		return fmt.Errorf("val size %d and test size %d must not be negative, %w", o.ValSize, o.TestSize, ErrInvalidSplit)
	}
	if o.fixed() {
		if o.ValSize == 0 || o.TestSize == 0 {
			return fmt.Errorf("val size %d and test size %d must both be set, %w", o.ValSize, o.TestSize, ErrInvalidSplit)
		}
		return nil
	}
	if !(o.TrainFraction > 0 && o.TrainFraction < 1) || !(o.ValFraction > 0 && o.ValFraction < 1) {
		return fmt.Errorf(
			"train fraction %.3f and val fraction %.3f must be within (0, 1), %w",
			o.TrainFraction, o.ValFraction, ErrInvalidSplit,
		)
	}
	if o.TrainFraction+o.ValFraction >= 1 {
		return fmt.Errorf(
			"train fraction %.3f and val fraction %.3f leave no room for test, %w",
			o.TrainFraction, o.ValFraction, ErrInvalidSplit,
		)
	}
	return nil
}

// Sizes returns the number of observations assigned to train, val and test for a series of
// length n.
func (o *Options) Sizes(n int) (int, int, int, error) {
	if err := o.Validate(); err != nil {
		return 0, 0, 0, err
	}
	if n < MinObservations {
		return 0, 0, 0, fmt.Errorf("need at least %d observations, got %d, %w", MinObservations, n, ErrInvalidSplit)
	}

	var nTrain, nVal, nTest int
	if o.fixed() {
		nVal = o.ValSize
		nTest = o.TestSize
		nTrain = n - nVal - nTest
	} else {
		nTrain = int(math.Floor(float64(n) * o.TrainFraction))
		nVal = int(math.Floor(float64(n) * o.ValFraction))
		nTest = n - nTrain - nVal
	}

	if nTrain < 1 || nVal < 1 || nTest < 1 {
		return 0, 0, 0, fmt.Errorf(
			"series of length %d yields train %d, val %d, test %d, %w",
			n, nTrain, nVal, nTest, ErrInvalidSplit,
		)
	}
	return nTrain, nVal, nTest, nil
}

// Split holds three contiguous chronological partitions of a series
type Split struct {
	Train *timedataset.TimeDataset
	Val   *timedataset.TimeDataset
	Test  *timedataset.TimeDataset
}

// New partitions the dataset by position. No observation is shuffled or shared between
// partitions. If no options are provided a default is used.
func New(td *timedataset.TimeDataset, opt *Options) (*Split, error) {
	if td == nil {
		return nil, fmt.Errorf("no time series, %w", ErrInvalidSplit)
	}
	if opt == nil {
		opt = NewDefaultOptions()
	}

	n := td.Len()
	nTrain, nVal, _, err := opt.Sizes(n)
	if err != nil {
		return nil, err
	}

	train, err := td.Slice(0, nTrain)
	if err != nil {
		return nil, fmt.Errorf("unable to slice train, %w", err)
	}
	val, err := td.Slice(nTrain, nTrain+nVal)
	if err != nil {
		return nil, fmt.Errorf("unable to slice val, %w", err)
	}
	test, err := td.Slice(nTrain+nVal, n)
	if err != nil {
		return nil, fmt.Errorf("unable to slice test, %w", err)
	}

	return &Split{
		Train: train,
		Val:   val,
		Test:  test,
	}, nil
}

// TrainVal returns the train and validation partitions joined in order
func (s *Split) TrainVal() (*timedataset.TimeDataset, error) {
	return timedataset.Concat(s.Train, s.Val)
}

// Len returns the total number of observations across partitions
func (s *Split) Len() int {
	return s.Train.Len() + s.Val.Len() + s.Test.Len()
}
