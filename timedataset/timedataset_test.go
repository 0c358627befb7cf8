package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnivariateDataset(t *testing.T) {
	testData := map[string]struct {
		t        []time.Time
		y        []float64
		expected *TimeDataset
		err      error
	}{
		"no training data": {
			err: ErrNoTrainingData,
		},
		"length mismatch": {
			y:   []float64{1},
			err: ErrDatasetLenMismatch,
		},
		"non increasing time": {
			t: []time.Time{
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{1, 2},
			err: ErrNonMontonic,
		},
		"duplicate time": {
			t: []time.Time{
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{1, 2},
			err: ErrNonMontonic,
		},
		"valid": {
			t: []time.Time{
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			y: []float64{1, 2},
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{1, 2},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := NewUnivariateDataset(td.t, td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, ds)
		})
	}
}

func TestNewUnivariateDatasetCopiesInput(t *testing.T) {
	tSeries := GenerateMonthlyT(3, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))
	y := []float64{1, 2, 3}

	ds, err := NewUnivariateDataset(tSeries, y)
	require.NoError(t, err)

	y[0] = 100
	assert.Equal(t, []float64{1, 2, 3}, ds.Y)
}

func TestCopy(t *testing.T) {
	tSeries := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	y := []float64{0, 1}
	ds, err := NewUnivariateDataset(tSeries, y)
	require.NoError(t, err)

	nextDs := ds.Copy()
	require.Equal(t, ds, nextDs)

	ds.T = []time.Time{
		time.Date(1970, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(1970, 1, 4, 0, 0, 0, 0, time.UTC),
	}
	require.NotEqual(t, nextDs, ds)
}

func TestSlice(t *testing.T) {
	tSeries := GenerateMonthlyT(5, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))
	ds, err := NewUnivariateDataset(tSeries, []float64{0, 1, 2, 3, 4})
	require.NoError(t, err)

	testData := map[string]struct {
		start    int
		end      int
		expected []float64
		err      error
	}{
		"full":          {start: 0, end: 5, expected: []float64{0, 1, 2, 3, 4}},
		"middle":        {start: 1, end: 3, expected: []float64{1, 2}},
		"empty":         {start: 2, end: 2, err: ErrSliceOutOfRange},
		"negative":      {start: -1, end: 2, err: ErrSliceOutOfRange},
		"past the end":  {start: 3, end: 6, err: ErrSliceOutOfRange},
		"reversed span": {start: 3, end: 1, err: ErrSliceOutOfRange},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := ds.Slice(td.start, td.end)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, res.Y)
			assert.Equal(t, tSeries[td.start:td.end], res.T)
		})
	}
}

func TestConcat(t *testing.T) {
	tSeries := GenerateMonthlyT(4, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))
	ds, err := NewUnivariateDataset(tSeries, []float64{0, 1, 2, 3})
	require.NoError(t, err)

	first, err := ds.Slice(0, 2)
	require.NoError(t, err)
	second, err := ds.Slice(2, 4)
	require.NoError(t, err)

	res, err := Concat(first, second)
	require.NoError(t, err)
	assert.Equal(t, ds, res)

	_, err = Concat(second, first)
	assert.ErrorIs(t, err, ErrNonMontonic)

	_, err = Concat()
	assert.ErrorIs(t, err, ErrNoTrainingData)
}
