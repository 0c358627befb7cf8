package ses

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteForceRMSE recomputes the flat forecast error without the package helpers
func bruteForceRMSE(train, val []float64, alpha float64) float64 {
	level := train[0]
	for _, y := range train[1:] {
		level = alpha*y + (1-alpha)*level
	}
	sse := 0.0
	for _, y := range val {
		sse += (y - level) * (y - level)
	}
	return math.Sqrt(sse / float64(len(val)))
}

func TestDefaultAlphas(t *testing.T) {
	alphas := DefaultAlphas()
	require.Len(t, alphas, DefaultGridSize)
	for i, alpha := range alphas {
		assert.InDelta(t, 0.01*float64(i+1), alpha, 1e-12)
		assert.Greater(t, alpha, 0.0)
		assert.Less(t, alpha, 1.0)
	}

	assert.Nil(t, Alphas(0.1, 0.9, 0))
	assert.Equal(t, []float64{0.1}, Alphas(0.1, 0.9, 1))
}

func TestGridSearchHandComputed(t *testing.T) {
	train := []float64{10, 12, 14, 16}
	val := []float64{18, 20}
	alphas := []float64{0.9, 0.1, 0.5}

	// levels after smoothing train:
	//   alpha 0.1: 10.2, 10.58, 11.122
	//   alpha 0.5: 11, 12.5, 14.25
	//   alpha 0.9: 11.8, 13.78, 15.778
	expected := map[float64]float64{
		0.1: math.Sqrt((math.Pow(18-11.122, 2) + math.Pow(20-11.122, 2)) / 2),
		0.5: math.Sqrt((math.Pow(18-14.25, 2) + math.Pow(20-14.25, 2)) / 2),
		0.9: math.Sqrt((math.Pow(18-15.778, 2) + math.Pow(20-15.778, 2)) / 2),
	}

	res, err := GridSearch(train, val, alphas)
	require.NoError(t, err)

	for alpha, rmse := range expected {
		assert.InDelta(t, rmse, res.Scores[alpha], 1e-9)
	}
	assert.Equal(t, 0.9, res.Alpha)
	assert.InDelta(t, expected[0.9], res.Score, 1e-9)
	assert.InDeltaSlice(t, []float64{15.778, 15.778}, res.Forecast, 1e-9)
}

func TestGridSearchTieBreak(t *testing.T) {
	// a constant training series gives every alpha the same level
	train := []float64{5, 5, 5, 5}
	val := []float64{6, 4}

	res, err := GridSearch(train, val, []float64{0.7, 0.3, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0.3, res.Alpha)
	assert.InDelta(t, 1.0, res.Score, 1e-12)
}

func TestGridSearchIsMinimum(t *testing.T) {
	train := []float64{112, 118, 132, 129, 121, 135, 148, 148, 136, 119, 104, 118, 115, 126, 141}
	val := []float64{135, 125, 149, 170}
	alphas := DefaultAlphas()

	res, err := GridSearch(train, val, alphas)
	require.NoError(t, err)

	for _, alpha := range alphas {
		assert.LessOrEqual(t, res.Score, bruteForceRMSE(train, val, alpha)+TieTolerance)
	}
	assert.InDelta(t, bruteForceRMSE(train, val, res.Alpha), res.Score, 1e-9)

	again, err := GridSearch(train, val, alphas)
	require.NoError(t, err)
	assert.Equal(t, res.Alpha, again.Alpha)
	assert.Equal(t, res.Score, again.Score)
	assert.Equal(t, res.Forecast, again.Forecast)
}

func TestGridSearchDoesNotModifyInput(t *testing.T) {
	alphas := []float64{0.9, 0.1, 0.5}
	_, err := GridSearch([]float64{1, 2, 3}, []float64{4}, alphas)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.1, 0.5}, alphas)
}

func TestGridSearchErrors(t *testing.T) {
	testData := map[string]struct {
		train  []float64
		val    []float64
		alphas []float64
		err    error
	}{
		"empty grid": {
			train: []float64{1, 2},
			val:   []float64{3},
			err:   ErrEmptyGrid,
		},
		"empty train": {
			val:    []float64{3},
			alphas: []float64{0.5},
			err:    ErrEmptyGrid,
		},
		"empty val": {
			train:  []float64{1, 2},
			alphas: []float64{0.5},
			err:    ErrEmptyGrid,
		},
		"invalid candidate": {
			train:  []float64{1, 2},
			val:    []float64{3},
			alphas: []float64{0.5, 1.5},
			err:    ErrInvalidAlpha,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := GridSearch(td.train, td.val, td.alphas)
			assert.ErrorIs(t, err, td.err)
		})
	}
}
