package evaluation

import (
	"math"
	"testing"

	"github.com/aouyang1/go-forecastbench/models"
	"github.com/aouyang1/go-forecastbench/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 {
	return &v
}

func TestEvaluate(t *testing.T) {
	testData := map[string]struct {
		actual   []float64
		forecast []float64
		expected *Scores
		errIs    error
	}{
		"absent forecast": {
			actual:   []float64{1, 2},
			expected: &Scores{Err: NoForecast},
		},
		"exact forecast": {
			actual:   []float64{1, 2, 3},
			forecast: []float64{1, 2, 3},
			expected: &Scores{RMSE: ptr(0), MAE: ptr(0), MAPE: ptr(0)},
		},
		"constant offset": {
			actual:   []float64{10, 20},
			forecast: []float64{12, 18},
			expected: &Scores{RMSE: ptr(2), MAE: ptr(2), MAPE: ptr(0.15)},
		},
		"zero actuals excluded from mape": {
			actual:   []float64{0, 4},
			forecast: []float64{1, 5},
			expected: &Scores{RMSE: ptr(1), MAE: ptr(1), MAPE: ptr(0.25)},
		},
		"all zero actuals": {
			actual:   []float64{0, 0},
			forecast: []float64{3, 4},
			expected: &Scores{RMSE: ptr(math.Sqrt(12.5)), MAE: ptr(3.5)},
		},
		"length mismatch": {
			actual:   []float64{1, 2, 3},
			forecast: []float64{1, 2},
			errIs:    score.ErrResLenMismatch,
		},
		"partial nan forecast": {
			actual:   []float64{1, 2, 3},
			forecast: []float64{1, math.NaN(), 3},
			errIs:    ErrNonFinite,
		},
		"infinite forecast": {
			actual:   []float64{1, 2, 3},
			forecast: []float64{1, math.Inf(1), 3},
			errIs:    ErrNonFinite,
		},
		"nan actual": {
			actual:   []float64{1, math.NaN(), 3},
			forecast: []float64{1, 2, 3},
			errIs:    ErrNonFinite,
		},
		"empty horizon": {
			actual:   []float64{},
			forecast: []float64{},
			errIs:    score.ErrNoObservations,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			report := Evaluate(td.actual, models.Forecasts{"m": td.forecast})
			require.Contains(t, report, "m")
			res := report["m"]

			if td.errIs != nil {
				assert.Nil(t, res.RMSE)
				assert.Nil(t, res.MAE)
				assert.Nil(t, res.MAPE)
				assert.Contains(t, res.Err, td.errIs.Error())
				assert.False(t, res.Computed())
				return
			}

			assert.Equal(t, td.expected.Err, res.Err)
			assertMetric(t, td.expected.RMSE, res.RMSE)
			assertMetric(t, td.expected.MAE, res.MAE)
			assertMetric(t, td.expected.MAPE, res.MAPE)
		})
	}
}

func assertMetric(t *testing.T, expected, actual *float64) {
	t.Helper()
	if expected == nil {
		assert.Nil(t, actual)
		return
	}
	require.NotNil(t, actual)
	assert.InDelta(t, *expected, *actual, 1e-12)
}

func TestEvaluateMixed(t *testing.T) {
	actual := []float64{5, 6, 7}
	forecasts := models.Forecasts{
		"Naive":       {4, 4, 4},
		"HoltWinters": nil,
		"Short":       {5, 6},
		"Exact":       {5, 6, 7},
	}

	report := Evaluate(actual, forecasts)
	assert.Equal(t, []string{"Exact", "HoltWinters", "Naive", "Short"}, report.Names())
	assert.True(t, report["Naive"].Computed())
	assert.True(t, report["Exact"].Computed())
	assert.False(t, report["HoltWinters"].Computed())
	assert.False(t, report["Short"].Computed())
	assert.InDelta(t, 2.0, *report["Naive"].MAE, 1e-12)

	best, ok := report.Best()
	require.True(t, ok)
	assert.Equal(t, "Exact", best)

	again := Evaluate(actual, forecasts)
	assert.Equal(t, report, again)
}

func TestReportBestNone(t *testing.T) {
	_, ok := Report{"y": {Err: NoForecast}}.Best()
	assert.False(t, ok)
}
