// Package stats holds the descriptive statistics used to inspect a series before and after
// forecasting: decomposition, autocorrelation and outlier detection.
package stats

import (
	"math"
	"slices"
)

// DetectOutliers returns the indices of y falling outside Tukey style fences built from the
// lowerPerc and upperPerc percentiles widened by tukeyFactor times their spread. NaN values
// are ignored. When both percentiles fall on one plateau the spread is zero and any value off
// the plateau is flagged.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	sorted := make([]float64, 0, len(y))
	for _, v := range y {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 || lowerPerc >= upperPerc {
		return nil
	}
	slices.Sort(sorted)

	last := len(sorted) - 1
	lowerIdx := min(int(math.Floor(float64(last)*lowerPerc)), last)
	upperIdx := min(int(math.Ceil(float64(last)*upperPerc)), last)

	lower := sorted[lowerIdx]
	upper := sorted[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i, v := range y {
		if math.IsNaN(v) {
			continue
		}
		if v > upper || v < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}
