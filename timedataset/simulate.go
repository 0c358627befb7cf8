package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// GenerateMonthlyT returns n timestamps on the first of consecutive months starting at start
func GenerateMonthlyT(n int, start time.Time) []time.Time {
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.AddDate(0, i, 0))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateTrendY returns slope * i for each index
func GenerateTrendY(n int, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, slope*float64(i))
	}
	return Series(y)
}

// GenerateSeasonalY returns a sine wave repeating every period observations
func GenerateSeasonalY(n, period int, amp float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, amp*math.Sin(2.0*math.Pi*float64(i%period)/float64(period)))
	}
	return Series(y)
}

// GenerateNoise returns gaussian noise with the given scale. The seed makes the output
// reproducible.
func GenerateNoise(n int, scale float64, seed uint64) Series {
	r := rand.New(rand.NewPCG(seed, seed))
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, r.NormFloat64()*scale)
	}
	return Series(y)
}
