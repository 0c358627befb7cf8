package timedataset

import (
	"math"
	"time"
)

type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}

	lastTime = t[len(t)-1]
	return lastTime
}

func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		delta := t[i].Sub(t[i-1])
		frequencies[delta] += 1
	}

	var maxCnt int
	maxDelta := time.Duration(math.MaxInt64)

	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	return maxDelta, nil
}

// IsMonthly reports whether every point falls on the same day of month and consecutive
// points are exactly one calendar month apart.
func (t TimeSlice) IsMonthly() bool {
	if len(t) < 2 {
		return false
	}
	for i := 1; i < len(t); i++ {
		if !t[i-1].AddDate(0, 1, 0).Equal(t[i]) {
			return false
		}
	}
	return true
}

// Extend returns the n time points following the end of the slice. Monthly series step by
// calendar month, everything else by the most common interval.
func (t TimeSlice) Extend(n int) ([]time.Time, error) {
	if n < 0 {
		n = 0
	}
	lastTime := t.EndTime()
	out := make([]time.Time, 0, n)
	if t.IsMonthly() {
		for i := 1; i <= n; i++ {
			out = append(out, lastTime.AddDate(0, i, 0))
		}
		return out, nil
	}

	freq, err := t.EstimateFreq()
	if err != nil {
		return nil, err
	}
	for i := 1; i <= n; i++ {
		out = append(out, lastTime.Add(time.Duration(i)*freq))
	}
	return out, nil
}
