package report

import (
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/aouyang1/go-forecastbench/models"
	"github.com/aouyang1/go-forecastbench/stats"
	"github.com/aouyang1/go-forecastbench/timedataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. Each
// series in y must have the same length as t. NaN values are drawn as gaps.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) (*charts.Line, error) {
	if len(seriesName) != len(y) {
		return nil, fmt.Errorf("got %d names for %d series, %w", len(seriesName), len(y), ErrSeriesLenMismatch)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	x := make([]string, 0, len(t))
	for _, ts := range t {
		x = append(x, FormatTime(ts))
	}
	line = line.SetXAxis(x)

	for i, series := range y {
		if len(series) != len(t) {
			return nil, fmt.Errorf("series %q has %d values for %d timestamps, %w", seriesName[i], len(series), len(t), ErrSeriesLenMismatch)
		}
		lineData := make([]opts.LineData, 0, len(series))
		for _, v := range series {
			if math.IsNaN(v) {
				lineData = append(lineData, opts.LineData{Value: nil})
				continue
			}
			lineData = append(lineData, opts.LineData{Value: v})
		}
		line = line.AddSeries(seriesName[i], lineData)
	}
	return line, nil
}

// PlotSeriesAndForecasts renders the train, validation and test segments with every
// available forecast over the horizon timestamps. Absent forecasts are left out.
func PlotSeriesAndForecasts(w io.Writer, train, val, test *timedataset.TimeDataset, horizon []time.Time, forecasts models.Forecasts) error {
	segments := []*timedataset.TimeDataset{train, val, test}

	var t []time.Time
	for _, seg := range segments {
		if seg != nil {
			t = append(t, seg.T...)
		}
	}
	t = append(t, horizon...)
	slices.SortFunc(t, func(a, b time.Time) int { return a.Compare(b) })
	t = slices.CompactFunc(t, func(a, b time.Time) bool { return a.Equal(b) })

	names := []string{"train", "validation", "test"}
	y := make([][]float64, 0, len(segments)+len(forecasts))
	for _, seg := range segments {
		if seg == nil {
			y = append(y, align(t, nil, nil))
			continue
		}
		y = append(y, align(t, seg.T, seg.Y))
	}

	for _, name := range forecasts.Names() {
		forecast := forecasts[name]
		if forecast == nil {
			continue
		}
		n := min(len(forecast), len(horizon))
		names = append(names, name)
		y = append(y, align(t, horizon[:n], forecast[:n]))
	}

	line, err := LineTSeries("Series with forecasts", names, t, y)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}

// PlotDecomposition renders the observed series and its trend, seasonal and residual
// components as stacked charts
func PlotDecomposition(w io.Writer, td *timedataset.TimeDataset, d *stats.Decomposition) error {
	if td == nil || d == nil {
		return ErrNothingToPlot
	}

	page := components.NewPage()
	for _, c := range []struct {
		title string
		y     []float64
	}{
		{"Observed", td.Y},
		{"Trend", d.Trend},
		{"Seasonal", d.Seasonal},
		{"Residual", d.Residual},
	} {
		line, err := LineTSeries(c.title, []string{c.title}, td.T, [][]float64{c.y})
		if err != nil {
			return err
		}
		page.AddCharts(line)
	}
	return page.Render(w)
}

// align places the values observed at ts onto the axis t, leaving NaN elsewhere
func align(t, ts []time.Time, y []float64) []float64 {
	idx := make(map[time.Time]int, len(ts))
	for i, v := range ts {
		idx[v.UTC()] = i
	}
	res := make([]float64, len(t))
	for i, v := range t {
		j, exists := idx[v.UTC()]
		if !exists {
			res[i] = math.NaN()
			continue
		}
		res[i] = y[j]
	}
	return res
}
