package timedataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrDataLoad          = errors.New("unable to load time series")
	ErrMissingColumn     = errors.New("column not found in header")
	ErrUnparsableDate    = errors.New("unparsable date")
	ErrUnparsableValue   = errors.New("unparsable value")
	ErrDuplicateTime     = errors.New("duplicate timestamp")
	ErrNoSourceSpecified = errors.New("no dataset or path specified")
)

// DateFormats are attempted in order when parsing the date column
var DateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"2006",
}

// Source names either a built-in dataset or a CSV file with its date and value columns
type Source struct {
	Dataset     string `json:"dataset,omitempty" mapstructure:"dataset"`
	Path        string `json:"path,omitempty" mapstructure:"path"`
	DateColumn  string `json:"date_column,omitempty" mapstructure:"date_column"`
	ValueColumn string `json:"value_column,omitempty" mapstructure:"value_column"`
}

// Load resolves the source into a chronologically sorted dataset. Every failure wraps
// ErrDataLoad.
func Load(src Source) (*TimeDataset, error) {
	if src.Path != "" {
		return LoadCSV(src.Path, src.DateColumn, src.ValueColumn)
	}
	if src.Dataset != "" {
		return Builtin(src.Dataset)
	}
	return nil, fmt.Errorf("%w, %w", ErrNoSourceSpecified, ErrDataLoad)
}

// LoadCSV reads a time series from a CSV file with a header row
func LoadCSV(path, dateCol, valueCol string) (*TimeDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w, %w", err, ErrDataLoad)
	}
	defer f.Close()

	return LoadCSVFromReader(f, dateCol, valueCol)
}

type observation struct {
	t time.Time
	y float64
}

// LoadCSVFromReader reads a time series from CSV content. Rows may appear in any order and
// are sorted by time, but duplicate timestamps are rejected.
func LoadCSVFromReader(r io.Reader, dateCol, valueCol string) (*TimeDataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read header, %w, %w", err, ErrDataLoad)
	}

	dateIdx, valueIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		switch h {
		case dateCol:
			dateIdx = i
		case valueCol:
			valueIdx = i
		}
	}
	if dateIdx == -1 {
		return nil, fmt.Errorf("date column %q, %w, %w", dateCol, ErrMissingColumn, ErrDataLoad)
	}
	if valueIdx == -1 {
		return nil, fmt.Errorf("value column %q, %w, %w", valueCol, ErrMissingColumn, ErrDataLoad)
	}

	var obs []observation
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d, %w, %w", line, err, ErrDataLoad)
		}

		ts, err := parseDate(record[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d, %w, %w", line, err, ErrDataLoad)
		}

		valStr := strings.TrimSpace(strings.Trim(record[valueIdx], "\""))
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("line %d, %q, %w, %w", line, valStr, ErrUnparsableValue, ErrDataLoad)
		}
		obs = append(obs, observation{t: ts, y: val})
	}

	if len(obs) == 0 {
		return nil, fmt.Errorf("%w, %w", ErrNoTrainingData, ErrDataLoad)
	}

	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].t.Before(obs[j].t)
	})

	t := make([]time.Time, len(obs))
	y := make([]float64, len(obs))
	for i, o := range obs {
		if i > 0 && o.t.Equal(obs[i-1].t) {
			return nil, fmt.Errorf("%s, %w, %w", o.t.Format(time.RFC3339), ErrDuplicateTime, ErrDataLoad)
		}
		t[i] = o.t
		y[i] = o.y
	}

	td, err := NewUnivariateDataset(t, y)
	if err != nil {
		return nil, fmt.Errorf("%w, %w", err, ErrDataLoad)
	}
	return td, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	for _, layout := range DateFormats {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q, %w", s, ErrUnparsableDate)
}
