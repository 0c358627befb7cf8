package report

import (
	"io"
	"time"

	"github.com/aouyang1/go-forecastbench/evaluation"
	"github.com/goccy/go-json"
)

// GridSummary is the outcome of the SES alpha search
type GridSummary struct {
	Alpha      float64 `json:"alpha"`
	RMSE       float64 `json:"rmse"`
	Candidates int     `json:"candidates"`
}

// SplitSummary records the partition sizes and boundaries
type SplitSummary struct {
	Train     int       `json:"train"`
	Val       int       `json:"val"`
	Test      int       `json:"test"`
	ValStart  time.Time `json:"val_start"`
	TestStart time.Time `json:"test_start"`
}

// Summary describes a whole run
type Summary struct {
	RunID          string                        `json:"run_id"`
	StartedAt      time.Time                     `json:"started_at"`
	Duration       string                        `json:"duration"`
	Config         interface{}                   `json:"config,omitempty"`
	Observations   int                           `json:"observations"`
	Split          SplitSummary                  `json:"split"`
	SeasonalPeriod int                           `json:"seasonal_period,omitempty"`
	Outliers       []time.Time                   `json:"outliers,omitempty"`
	Grid           GridSummary                   `json:"ses_grid"`
	FailedModels   map[string]string             `json:"failed_models,omitempty"`
	ModelParams    map[string]map[string]float64 `json:"model_params,omitempty"`
	BestVal        string                        `json:"best_val,omitempty"`
	BestTest       string                        `json:"best_test,omitempty"`
	ValScores      evaluation.Report             `json:"val_scores"`
	TestScores     evaluation.Report             `json:"test_scores"`
}

// WriteSummary writes the summary as indented JSON
func WriteSummary(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SaveSummary writes the summary to path
func SaveSummary(path string, s *Summary) error {
	return Save(path, func(w io.Writer) error {
		return WriteSummary(w, s)
	})
}
