package models

import (
	"fmt"
	"slices"
)

// RosterOptions selects and configures the models fitted by FitAll
type RosterOptions struct {
	Names []string `json:"names" mapstructure:"names"`

	// SeasonalPeriod is the season length used by HoltWinters and SeasonalNaive. 0 infers
	// it from the training series.
	SeasonalPeriod int   `json:"seasonal_period" mapstructure:"seasonal_period"`
	ARIMA          ARIMA `json:"arima" mapstructure:"arima"`
}

func NewDefaultRosterOptions() *RosterOptions {
	return &RosterOptions{
		Names: DefaultRosterNames(),
		ARIMA: NewDefaultARIMA(),
	}
}

// DefaultRosterNames lists every available model in report order
func DefaultRosterNames() []string {
	return []string{
		NameSESAuto,
		NameHolt,
		NameHoltWinters,
		NameARIMA,
		NameNaive,
		NameSeasonalNaive,
		NameDrift,
		NameLinearTrend,
	}
}

var constructors = map[string]func(opt *RosterOptions) Model{
	NameSESAuto:       func(*RosterOptions) Model { return SESAuto{} },
	NameHolt:          func(*RosterOptions) Model { return Holt{} },
	NameHoltWinters:   func(opt *RosterOptions) Model { return HoltWinters{Period: opt.SeasonalPeriod} },
	NameARIMA:         func(opt *RosterOptions) Model { return opt.ARIMA },
	NameNaive:         func(*RosterOptions) Model { return Naive{} },
	NameSeasonalNaive: func(opt *RosterOptions) Model { return SeasonalNaive{Period: opt.SeasonalPeriod} },
	NameDrift:         func(*RosterOptions) Model { return Drift{} },
	NameLinearTrend:   func(*RosterOptions) Model { return LinearTrend{} },
}

// Validate checks every configured name is a known model, appears once, and that the
// seasonal period and ARIMA order are usable
func (r *RosterOptions) Validate() error {
	if r.SeasonalPeriod < 0 || r.SeasonalPeriod == 1 {
		return fmt.Errorf("got %d, %w", r.SeasonalPeriod, ErrInvalidPeriod)
	}
	if err := r.ARIMA.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(r.Names))
	for _, name := range r.Names {
		if _, exists := constructors[name]; !exists {
			return fmt.Errorf("%q, %w", name, ErrUnknownModel)
		}
		if seen[name] {
			return fmt.Errorf("%q listed twice, %w", name, ErrUnknownModel)
		}
		seen[name] = true
	}
	return nil
}

// NewRoster builds the configured models in order. A nil options uses the defaults and an
// empty name list selects every model.
func NewRoster(opt *RosterOptions) ([]Model, error) {
	if opt == nil {
		opt = NewDefaultRosterOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	names := opt.Names
	if len(names) == 0 {
		names = DefaultRosterNames()
	}

	roster := make([]Model, 0, len(names))
	for _, name := range slices.Clone(names) {
		roster = append(roster, constructors[name](opt))
	}
	return roster, nil
}
