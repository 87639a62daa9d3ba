package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tuikit.dev/almanac/dateutil"
)

// Settings holds the user-editable picker configuration, persisted as YAML
// in the data directory. Zero values mean "library default".
type Settings struct {
	// MinDate and MaxDate bound selectable dates, in YYYY-MM-DD form.
	MinDate string `yaml:"min_date,omitempty"`
	MaxDate string `yaml:"max_date,omitempty"`

	AllowSingleDayRange bool `yaml:"allow_single_day_range"`
	CloseOnSelection    bool `yaml:"close_on_selection"`
	SelectAllOnFocus    bool `yaml:"select_all_on_focus"`

	SingleMonthOnly          bool `yaml:"single_month_only"`
	ContiguousCalendarMonths bool `yaml:"contiguous_calendar_months"`

	// TimePrecision is "day" or "minute".
	TimePrecision string `yaml:"time_precision,omitempty"`

	// DateFormat is the display layout in Go reference-time form, e.g.
	// "02 Jan 2006". Parsing still accepts the default forms.
	DateFormat string `yaml:"date_format,omitempty"`

	// Shortcuts replace the stock quick-pick presets when non-empty. Each
	// offset counts days back from today.
	Shortcuts []ShortcutSetting `yaml:"shortcuts,omitempty"`

	// HistoryLimit caps how many recent selections the picker stores.
	HistoryLimit int `yaml:"history_limit,omitempty"`
}

// ShortcutSetting describes one quick-pick preset.
type ShortcutSetting struct {
	Label    string `yaml:"label"`
	DaysBack int    `yaml:"days_back"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		CloseOnSelection: true,
		TimePrecision:    "day",
		HistoryLimit:     50,
	}
}

// LoadSettings reads settings from path. A missing file yields the
// defaults; a malformed one is an error.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// SaveSettings writes settings to path as YAML.
func SaveSettings(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Validate rejects settings that cannot be applied.
func (s Settings) Validate() error {
	min, err := s.parseBound(s.MinDate)
	if err != nil {
		return fmt.Errorf("min_date: %w", err)
	}
	max, err := s.parseBound(s.MaxDate)
	if err != nil {
		return fmt.Errorf("max_date: %w", err)
	}
	if !min.IsZero() && !max.IsZero() && min.After(max) {
		return fmt.Errorf("min_date %s falls after max_date %s", s.MinDate, s.MaxDate)
	}

	switch s.TimePrecision {
	case "", "day", "minute":
	default:
		return fmt.Errorf("time_precision %q: want day or minute", s.TimePrecision)
	}

	if s.HistoryLimit < 0 {
		return fmt.Errorf("history_limit %d: must not be negative", s.HistoryLimit)
	}
	return nil
}

// Bounds returns the parsed date bounds; zero times mean unset.
func (s Settings) Bounds() (min, max time.Time) {
	min, _ = s.parseBound(s.MinDate)
	max, _ = s.parseBound(s.MaxDate)
	return min, max
}

func (s Settings) parseBound(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, ok := dateutil.DefaultParseDate(v)
	if !ok {
		return time.Time{}, fmt.Errorf("unparseable date %q", v)
	}
	return t, nil
}
