package daterange

import (
	"time"

	"tuikit.dev/almanac/dateutil"
)

// Default error display strings, substituted for the field text while the
// errored field is not focused.
const (
	DefaultOverlappingDatesMessage = "Overlapping dates"
	DefaultInvalidDateMessage      = "Invalid date"
	DefaultOutOfRangeMessage       = "Out of range"
)

// Precision selects the finest unit the range picker edits. Sub-day
// precision enables the calendar's time row and the boundary-to-modify
// handoff instead of field focus transfers.
type Precision int

const (
	PrecisionDay Precision = iota
	PrecisionMinute
)

// ParseFallback is the policy for text that fails to parse.
type ParseFallback int

const (
	// FallbackInvalid treats unparseable text as an invalid date. Default.
	FallbackInvalid ParseFallback = iota
	// FallbackToday substitutes today for unparseable text, matching
	// permissive parser contracts that never report failure.
	FallbackToday
)

// Options configures a date-range input. The zero value is usable: an
// uncontrolled empty input with library-default bounds and the dateutil
// parse/format strategy.
type Options struct {
	// Value makes the input controlled: the host owns the selection and
	// pushes updates through SetValue. Mode is fixed at construction.
	Value *dateutil.Range

	// DefaultValue seeds an uncontrolled input's selection. Ignored when
	// Value is set.
	DefaultValue *dateutil.Range

	// MinDate and MaxDate bound valid dates, inclusive. Zero values take
	// the library-wide sentinels.
	MinDate time.Time
	MaxDate time.Time

	// AllowSingleDayRange permits equal start and end days.
	AllowSingleDayRange bool

	// CloseOnSelection closes the popover once a full valid range is
	// selected from the calendar.
	CloseOnSelection bool

	// SingleMonthOnly and ContiguousCalendarMonths are forwarded to the
	// calendar collaborator.
	SingleMonthOnly          bool
	ContiguousCalendarMonths bool

	// SelectAllOnFocus puts the cursor over the whole field text when a
	// field gains focus.
	SelectAllOnFocus bool

	// TimePrecision enables the sub-day time row when finer than a day.
	TimePrecision Precision

	// ParseDate and FormatDate are the injected text strategy. Defaults:
	// dateutil.DefaultParseDate / dateutil.DefaultFormatDate.
	ParseDate  func(string) (time.Time, bool)
	FormatDate func(time.Time) string

	// ParseFallback is applied when ParseDate reports failure.
	ParseFallback ParseFallback

	// OnChange receives every committed range. OnError receives the
	// best-effort full range when a commit is rejected. Both are invoked
	// synchronously and may be nil.
	OnChange func(dateutil.Range)
	OnError  func(dateutil.Range)

	// Error display strings. Empty values take the defaults above.
	OverlappingDatesMessage string
	InvalidDateMessage      string
	OutOfRangeMessage       string

	// Shortcuts are quick-pick presets listed beside the calendar.
	Shortcuts []Shortcut

	// Clock injects the time source. Used by tests.
	Clock func() time.Time
}

// withDefaults resolves zero option fields in place.
func (o *Options) withDefaults() {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.MinDate.IsZero() {
		o.MinDate = dateutil.DefaultMinDate()
	}
	if o.MaxDate.IsZero() {
		o.MaxDate = dateutil.DefaultMaxDate()
	}
	if o.ParseDate == nil {
		o.ParseDate = dateutil.DefaultParseDate
	}
	if o.FormatDate == nil {
		o.FormatDate = dateutil.DefaultFormatDate
	}
	if o.OverlappingDatesMessage == "" {
		o.OverlappingDatesMessage = DefaultOverlappingDatesMessage
	}
	if o.InvalidDateMessage == "" {
		o.InvalidDateMessage = DefaultInvalidDateMessage
	}
	if o.OutOfRangeMessage == "" {
		o.OutOfRangeMessage = DefaultOutOfRangeMessage
	}
}

// validate rejects structurally unusable configurations.
func (o Options) validate() error {
	if o.MinDate.After(o.MaxDate) {
		return ErrInvalidBounds
	}
	return nil
}

// timeEnabled reports whether a sub-day time control is configured.
func (o Options) timeEnabled() bool {
	return o.TimePrecision != PrecisionDay
}
