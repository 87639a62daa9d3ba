package daterange

import (
	"time"

	"tuikit.dev/almanac/dateutil"
)

// Mode fixes who owns the selection for the component's lifetime.
type Mode int

const (
	// Uncontrolled: the input owns and persists the selection.
	Uncontrolled Mode = iota
	// Controlled: the host owns the selection; the input renders it and
	// requests changes through OnChange.
	Controlled
)

func (m Mode) String() string {
	if m == Controlled {
		return "controlled"
	}
	return "uncontrolled"
}

// boundaryState is the per-side transient state. The text buffer and hover
// string carry a set flag so "empty" and "unset" stay distinguishable; an
// unset buffer falls back to the formatted selected date in display.
type boundaryState struct {
	input    string
	inputSet bool
	hover    string
	hoverSet bool
	focused  bool

	// selected is the authoritative date in uncontrolled mode. It may hold
	// an invalid or out-of-range date so the error can be displayed.
	selected time.Time
}

// clearTransients drops text and hover buffers but leaves focus intact, so
// an external value change never interrupts active editing focus.
func (s *boundaryState) clearTransients() {
	s.input = ""
	s.inputSet = false
	s.hover = ""
	s.hoverSet = false
}

// rawValue returns the boundary's date with no validity filtering: the
// external value in controlled mode, the internal selection otherwise.
func (m *Model) rawValue(b dateutil.Boundary) time.Time {
	if m.mode == Controlled {
		return b.Of(m.controlledValue)
	}
	return m.state.Get(b).selected
}

// rawRange returns both raw boundaries.
func (m *Model) rawRange() dateutil.Range {
	return dateutil.Range{
		Start: m.rawValue(dateutil.BoundaryStart),
		End:   m.rawValue(dateutil.BoundaryEnd),
	}
}

// effectiveRange computes the displayed range: the single read path used
// regardless of mode.
//
// In controlled mode the external value is passed through except that the
// end date is suppressed while the start date overlaps it, which keeps the
// calendar's start highlight alive without showing an invalid combined
// range. In uncontrolled mode the internal selection gets the same overlap
// suppression plus validity filtering: invalid or out-of-range boundaries
// are replaced with the fallback.
func (m *Model) effectiveRange() dateutil.Range {
	raw := m.rawRange()

	if m.mode == Uncontrolled {
		if !raw.Start.IsZero() && !m.isDateValidAndInRange(raw.Start) {
			raw.Start = m.fallbackDate()
		}
		if !raw.End.IsZero() && !m.isDateValidAndInRange(raw.End) {
			raw.End = m.fallbackDate()
		}
	}

	if !raw.Start.IsZero() && !raw.End.IsZero() &&
		m.boundariesOverlap(raw.Start, dateutil.BoundaryStart, raw.End) {
		raw.End = m.fallbackDate()
	}

	return raw
}

// fallbackDate substitutes for suppressed or invalid boundaries. Unset by
// default: suppression simply hides the boundary.
func (m *Model) fallbackDate() time.Time {
	return time.Time{}
}

// isDateValidAndInRange reports whether date is a real date within
// [MinDate, MaxDate], inclusive.
func (m *Model) isDateValidAndInRange(date time.Time) bool {
	if date.IsZero() {
		return false
	}
	return !dateutil.DayBefore(date, m.opts.MinDate) && !dateutil.DayAfter(date, m.opts.MaxDate)
}

// boundariesOverlap reports whether date, placed on boundary b, conflicts
// with other (the opposite boundary's date): strictly past it, or equal to
// it when single-day ranges are disallowed.
func (m *Model) boundariesOverlap(date time.Time, b dateutil.Boundary, other time.Time) bool {
	if date.IsZero() || other.IsZero() {
		return false
	}
	if dateutil.SameDay(date, other) {
		return !m.opts.AllowSingleDayRange
	}
	if b == dateutil.BoundaryStart {
		return dateutil.DayAfter(date, other)
	}
	return dateutil.DayBefore(date, other)
}

// overlapsOther applies boundariesOverlap against the current raw value of
// the opposite boundary.
func (m *Model) overlapsOther(date time.Time, b dateutil.Boundary) bool {
	return m.boundariesOverlap(date, b, m.rawValue(b.Other()))
}

// isNextRangeValid gates every commit: valid, in range, and non-overlapping.
func (m *Model) isNextRangeValid(date time.Time, b dateutil.Boundary) bool {
	return m.isDateValidAndInRange(date) && !m.overlapsOther(date, b)
}

// classifyBoundary determines the error display state of a blurred field.
func (m *Model) classifyBoundary(b dateutil.Boundary) ErrorKind {
	bs := m.state.Get(b)

	// A kept raw buffer that parses to nothing is an unparseable entry.
	if bs.inputSet && bs.input != "" {
		if _, ok := m.parse(bs.input); !ok {
			return ErrorUnparseable
		}
	}

	date := m.rawValue(b)
	if date.IsZero() {
		return ErrorNone
	}
	if !m.isDateValidAndInRange(date) {
		return ErrorOutOfRange
	}
	// Overlap is flagged on the end side only.
	if b == dateutil.BoundaryEnd && m.overlapsOther(date, b) {
		return ErrorOverlap
	}
	return ErrorNone
}

// parse applies the injected parser plus the configured fallback policy.
func (m *Model) parse(text string) (time.Time, bool) {
	parsed, ok := m.opts.ParseDate(text)
	if !ok && m.opts.ParseFallback == FallbackToday {
		return dateutil.StartOfDay(m.opts.Clock()), true
	}
	return parsed, ok
}

// format applies the injected formatter.
func (m *Model) format(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return m.opts.FormatDate(date)
}
