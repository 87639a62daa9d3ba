package dateutil

import (
	"fmt"
	"time"
)

// Range is a pair of calendar-day boundaries. A zero time means the
// boundary is unset; a half-open range (only one side set) is valid while
// the user is mid-selection.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange builds a fully-specified range, rejecting reversed boundaries.
func NewRange(start, end time.Time) (Range, error) {
	if !start.IsZero() && !end.IsZero() && DayAfter(start, end) {
		return Range{}, fmt.Errorf("range start %s is after end %s",
			DefaultFormatDate(start), DefaultFormatDate(end))
	}
	return Range{Start: start, End: end}, nil
}

// IsEmpty reports whether neither boundary is set.
func (r Range) IsEmpty() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// IsComplete reports whether both boundaries are set.
func (r Range) IsComplete() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Contains reports whether the day of t lies within the range, inclusive.
// Unset boundaries are treated as unbounded on that side.
func (r Range) Contains(t time.Time) bool {
	if !r.Start.IsZero() && DayBefore(t, r.Start) {
		return false
	}
	if !r.End.IsZero() && DayAfter(t, r.End) {
		return false
	}
	return true
}

// Overlaps reports whether two complete ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	if !r.IsComplete() || !other.IsComplete() {
		return false
	}
	return !DayAfter(r.Start, other.End) && !DayAfter(other.Start, r.End)
}

// Days returns the inclusive day count of a complete range, or 0.
func (r Range) Days() int {
	if !r.IsComplete() {
		return 0
	}
	return int(StartOfDay(r.End).Sub(StartOfDay(r.Start)).Hours()/24) + 1
}

// Equal compares two ranges by calendar day on both sides.
func (r Range) Equal(other Range) bool {
	return sideEqual(r.Start, other.Start) && sideEqual(r.End, other.End)
}

func sideEqual(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return a.IsZero() == b.IsZero()
	}
	return SameDay(a, b)
}

// String renders the range for logs and previews.
func (r Range) String() string {
	return fmt.Sprintf("%s .. %s", DefaultFormatDate(r.Start), DefaultFormatDate(r.End))
}
