package calendar

import (
	"time"

	"tuikit.dev/almanac/dateutil"
)

// nextValue computes the range that results from picking day on top of the
// current value.
//
// Without a boundary under edit the range grows naturally: an empty range
// starts at the picked day, a half-open range closes around it (picking
// before the start swaps the sides), and a complete range starts over.
// Picking the lone start day again deselects it unless single-day ranges
// are allowed, in which case it closes a one-day range.
//
// With the time row enabled the picked day always lands on the boundary
// under edit, dropping the opposite side when the result would be reversed.
func nextValue(value dateutil.Range, day time.Time, allowSingleDay, timeEnabled bool, boundaryToModify dateutil.Boundary) dateutil.Range {
	day = dateutil.StartOfDay(day)

	if timeEnabled {
		next := boundaryToModify.WithSide(value, withTimeOf(day, boundaryToModify.Of(value)))
		other := boundaryToModify.Other()
		if reversed(next, allowSingleDay) {
			next = other.WithSide(next, time.Time{})
		}
		return next
	}

	switch {
	case value.Start.IsZero() && value.End.IsZero():
		return dateutil.Range{Start: day}

	case !value.Start.IsZero() && value.End.IsZero():
		if dateutil.SameDay(day, value.Start) {
			if allowSingleDay {
				return dateutil.Range{Start: value.Start, End: day}
			}
			return dateutil.Range{}
		}
		if dateutil.DayBefore(day, value.Start) {
			return dateutil.Range{Start: day, End: value.Start}
		}
		return dateutil.Range{Start: value.Start, End: day}

	case value.Start.IsZero() && !value.End.IsZero():
		if dateutil.SameDay(day, value.End) {
			if allowSingleDay {
				return dateutil.Range{Start: day, End: value.End}
			}
			return dateutil.Range{}
		}
		if dateutil.DayAfter(day, value.End) {
			return dateutil.Range{Start: value.End, End: day}
		}
		return dateutil.Range{Start: day, End: value.End}

	default:
		return dateutil.Range{Start: day}
	}
}

// hoverPreview computes the range to show while the cursor rests on day,
// plus the boundary that day would occupy if picked.
func hoverPreview(value dateutil.Range, day time.Time, timeEnabled bool, boundaryToModify dateutil.Boundary) (dateutil.Range, dateutil.Boundary) {
	preview := nextValue(value, day, true, timeEnabled, boundaryToModify)

	boundary := dateutil.BoundaryStart
	if !preview.End.IsZero() && dateutil.SameDay(preview.End, day) {
		boundary = dateutil.BoundaryEnd
	}
	return preview, boundary
}

// reversed reports whether a complete range has its sides out of order, or
// collapsed onto one day when that is disallowed.
func reversed(r dateutil.Range, allowSingleDay bool) bool {
	if !r.IsComplete() {
		return false
	}
	if dateutil.DayAfter(r.Start, r.End) {
		return true
	}
	return !allowSingleDay && dateutil.SameDay(r.Start, r.End)
}

// withTimeOf keeps the clock of prior (when set) on the new day, so picking
// a different day does not discard an already-chosen time of day.
func withTimeOf(day, prior time.Time) time.Time {
	if prior.IsZero() {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		prior.Hour(), prior.Minute(), 0, 0, day.Location())
}
