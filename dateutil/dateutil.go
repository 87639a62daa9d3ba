// Package dateutil provides the default parse/format strategy for the
// almanac widgets plus small calendar-day helpers. Widgets never call
// time parsing directly; they go through injected functions so a host
// application can swap in its own locale-aware strategy.
package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultFormat is the layout used by DefaultFormatDate and the absolute
// form accepted by DefaultParseDate.
const DefaultFormat = "2006-01-02"

// DefaultParseDate parses user-typed date text and returns the parsed day
// and whether parsing succeeded.
// Supports:
// - "YYYY-MM-DD" - absolute date
// - "t" or "today" - today
// - "tm" or "tomorrow" - tomorrow
// - "+3d" - 3 days from now
// - "+2w" - 2 weeks from now
// - "mon".."sun" - next occurrence of weekday
func DefaultParseDate(input string) (time.Time, bool) {
	return parseDateWithNow(input, time.Now())
}

// parseDateWithNow is the injectable-clock variant used by tests.
func parseDateWithNow(input string, now time.Time) (time.Time, bool) {
	input = strings.TrimSpace(strings.ToLower(input))

	if input == "" {
		return time.Time{}, false
	}

	// Absolute date (YYYY-MM-DD)
	if len(input) == 10 && input[4] == '-' && input[7] == '-' {
		parsed, err := time.Parse(DefaultFormat, input)
		if err != nil {
			return time.Time{}, false
		}
		result := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())

		// Catch invalid dates that normalize (e.g. 2025-02-30 -> 2025-03-02)
		if result.Year() != parsed.Year() || result.Month() != parsed.Month() || result.Day() != parsed.Day() {
			return time.Time{}, false
		}
		return result, true
	}

	if input == "t" || input == "today" {
		return StartOfDay(now), true
	}

	if input == "tm" || input == "tomorrow" {
		return StartOfDay(now.AddDate(0, 0, 1)), true
	}

	// "+Nd" (N days from now)
	if strings.HasPrefix(input, "+") && strings.HasSuffix(input, "d") {
		days, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSuffix(input, "d"), "+"))
		if err != nil || days <= 0 {
			return time.Time{}, false
		}
		return StartOfDay(now.AddDate(0, 0, days)), true
	}

	// "+Nw" (N weeks from now)
	if strings.HasPrefix(input, "+") && strings.HasSuffix(input, "w") {
		weeks, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSuffix(input, "w"), "+"))
		if err != nil || weeks <= 0 {
			return time.Time{}, false
		}
		return StartOfDay(now.AddDate(0, 0, weeks*7)), true
	}

	if d, ok := nextWeekdayWithNow(input, now); ok {
		return d, true
	}

	return time.Time{}, false
}

// DefaultFormatDate formats a date as YYYY-MM-DD. The zero time formats as
// the empty string so unset boundaries render as blank fields.
func DefaultFormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DefaultFormat)
}

// nextWeekdayWithNow returns the next occurrence of the named weekday.
func nextWeekdayWithNow(weekday string, now time.Time) (time.Time, bool) {
	weekdayMap := map[string]time.Weekday{
		"mon": time.Monday,
		"tue": time.Tuesday,
		"wed": time.Wednesday,
		"thu": time.Thursday,
		"fri": time.Friday,
		"sat": time.Saturday,
		"sun": time.Sunday,
	}

	target, ok := weekdayMap[weekday]
	if !ok {
		return time.Time{}, false
	}

	daysUntil := int(target - now.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}

	return StartOfDay(now.AddDate(0, 0, daysUntil)), true
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DayAfter reports whether a falls on a later calendar day than b.
func DayAfter(a, b time.Time) bool {
	return StartOfDay(a).After(StartOfDay(b))
}

// DayBefore reports whether a falls on an earlier calendar day than b.
func DayBefore(a, b time.Time) bool {
	return StartOfDay(a).Before(StartOfDay(b))
}

// DefaultMinDate returns the library-wide lower sentinel bound: January 1,
// twenty years before now.
func DefaultMinDate() time.Time {
	now := time.Now()
	return time.Date(now.Year()-20, time.January, 1, 0, 0, 0, 0, now.Location())
}

// DefaultMaxDate returns the library-wide upper sentinel bound: December 31,
// twenty years after now.
func DefaultMaxDate() time.Time {
	now := time.Now()
	return time.Date(now.Year()+20, time.December, 31, 0, 0, 0, 0, now.Location())
}

// DescribeDay returns a short human description of a day relative to now.
func DescribeDay(date time.Time) string {
	return describeDayWithNow(date, time.Now())
}

func describeDayWithNow(date, now time.Time) string {
	daysDiff := int(StartOfDay(date).Sub(StartOfDay(now)).Hours() / 24)

	switch daysDiff {
	case -1:
		return "yesterday"
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	}

	if daysDiff > 1 && daysDiff < 7 {
		return date.Weekday().String()
	}
	if daysDiff >= 7 && daysDiff < 28 && daysDiff%7 == 0 {
		weeks := daysDiff / 7
		if weeks == 1 {
			return "in 1 week"
		}
		return fmt.Sprintf("in %d weeks", weeks)
	}

	return date.Format("Jan 2, 2006")
}
