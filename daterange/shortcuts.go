package daterange

import (
	"time"

	"tuikit.dev/almanac/dateutil"
)

// Shortcut is a quick-pick preset shown beside the calendar. Selecting one
// goes through the normal range-change path; the tracked index exists
// purely to highlight the active preset and carries no validation
// semantics.
type Shortcut struct {
	Label string
	Value dateutil.Range
}

// DefaultShortcuts returns the stock preset list, each range ending today.
func DefaultShortcuts(now time.Time) []Shortcut {
	today := dateutil.StartOfDay(now)
	preset := func(label string, days int) Shortcut {
		return Shortcut{
			Label: label,
			Value: dateutil.Range{Start: today.AddDate(0, 0, -days), End: today},
		}
	}

	return []Shortcut{
		preset("Past week", 7),
		preset("Past month", 30),
		preset("Past 3 months", 90),
		preset("Past 6 months", 180),
		preset("Past year", 365),
	}
}

// SelectedShortcut returns the highlighted preset index, or -1.
func (m *Model) SelectedShortcut() int {
	return m.selectedShortcut
}

// applyShortcut selects preset i through the range-change path.
func (m *Model) applyShortcut(i int) {
	if i < 0 || i >= len(m.shortcuts) {
		return
	}

	m.handleRangeChange(m.shortcuts[i].Value, false, false)
	// handleRangeChange clears the highlight; restore it for this preset.
	m.selectedShortcut = i
}
