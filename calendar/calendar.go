// Package calendar implements a month-grid Bubble Tea widget for picking a
// date range. It renders one or two months, tracks a hovered day cursor,
// and reports selection and hover changes to its host through messages.
package calendar

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tuikit.dev/almanac/dateutil"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Underline(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("39")).
			Bold(true)

	inRangeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("24"))

	boundaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("4")).
			Bold(true)

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	timeActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// RangeChangedMsg is emitted when the user picks a day (or adjusts the
// time-of-day row). Submitted is true when the pick was confirmed with
// Enter rather than Space. TimeOnly is true when only the time-of-day of a
// boundary changed, not its calendar day.
type RangeChangedMsg struct {
	Value     dateutil.Range
	Submitted bool
	TimeOnly  bool
}

// HoverChangedMsg is emitted as the day cursor moves. A nil Value means the
// cursor left the calendar (the widget lost focus). HasBoundary reports
// whether Boundary identifies which side the hovered day would set.
type HoverChangedMsg struct {
	Value       *dateutil.Range
	Boundary    dateutil.Boundary
	HasBoundary bool
}

// Model is the month-grid calendar state.
type Model struct {
	value  dateutil.Range
	month  time.Time // first day of the left-most rendered month
	cursor time.Time // hovered day

	minDate time.Time
	maxDate time.Time

	allowSingleDay bool
	singleMonth    bool
	contiguous     bool

	// Sub-day precision support. When showTime is set the grid is followed
	// by a time row editing boundaryToModify.
	showTime         bool
	boundaryToModify dateutil.Boundary

	focused bool

	now func() time.Time
}

// Option configures a calendar Model.
type Option func(*Model)

// WithBounds sets the inclusive selectable window.
func WithBounds(min, max time.Time) Option {
	return func(m *Model) {
		if !min.IsZero() {
			m.minDate = dateutil.StartOfDay(min)
		}
		if !max.IsZero() {
			m.maxDate = dateutil.StartOfDay(max)
		}
	}
}

// WithSingleDayRanges permits a range whose start and end are the same day.
func WithSingleDayRanges() Option {
	return func(m *Model) { m.allowSingleDay = true }
}

// WithSingleMonth renders one month instead of two.
func WithSingleMonth() Option {
	return func(m *Model) { m.singleMonth = true }
}

// WithContiguousMonths keeps the two rendered months adjacent when paging.
func WithContiguousMonths() Option {
	return func(m *Model) { m.contiguous = true }
}

// WithTimeRow enables the time-of-day row for sub-day precision.
func WithTimeRow() Option {
	return func(m *Model) { m.showTime = true }
}

// WithClock injects the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New creates a calendar. The initial month shows the range start when set,
// otherwise today.
func New(opts ...Option) Model {
	m := Model{
		minDate: dateutil.DefaultMinDate(),
		maxDate: dateutil.DefaultMaxDate(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}

	today := dateutil.StartOfDay(m.now())
	m.cursor = m.clampDay(today)
	m.month = monthOf(m.cursor)
	return m
}

// Value returns the currently selected range.
func (m Model) Value() dateutil.Range {
	return m.value
}

// SetValue replaces the selected range and scrolls to show it.
func (m *Model) SetValue(r dateutil.Range) {
	m.value = r
	if !r.Start.IsZero() {
		m.month = monthOf(r.Start)
		m.cursor = m.clampDay(dateutil.StartOfDay(r.Start))
	}
}

// SetBoundaryToModify directs the time row at one side of the range.
func (m *Model) SetBoundaryToModify(b dateutil.Boundary) {
	m.boundaryToModify = b
}

// BoundaryToModify returns the side the time row currently edits.
func (m Model) BoundaryToModify() dateutil.Boundary {
	return m.boundaryToModify
}

// Focus gives the calendar keyboard control. The current cursor position is
// immediately reported as a hover.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.hoverCmd()
}

// Blur releases keyboard control and reports that the cursor left the
// calendar.
func (m *Model) Blur() tea.Cmd {
	if !m.focused {
		return nil
	}
	m.focused = false
	return func() tea.Msg {
		return HoverChangedMsg{Value: nil}
	}
}

// Focused reports whether the calendar has keyboard control.
func (m Model) Focused() bool {
	return m.focused
}

// Cursor returns the hovered day.
func (m Model) Cursor() time.Time {
	return m.cursor
}

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "h":
		return m.moveCursor(0, -1)
	case "right", "l":
		return m.moveCursor(0, 1)
	case "up", "k":
		return m.moveCursor(0, -7)
	case "down", "j":
		return m.moveCursor(0, 7)
	case "pgup", "[":
		return m.moveCursor(-1, 0)
	case "pgdown", "]":
		return m.moveCursor(1, 0)
	case "t":
		m.cursor = m.clampDay(dateutil.StartOfDay(m.now()))
		m.month = monthOf(m.cursor)
		return m, m.hoverCmd()
	case "enter":
		return m.selectCursor(true)
	case " ":
		return m.selectCursor(false)
	case ">":
		return m.adjustTime(time.Hour)
	case "<":
		return m.adjustTime(-time.Hour)
	}

	return m, nil
}

// moveCursor shifts the hovered day by whole months and/or days, clamping
// to the selectable window, and reports the resulting hover preview.
func (m Model) moveCursor(months, days int) (Model, tea.Cmd) {
	next := m.cursor.AddDate(0, months, days)
	m.cursor = m.clampDay(next)
	m.scrollToCursor()
	return m, m.hoverCmd()
}

// selectCursor commits the hovered day through the selection strategy.
func (m Model) selectCursor(submitted bool) (Model, tea.Cmd) {
	if !m.selectable(m.cursor) {
		return m, nil
	}

	next := nextValue(m.value, m.cursor, m.allowSingleDay, m.showTime, m.boundaryToModify)
	m.value = next

	captured := next
	return m, func() tea.Msg {
		return RangeChangedMsg{Value: captured, Submitted: submitted}
	}
}

// adjustTime shifts the time-of-day of the boundary under edit. Only
// meaningful when the time row is enabled and that boundary has a date.
func (m Model) adjustTime(delta time.Duration) (Model, tea.Cmd) {
	if !m.showTime {
		return m, nil
	}

	side := m.boundaryToModify.Of(m.value)
	if side.IsZero() {
		return m, nil
	}

	adjusted := side.Add(delta)
	// Keep the calendar day fixed; the time row edits hours only.
	if !dateutil.SameDay(adjusted, side) {
		return m, nil
	}

	m.value = m.boundaryToModify.WithSide(m.value, adjusted)

	captured := m.value
	return m, func() tea.Msg {
		return RangeChangedMsg{Value: captured, TimeOnly: true}
	}
}

// hoverCmd reports the preview range for the hovered day.
func (m Model) hoverCmd() tea.Cmd {
	if !m.selectable(m.cursor) {
		return nil
	}

	preview, boundary := hoverPreview(m.value, m.cursor, m.showTime, m.boundaryToModify)
	captured := preview
	capturedBoundary := boundary
	return func() tea.Msg {
		return HoverChangedMsg{Value: &captured, Boundary: capturedBoundary, HasBoundary: true}
	}
}

func (m *Model) scrollToCursor() {
	cursorMonth := monthOf(m.cursor)
	if cursorMonth.Equal(m.month) {
		return
	}
	// With two months rendered the cursor may sit in the right-hand month.
	if !m.singleMonth && cursorMonth.Equal(m.month.AddDate(0, 1, 0)) {
		return
	}
	m.month = cursorMonth
}

func (m Model) clampDay(t time.Time) time.Time {
	t = dateutil.StartOfDay(t)
	if t.Before(m.minDate) {
		return m.minDate
	}
	if t.After(m.maxDate) {
		return m.maxDate
	}
	return t
}

func (m Model) selectable(t time.Time) bool {
	return !dateutil.DayBefore(t, m.minDate) && !dateutil.DayAfter(t, m.maxDate)
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// View renders the calendar grid(s) plus the optional time row.
func (m Model) View() string {
	months := m.renderMonth(m.month)
	if !m.singleMonth {
		months = lipgloss.JoinHorizontal(lipgloss.Top,
			months, "   ", m.renderMonth(m.month.AddDate(0, 1, 0)))
	}

	if !m.showTime {
		return months
	}
	return lipgloss.JoinVertical(lipgloss.Left, months, m.renderTimeRow())
}

func (m Model) renderMonth(month time.Time) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(month.Format("January 2006")))
	sb.WriteString("\n")
	sb.WriteString(weekdayStyle.Render("Su Mo Tu We Th Fr Sa"))
	sb.WriteString("\n")

	today := dateutil.StartOfDay(m.now())
	first := monthOf(month)
	offset := int(first.Weekday())

	cells := make([]string, 0, 42)
	for i := 0; i < offset; i++ {
		cells = append(cells, "  ")
	}

	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		cells = append(cells, m.renderDay(d, today))
	}

	for i, cell := range cells {
		sb.WriteString(cell)
		if (i+1)%7 == 0 {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
	}

	return sb.String()
}

func (m Model) renderDay(d, today time.Time) string {
	label := d.Format("_2")

	switch {
	case m.focused && dateutil.SameDay(d, m.cursor):
		return cursorStyle.Render(label)
	case !m.selectable(d):
		return disabledStyle.Render(label)
	case !m.value.Start.IsZero() && dateutil.SameDay(d, m.value.Start),
		!m.value.End.IsZero() && dateutil.SameDay(d, m.value.End):
		return boundaryStyle.Render(label)
	case m.value.IsComplete() && m.value.Contains(d):
		return inRangeStyle.Render(label)
	case dateutil.SameDay(d, today):
		return todayStyle.Render(label)
	default:
		return dayStyle.Render(label)
	}
}

func (m Model) renderTimeRow() string {
	renderSide := func(b dateutil.Boundary) string {
		side := b.Of(m.value)
		label := "--:--"
		if !side.IsZero() {
			label = side.Format("15:04")
		}
		text := b.String() + " " + label
		if b == m.boundaryToModify {
			return timeActiveStyle.Render("[" + text + "]")
		}
		return timeRowStyle.Render(" " + text + " ")
	}

	return renderSide(dateutil.BoundaryStart) + "  " + renderSide(dateutil.BoundaryEnd) +
		timeRowStyle.Render("  </> adjust hour")
}
