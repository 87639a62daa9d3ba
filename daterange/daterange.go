// Package daterange implements a dual-field date-range input with a
// calendar popover for Bubble Tea applications.
//
// The input renders two text fields (start and end) above a popover
// holding a calendar grid and quick-pick shortcuts. Free-text entry is
// parsed and validated against the configured bounds and the opposite
// boundary; calendar picks, hover previews, and keyboard navigation all
// funnel through one state machine that decides which field holds focus
// next. The selection is either owned by the host (controlled mode) or by
// the input itself (uncontrolled mode); the mode is fixed at construction.
package daterange

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tuikit.dev/almanac/calendar"
	"tuikit.dev/almanac/dateutil"
	"tuikit.dev/almanac/popover"
)

var (
	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	fieldFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("39")).
				Padding(0, 1)

	fieldErrorStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("196")).
			Foreground(lipgloss.Color("196")).
			Italic(true).
			Padding(0, 1)

	fieldHoverStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("39")).
			Foreground(lipgloss.Color("40")).
			Italic(true).
			Padding(0, 1)

	arrowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(1, 1, 0, 1)

	shortcutStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	shortcutSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("4")).
				Bold(true)

	shortcutDimStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
)

// Model is the date-range input state.
type Model struct {
	opts Options
	mode Mode

	// controlledValue mirrors the host-owned value in controlled mode.
	controlledValue dateutil.Range

	fields PerBoundary[textinput.Model]
	state  PerBoundary[boundaryState]

	pop popover.Model
	cal calendar.Model

	// boundaryToModify directs the calendar's time control at one side.
	// Only meaningful with sub-day precision; otherwise focus state alone
	// conveys which side is active.
	boundaryToModify    dateutil.Boundary
	hasBoundaryToModify bool

	lastFocusedField  dateutil.Boundary
	hoverDrivenFocus  bool
	selectAfterUpdate bool

	shortcuts        []Shortcut
	selectedShortcut int

	pendingEffects []Effect
	lastEffects    []Effect
}

// New creates a date-range input. Mode is controlled when Options.Value is
// set and cannot change afterwards.
func New(opts Options) (*Model, error) {
	opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	mode := Uncontrolled
	initial := dateutil.Range{}
	if opts.Value != nil {
		mode = Controlled
		initial = *opts.Value
	} else if opts.DefaultValue != nil {
		initial = *opts.DefaultValue
	}

	newField := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 60
		ti.Width = 14
		return ti
	}

	calOpts := []calendar.Option{
		calendar.WithBounds(opts.MinDate, opts.MaxDate),
		calendar.WithClock(opts.Clock),
	}
	if opts.AllowSingleDayRange {
		calOpts = append(calOpts, calendar.WithSingleDayRanges())
	}
	if opts.SingleMonthOnly {
		calOpts = append(calOpts, calendar.WithSingleMonth())
	}
	if opts.ContiguousCalendarMonths {
		calOpts = append(calOpts, calendar.WithContiguousMonths())
	}
	if opts.timeEnabled() {
		calOpts = append(calOpts, calendar.WithTimeRow())
	}

	shortcuts := opts.Shortcuts
	if shortcuts == nil {
		shortcuts = DefaultShortcuts(opts.Clock())
	}

	m := &Model{
		opts:             opts,
		mode:             mode,
		controlledValue:  initial,
		fields:           NewPerBoundary(newField("start date"), newField("end date")),
		pop:              popover.New(),
		cal:              calendar.New(calOpts...),
		shortcuts:        shortcuts,
		selectedShortcut: -1,
	}

	if mode == Uncontrolled {
		m.state.Ptr(dateutil.BoundaryStart).selected = initial.Start
		m.state.Ptr(dateutil.BoundaryEnd).selected = initial.End
	}
	m.cal.SetValue(m.effectiveRange())

	return m, nil
}

// Init returns the cursor blink command.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Mode reports who owns the selection.
func (m *Model) Mode() Mode {
	return m.mode
}

// Value returns the effective displayed range.
func (m *Model) Value() dateutil.Range {
	return m.effectiveRange()
}

// SetValue pushes a new external value into a controlled input. Text and
// hover transients are discarded so the display reflects the new value;
// active focus is left alone.
func (m *Model) SetValue(v *dateutil.Range) error {
	if m.mode != Controlled {
		return ErrNotControlled
	}
	if v == nil {
		return ErrNilControlledValue
	}

	m.controlledValue = *v
	m.state.Each(func(b dateutil.Boundary, s *boundaryState) {
		s.clearTransients()
		if s.focused {
			m.fields.Ptr(b).SetValue(m.format(b.Of(*v)))
		}
	})
	m.cal.SetValue(m.effectiveRange())
	return nil
}

// IsOpen reports popover visibility.
func (m *Model) IsOpen() bool {
	return m.pop.IsOpen()
}

// FocusedBoundary returns the field holding focus, if any.
func (m *Model) FocusedBoundary() (dateutil.Boundary, bool) {
	if m.state.Get(dateutil.BoundaryStart).focused {
		return dateutil.BoundaryStart, true
	}
	if m.state.Get(dateutil.BoundaryEnd).focused {
		return dateutil.BoundaryEnd, true
	}
	return dateutil.BoundaryStart, false
}

// BoundaryToModify returns the side the time control edits, when set.
func (m *Model) BoundaryToModify() (dateutil.Boundary, bool) {
	return m.boundaryToModify, m.hasBoundaryToModify
}

// InputText returns the boundary's current text buffer.
func (m *Model) InputText(b dateutil.Boundary) string {
	return m.state.Get(b).input
}

// HoverText returns the boundary's hover preview, if any.
func (m *Model) HoverText(b dateutil.Boundary) (string, bool) {
	bs := m.state.Get(b)
	return bs.hover, bs.hoverSet
}

// BoundaryError classifies the boundary's current error display state.
func (m *Model) BoundaryError(b dateutil.Boundary) ErrorKind {
	return m.classifyBoundary(b)
}

// LastEffects returns the focus effects flushed by the previous update.
func (m *Model) LastEffects() []Effect {
	return m.lastEffects
}

// FocusBoundary deliberately focuses one field, running the full focus
// policy: buffer seeding, popover open, boundary-to-modify handoff.
func (m *Model) FocusBoundary(b dateutil.Boundary) tea.Cmd {
	m.handleFieldFocus(b)
	return m.applyEffects()
}

// Blur releases all focus, committing any pending field text.
func (m *Model) Blur() {
	m.state.Each(func(b dateutil.Boundary, s *boundaryState) {
		if s.focused {
			m.handleFieldBlur(b)
		}
		m.fields.Ptr(b).Blur()
	})
	m.closePopover()
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case calendar.RangeChangedMsg:
		m.handleRangeChange(msg.Value, msg.Submitted, msg.TimeOnly)

	case calendar.HoverChangedMsg:
		m.handleHoverChange(msg.Value, msg.Boundary, msg.HasBoundary)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	default:
		cmd = m.forward(msg)
	}

	return m, tea.Batch(cmd, m.applyEffects())
}

// handleKey implements the keyboard focus policy and routes everything
// else to the focused surface.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	startFocused := m.state.Get(dateutil.BoundaryStart).focused
	endFocused := m.state.Get(dateutil.BoundaryEnd).focused

	switch msg.String() {
	case "tab":
		if startFocused {
			m.handleFieldFocus(dateutil.BoundaryEnd)
			return nil
		}
		// No field to move to: default order proceeds out of the widget.
		if endFocused {
			m.handleFieldBlur(dateutil.BoundaryEnd)
			m.fields.Ptr(dateutil.BoundaryEnd).Blur()
		}
		m.closePopover()
		return nil

	case "shift+tab":
		if endFocused {
			m.handleFieldFocus(dateutil.BoundaryStart)
			return nil
		}
		if startFocused {
			m.handleFieldBlur(dateutil.BoundaryStart)
			m.fields.Ptr(dateutil.BoundaryStart).Blur()
		}
		m.closePopover()
		return nil

	case "enter":
		// The calendar owns Enter while it has keyboard control; its
		// selectCursor path is the only source of submitted changes.
		if m.cal.Focused() && m.pop.IsOpen() {
			break
		}
		if startFocused {
			m.commitBuffer(dateutil.BoundaryStart)
			return nil
		}
		if endFocused {
			m.commitBuffer(dateutil.BoundaryEnd)
			return nil
		}

	case "esc":
		m.closePopover()
		return nil

	case "down":
		// Hand keyboard control to the calendar; the field keeps its
		// logical focus until a hover decides otherwise.
		if (startFocused || endFocused) && m.pop.IsOpen() && !m.cal.Focused() {
			return m.cal.Focus()
		}
	}

	// Digit keys pick shortcuts while the calendar has control.
	if m.cal.Focused() && m.pop.IsOpen() {
		if key := msg.String(); len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.shortcuts) {
				m.applyShortcut(i)
				return nil
			}
		}
		var cmd tea.Cmd
		m.cal, cmd = m.cal.Update(msg)
		return cmd
	}

	if startFocused {
		return m.updateField(dateutil.BoundaryStart, msg)
	}
	if endFocused {
		return m.updateField(dateutil.BoundaryEnd, msg)
	}
	return nil
}

// updateField delegates a message to one text input and runs the typing
// policy when the text actually changed.
func (m *Model) updateField(b dateutil.Boundary, msg tea.Msg) tea.Cmd {
	field := m.fields.Ptr(b)
	old := field.Value()

	updated, cmd := field.Update(msg)
	*field = updated

	if updated.Value() != old {
		m.handleTextChange(b, updated.Value())
	}
	return cmd
}

// forward passes non-key messages (e.g. cursor blink ticks) to the inputs.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	m.fields.Each(func(b dateutil.Boundary, f *textinput.Model) {
		updated, cmd := f.Update(msg)
		*f = updated
		cmds = append(cmds, cmd)
	})
	return tea.Batch(cmds...)
}

// handleRangeChange applies a calendar selection change (or an Enter
// commit bridged through the same path). Events from a closed popover are
// ignored; they come from an animating-closed surface.
func (m *Model) handleRangeChange(selected dateutil.Range, submitted, timeOnly bool) {
	if !m.pop.IsOpen() {
		return
	}

	prevComplete := m.effectiveRange().IsComplete()

	m.state.Each(func(b dateutil.Boundary, s *boundaryState) {
		s.input = m.format(b.Of(selected))
		s.inputSet = true
		s.hover = ""
		s.hoverSet = false
		if m.mode == Uncontrolled {
			s.selected = b.Of(selected)
		}
		if s.focused {
			m.fields.Ptr(b).SetValue(s.input)
		}
	})
	m.selectedShortcut = -1
	m.cal.SetValue(selected)

	switch {
	case selected.Start.IsZero():
		m.focusOrMark(dateutil.BoundaryStart)

	case selected.End.IsZero():
		m.focusOrMark(dateutil.BoundaryEnd)

	default:
		bothValid := m.isDateValidAndInRange(selected.Start) &&
			m.isDateValidAndInRange(selected.End)

		if !prevComplete && bothValid && m.opts.CloseOnSelection {
			// Focus first: field focus reopens the popover, so the close
			// below must come last. A submit action already moved focus
			// elsewhere.
			if !submitted {
				m.focusOrMark(dateutil.BoundaryEnd)
			}
			// A time-only adjustment keeps the popover open: the user is
			// still working the time control.
			if !(m.opts.timeEnabled() && timeOnly) {
				m.closePopover()
			}
		} else if prevComplete && m.lastFocusedField == dateutil.BoundaryStart {
			// The user keeps re-picking the start date.
			m.focusOrMark(dateutil.BoundaryStart)
		} else {
			m.focusOrMark(dateutil.BoundaryEnd)
		}
	}

	// The raw pair goes out regardless of validity.
	m.fireChange(selected)
}

// handleHoverChange applies a calendar hover event. A nil range means the
// cursor left the calendar.
func (m *Model) handleHoverChange(hovered *dateutil.Range, boundary dateutil.Boundary, hasBoundary bool) {
	if !m.pop.IsOpen() {
		return
	}

	if hovered == nil {
		restore := dateutil.BoundaryStart
		if m.hasBoundaryToModify {
			restore = m.boundaryToModify
		}
		m.state.Each(func(b dateutil.Boundary, s *boundaryState) {
			s.hover = ""
			s.hoverSet = false
		})
		// Non-hover-driven so a later leave doesn't re-trigger this path.
		m.setFocusFlag(restore, false)
		return
	}

	m.state.Each(func(b dateutil.Boundary, s *boundaryState) {
		s.hover = m.format(b.Of(*hovered))
		s.hoverSet = true
	})

	if hasBoundary {
		m.setFocusFlag(boundary, true)
	} else {
		m.hoverDrivenFocus = true
	}
}

// handleFieldFocus runs the deliberate focus policy for one field.
func (m *Model) handleFieldFocus(b dateutil.Boundary) {
	wasHoverDriven := m.hoverDrivenFocus

	other := b.Other()
	if m.state.Get(other).focused {
		m.handleFieldBlur(other)
	}

	bs := m.state.Ptr(b)
	if date := m.rawValue(b); !date.IsZero() && !bs.inputSet {
		bs.input = m.format(date)
		bs.inputSet = true
	}
	m.fields.Ptr(b).SetValue(bs.input)

	m.pop.Open()

	// A stray hover must not reset which side the time control edits.
	if m.opts.timeEnabled() && !wasHoverDriven {
		m.setBoundaryToModify(b)
	}

	m.selectAfterUpdate = m.opts.SelectAllOnFocus
	m.setFocusFlag(b, false)
}

// handleFieldBlur commits or rejects the field text as focus leaves it.
func (m *Model) handleFieldBlur(b dateutil.Boundary) {
	bs := m.state.Ptr(b)
	bs.focused = false

	buffer := strings.TrimSpace(bs.input)

	if !bs.inputSet || buffer == "" {
		// Empty field: controlled mode just reformats from the external
		// value; uncontrolled mode clears the boundary.
		bs.clearTransients()
		if m.mode == Uncontrolled {
			bs.selected = time.Time{}
		}
		m.cal.SetValue(m.effectiveRange())
		return
	}

	parsed, ok := m.parse(buffer)
	if !ok {
		// Unparseable: the raw buffer stays so the error can be shown.
		m.fireError(b, time.Time{})
		return
	}

	if !m.isNextRangeValid(parsed, b) {
		if m.mode == Uncontrolled {
			// Keep the bad date so its error state can be displayed, and
			// drop the buffer so the formatted-value display takes over.
			bs.selected = parsed
			bs.input = ""
			bs.inputSet = false
		}
		m.fireError(b, parsed)
		return
	}

	// Valid entry: display falls back to the formatted selected date.
	bs.input = ""
	bs.inputSet = false
}

// handleTextChange runs the typing policy for one field.
func (m *Model) handleTextChange(b dateutil.Boundary, text string) {
	bs := m.state.Ptr(b)

	// The newest keystroke must be visible: hover previews yield.
	bs.hover = ""
	bs.hoverSet = false
	bs.input = text
	bs.inputSet = true
	m.selectedShortcut = -1

	if text == "" {
		// Clearing a field commits an unset boundary immediately.
		if m.mode == Uncontrolled {
			bs.selected = time.Time{}
		}
		next := b.WithSide(m.rawRange(), time.Time{})
		m.cal.SetValue(m.effectiveRange())
		m.fireChange(next)
		return
	}

	parsed, ok := m.parse(text)
	if !ok || !m.isDateValidAndInRange(parsed) {
		// Display-only update; no selection commitment.
		return
	}

	// Valid and in range: live preview.
	if m.mode == Uncontrolled {
		bs.selected = parsed
	}
	m.cal.SetValue(m.effectiveRange())

	// The commit itself additionally requires non-overlap; an overlapping
	// edit stays display-only and errors on the other field.
	if !m.overlapsOther(parsed, b) {
		m.fireChange(b.WithSide(m.rawRange(), parsed))
	}
}

// commitBuffer bridges an Enter press in a field into the range-change
// path, flagged as submitted so focus is not transferred.
func (m *Model) commitBuffer(b dateutil.Boundary) {
	bs := m.state.Get(b)

	parsed, ok := m.parse(strings.TrimSpace(bs.input))
	if !ok {
		return
	}

	m.handleRangeChange(b.WithSide(m.rawRange(), parsed), true, false)
}

// focusOrMark transfers focus to a field, or, with a time control present,
// only directs the calendar's time row at that boundary.
func (m *Model) focusOrMark(b dateutil.Boundary) {
	if m.opts.timeEnabled() {
		m.setBoundaryToModify(b)
		return
	}
	m.handleFieldFocus(b)
}

func (m *Model) setBoundaryToModify(b dateutil.Boundary) {
	m.boundaryToModify = b
	m.hasBoundaryToModify = true
	m.cal.SetBoundaryToModify(b)
}

// setFocusFlag flips the logical focus flags and queues the focus effect.
// Hover-driven changes are transient: they skip buffer seeding and the
// popover, and are marked so downstream handlers can tell them apart from
// deliberate focus.
func (m *Model) setFocusFlag(b dateutil.Boundary, hoverDriven bool) {
	m.state.Ptr(b).focused = true
	m.state.Ptr(b.Other()).focused = false
	m.lastFocusedField = b
	m.hoverDrivenFocus = hoverDriven
	m.requestFocusEffect(b)
}

func (m *Model) closePopover() {
	m.pop.Close()
	m.state.Each(func(b dateutil.Boundary, s *boundaryState) {
		s.hover = ""
		s.hoverSet = false
	})
	if m.cal.Focused() {
		m.cal.Blur()
	}
}

func (m *Model) fireChange(r dateutil.Range) {
	if m.opts.OnChange != nil {
		m.opts.OnChange(r)
	}
}

func (m *Model) fireError(b dateutil.Boundary, date time.Time) {
	if m.opts.OnError == nil {
		return
	}
	m.opts.OnError(b.WithSide(m.rawRange(), date))
}

// View renders the two fields and, when open, the popover content.
func (m *Model) View() string {
	target := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderField(dateutil.BoundaryStart),
		arrowStyle.Render("→"),
		m.renderField(dateutil.BoundaryEnd),
	)

	content := ""
	if m.pop.IsOpen() {
		content = m.cal.View()
		if shortcuts := m.renderShortcuts(); shortcuts != "" {
			content = lipgloss.JoinHorizontal(lipgloss.Top, shortcuts, "  ", content)
		}
	}

	return m.pop.View(target, content)
}

// renderField picks the display string for one boundary: hover preview
// first, then the live input while focused, then the error message or
// formatted date.
func (m *Model) renderField(b dateutil.Boundary) string {
	bs := m.state.Get(b)

	if bs.hoverSet {
		text := bs.hover
		if text == "" {
			text = m.fields.Get(b).Placeholder
		}
		return fieldHoverStyle.Render(text)
	}

	if bs.focused {
		return fieldFocusedStyle.Render(m.fields.Get(b).View())
	}

	switch m.classifyBoundary(b) {
	case ErrorUnparseable:
		return fieldErrorStyle.Render(m.opts.InvalidDateMessage)
	case ErrorOutOfRange:
		return fieldErrorStyle.Render(m.opts.OutOfRangeMessage)
	case ErrorOverlap:
		return fieldErrorStyle.Render(m.opts.OverlappingDatesMessage)
	}

	text := m.format(m.rawValue(b))
	if bs.inputSet && bs.input != "" {
		text = bs.input
	}
	if text == "" {
		text = m.fields.Get(b).Placeholder
	}
	return fieldStyle.Render(text)
}

func (m *Model) renderShortcuts() string {
	if len(m.shortcuts) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, s := range m.shortcuts {
		line := s.Label
		if i == m.selectedShortcut {
			sb.WriteString(shortcutSelectedStyle.Render("▶ " + line))
		} else {
			sb.WriteString(shortcutStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(shortcutDimStyle.Render("\n1-9: preset"))
	return sb.String()
}
