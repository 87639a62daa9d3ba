package daterange

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tuikit.dev/almanac/calendar"
	"tuikit.dev/almanac/dateutil"
)

var drNow = time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

// recorder captures callback invocations for assertions.
type recorder struct {
	changes []dateutil.Range
	errors  []dateutil.Range
}

func newTestModel(t *testing.T, opts Options) (*Model, *recorder) {
	t.Helper()

	rec := &recorder{}
	opts.Clock = func() time.Time { return drNow }
	opts.OnChange = func(r dateutil.Range) { rec.changes = append(rec.changes, r) }
	opts.OnError = func(r dateutil.Range) { rec.errors = append(rec.errors, r) }

	m, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, rec
}

func press(m *Model, s string) {
	var msg tea.KeyMsg
	switch s {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	m.Update(msg)
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewDefaultsToUncontrolled(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	if m.Mode() != Uncontrolled {
		t.Errorf("mode = %v, want uncontrolled", m.Mode())
	}
	if !m.Value().IsEmpty() {
		t.Errorf("value = %v, want empty", m.Value())
	}
	if m.IsOpen() {
		t.Error("popover should start closed")
	}
}

func TestNewWithValueIsControlled(t *testing.T) {
	v := dateutil.Range{Start: day(10), End: day(15)}
	m, _ := newTestModel(t, Options{Value: &v})

	if m.Mode() != Controlled {
		t.Errorf("mode = %v, want controlled", m.Mode())
	}
	if !m.Value().Equal(v) {
		t.Errorf("value = %v, want %v", m.Value(), v)
	}
}

func TestNewRejectsReversedBounds(t *testing.T) {
	_, err := New(Options{MinDate: day(20), MaxDate: day(10)})
	if err != ErrInvalidBounds {
		t.Fatalf("err = %v, want ErrInvalidBounds", err)
	}
}

func TestSetValueRequiresControlledMode(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	v := dateutil.Range{Start: day(10)}
	if err := m.SetValue(&v); err != ErrNotControlled {
		t.Fatalf("err = %v, want ErrNotControlled", err)
	}
}

func TestSetValueRejectsNil(t *testing.T) {
	v := dateutil.Range{}
	m, _ := newTestModel(t, Options{Value: &v})

	if err := m.SetValue(nil); err != ErrNilControlledValue {
		t.Fatalf("err = %v, want ErrNilControlledValue", err)
	}
}

func TestSetValueDiscardsStaleText(t *testing.T) {
	v := dateutil.Range{}
	m, _ := newTestModel(t, Options{Value: &v})

	m.FocusBoundary(dateutil.BoundaryStart)
	typeText(m, "xyz")
	if m.InputText(dateutil.BoundaryStart) != "xyz" {
		t.Fatalf("input = %q, want %q", m.InputText(dateutil.BoundaryStart), "xyz")
	}

	next := dateutil.Range{Start: day(10), End: day(15)}
	if err := m.SetValue(&next); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	if !m.Value().Equal(next) {
		t.Errorf("value = %v, want %v", m.Value(), next)
	}
	if m.InputText(dateutil.BoundaryStart) != "" {
		t.Errorf("stale input %q survived SetValue", m.InputText(dateutil.BoundaryStart))
	}
	if b, ok := m.FocusedBoundary(); !ok || b != dateutil.BoundaryStart {
		t.Error("SetValue should not disturb focus")
	}
}

func TestFocusOpensPopoverAndSeedsBuffer(t *testing.T) {
	m, _ := newTestModel(t, Options{
		DefaultValue: &dateutil.Range{Start: day(10), End: day(15)},
	})

	m.FocusBoundary(dateutil.BoundaryStart)

	if !m.IsOpen() {
		t.Error("popover should open on field focus")
	}
	if b, ok := m.FocusedBoundary(); !ok || b != dateutil.BoundaryStart {
		t.Errorf("focused = %v/%v, want start", b, ok)
	}
	if got := m.InputText(dateutil.BoundaryStart); got != "2025-06-10" {
		t.Errorf("seeded buffer = %q, want %q", got, "2025-06-10")
	}
}

func TestTypingValidRangeFiresChangePerSide(t *testing.T) {
	m, rec := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryStart)
	typeText(m, "2025-06-10")
	press(m, "tab")
	typeText(m, "2025-06-15")

	if len(rec.changes) != 2 {
		t.Fatalf("changes = %d, want 2 (one per completed side)", len(rec.changes))
	}
	want := dateutil.Range{Start: day(10), End: day(15)}
	if !rec.changes[1].Equal(want) {
		t.Errorf("final change = %v, want %v", rec.changes[1], want)
	}
	if len(rec.errors) != 0 {
		t.Errorf("errors = %v, want none", rec.errors)
	}
	if !m.Value().Equal(want) {
		t.Errorf("value = %v, want %v", m.Value(), want)
	}
}

func TestOverlappingEntryErrorsWithoutCommitting(t *testing.T) {
	m, rec := newTestModel(t, Options{
		DefaultValue: &dateutil.Range{End: day(15)},
	})

	m.FocusBoundary(dateutil.BoundaryStart)
	typeText(m, "2025-06-20")
	m.Blur()

	if len(rec.changes) != 0 {
		t.Errorf("changes = %v, want none for an overlapping edit", rec.changes)
	}
	if len(rec.errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(rec.errors))
	}
	want := dateutil.Range{Start: day(20), End: day(15)}
	if !rec.errors[0].Equal(want) {
		t.Errorf("error range = %v, want %v", rec.errors[0], want)
	}
	if got := m.BoundaryError(dateutil.BoundaryEnd); got != ErrorOverlap {
		t.Errorf("end error = %v, want overlap", got)
	}
}

func TestUnparseableEntryKeepsBufferForDisplay(t *testing.T) {
	m, rec := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryStart)
	typeText(m, "banana")
	m.Blur()

	if len(rec.errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(rec.errors))
	}
	if got := m.BoundaryError(dateutil.BoundaryStart); got != ErrorUnparseable {
		t.Errorf("start error = %v, want unparseable", got)
	}
	if m.InputText(dateutil.BoundaryStart) != "banana" {
		t.Errorf("buffer = %q, want the raw entry kept", m.InputText(dateutil.BoundaryStart))
	}
}

func TestOutOfRangeEntrySuppressedFromValue(t *testing.T) {
	m, rec := newTestModel(t, Options{
		MinDate: day(1),
		MaxDate: day(30),
	})

	m.FocusBoundary(dateutil.BoundaryStart)
	typeText(m, "2025-07-05")
	m.Blur()

	if len(rec.errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(rec.errors))
	}
	if got := m.BoundaryError(dateutil.BoundaryStart); got != ErrorOutOfRange {
		t.Errorf("start error = %v, want out of range", got)
	}
	if !m.Value().Start.IsZero() {
		t.Errorf("value start = %v, want suppressed", m.Value().Start)
	}
}

func TestEmptyStartCommitPreservesEnd(t *testing.T) {
	m, rec := newTestModel(t, Options{
		DefaultValue: &dateutil.Range{Start: day(10), End: day(15)},
	})

	m.FocusBoundary(dateutil.BoundaryStart)
	for range "2025-06-10" {
		press(m, "backspace")
	}

	if len(rec.changes) != 1 {
		t.Fatalf("changes = %d, want exactly the empty commit", len(rec.changes))
	}
	if !rec.changes[0].Start.IsZero() {
		t.Errorf("committed start = %v, want unset", rec.changes[0].Start)
	}
	if !dateutil.SameDay(rec.changes[0].End, day(15)) {
		t.Errorf("committed end = %v, want %v preserved", rec.changes[0].End, day(15))
	}
	if !m.Value().Start.IsZero() || !dateutil.SameDay(m.Value().End, day(15)) {
		t.Errorf("value = %v, want end-only", m.Value())
	}
}

func TestTabMovesFocusStartToEnd(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryStart)
	press(m, "tab")

	if b, ok := m.FocusedBoundary(); !ok || b != dateutil.BoundaryEnd {
		t.Errorf("focused = %v/%v, want end", b, ok)
	}
	if !m.IsOpen() {
		t.Error("popover should stay open across a tab between fields")
	}
}

func TestTabFromEndClosesPopover(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryEnd)
	press(m, "tab")

	if m.IsOpen() {
		t.Error("tab past the last field should close the popover")
	}
	if _, ok := m.FocusedBoundary(); ok {
		t.Error("no field should remain focused")
	}
}

func TestShiftTabMovesFocusEndToStart(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryEnd)
	press(m, "shift+tab")

	if b, ok := m.FocusedBoundary(); !ok || b != dateutil.BoundaryStart {
		t.Errorf("focused = %v/%v, want start", b, ok)
	}
}

func TestEscClosesPopover(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryStart)
	press(m, "esc")

	if m.IsOpen() {
		t.Error("esc should close the popover")
	}
}

func TestCalendarHalfOpenSelectionFocusesEnd(t *testing.T) {
	m, rec := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryStart)
	m.Update(calendar.RangeChangedMsg{Value: dateutil.Range{Start: day(10)}})

	if b, ok := m.FocusedBoundary(); !ok || b != dateutil.BoundaryEnd {
		t.Errorf("focused = %v/%v, want end after picking a start", b, ok)
	}
	if len(rec.changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(rec.changes))
	}
	if !dateutil.SameDay(rec.changes[0].Start, day(10)) || !rec.changes[0].End.IsZero() {
		t.Errorf("change = %v, want half-open start", rec.changes[0])
	}
}

func TestEnterOnFocusedCalendarSelectsCursorDay(t *testing.T) {
	m, rec := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryStart)
	press(m, "down")
	if !m.cal.Focused() {
		t.Fatal("calendar should take keyboard control after down")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on the calendar should produce a selection")
	}
	got := cmd()
	msg, ok := got.(calendar.RangeChangedMsg)
	if !ok {
		t.Fatalf("enter produced %T, want RangeChangedMsg", got)
	}
	if !msg.Submitted {
		t.Error("enter selection should be submitted")
	}
	m.Update(msg)

	if len(rec.changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(rec.changes))
	}
	if !dateutil.SameDay(rec.changes[0].Start, drNow) {
		t.Errorf("change start = %v, want cursor day %v", rec.changes[0].Start, drNow)
	}
	if !dateutil.SameDay(m.Value().Start, drNow) {
		t.Errorf("value start = %v, want %v", m.Value().Start, drNow)
	}
}

func TestCloseOnSelectionClosesForCompleteRange(t *testing.T) {
	m, _ := newTestModel(t, Options{CloseOnSelection: true})

	m.FocusBoundary(dateutil.BoundaryStart)
	m.Update(calendar.RangeChangedMsg{Value: dateutil.Range{Start: day(10), End: day(15)}})

	if m.IsOpen() {
		t.Error("popover should close once a full valid range is picked")
	}
	if b, ok := m.FocusedBoundary(); !ok || b != dateutil.BoundaryEnd {
		t.Errorf("focused = %v/%v, want end", b, ok)
	}
}

func TestRangeChangeIgnoredWhileClosed(t *testing.T) {
	m, rec := newTestModel(t, Options{})

	m.Update(calendar.RangeChangedMsg{Value: dateutil.Range{Start: day(10)}})

	if len(rec.changes) != 0 {
		t.Errorf("changes = %v, want none from a closed popover", rec.changes)
	}
	if !m.Value().IsEmpty() {
		t.Errorf("value = %v, want untouched", m.Value())
	}
}

func TestHoverPreviewsAndRestoresFocus(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryStart)
	hovered := dateutil.Range{Start: day(10), End: day(15)}
	m.Update(calendar.HoverChangedMsg{
		Value:       &hovered,
		Boundary:    dateutil.BoundaryEnd,
		HasBoundary: true,
	})

	if text, ok := m.HoverText(dateutil.BoundaryStart); !ok || text != "2025-06-10" {
		t.Errorf("start hover = %q/%v, want preview", text, ok)
	}
	if b, ok := m.FocusedBoundary(); !ok || b != dateutil.BoundaryEnd {
		t.Errorf("focused = %v/%v, want hovered boundary", b, ok)
	}

	m.Update(calendar.HoverChangedMsg{Value: nil})

	if _, ok := m.HoverText(dateutil.BoundaryStart); ok {
		t.Error("leaving the calendar should clear hover previews")
	}
	if b, ok := m.FocusedBoundary(); !ok || b != dateutil.BoundaryStart {
		t.Errorf("focused = %v/%v, want restored to start", b, ok)
	}
}

func TestTypingOverridesHoverPreview(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryStart)
	hovered := dateutil.Range{Start: day(10)}
	m.Update(calendar.HoverChangedMsg{
		Value:       &hovered,
		Boundary:    dateutil.BoundaryStart,
		HasBoundary: true,
	})
	typeText(m, "2")

	if _, ok := m.HoverText(dateutil.BoundaryStart); ok {
		t.Error("the newest keystroke should win over a hover preview")
	}
}

func TestShortcutDigitAppliesPreset(t *testing.T) {
	m, rec := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryStart)
	press(m, "down") // hand control to the calendar
	press(m, "2")

	if m.SelectedShortcut() != 1 {
		t.Fatalf("selected shortcut = %d, want 1", m.SelectedShortcut())
	}
	today := dateutil.StartOfDay(drNow)
	want := dateutil.Range{Start: today.AddDate(0, 0, -30), End: today}
	if !m.Value().Equal(want) {
		t.Errorf("value = %v, want %v", m.Value(), want)
	}
	if len(rec.changes) == 0 {
		t.Error("applying a preset should fire the change callback")
	}
}

func TestHoverDrivenFocusKeepsBoundaryToModify(t *testing.T) {
	m, _ := newTestModel(t, Options{TimePrecision: PrecisionMinute})

	m.FocusBoundary(dateutil.BoundaryEnd)
	if b, ok := m.BoundaryToModify(); !ok || b != dateutil.BoundaryEnd {
		t.Fatalf("boundaryToModify = %v/%v, want end", b, ok)
	}

	hovered := dateutil.Range{Start: day(10)}
	m.Update(calendar.HoverChangedMsg{
		Value:       &hovered,
		Boundary:    dateutil.BoundaryStart,
		HasBoundary: true,
	})
	m.FocusBoundary(dateutil.BoundaryStart)

	// Focus that chases a hover must not retarget the time control.
	if b, _ := m.BoundaryToModify(); b != dateutil.BoundaryEnd {
		t.Errorf("boundaryToModify = %v, want end preserved", b)
	}

	m.FocusBoundary(dateutil.BoundaryStart)
	if b, _ := m.BoundaryToModify(); b != dateutil.BoundaryStart {
		t.Errorf("boundaryToModify = %v, want start after deliberate focus", b)
	}
}

func TestSelectAllOnFocusEffect(t *testing.T) {
	m, _ := newTestModel(t, Options{SelectAllOnFocus: true})

	m.FocusBoundary(dateutil.BoundaryStart)

	effects := m.LastEffects()
	if len(effects) == 0 {
		t.Fatal("focus should flush at least one effect")
	}
	eff := effects[len(effects)-1]
	if eff.FocusField != dateutil.BoundaryStart || !eff.SelectAll {
		t.Errorf("effect = %+v, want select-all focus on start", eff)
	}
}

func TestEnterCommitsBufferAsSubmitted(t *testing.T) {
	m, rec := newTestModel(t, Options{})

	m.FocusBoundary(dateutil.BoundaryStart)
	typeText(m, "2025-06-10")
	press(m, "enter")

	if len(rec.changes) == 0 {
		t.Fatal("enter should commit the parsed buffer")
	}
	last := rec.changes[len(rec.changes)-1]
	if !dateutil.SameDay(last.Start, day(10)) {
		t.Errorf("committed start = %v, want %v", last.Start, day(10))
	}
}
