package gallery

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tuikit.dev/almanac/daterange"
	"tuikit.dev/almanac/dateutil"
	"tuikit.dev/almanac/internal/config"
	"tuikit.dev/almanac/internal/history"
)

func galleryRange() dateutil.Range {
	return dateutil.Range{
		Start: time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
	}
}

// withSelection swaps in a picker seeded with a selection.
func withSelection(t *testing.T, m *Model, r dateutil.Range) {
	t.Helper()

	picker, err := daterange.New(m.pickerOptions(m.settings, &r))
	if err != nil {
		t.Fatalf("seeding picker: %v", err)
	}
	m.picker = picker
}

func TestPickerOptionsMapping(t *testing.T) {
	s := config.DefaultSettings()
	s.MinDate = "2025-01-01"
	s.MaxDate = "2025-12-31"
	s.AllowSingleDayRange = true
	s.TimePrecision = "minute"
	s.Shortcuts = []config.ShortcutSetting{{Label: "Past fortnight", DaysBack: 14}}

	m, err := New(s, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	opts := m.pickerOptions(s, nil)
	if opts.MinDate.IsZero() || opts.MaxDate.IsZero() {
		t.Error("bounds should be parsed from settings")
	}
	if !opts.AllowSingleDayRange {
		t.Error("AllowSingleDayRange should carry over")
	}
	if opts.TimePrecision != daterange.PrecisionMinute {
		t.Errorf("precision = %v, want minute", opts.TimePrecision)
	}
	if len(opts.Shortcuts) != 1 || opts.Shortcuts[0].Label != "Past fortnight" {
		t.Errorf("shortcuts = %v, want the configured preset", opts.Shortcuts)
	}
	if d := opts.Shortcuts[0].Value.Days(); d != 15 {
		t.Errorf("preset span = %d days (inclusive), want 15", d)
	}
}

func TestApplySettingsKeepsSelection(t *testing.T) {
	m, err := New(config.DefaultSettings(), nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	withSelection(t, m, galleryRange())

	next := config.DefaultSettings()
	next.AllowSingleDayRange = true
	m.applySettings(next)

	if !m.picker.Value().Equal(galleryRange()) {
		t.Errorf("value = %v, want selection carried across reload", m.picker.Value())
	}
	if !m.settings.AllowSingleDayRange {
		t.Error("settings should be replaced")
	}
	if m.statusErr {
		t.Errorf("status = %q flagged as error", m.status)
	}
}

func TestApplySettingsRejectsBadBounds(t *testing.T) {
	m, err := New(config.DefaultSettings(), nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bad := config.DefaultSettings()
	bad.MinDate = "2025-12-31"
	bad.MaxDate = "2025-01-01"
	m.applySettings(bad)

	if !m.statusErr {
		t.Error("bad bounds should surface as an error status")
	}
	if m.settings.MinDate == bad.MinDate {
		t.Error("bad settings must not be applied")
	}
}

func TestRecordAndReopenHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m, err := New(config.DefaultSettings(), store, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	withSelection(t, m, galleryRange())

	m.recordSelection()
	if m.statusErr {
		t.Fatalf("record failed: %s", m.status)
	}
	if !strings.HasPrefix(m.status, "saved ") {
		t.Errorf("status = %q, want saved confirmation", m.status)
	}

	m.openSelector()
	if !m.showSelector || m.sel == nil {
		t.Fatal("selector should open over saved history")
	}
	if len(m.recentByLabel) != 1 {
		t.Errorf("recent entries = %d, want 1", len(m.recentByLabel))
	}
}

func TestRecordWithoutStoreReportsDisabled(t *testing.T) {
	m, err := New(config.DefaultSettings(), nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	withSelection(t, m, galleryRange())

	m.recordSelection()
	if !m.statusErr {
		t.Error("recording without a store should report an error status")
	}
}

func TestRecordEmptySelection(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m, err := New(config.DefaultSettings(), store, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m.recordSelection()
	if !m.statusErr {
		t.Error("an empty selection should not be saved")
	}
}

func TestDescribeRangeHalfOpen(t *testing.T) {
	r := dateutil.Range{Start: galleryRange().Start}

	got := describeRange(r)
	want := "2025-06-10 → …"
	if got != want {
		t.Errorf("describeRange = %q, want %q", got, want)
	}
}
