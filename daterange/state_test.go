package daterange

import (
	"testing"
	"time"

	"tuikit.dev/almanac/dateutil"
)

func TestIsDateValidAndInRangeBoundsInclusive(t *testing.T) {
	m, _ := newTestModel(t, Options{MinDate: day(5), MaxDate: day(25)})

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"zero date", time.Time{}, false},
		{"before min", day(4), false},
		{"at min", day(5), true},
		{"inside", day(18), true},
		{"at max", day(25), true},
		{"after max", day(26), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.isDateValidAndInRange(tt.date); got != tt.want {
				t.Errorf("isDateValidAndInRange(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestBoundariesOverlapSameDay(t *testing.T) {
	strict, _ := newTestModel(t, Options{})
	single, _ := newTestModel(t, Options{AllowSingleDayRange: true})

	if !strict.boundariesOverlap(day(10), dateutil.BoundaryStart, day(10)) {
		t.Error("equal days should overlap when single-day ranges are disallowed")
	}
	if single.boundariesOverlap(day(10), dateutil.BoundaryStart, day(10)) {
		t.Error("equal days should not overlap when single-day ranges are allowed")
	}
}

func TestBoundariesOverlapDirectional(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	tests := []struct {
		name  string
		date  time.Time
		b     dateutil.Boundary
		other time.Time
		want  bool
	}{
		{"start before end", day(10), dateutil.BoundaryStart, day(15), false},
		{"start past end", day(20), dateutil.BoundaryStart, day(15), true},
		{"end past start", day(20), dateutil.BoundaryEnd, day(15), false},
		{"end before start", day(10), dateutil.BoundaryEnd, day(15), true},
		{"unset other side", day(10), dateutil.BoundaryStart, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.boundariesOverlap(tt.date, tt.b, tt.other); got != tt.want {
				t.Errorf("boundariesOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveRangeSuppressesOverlappingEnd(t *testing.T) {
	v := dateutil.Range{Start: day(20), End: day(15)}
	m, _ := newTestModel(t, Options{Value: &v})

	got := m.Value()
	if !dateutil.SameDay(got.Start, day(20)) {
		t.Errorf("start = %v, want passed through", got.Start)
	}
	if !got.End.IsZero() {
		t.Errorf("end = %v, want suppressed while it overlaps the start", got.End)
	}
}

func TestEffectiveRangeFiltersInvalidUncontrolled(t *testing.T) {
	m, _ := newTestModel(t, Options{
		MinDate:      day(5),
		MaxDate:      day(25),
		DefaultValue: &dateutil.Range{Start: day(2), End: day(15)},
	})

	got := m.Value()
	if !got.Start.IsZero() {
		t.Errorf("start = %v, want filtered out of range", got.Start)
	}
	if !dateutil.SameDay(got.End, day(15)) {
		t.Errorf("end = %v, want kept", got.End)
	}
}

func TestParseFallbackToday(t *testing.T) {
	m, _ := newTestModel(t, Options{ParseFallback: FallbackToday})

	got, ok := m.parse("definitely not a date")
	if !ok {
		t.Fatal("fallback-today should never report failure")
	}
	if !dateutil.SameDay(got, drNow) {
		t.Errorf("parsed = %v, want today", got)
	}
}

func TestParseFallbackInvalidByDefault(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	if _, ok := m.parse("definitely not a date"); ok {
		t.Error("unparseable text should report failure by default")
	}
}

func TestClassifyBoundaryTaxonomy(t *testing.T) {
	m, _ := newTestModel(t, Options{
		MinDate: day(1),
		MaxDate: day(30),
	})

	// Clean blurred field.
	if got := m.classifyBoundary(dateutil.BoundaryStart); got != ErrorNone {
		t.Errorf("empty field classified %v, want none", got)
	}

	// Kept raw buffer that parses to nothing.
	m.state.Ptr(dateutil.BoundaryStart).input = "gibberish"
	m.state.Ptr(dateutil.BoundaryStart).inputSet = true
	if got := m.classifyBoundary(dateutil.BoundaryStart); got != ErrorUnparseable {
		t.Errorf("gibberish classified %v, want unparseable", got)
	}
	m.state.Ptr(dateutil.BoundaryStart).clearTransients()

	// Selected date outside the bounds.
	m.state.Ptr(dateutil.BoundaryStart).selected = day(2).AddDate(0, 2, 0)
	if got := m.classifyBoundary(dateutil.BoundaryStart); got != ErrorOutOfRange {
		t.Errorf("out-of-bounds classified %v, want out of range", got)
	}

	// Reversed pair: the conflict is reported on the end side only.
	m.state.Ptr(dateutil.BoundaryStart).selected = day(20)
	m.state.Ptr(dateutil.BoundaryEnd).selected = day(15)
	if got := m.classifyBoundary(dateutil.BoundaryEnd); got != ErrorOverlap {
		t.Errorf("reversed end classified %v, want overlap", got)
	}
	if got := m.classifyBoundary(dateutil.BoundaryStart); got != ErrorNone {
		t.Errorf("reversed start classified %v, want none", got)
	}
}

func TestPerBoundaryAddressing(t *testing.T) {
	p := NewPerBoundary("a", "b")

	if p.Get(dateutil.BoundaryStart) != "a" || p.Get(dateutil.BoundaryEnd) != "b" {
		t.Fatalf("Get mismatch: %v / %v", p.Get(dateutil.BoundaryStart), p.Get(dateutil.BoundaryEnd))
	}

	p.Set(dateutil.BoundaryEnd, "c")
	if *p.Ptr(dateutil.BoundaryEnd) != "c" {
		t.Errorf("Set/Ptr mismatch: %v", p.Get(dateutil.BoundaryEnd))
	}

	var order []dateutil.Boundary
	p.Each(func(b dateutil.Boundary, v *string) { order = append(order, b) })
	if len(order) != 2 || order[0] != dateutil.BoundaryStart || order[1] != dateutil.BoundaryEnd {
		t.Errorf("Each order = %v, want start then end", order)
	}
}
