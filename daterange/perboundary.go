package daterange

import "tuikit.dev/almanac/dateutil"

// PerBoundary holds one value per range boundary, indexed by the Boundary
// enum. Start and end share every code path; nothing in this package ever
// addresses a side by name.
type PerBoundary[T any] struct {
	start T
	end   T
}

// NewPerBoundary builds a container from explicit sides.
func NewPerBoundary[T any](start, end T) PerBoundary[T] {
	return PerBoundary[T]{start: start, end: end}
}

// Get returns the boundary's value.
func (p PerBoundary[T]) Get(b dateutil.Boundary) T {
	if b == dateutil.BoundaryStart {
		return p.start
	}
	return p.end
}

// Ptr returns a mutable pointer to the boundary's slot.
func (p *PerBoundary[T]) Ptr(b dateutil.Boundary) *T {
	if b == dateutil.BoundaryStart {
		return &p.start
	}
	return &p.end
}

// Set replaces the boundary's value.
func (p *PerBoundary[T]) Set(b dateutil.Boundary, v T) {
	*p.Ptr(b) = v
}

// Each calls fn for both boundaries, start first.
func (p *PerBoundary[T]) Each(fn func(b dateutil.Boundary, v *T)) {
	fn(dateutil.BoundaryStart, &p.start)
	fn(dateutil.BoundaryEnd, &p.end)
}
