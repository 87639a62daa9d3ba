package dateutil

import "time"

// Boundary identifies one of the two ends of a Range. It is used as a key
// for per-side widget state so start and end share a single code path.
type Boundary int

const (
	BoundaryStart Boundary = iota
	BoundaryEnd
)

// Other returns the opposite boundary.
func (b Boundary) Other() Boundary {
	if b == BoundaryStart {
		return BoundaryEnd
	}
	return BoundaryStart
}

func (b Boundary) String() string {
	if b == BoundaryStart {
		return "start"
	}
	return "end"
}

// Of returns the boundary's side of the range.
func (b Boundary) Of(r Range) time.Time {
	if b == BoundaryStart {
		return r.Start
	}
	return r.End
}

// WithSide returns a copy of r with the boundary's side replaced.
func (b Boundary) WithSide(r Range, t time.Time) Range {
	if b == BoundaryStart {
		r.Start = t
	} else {
		r.End = t
	}
	return r
}
