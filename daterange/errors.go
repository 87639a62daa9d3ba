package daterange

import "errors"

// Structural misuse is reported immediately; per-field conditions are kept
// as local display state and surfaced through the OnError callback.
var (
	// ErrNilControlledValue is returned when a controlled input is given a
	// nil value. A controlled input cannot represent "no value" distinctly
	// from "uncontrolled", so this is rejected rather than guessed at.
	ErrNilControlledValue = errors.New("daterange: controlled value must not be nil")

	// ErrNotControlled is returned when SetValue is called on an
	// uncontrolled input, whose selection is owned internally.
	ErrNotControlled = errors.New("daterange: SetValue requires controlled mode")

	// ErrInvalidBounds is returned when MinDate falls after MaxDate.
	ErrInvalidBounds = errors.New("daterange: MinDate must not be after MaxDate")
)

// ErrorKind classifies the display state of a single boundary field.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	// ErrorUnparseable: the field text did not parse to any date.
	ErrorUnparseable
	// ErrorOutOfRange: the date parsed but falls outside [MinDate, MaxDate].
	ErrorOutOfRange
	// ErrorOverlap: the date is valid and in range but conflicts with the
	// opposite boundary. Always flagged on the end side.
	ErrorOverlap
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "none"
	case ErrorUnparseable:
		return "unparseable"
	case ErrorOutOfRange:
		return "out of range"
	case ErrorOverlap:
		return "overlap"
	default:
		return "unknown"
	}
}
