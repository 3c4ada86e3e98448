package zone

import (
	"errors"
	"fmt"
)

// Constructor validation errors. Both are reported wrapped, so match
// them with errors.Is.
var (
	// ErrOffsetRange reports a fixed offset outside [-86400, 86400]
	// seconds, or an hour or minute component outside its range.
	ErrOffsetRange = errors.New("offset out of range")

	// ErrSignMismatch reports nonzero hour and minute components
	// with opposite signs.
	ErrSignMismatch = errors.New("hour and minute signs differ")
)

// ParseKind tags the stage of parsing a failure came from.
type ParseKind int

const (
	// ParseSyntax: the text does not match the grammar.
	ParseSyntax ParseKind = iota + 1
	// ParseNumber: a digit field does not convert to an integer.
	ParseNumber
	// ParseDate: the calendar fields are out of range.
	ParseDate
	// ParseTime: the clock fields are out of range.
	ParseTime
	// ParseZone: the zone designator fields fail validation.
	ParseZone
)

func (k ParseKind) String() string {
	switch k {
	case ParseSyntax:
		return "syntax"
	case ParseNumber:
		return "number"
	case ParseDate:
		return "date"
	case ParseTime:
		return "time"
	case ParseZone:
		return "zone"
	}
	return fmt.Sprintf("ParseKind(%d)", int(k))
}

// ParseError wraps a failure from one stage of parsing together with
// the stage it came from, so callers can tell a bad number from a bad
// calendar date from a bad zone shape without string matching.
type ParseError struct {
	Kind ParseKind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(kind ParseKind, err error) error {
	return &ParseError{Kind: kind, Err: err}
}
