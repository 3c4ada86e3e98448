// Package iso8601 splits ISO 8601 text into structured digit fields.
//
// The package is a pure grammar: it reports how the input decomposes
// into year, month, day, clock and zone-designator fields, but it does
// not judge whether those fields make sense. "2021-13-99" passes the
// grammar; rejecting it is calendar validation and belongs to the
// consumer.
package iso8601

import (
	"fmt"
	"regexp"
)

// DesignatorForm distinguishes the two shapes of a zone designator.
type DesignatorForm int

const (
	// Zulu is the literal "Z" (or "z") marker for UTC.
	Zulu DesignatorForm = iota + 1
	// Offset is a signed hours-and-optional-minutes designator such
	// as "+05:30", "-0730" or "+05".
	Offset
)

// ZoneFields is the structured form of a zone designator. Sign, Hours
// and Minutes are only set for the Offset form; Minutes stays empty
// when the designator has none.
type ZoneFields struct {
	Form    DesignatorForm
	Sign    string
	Hours   string
	Minutes string
}

// DateFields holds the digit substrings of a calendar date.
type DateFields struct {
	Year  string
	Month string
	Day   string
}

// TimeFields holds the digit substrings of a clock time. Fraction is
// the digits after the decimal point, without the point, empty when
// the input has none.
type TimeFields struct {
	Hour     string
	Minute   string
	Second   string
	Fraction string
}

// DateTimeFields is the decomposition of a combined zoned timestamp.
type DateTimeFields struct {
	Date DateFields
	Time TimeFields
	Zone ZoneFields
}

// SyntaxError reports input that does not match the grammar.
type SyntaxError struct {
	Input  string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid ISO 8601 text %q: %s", e.Input, e.Reason)
}

var (
	offsetPattern = regexp.MustCompile(`^([+-])(\d{2})(?::?(\d{2}))?$`)

	// The zone designator tail must start with Z, z, + or - so a
	// trailing clock fraction is never mistaken for one.
	dateTimePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[Tt](\d{2}):(\d{2}):(\d{2})(?:\.(\d+))?([Zz]|[+-].+)$`)
)

// Zone decomposes a zone designator: "Z", or a sign with two hour
// digits and optional two minute digits, colon optional.
func Zone(s string) (ZoneFields, error) {
	if s == "Z" || s == "z" {
		return ZoneFields{Form: Zulu}, nil
	}
	m := offsetPattern.FindStringSubmatch(s)
	if m == nil {
		return ZoneFields{}, &SyntaxError{Input: s, Reason: "expected Z or ±hh[:mm]"}
	}
	return ZoneFields{Form: Offset, Sign: m[1], Hours: m[2], Minutes: m[3]}, nil
}

// DateTime decomposes a combined timestamp of the form
// yyyy-mm-ddThh:mm:ss[.fff] followed by a zone designator.
func DateTime(s string) (DateTimeFields, error) {
	m := dateTimePattern.FindStringSubmatch(s)
	if m == nil {
		return DateTimeFields{}, &SyntaxError{Input: s, Reason: "expected yyyy-mm-ddThh:mm:ss followed by a zone designator"}
	}
	zone, err := Zone(m[8])
	if err != nil {
		return DateTimeFields{}, err
	}
	return DateTimeFields{
		Date: DateFields{Year: m[1], Month: m[2], Day: m[3]},
		Time: TimeFields{Hour: m[4], Minute: m[5], Second: m[6], Fraction: m[7]},
		Zone: zone,
	}, nil
}
