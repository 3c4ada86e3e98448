package zone

import (
	"fmt"
	"strconv"
	"time"

	"github.com/wallclock/zoned/civil"
	"github.com/wallclock/zoned/iso8601"
)

// Parse builds a zone from a textual designator such as "Z", "+05:30"
// or "-0700". Failures carry a *ParseError tagging the stage that
// rejected the input.
func Parse(s string) (Zone, error) {
	f, err := iso8601.Zone(s)
	if err != nil {
		return Zone{}, parseErr(ParseSyntax, err)
	}
	return FromFields(f)
}

// FromFields builds a zone from the structured output of the zone
// designator grammar. The sign applies to both the hour and the
// minute component.
func FromFields(f iso8601.ZoneFields) (Zone, error) {
	switch f.Form {
	case iso8601.Zulu:
		return UTC(), nil
	case iso8601.Offset:
		hours, err := strconv.Atoi(f.Hours)
		if err != nil {
			return Zone{}, parseErr(ParseNumber, err)
		}
		var minutes int
		if f.Minutes != "" {
			minutes, err = strconv.Atoi(f.Minutes)
			if err != nil {
				return Zone{}, parseErr(ParseNumber, err)
			}
		}
		if f.Sign == "-" {
			hours, minutes = -hours, -minutes
		}
		z, err := OfHoursMinutes(hours, minutes)
		if err != nil {
			return Zone{}, parseErr(ParseZone, err)
		}
		return z, nil
	}
	return Zone{}, parseErr(ParseZone, fmt.Errorf("unknown designator form %d", f.Form))
}

// ParseDateTime parses a combined timestamp such as
// "2021-06-01T12:00:00+02:00" into a zoned value. The date, the
// clock and the zone are built independently and the first failure
// wins; later parts are not examined.
func ParseDateTime(s string) (DateTime, error) {
	f, err := iso8601.DateTime(s)
	if err != nil {
		return DateTime{}, parseErr(ParseSyntax, err)
	}
	date, err := dateFromFields(f.Date)
	if err != nil {
		return DateTime{}, err
	}
	clock, err := timeFromFields(f.Time)
	if err != nil {
		return DateTime{}, err
	}
	z, err := FromFields(f.Zone)
	if err != nil {
		return DateTime{}, err
	}
	return z.At(civil.DateTime{Date: date, Time: clock}), nil
}

func dateFromFields(f iso8601.DateFields) (civil.Date, error) {
	year, err := strconv.Atoi(f.Year)
	if err != nil {
		return civil.Date{}, parseErr(ParseNumber, err)
	}
	month, err := strconv.Atoi(f.Month)
	if err != nil {
		return civil.Date{}, parseErr(ParseNumber, err)
	}
	day, err := strconv.Atoi(f.Day)
	if err != nil {
		return civil.Date{}, parseErr(ParseNumber, err)
	}
	d, err := civil.NewDate(year, time.Month(month), day)
	if err != nil {
		return civil.Date{}, parseErr(ParseDate, err)
	}
	return d, nil
}

func timeFromFields(f iso8601.TimeFields) (civil.Time, error) {
	hour, err := strconv.Atoi(f.Hour)
	if err != nil {
		return civil.Time{}, parseErr(ParseNumber, err)
	}
	minute, err := strconv.Atoi(f.Minute)
	if err != nil {
		return civil.Time{}, parseErr(ParseNumber, err)
	}
	second, err := strconv.Atoi(f.Second)
	if err != nil {
		return civil.Time{}, parseErr(ParseNumber, err)
	}
	var ms int
	if f.Fraction != "" {
		ms, err = millisFromFraction(f.Fraction)
		if err != nil {
			return civil.Time{}, parseErr(ParseNumber, err)
		}
	}
	t, err := civil.NewTime(hour, minute, second, ms)
	if err != nil {
		return civil.Time{}, parseErr(ParseTime, err)
	}
	return t, nil
}

// millisFromFraction converts a fractional-second digit string to
// whole milliseconds: "5" is 500, "250" is 250, and digits past the
// third are truncated.
func millisFromFraction(digits string) (int, error) {
	if len(digits) > 3 {
		digits = digits[:3]
	}
	for len(digits) < 3 {
		digits += "0"
	}
	return strconv.Atoi(digits)
}
