// Package civil provides naive calendar and clock values: dates and
// times that carry no zone and mean the same thing wherever they are
// read. The zone package pairs them with a zone to produce observed
// local time.
//
// All calculations assume the proleptic Gregorian calendar and ignore
// leap seconds.
package civil

import (
	"fmt"
	"time"
)

// Date is a naive calendar date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Time is a naive clock time with millisecond precision.
type Time struct {
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// DateTime combines a naive date with a naive time.
type DateTime struct {
	Date Date
	Time Time
}

// NewDate validates the fields and returns the date. The day must
// exist in the given month, honoring leap years.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if month < time.January || month > time.December {
		return Date{}, fmt.Errorf("invalid month: %d", int(month))
	}
	if max := DaysInMonth(year, month); day < 1 || day > max {
		return Date{}, fmt.Errorf("invalid day for %s %d: %d", month, year, day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// NewTime validates the fields and returns the time.
func NewTime(hour, minute, second, millisecond int) (Time, error) {
	if hour < 0 || hour > 23 {
		return Time{}, fmt.Errorf("invalid hour: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return Time{}, fmt.Errorf("invalid minute: %d", minute)
	}
	if second < 0 || second > 59 {
		return Time{}, fmt.Errorf("invalid second: %d", second)
	}
	if millisecond < 0 || millisecond > 999 {
		return Time{}, fmt.Errorf("invalid millisecond: %d", millisecond)
	}
	return Time{Hour: hour, Minute: minute, Second: second, Millisecond: millisecond}, nil
}

// IsLeapYear reports whether the year has a February 29.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the month.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// daysBefore[m] counts the days in a non-leap year before month m+1,
// with a 13th entry closing the year.
var daysBefore = [13]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365}

// Weekday returns the day of the week using Zeller's congruence.
func (d Date) Weekday() time.Weekday {
	day, month, year := d.Day, int(d.Month), d.Year
	if month < 3 {
		month += 12
		year--
	}
	k := year % 100
	j := year / 100
	h := (day + ((13 * (month + 1)) / 5) + k + (k / 4) + (j / 4) + (5 * j)) % 7
	// Zeller counts Saturday=0; shift to Sunday=0.
	return time.Weekday((h + 6) % 7)
}

// YearDay returns the one-based day of the year, 1 through 365 or 366
// in leap years.
func (d Date) YearDay() int {
	yd := daysBefore[d.Month-1] + d.Day
	if d.Month > time.February && IsLeapYear(d.Year) {
		yd++
	}
	return yd
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (t Time) String() string {
	if t.Millisecond != 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour, t.Minute, t.Second, t.Millisecond)
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (dt DateTime) String() string {
	return dt.Date.String() + "T" + dt.Time.String()
}
