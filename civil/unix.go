package civil

import "time"

// Unix seconds here ignore leap seconds but respect leap years. The
// conversion mirrors the Go standard library's time package, routed
// through its internal "absolute time" so that the 400-year leap
// cycle arithmetic stays exact; the constants below are the standard
// library's.
const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	daysPer400Years  = 365*400 + 97
	daysPer100Years  = 365*100 + 24
	daysPer4Years    = 365*4 + 1

	absoluteZeroYear         = -292277022399
	internalYear             = 1
	absoluteToInternal int64 = (absoluteZeroYear - internalYear) * 365.2425 * secondsPerDay
	unixToInternal     int64 = (1969*365 + 1969/4 - 1969/100 + 1969/400) * secondsPerDay
	internalToUnix     int64 = -unixToInternal
)

// Unix returns the number of seconds between 1970-01-01T00:00:00 and
// the value, treating the value as if it were UTC. The millisecond
// field does not participate; timestamps are whole seconds.
func (dt DateTime) Unix() int64 {
	d := daysSinceEpoch(dt.Date.Year) + uint64(daysBefore[dt.Date.Month-1]) + uint64(dt.Date.Day-1)
	if dt.Date.Month > time.February && IsLeapYear(dt.Date.Year) {
		d++
	}
	abs := d*secondsPerDay +
		uint64(dt.Time.Hour)*secondsPerHour +
		uint64(dt.Time.Minute)*secondsPerMinute +
		uint64(dt.Time.Second)
	return int64(abs) + (absoluteToInternal + internalToUnix)
}

// FromUnix is the inverse of Unix. The millisecond field of the
// result is zero.
func FromUnix(sec int64) DateTime {
	abs := uint64(sec - (absoluteToInternal + internalToUnix))

	rem := abs % secondsPerDay
	clock := Time{
		Hour:   int(rem / secondsPerHour),
		Minute: int(rem % secondsPerHour / secondsPerMinute),
		Second: int(rem % secondsPerMinute),
	}

	// Split days into 400/100/4/1-year cycles. The n -= n >> 2
	// steps cap the quotient at 3, keeping the final year of each
	// larger cycle in place.
	d := abs / secondsPerDay

	n := d / daysPer400Years
	y := 400 * n
	d -= daysPer400Years * n

	n = d / daysPer100Years
	n -= n >> 2
	y += 100 * n
	d -= daysPer100Years * n

	n = d / daysPer4Years
	y += 4 * n
	d -= daysPer4Years * n

	n = d / 365
	n -= n >> 2
	y += n
	d -= 365 * n

	year := int(int64(y) + absoluteZeroYear)
	day := int(d)

	if IsLeapYear(year) {
		switch {
		case day > 31+29-1:
			// Fold the leap day out so the non-leap lookup
			// below applies.
			day--
		case day == 31+29-1:
			return DateTime{
				Date: Date{Year: year, Month: time.February, Day: 29},
				Time: clock,
			}
		}
	}

	month := day / 31
	if day >= daysBefore[month+1] {
		month++
	}
	day -= daysBefore[month]

	return DateTime{
		Date: Date{Year: year, Month: time.Month(month + 1), Day: day + 1},
		Time: clock,
	}
}

// AddSeconds shifts the value by n seconds, carrying across days,
// months and years as needed. The millisecond field passes through
// untouched since shifts are whole seconds.
func (dt DateTime) AddSeconds(n int64) DateTime {
	out := FromUnix(dt.Unix() + n)
	out.Time.Millisecond = dt.Time.Millisecond
	return out
}

// daysSinceEpoch returns the number of days from the absolute epoch
// to the start of the year. Like the standard library it adds whole
// 400, 100 and 4-year cycles first and plain years last.
func daysSinceEpoch(year int) uint64 {
	y := uint64(int64(year) - absoluteZeroYear)

	n := y / 400
	y -= 400 * n
	d := daysPer400Years * n

	n = y / 100
	y -= 100 * n
	d += daysPer100Years * n

	n = y / 4
	y -= 4 * n
	d += daysPer4Years * n

	n = y
	d += 365 * n

	return d
}
