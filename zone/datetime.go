package zone

import (
	"time"

	"github.com/wallclock/zoned/civil"
)

// DateTime pairs a naive civil value with the zone that interprets
// it. Pairing shares the zone's transition table rather than copying
// it; zones are immutable after construction, so the pairing is O(1)
// and the pair is safe to copy and share.
//
// Every field accessor resolves the zone against the naive value
// afresh. Nothing is memoized, so a DateTime never holds a stale
// adjustment.
type DateTime struct {
	naive civil.DateTime
	zone  Zone
}

// At pairs a naive value with the zone.
func (z Zone) At(naive civil.DateTime) DateTime {
	return DateTime{naive: naive, zone: z}
}

// Naive returns the unadjusted value the pair was built from.
func (dt DateTime) Naive() civil.DateTime {
	return dt.naive
}

// Zone returns the zone the pair resolves against.
func (dt DateTime) Zone() Zone {
	return dt.zone
}

// Local resolves the pair into the observed local value.
func (dt DateTime) Local() civil.DateTime {
	return dt.zone.Adjust(dt.naive)
}

// Year returns the local calendar year.
func (dt DateTime) Year() int {
	return dt.Local().Date.Year
}

// Month returns the local calendar month.
func (dt DateTime) Month() time.Month {
	return dt.Local().Date.Month
}

// Day returns the local day of the month.
func (dt DateTime) Day() int {
	return dt.Local().Date.Day
}

// YearDay returns the local day of the year, 1 through 366.
func (dt DateTime) YearDay() int {
	return dt.Local().Date.YearDay()
}

// Weekday returns the local day of the week.
func (dt DateTime) Weekday() time.Weekday {
	return dt.Local().Date.Weekday()
}

// Hour returns the local hour of the day.
func (dt DateTime) Hour() int {
	return dt.Local().Time.Hour
}

// Minute returns the local minute.
func (dt DateTime) Minute() int {
	return dt.Local().Time.Minute
}

// Second returns the local second.
func (dt DateTime) Second() int {
	return dt.Local().Time.Second
}

// Millisecond returns the local millisecond.
func (dt DateTime) Millisecond() int {
	return dt.Local().Time.Millisecond
}

// String renders the resolved local value, without a designator.
func (dt DateTime) String() string {
	return dt.Local().String()
}
