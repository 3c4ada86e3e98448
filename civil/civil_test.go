package civil

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewDate(t *testing.T) {
	tests := []struct {
		year    int
		month   time.Month
		day     int
		wantErr bool
	}{
		{2021, time.June, 1, false},
		{2000, time.February, 29, false},
		{1900, time.February, 29, true}, // century, not a leap year
		{2400, time.February, 29, false},
		{2021, time.February, 29, true},
		{2021, time.April, 31, true},
		{2021, time.December, 31, false},
		{2021, time.January, 0, true},
		{2021, time.Month(0), 1, true},
		{2021, time.Month(13), 1, true},
	}
	for _, tt := range tests {
		_, err := NewDate(tt.year, tt.month, tt.day)
		if gotErr := err != nil; gotErr != tt.wantErr {
			t.Errorf("NewDate(%d, %v, %d) error = %v, wantErr %v", tt.year, tt.month, tt.day, err, tt.wantErr)
		}
	}
}

func TestNewTime(t *testing.T) {
	tests := []struct {
		hour, minute, second, ms int
		wantErr                  bool
	}{
		{0, 0, 0, 0, false},
		{23, 59, 59, 999, false},
		{24, 0, 0, 0, true},
		{-1, 0, 0, 0, true},
		{12, 60, 0, 0, true},
		{12, 0, 60, 0, true},
		{12, 0, 0, 1000, true},
	}
	for _, tt := range tests {
		_, err := NewTime(tt.hour, tt.minute, tt.second, tt.ms)
		if gotErr := err != nil; gotErr != tt.wantErr {
			t.Errorf("NewTime(%d, %d, %d, %d) error = %v, wantErr %v", tt.hour, tt.minute, tt.second, tt.ms, err, tt.wantErr)
		}
	}
}

var unixCases = []struct {
	dt   DateTime
	unix int64
}{
	{DateTime{Date{1970, time.January, 1}, Time{}}, 0},
	{DateTime{Date{1970, time.January, 1}, Time{Hour: 0, Minute: 0, Second: 1}}, 1},
	{DateTime{Date{1969, time.December, 31}, Time{Hour: 23, Minute: 59, Second: 59}}, -1},
	{DateTime{Date{2021, time.June, 1}, Time{Hour: 12}}, 1622548800},
	{DateTime{Date{2000, time.February, 29}, Time{}}, 951782400},
	{DateTime{Date{2000, time.March, 1}, Time{}}, 951868800},
	{DateTime{Date{1900, time.January, 1}, Time{}}, -2208988800},
	{DateTime{Date{2038, time.January, 19}, Time{Hour: 3, Minute: 14, Second: 8}}, 2147483648},
}

func TestUnix(t *testing.T) {
	for _, tt := range unixCases {
		if got := tt.dt.Unix(); got != tt.unix {
			t.Errorf("%v.Unix() = %d, want %d", tt.dt, got, tt.unix)
		}
	}
}

func TestFromUnix(t *testing.T) {
	for _, tt := range unixCases {
		if diff := cmp.Diff(FromUnix(tt.unix), tt.dt); diff != "" {
			t.Errorf("FromUnix(%d) mismatch (-got +want):\n%s", tt.unix, diff)
		}
	}
}

func TestAddSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   DateTime
		n    int64
		want DateTime
	}{
		{
			name: "within the hour",
			in:   DateTime{Date{2021, time.June, 1}, Time{Hour: 12}},
			n:    7200,
			want: DateTime{Date{2021, time.June, 1}, Time{Hour: 14}},
		},
		{
			name: "across midnight",
			in:   DateTime{Date{2021, time.June, 1}, Time{Hour: 23, Minute: 30}},
			n:    3600,
			want: DateTime{Date{2021, time.June, 2}, Time{Hour: 0, Minute: 30}},
		},
		{
			name: "backward across a year boundary",
			in:   DateTime{Date{2021, time.January, 1}, Time{Hour: 0, Minute: 10}},
			n:    -3600,
			want: DateTime{Date{2020, time.December, 31}, Time{Hour: 23, Minute: 10}},
		},
		{
			name: "into a leap day",
			in:   DateTime{Date{2020, time.February, 28}, Time{Hour: 23}},
			n:    7200,
			want: DateTime{Date{2020, time.February, 29}, Time{Hour: 1}},
		},
		{
			name: "millisecond rides along",
			in:   DateTime{Date{2021, time.June, 1}, Time{Hour: 12, Millisecond: 250}},
			n:    60,
			want: DateTime{Date{2021, time.June, 1}, Time{Hour: 12, Minute: 1, Millisecond: 250}},
		},
		{
			name: "zero shift",
			in:   DateTime{Date{2021, time.June, 1}, Time{Hour: 12, Second: 30}},
			n:    0,
			want: DateTime{Date{2021, time.June, 1}, Time{Hour: 12, Second: 30}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.in.AddSeconds(tt.n), tt.want); diff != "" {
				t.Errorf("AddSeconds(%d) mismatch (-got +want):\n%s", tt.n, diff)
			}
		})
	}
}

func TestWeekday(t *testing.T) {
	tests := []struct {
		date Date
		want time.Weekday
	}{
		{Date{1970, time.January, 1}, time.Thursday},
		{Date{2021, time.June, 1}, time.Tuesday},
		{Date{2000, time.February, 29}, time.Tuesday},
		{Date{2024, time.December, 25}, time.Wednesday},
		{Date{1900, time.January, 1}, time.Monday},
	}
	for _, tt := range tests {
		if got := tt.date.Weekday(); got != tt.want {
			t.Errorf("%v.Weekday() = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestYearDay(t *testing.T) {
	tests := []struct {
		date Date
		want int
	}{
		{Date{2021, time.January, 1}, 1},
		{Date{2021, time.March, 1}, 60},
		{Date{2020, time.March, 1}, 61},
		{Date{2021, time.December, 31}, 365},
		{Date{2020, time.December, 31}, 366},
		{Date{2020, time.February, 29}, 60},
	}
	for _, tt := range tests {
		if got := tt.date.YearDay(); got != tt.want {
			t.Errorf("%v.YearDay() = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		dt   DateTime
		want string
	}{
		{DateTime{Date{2021, time.June, 1}, Time{Hour: 12}}, "2021-06-01T12:00:00"},
		{DateTime{Date{987, time.January, 9}, Time{Hour: 1, Minute: 2, Second: 3}}, "0987-01-09T01:02:03"},
		{DateTime{Date{2021, time.June, 1}, Time{Hour: 12, Millisecond: 7}}, "2021-06-01T12:00:00.007"},
	}
	for _, tt := range tests {
		if got := tt.dt.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
