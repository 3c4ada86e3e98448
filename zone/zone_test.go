package zone

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallclock/zoned/civil"
	"github.com/wallclock/zoned/tzif"
)

func dt(year int, month time.Month, day, hour, min, sec int) civil.DateTime {
	return civil.DateTime{
		Date: civil.Date{Year: year, Month: month, Day: day},
		Time: civil.Time{Hour: hour, Minute: min, Second: sec},
	}
}

func TestOfSeconds(t *testing.T) {
	for _, tt := range []struct {
		seconds int
		ok      bool
	}{
		{seconds: 1234, ok: true},
		{seconds: 0, ok: true},
		{seconds: 86400, ok: true},
		{seconds: -86400, ok: true},
		{seconds: 100000, ok: false},
		{seconds: 86401, ok: false},
		{seconds: -86401, ok: false},
	} {
		z, err := OfSeconds(tt.seconds)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrOffsetRange, "OfSeconds(%d)", tt.seconds)
			continue
		}
		require.NoError(t, err, "OfSeconds(%d)", tt.seconds)
		got, fixed := z.Offset()
		assert.True(t, fixed)
		assert.Equal(t, int32(tt.seconds), got)
	}
}

func TestOfHoursMinutes(t *testing.T) {
	for _, tt := range []struct {
		name        string
		hours, mins int
		seconds     int32
		wantErr     error
	}{
		{name: "plain positive", hours: 5, mins: 30, seconds: 19800},
		{name: "plain negative", hours: -3, mins: -45, seconds: -13500},
		{name: "zero minutes", hours: 4, mins: 0, seconds: 14400},
		{name: "zero hours", hours: 0, mins: -30, seconds: -1800},
		{name: "all zero", hours: 0, mins: 0, seconds: 0},
		{name: "max", hours: 23, mins: 59, seconds: 86340},
		{name: "min", hours: -23, mins: -59, seconds: -86340},
		{name: "minutes too large", hours: 8, mins: 60, wantErr: ErrOffsetRange},
		{name: "minutes too small", hours: 0, mins: -60, wantErr: ErrOffsetRange},
		{name: "hours too large", hours: 24, mins: 0, wantErr: ErrOffsetRange},
		{name: "hours too small", hours: -24, mins: 0, wantErr: ErrOffsetRange},
		{name: "negative hours positive minutes", hours: -4, mins: 30, wantErr: ErrSignMismatch},
		{name: "positive hours negative minutes", hours: 4, mins: -30, wantErr: ErrSignMismatch},
	} {
		t.Run(tt.name, func(t *testing.T) {
			z, err := OfHoursMinutes(tt.hours, tt.mins)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got, fixed := z.Offset()
			assert.True(t, fixed)
			assert.Equal(t, tt.seconds, got)
		})
	}
}

func TestAdjustUTC(t *testing.T) {
	for _, naive := range []civil.DateTime{
		dt(1970, time.January, 1, 0, 0, 0),
		dt(2021, time.June, 1, 12, 0, 0),
		dt(1899, time.December, 31, 23, 59, 59),
	} {
		assert.Equal(t, naive, UTC().Adjust(naive))
	}

	var zero Zone
	assert.True(t, zero.IsUTC())
	assert.Equal(t, dt(2021, time.June, 1, 12, 0, 0), zero.Adjust(dt(2021, time.June, 1, 12, 0, 0)))
}

func TestAdjustFixed(t *testing.T) {
	plus2, err := OfHoursMinutes(2, 0)
	require.NoError(t, err)
	assert.Equal(t, dt(2021, time.June, 1, 14, 0, 0), plus2.Adjust(dt(2021, time.June, 1, 12, 0, 0)))

	minus530, err := OfHoursMinutes(-5, -30)
	require.NoError(t, err)
	assert.Equal(t, dt(2021, time.May, 31, 18, 30, 0), minus530.Adjust(dt(2021, time.June, 1, 0, 0, 0)))

	fullDay, err := OfSeconds(86400)
	require.NoError(t, err)
	assert.Equal(t, dt(2021, time.June, 2, 12, 0, 0), fullDay.Adjust(dt(2021, time.June, 1, 12, 0, 0)))

	withMillis := dt(2021, time.June, 1, 12, 0, 0)
	withMillis.Time.Millisecond = 250
	got := plus2.Adjust(withMillis)
	assert.Equal(t, 250, got.Time.Millisecond)
	assert.Equal(t, 14, got.Time.Hour)
}

func TestAdjustVariable(t *testing.T) {
	// Deliberately out of order; FromTransitions sorts.
	z := FromTransitions([]Transition{
		{Timestamp: 2000, OffsetSeconds: 200},
		{Timestamp: 3000, OffsetSeconds: 300},
		{Timestamp: 1000, OffsetSeconds: 100},
	})

	for _, tt := range []struct {
		name  string
		at    int64
		shift int64
	}{
		{name: "before the table", at: 0, shift: 0},
		{name: "equal to earliest is not before it", at: 1000, shift: 0},
		{name: "just past earliest", at: 1001, shift: 100},
		{name: "equal to middle keeps previous", at: 2000, shift: 100},
		{name: "between middle and latest", at: 2500, shift: 200},
		{name: "just past latest", at: 3001, shift: 300},
		{name: "far future", at: 1_000_000_000, shift: 300},
	} {
		t.Run(tt.name, func(t *testing.T) {
			naive := civil.FromUnix(tt.at)
			want := civil.FromUnix(tt.at + tt.shift)
			assert.Equal(t, want, z.Adjust(naive))
		})
	}
}

func TestLookup(t *testing.T) {
	z := FromTransitions([]Transition{
		{Timestamp: 1000, OffsetSeconds: 100, Designation: "AAA"},
		{Timestamp: 2000, OffsetSeconds: 200, Designation: "BBB"},
	})

	tr, ok := z.Lookup(2500)
	require.True(t, ok)
	assert.Equal(t, "BBB", tr.Designation)

	tr, ok = z.Lookup(1500)
	require.True(t, ok)
	assert.Equal(t, "AAA", tr.Designation)

	_, ok = z.Lookup(1000)
	assert.False(t, ok)

	_, ok = z.Lookup(-5)
	assert.False(t, ok)

	_, ok = UTC().Lookup(1500)
	assert.False(t, ok)

	fixed, err := OfSeconds(3600)
	require.NoError(t, err)
	_, ok = fixed.Lookup(1500)
	assert.False(t, ok)
}

func TestLookupEqualTimestamps(t *testing.T) {
	a := Transition{Timestamp: 1000, OffsetSeconds: 100, Designation: "A"}
	b := Transition{Timestamp: 1000, OffsetSeconds: 200, Designation: "B"}

	// With duplicate timestamps the record listed first wins, the
	// same answer a front-to-back scan of the sorted table gives.
	tr, ok := FromTransitions([]Transition{a, b}).Lookup(1500)
	require.True(t, ok)
	assert.Equal(t, "A", tr.Designation)

	tr, ok = FromTransitions([]Transition{b, a}).Lookup(1500)
	require.True(t, ok)
	assert.Equal(t, "B", tr.Designation)
}

func TestLookupMatchesScan(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Timestamps drawn from a small range so duplicates occur; the
	// offset tags each record so ties are distinguishable.
	ts := make([]Transition, 80)
	for i := range ts {
		ts[i] = Transition{
			Timestamp:     int64(rng.Intn(500)),
			OffsetSeconds: int32(i),
		}
	}
	z := FromTransitions(ts)
	table := z.Transitions()

	scan := func(at int64) (Transition, bool) {
		for _, tr := range table {
			if tr.Timestamp < at {
				return tr, true
			}
		}
		return Transition{}, false
	}

	for at := int64(-1); at <= 501; at++ {
		want, wantOK := scan(at)
		got, ok := z.Lookup(at)
		require.Equal(t, wantOK, ok, "at %d", at)
		assert.Equal(t, want, got, "at %d", at)
	}
}

func TestTransitionsSortedDescending(t *testing.T) {
	in := []Transition{
		{Timestamp: 1000},
		{Timestamp: 3000},
		{Timestamp: 2000},
	}
	z := FromTransitions(in)

	got := z.Transitions()
	require.Len(t, got, 3)
	assert.Equal(t, int64(3000), got[0].Timestamp)
	assert.Equal(t, int64(2000), got[1].Timestamp)
	assert.Equal(t, int64(1000), got[2].Timestamp)

	// The zone owns its copy: mutating either the input or the
	// returned slice must not reach the table.
	in[0].Timestamp = 9999
	got[0].OffsetSeconds = 7777
	tr, ok := z.Lookup(3500)
	require.True(t, ok)
	assert.Equal(t, int64(3000), tr.Timestamp)
	assert.Equal(t, int32(0), tr.OffsetSeconds)
}

func variableFile() tzif.File {
	b := tzif.DataBlock{
		TransitionTimes: []int64{100, 200, 300},
		TransitionTypes: []uint8{1, 2, 1},
		LocalTimeTypes: []tzif.LocalTimeType{
			{Utoff: 0, DST: false, DesigIdx: 0},
			{Utoff: 3600, DST: false, DesigIdx: 4},
			{Utoff: 7200, DST: true, DesigIdx: 8},
		},
		Designations: []byte("LMT\x00CET\x00CEST\x00"),
	}
	return tzif.File{
		Version:  tzif.V2,
		V1Header: tzif.HeaderFor(tzif.V2, b),
		V1:       b,
		V2Header: tzif.HeaderFor(tzif.V2, b),
		V2:       b,
	}
}

func TestFromTZif(t *testing.T) {
	z, err := FromTZif(variableFile())
	require.NoError(t, err)

	want := []Transition{
		{Timestamp: 300, OffsetSeconds: 3600, Designation: "CET", DST: false},
		{Timestamp: 200, OffsetSeconds: 7200, Designation: "CEST", DST: true},
		{Timestamp: 100, OffsetSeconds: 3600, Designation: "CET", DST: false},
	}
	assert.Equal(t, want, z.Transitions())
}

func TestFromTZifPrefers64Bit(t *testing.T) {
	f := variableFile()
	f.V1 = tzif.DataBlock{
		TransitionTimes: []int64{100},
		TransitionTypes: []uint8{0},
		LocalTimeTypes:  []tzif.LocalTimeType{{Utoff: 0, DesigIdx: 0}},
		Designations:    []byte("LMT\x00"),
	}
	f.V1Header = tzif.HeaderFor(tzif.V2, f.V1)

	z, err := FromTZif(f)
	require.NoError(t, err)
	assert.Len(t, z.Transitions(), 3)

	v1only := tzif.File{
		Version:  tzif.V1,
		V1Header: tzif.HeaderFor(tzif.V1, f.V1),
		V1:       f.V1,
	}
	z, err = FromTZif(v1only)
	require.NoError(t, err)
	assert.Len(t, z.Transitions(), 1)
}

func TestFromTZifErrors(t *testing.T) {
	f := variableFile()
	f.V2.TransitionTypes = []uint8{1, 9, 1}
	_, err := FromTZif(f)
	assert.ErrorContains(t, err, "type index")

	f = variableFile()
	f.V2.LocalTimeTypes[1].DesigIdx = 77
	_, err = FromTZif(f)
	assert.ErrorContains(t, err, "designation index")

	f = variableFile()
	f.V2.TransitionTypes = f.V2.TransitionTypes[:2]
	_, err = FromTZif(f)
	assert.ErrorContains(t, err, "type indices")
}

func TestLoadFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, variableFile().Encode(&buf))
	path := filepath.Join(t.TempDir(), "zone.tzif")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	z, err := LoadFile(path)
	require.NoError(t, err)
	got := z.Transitions()
	require.Len(t, got, 3)
	assert.Equal(t, int64(300), got[0].Timestamp)
	assert.Equal(t, "CEST", got[1].Designation)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "garbage")
	require.NoError(t, os.WriteFile(path, []byte("not a zone record"), 0o644))
	_, err = LoadFile(path)
	assert.ErrorIs(t, err, tzif.ErrBadMagic)
}

func TestEmptyTable(t *testing.T) {
	z := FromTransitions(nil)
	naive := dt(2021, time.June, 1, 12, 0, 0)
	assert.Equal(t, naive, z.Adjust(naive))
	_, ok := z.Lookup(0)
	assert.False(t, ok)
	assert.Empty(t, z.Transitions())
	assert.False(t, z.IsUTC())
}

func TestZoneString(t *testing.T) {
	for _, tt := range []struct {
		zone Zone
		want string
	}{
		{zone: UTC(), want: "UTC"},
		{zone: mustOfSeconds(t, 19800), want: "+05:30"},
		{zone: mustOfSeconds(t, -19800), want: "-05:30"},
		{zone: mustOfSeconds(t, 3661), want: "+01:01:01"},
		{zone: mustOfSeconds(t, 0), want: "+00:00"},
		{zone: mustOfSeconds(t, 86400), want: "+24:00"},
		{zone: FromTransitions([]Transition{{Timestamp: 1}, {Timestamp: 2}}), want: "variable(2 transitions)"},
	} {
		assert.Equal(t, tt.want, tt.zone.String())
	}
}

func mustOfSeconds(t *testing.T, n int) Zone {
	t.Helper()
	z, err := OfSeconds(n)
	require.NoError(t, err)
	return z
}
