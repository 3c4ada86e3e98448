// Package zone resolves naive civil date/times into the local time a
// time zone observes.
//
// A Zone is one of exactly three things: UTC (no adjustment), a fixed
// offset in seconds, or a table of historical transitions decoded
// from a TZif file. Pairing a Zone with a civil.DateTime yields a
// DateTime whose field accessors apply the zone's adjustment on every
// access. Zones are immutable once constructed and safe to share
// across goroutines without synchronization.
//
// Transition lookup treats the naive value's own seconds as the UTC
// instant to search for. That conflates wall-clock time with UTC and
// is only exact when the offset is small against the spacing between
// transitions; it is the inherited behavior of this engine and kept
// deliberately.
package zone

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/wallclock/zoned/civil"
	"github.com/wallclock/zoned/tzif"
)

// Transition is one historical boundary at which a location's offset
// from UTC changed.
type Transition struct {
	// Timestamp is the UTC second since the epoch at which the
	// record took effect.
	Timestamp int64

	// OffsetSeconds is added to UTC to obtain local time from this
	// transition on.
	OffsetSeconds int32

	// Designation is the abbreviation of the local time type, such
	// as "CEST".
	Designation string

	// DST reports whether the local time type is daylight saving
	// time.
	DST bool
}

type kind int

const (
	kindUTC kind = iota
	kindFixed
	kindVariable
)

// Zone decides how a naive value maps to observed local time. The
// zero value is UTC.
type Zone struct {
	kind   kind
	offset int32

	// transitions is sorted by Timestamp descending and never
	// mutated after construction, so copies of a Zone share it.
	transitions []Transition
}

// UTC returns the zone that applies no adjustment.
func UTC() Zone {
	return Zone{}
}

// maxOffsetSeconds bounds fixed offsets to one full day, inclusive.
const maxOffsetSeconds = 86400

// OfSeconds returns a fixed-offset zone. The offset must lie in
// [-86400, 86400] seconds or the error wraps ErrOffsetRange.
func OfSeconds(seconds int) (Zone, error) {
	if seconds < -maxOffsetSeconds || seconds > maxOffsetSeconds {
		return Zone{}, fmt.Errorf("%d seconds: %w", seconds, ErrOffsetRange)
	}
	return Zone{kind: kindFixed, offset: int32(seconds)}, nil
}

// OfHoursMinutes returns a fixed-offset zone of hours*3600 +
// minutes*60 seconds. Nonzero hours and minutes must agree in sign or
// the error wraps ErrSignMismatch; |hours| must stay below 24 and
// |minutes| below 60 or it wraps ErrOffsetRange.
func OfHoursMinutes(hours, minutes int) (Zone, error) {
	if (hours > 0 && minutes < 0) || (hours < 0 && minutes > 0) {
		return Zone{}, fmt.Errorf("%d hours, %d minutes: %w", hours, minutes, ErrSignMismatch)
	}
	if hours <= -24 || hours >= 24 {
		return Zone{}, fmt.Errorf("%d hours: %w", hours, ErrOffsetRange)
	}
	if minutes <= -60 || minutes >= 60 {
		return Zone{}, fmt.Errorf("%d minutes: %w", minutes, ErrOffsetRange)
	}
	return OfSeconds(hours*3600 + minutes*60)
}

// FromTransitions builds a variable-offset zone from its records. The
// input is copied and sorted most recent first; with equal timestamps
// the earlier input record sorts first. Callers keep ownership of ts.
func FromTransitions(ts []Transition) Zone {
	own := slices.Clone(ts)
	slices.SortStableFunc(own, func(a, b Transition) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return Zone{kind: kindVariable, transitions: own}
}

// FromTZif builds a variable-offset zone from a decoded TZif file,
// preferring the 64-bit data block when the file carries one. Beyond
// the index safety needed to read the records, the table is taken as
// is.
func FromTZif(f tzif.File) (Zone, error) {
	b := f.Data()
	if len(b.TransitionTypes) != len(b.TransitionTimes) {
		return Zone{}, fmt.Errorf("%d transition times but %d type indices", len(b.TransitionTimes), len(b.TransitionTypes))
	}
	ts := make([]Transition, 0, len(b.TransitionTimes))
	for i, when := range b.TransitionTimes {
		idx := b.TransitionTypes[i]
		if int(idx) >= len(b.LocalTimeTypes) {
			return Zone{}, fmt.Errorf("transition %d: type index %d out of range (typecnt %d)", i, idx, len(b.LocalTimeTypes))
		}
		lt := b.LocalTimeTypes[idx]
		desig, err := b.Designation(lt.DesigIdx)
		if err != nil {
			return Zone{}, fmt.Errorf("transition %d: %w", i, err)
		}
		ts = append(ts, Transition{
			Timestamp:     when,
			OffsetSeconds: lt.Utoff,
			Designation:   desig,
			DST:           lt.DST,
		})
	}
	return FromTransitions(ts), nil
}

// LoadFile reads a TZif file in one blocking whole-file read and
// builds a variable-offset zone from it.
func LoadFile(path string) (Zone, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Zone{}, fmt.Errorf("load zone: %w", err)
	}
	f, err := tzif.DecodeBytes(raw)
	if err != nil {
		return Zone{}, fmt.Errorf("load zone %s: %w", path, err)
	}
	z, err := FromTZif(f)
	if err != nil {
		return Zone{}, fmt.Errorf("load zone %s: %w", path, err)
	}
	return z, nil
}

// localtimeFile is the conventional location of the zone the host is
// configured with.
const localtimeFile = "/etc/localtime"

// System returns the host's configured zone by loading /etc/localtime.
// Platforms without that file must use LoadFile with an explicit
// path.
func System() (Zone, error) {
	return LoadFile(localtimeFile)
}

// Adjust resolves naive into observed local time: unchanged for UTC,
// shifted by the fixed offset, or shifted by the offset of the most
// recent transition strictly before the value's own timestamp. A
// value predating every transition, or an empty table, comes back
// unchanged.
func (z Zone) Adjust(naive civil.DateTime) civil.DateTime {
	switch z.kind {
	case kindFixed:
		return naive.AddSeconds(int64(z.offset))
	case kindVariable:
		t, ok := z.lookup(naive.Unix())
		if !ok {
			return naive
		}
		return naive.AddSeconds(int64(t.OffsetSeconds))
	default:
		return naive
	}
}

// Lookup returns the transition in effect at the UTC second ts: the
// most recent record whose timestamp is strictly less than ts. ok is
// false when no record qualifies, which includes UTC and fixed-offset
// zones.
func (z Zone) Lookup(ts int64) (Transition, bool) {
	return z.lookup(ts)
}

func (z Zone) lookup(ts int64) (Transition, bool) {
	// The table is sorted most recent first, so the predicate flips
	// from false to true exactly once and sort.Search lands on the
	// leftmost qualifying record. With duplicate timestamps that is
	// the same record a front-to-back scan would pick.
	i := sort.Search(len(z.transitions), func(i int) bool {
		return z.transitions[i].Timestamp < ts
	})
	if i == len(z.transitions) {
		return Transition{}, false
	}
	return z.transitions[i], true
}

// IsUTC reports whether the zone is the no-adjustment zone.
func (z Zone) IsUTC() bool {
	return z.kind == kindUTC
}

// Offset returns the fixed offset in seconds. ok is false for UTC and
// variable-offset zones.
func (z Zone) Offset() (seconds int32, ok bool) {
	return z.offset, z.kind == kindFixed
}

// Transitions returns a copy of the transition table, most recent
// first. It is empty for UTC and fixed-offset zones.
func (z Zone) Transitions() []Transition {
	return slices.Clone(z.transitions)
}

func (z Zone) String() string {
	switch z.kind {
	case kindFixed:
		return formatOffset(z.offset)
	case kindVariable:
		return fmt.Sprintf("variable(%d transitions)", len(z.transitions))
	default:
		return "UTC"
	}
}

func formatOffset(sec int32) string {
	sign := "+"
	if sec < 0 {
		sign = "-"
		sec = -sec
	}
	h, m, s := sec/3600, sec/60%60, sec%60
	if s != 0 {
		return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%s%02d:%02d", sign, h, m)
}
