package tzif

import (
	"errors"
	"fmt"
)

// Validate checks the file against the count and indexing rules of
// RFC 8536, section 3.2. All violations are reported, joined into one
// error.
func (f File) Validate() error {
	var errs []error
	if f.Version != f.V1Header.Version {
		errs = append(errs, fmt.Errorf("inconsistent version: file = %v, v1 header = %v", f.Version, f.V1Header.Version))
	}
	errs = append(errs, validateBlock("v1", f.V1Header, f.V1)...)
	if f.Version > V1 {
		if f.Version != f.V2Header.Version {
			errs = append(errs, fmt.Errorf("inconsistent version: file = %v, v2 header = %v", f.Version, f.V2Header.Version))
		}
		errs = append(errs, validateBlock("v2", f.V2Header, f.V2)...)
	}
	return errors.Join(errs...)
}

func validateBlock(scope string, h Header, b DataBlock) []error {
	var errs []error

	if h.Isutcnt != 0 && h.Isutcnt != h.Typecnt {
		errs = append(errs, fmt.Errorf("invalid %s isutcnt (%d): must be 0 or equal to typecnt (%d)", scope, h.Isutcnt, h.Typecnt))
	}
	if len(b.UTLocal) != int(h.Isutcnt) {
		errs = append(errs, fmt.Errorf("invalid %s isutcnt: header = %d, data = %d", scope, h.Isutcnt, len(b.UTLocal)))
	}

	if h.Isstdcnt != 0 && h.Isstdcnt != h.Typecnt {
		errs = append(errs, fmt.Errorf("invalid %s isstdcnt (%d): must be 0 or equal to typecnt (%d)", scope, h.Isstdcnt, h.Typecnt))
	}
	if len(b.StandardWall) != int(h.Isstdcnt) {
		errs = append(errs, fmt.Errorf("invalid %s isstdcnt: header = %d, data = %d", scope, h.Isstdcnt, len(b.StandardWall)))
	}

	if len(b.LeapSeconds) != int(h.Leapcnt) {
		errs = append(errs, fmt.Errorf("invalid %s leapcnt: header = %d, data = %d", scope, h.Leapcnt, len(b.LeapSeconds)))
	}

	if len(b.TransitionTimes) != int(h.Timecnt) {
		errs = append(errs, fmt.Errorf("invalid %s timecnt: header = %d, transition times = %d", scope, h.Timecnt, len(b.TransitionTimes)))
	}
	if times, types := len(b.TransitionTimes), len(b.TransitionTypes); times != types {
		errs = append(errs, fmt.Errorf("inconsistent %s transitions: transition times = %d, transition types = %d", scope, times, types))
	}
	for i, typ := range b.TransitionTypes {
		if int(typ) >= len(b.LocalTimeTypes) {
			errs = append(errs, fmt.Errorf("invalid %s transition type at %d: index %d out of range (typecnt %d)", scope, i, typ, len(b.LocalTimeTypes)))
		}
	}

	if h.Typecnt == 0 {
		errs = append(errs, fmt.Errorf("invalid %s typecnt: must not be zero", scope))
	}
	if len(b.LocalTimeTypes) != int(h.Typecnt) {
		errs = append(errs, fmt.Errorf("invalid %s typecnt: header = %d, data = %d", scope, h.Typecnt, len(b.LocalTimeTypes)))
	}
	for i, t := range b.LocalTimeTypes {
		if _, err := b.Designation(t.DesigIdx); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s local time type at %d: %w", scope, i, err))
		}
	}

	if h.Charcnt == 0 {
		errs = append(errs, fmt.Errorf("invalid %s charcnt: must not be zero", scope))
	}
	if len(b.Designations) != int(h.Charcnt) {
		errs = append(errs, fmt.Errorf("invalid %s charcnt: header = %d, data = %d", scope, h.Charcnt, len(b.Designations)))
	}
	if len(b.Designations) > 0 && b.Designations[len(b.Designations)-1] != 0 {
		errs = append(errs, fmt.Errorf("invalid %s designations: missing NUL terminator", scope))
	}

	return errs
}
