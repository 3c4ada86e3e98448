// tzresolve resolves ISO 8601 timestamps into the local time their
// zone observes.
//
//	tzresolve 2021-06-01T12:00:00+02:00
//	tzresolve -zone Europe/Berlin 2021-06-01T12:00:00Z
//	tzresolve -zone +05:30 -long 2021-06-01T12:00:00Z
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/wallclock/zoned/tzdir"
	"github.com/wallclock/zoned/zone"
)

var (
	zoneFlag = flag.String("zone", "", "designator, zone name or TZif path overriding the designator in the input")
	longFlag = flag.Bool("long", false, "also print weekday, day of year and matched designation")
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		return errors.New("Usage: tzresolve [-zone <zone>] [-long] <datetime>...")
	}

	var override zone.Zone
	haveOverride := *zoneFlag != ""
	if haveOverride {
		z, err := resolveZone(*zoneFlag)
		if err != nil {
			return fmt.Errorf("resolving zone %q: %w", *zoneFlag, err)
		}
		override = z
	}

	for _, arg := range args {
		paired, err := zone.ParseDateTime(arg)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", arg, err)
		}
		if haveOverride {
			paired = override.At(paired.Naive())
		}
		if *longFlag {
			line := fmt.Sprintf("%s -> %s [%s] %s, day %d", arg, paired.Local(), paired.Zone(), paired.Weekday(), paired.YearDay())
			if tr, ok := paired.Zone().Lookup(paired.Naive().Unix()); ok {
				line += ", " + tr.Designation
			}
			fmt.Println(line)
		} else {
			fmt.Printf("%s -> %s\n", arg, paired.Local())
		}
	}
	return nil
}

// resolveZone accepts a designator ("+05:30"), an IANA name
// ("Europe/Berlin") or a path to a TZif file.
func resolveZone(arg string) (zone.Zone, error) {
	z, err := zone.Parse(arg)
	if err == nil {
		return z, nil
	}
	var pe *zone.ParseError
	if errors.As(err, &pe) && pe.Kind != zone.ParseSyntax {
		// It was a designator, just an invalid one.
		return zone.Zone{}, err
	}
	if info, err := os.Stat(arg); err == nil && info.Mode().IsRegular() {
		return zone.LoadFile(arg)
	}
	return tzdir.Load(arg)
}
