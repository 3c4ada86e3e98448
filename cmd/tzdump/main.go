package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/wallclock/zoned/tzdir"
	"github.com/wallclock/zoned/tzif"
)

var (
	printV1Flag = flag.Bool("v1", false, "also print the 32-bit header and data when a 64-bit block is present")
	checkFlag   = flag.Bool("check", false, "validate header counts against the data blocks")
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: tzdump [-v1] [-check] <tzif file or zone name>")
		os.Exit(1)
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		// Not a file; try it as a zone name.
		found, err := tzdir.Find(path)
		if err != nil {
			fmt.Println("locating zone:", err)
			os.Exit(1)
		}
		path = found
	}

	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("reading file:", err)
		os.Exit(1)
	}
	f, err := tzif.DecodeBytes(b)
	if err != nil {
		fmt.Println("decoding:", err)
		os.Exit(1)
	}

	if *checkFlag {
		if err := f.Validate(); err != nil {
			fmt.Println("invalid:", err)
			os.Exit(1)
		}
		fmt.Println("structure ok")
		fmt.Println()
	}

	if f.Version == tzif.V1 || *printV1Flag {
		printBlock(f.V1Header, f.V1)
	}
	if f.Version > tzif.V1 {
		printBlock(f.V2Header, f.V2)
		printFooter(f.Footer)
	}
}

func printBlock(h tzif.Header, b tzif.DataBlock) {
	fmt.Println("Header")
	fmt.Println("  version =", h.Version)
	fmt.Println("  isutcnt =", h.Isutcnt)
	fmt.Println("  isstdcnt =", h.Isstdcnt)
	fmt.Println("  leapcnt =", h.Leapcnt)
	fmt.Println("  timecnt =", h.Timecnt)
	fmt.Println("  typecnt =", h.Typecnt)
	fmt.Println("  charcnt =", h.Charcnt)
	fmt.Println()

	fmt.Println("Data block", h.Version)
	fmt.Printf("  TransitionTimes (%d) = %v\n", len(b.TransitionTimes), b.TransitionTimes)
	fmt.Printf("  TransitionTypes (%d) = %v\n", len(b.TransitionTypes), b.TransitionTypes)
	fmt.Printf("  LocalTimeTypes (%d) = %+v\n", len(b.LocalTimeTypes), b.LocalTimeTypes)
	fmt.Printf("  Designations (%d) = %v\n", len(b.Designations), strings.Split(strings.TrimSuffix(string(b.Designations), "\x00"), "\x00"))
	fmt.Printf("  LeapSeconds (%d) = %+v\n", len(b.LeapSeconds), b.LeapSeconds)
	fmt.Printf("  StandardWall (%d) = %v\n", len(b.StandardWall), b.StandardWall)
	fmt.Printf("  UTLocal (%d) = %v\n", len(b.UTLocal), b.UTLocal)
	fmt.Println()
}

func printFooter(f tzif.Footer) {
	fmt.Println("Footer")
	fmt.Println("  TZString =", f.TZString)
	fmt.Println()
}
