// tzdiff compares two TZif files field by field.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/wallclock/zoned/tzif"
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
	if len(args) != 2 {
		return errors.New("Usage: tzdiff <tzif file A> <tzif file B>")
	}

	a, err := decode(args[0])
	if err != nil {
		return err
	}
	b, err := decode(args[1])
	if err != nil {
		return err
	}

	if diff := cmp.Diff(a, b); diff != "" {
		fmt.Println("files are different: -A +B")
		fmt.Println(diff)
	} else {
		fmt.Println("files are identical")
	}
	return nil
}

func decode(path string) (tzif.File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return tzif.File{}, err
	}
	f, err := tzif.DecodeBytes(raw)
	if err != nil {
		return tzif.File{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return f, nil
}
