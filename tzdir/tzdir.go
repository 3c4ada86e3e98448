// Package tzdir locates compiled TZif files by IANA name on the local
// filesystem.
//
// Lookups honor $TZDIR when set, then fall back to the conventional
// platform directories. Names are validated before they touch the
// filesystem so a request for "../../etc/passwd" never leaves the
// zone tree.
package tzdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wallclock/zoned/zone"
)

// Many systems use /usr/share/zoneinfo, Solaris 2 has
// /usr/share/lib/zoneinfo, IRIX 6 has /usr/lib/locale/TZ,
// NixOS has /etc/zoneinfo.
var platformSources = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
	"/etc/zoneinfo",
}

var (
	// ErrNotFound reports that no searched directory holds the
	// requested zone.
	ErrNotFound = errors.New("zone not found")

	// ErrBadName reports a zone name that is empty, absolute, or
	// steps outside the zone directory.
	ErrBadName = errors.New("invalid zone name")
)

// Sources returns the directories searched, in order: $TZDIR first
// when set, then the platform locations.
func Sources() []string {
	dirs := make([]string, 0, len(platformSources)+1)
	if tzdir := os.Getenv("TZDIR"); tzdir != "" {
		dirs = append(dirs, tzdir)
	}
	return append(dirs, platformSources...)
}

// CheckName rejects zone names that could escape the searched
// directories. Valid names are relative slash-separated paths such as
// "UTC" or "America/Argentina/Buenos_Aires".
func CheckName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrBadName)
	}
	if name[0] == '/' || name[0] == '\\' {
		return fmt.Errorf("%w: %q is absolute", ErrBadName, name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: %q", ErrBadName, name)
		}
	}
	return nil
}

// Find returns the path of the first regular file for name under the
// searched directories.
func Find(name string) (string, error) {
	return FindIn(Sources(), name)
}

// FindIn is Find restricted to the given directories.
func FindIn(dirs []string, name string) (string, error) {
	if err := CheckName(name); err != nil {
		return "", err
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Load locates name and builds a variable-offset zone from its file.
func Load(name string) (zone.Zone, error) {
	return LoadIn(Sources(), name)
}

// LoadIn is Load restricted to the given directories.
func LoadIn(dirs []string, name string) (zone.Zone, error) {
	path, err := FindIn(dirs, name)
	if err != nil {
		return zone.Zone{}, err
	}
	return zone.LoadFile(path)
}
