// Package tzif reads and writes the Time Zone Information Format
// defined by RFC 8536, the binary format behind the files in
// /usr/share/zoneinfo.
//
// A version 1 file is a header followed by a data block with 32-bit
// transition times. Version 2 and later files append a second header,
// a data block with 64-bit transition times and a footer carrying a
// TZ string. The package decodes both blocks into the same in-memory
// representation with timestamps widened to 64 bits, so consumers can
// prefer the version 2 block without caring about encoding width.
package tzif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Multi-octet values are stored in network octet order with all bits
// significant; signed values are two's complement (RFC 8536, section 3).
var order = binary.BigEndian

// Magic is the four-octet ASCII sequence "TZif" that identifies the
// format.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// ErrBadMagic reports that a byte stream does not start with the TZif
// magic sequence. Bundle readers use it to tell TZif entries from
// unrelated files.
var ErrBadMagic = errors.New("not a TZif file")

// Version is the octet following the magic sequence. It selects which
// data blocks a file carries: version 1 files hold only the 32-bit
// block, version 2 and later hold both blocks and a footer.
type Version byte

const (
	// V1 (0x00) - only the version 1 header and 32-bit data block.
	V1 Version = 0x00
	// V2 ('2') - both data blocks and a footer whose TZ string, if
	// nonempty, follows POSIX TZ environment variable syntax.
	V2 Version = 0x32
	// V3 ('3') - like V2, but the TZ string may use the extensions
	// from RFC 8536, section 3.3.1.
	V3 Version = 0x33
	// V4 ('4') - not in RFC 8536; defined by tzfile(5). Relaxes the
	// leap-second record rules to represent truncated files and
	// leap-second table expiration.
	V4 Version = 0x34
)

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	case V3:
		return "V3 (0x33)"
	case V4:
		return "V4 (0x34)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", byte(v))
	}
}

// Header precedes each data block. Both headers of a version 2+ file
// carry the same version octet; the counts may differ because the
// 32-bit block is usually a truncated view of the 64-bit one.
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+---------------------------------------+
//	|           [unused - reserved for future use] (15)         |
//	+---------------+---------------+---------------+-----------+
//	|  isutcnt  (4) |  isstdcnt (4) |  leapcnt  (4) |
//	+---------------+---------------+---------------+
//	|  timecnt  (4) |  typecnt  (4) |  charcnt  (4) |
//	+---------------+---------------+---------------+
type Header struct {
	Version  Version
	Reserved [15]byte

	// Isutcnt and Isstdcnt count the UT/local and standard/wall
	// indicators in the data block. Each must be zero or equal to
	// Typecnt.
	Isutcnt  uint32
	Isstdcnt uint32

	// Leapcnt counts the leap-second records in the data block.
	Leapcnt uint32

	// Timecnt counts the transition times in the data block.
	Timecnt uint32

	// Typecnt counts the local time type records. It must not be
	// zero; many readers reject files without time types even when
	// a TZ string makes them redundant.
	Typecnt uint32

	// Charcnt is the total length of the designation string table,
	// including the NUL that terminates the last designation. It
	// must not be zero.
	Charcnt uint32
}

func (h Header) write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, h)
}

func readHeader(r io.Reader) (Header, error) {
	var h Header
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return h, fmt.Errorf("reading magic: %w", err)
	}
	if !bytes.Equal(magic, Magic[:]) {
		return h, fmt.Errorf("%w: got % x", ErrBadMagic, magic)
	}
	if err := binary.Read(r, order, &h); err != nil {
		return h, fmt.Errorf("reading counts: %w", err)
	}
	return h, nil
}

// LocalTimeType is a six-octet record describing one way a zone keeps
// local time.
//
//	+---------------+---+---+
//	|  utoff (4)    |dst|idx|
//	+---------------+---+---+
type LocalTimeType struct {
	// Utoff is the number of seconds added to UT to determine local
	// time. It must not be -2**31 and should be in [-89999, 93599],
	// i.e. more than -25 hours and less than 26 hours.
	Utoff int32

	// DST reports whether local time of this type is daylight
	// saving time.
	DST bool

	// DesigIdx is a zero-based index into the designation string
	// table, selecting the NUL-terminated designation that starts
	// at that octet.
	DesigIdx uint8
}

// LeapSecond is one leap-second correction. In the 32-bit block the
// occurrence is stored as four octets, in the 64-bit block as eight;
// both decode into this record.
type LeapSecond struct {
	// Occur is the UNIX leap time at which the correction occurs.
	Occur int64

	// Corr is the value of LEAPCORR on or after the occurrence.
	Corr int32
}

// DataBlock is the decoded payload of either data block. Transition
// times from a 32-bit block are widened to int64 on read and narrowed
// again on write.
//
//	+---------------------------------------------------------+
//	|  transition times          (timecnt x TIME_SIZE)        |
//	+---------------------------------------------------------+
//	|  transition types          (timecnt)                    |
//	+---------------------------------------------------------+
//	|  local time type records   (typecnt x 6)                |
//	+---------------------------------------------------------+
//	|  time zone designations    (charcnt)                    |
//	+---------------------------------------------------------+
//	|  leap-second records       (leapcnt x (TIME_SIZE + 4))  |
//	+---------------------------------------------------------+
//	|  standard/wall indicators  (isstdcnt)                   |
//	+---------------------------------------------------------+
//	|  UT/local indicators       (isutcnt)                    |
//	+---------------------------------------------------------+
type DataBlock struct {
	// TransitionTimes holds UNIX leap-time values in strictly
	// ascending order, each a time at which the rules for computing
	// local time change.
	TransitionTimes []int64

	// TransitionTypes holds one zero-based index into
	// LocalTimeTypes per transition time.
	TransitionTypes []uint8

	// LocalTimeTypes holds the local time type records.
	LocalTimeTypes []LocalTimeType

	// Designations is the raw table of NUL-terminated designation
	// strings. Designations may overlap when one is a suffix of
	// another.
	Designations []byte

	// LeapSeconds holds the leap-second records in ascending order
	// of occurrence.
	LeapSeconds []LeapSecond

	// StandardWall marks, per local time type, whether transition
	// times were specified as standard time (true) or wall-clock
	// time (false). Empty means all wall.
	StandardWall []bool

	// UTLocal marks, per local time type, whether transition times
	// were specified as UT (true) or local time (false). Empty
	// means all local.
	UTLocal []bool
}

// Designation returns the NUL-terminated designation string starting
// at octet idx of the designation table.
func (b DataBlock) Designation(idx uint8) (string, error) {
	if int(idx) >= len(b.Designations) {
		return "", fmt.Errorf("designation index %d out of range (charcnt %d)", idx, len(b.Designations))
	}
	end := bytes.IndexByte(b.Designations[idx:], 0)
	if end < 0 {
		return "", fmt.Errorf("designation at index %d is not NUL-terminated", idx)
	}
	return string(b.Designations[int(idx) : int(idx)+end]), nil
}

func (b DataBlock) write(w io.Writer, wide bool) error {
	if wide {
		if err := binary.Write(w, order, b.TransitionTimes); err != nil {
			return err
		}
	} else {
		for _, t := range b.TransitionTimes {
			if t < math.MinInt32 || t > math.MaxInt32 {
				return fmt.Errorf("transition time %d overflows 32-bit encoding", t)
			}
			if err := binary.Write(w, order, int32(t)); err != nil {
				return err
			}
		}
	}
	if err := binary.Write(w, order, b.TransitionTypes); err != nil {
		return err
	}
	if err := binary.Write(w, order, b.LocalTimeTypes); err != nil {
		return err
	}
	if _, err := w.Write(b.Designations); err != nil {
		return err
	}
	for _, l := range b.LeapSeconds {
		if wide {
			if err := binary.Write(w, order, l); err != nil {
				return err
			}
		} else {
			if l.Occur < math.MinInt32 || l.Occur > math.MaxInt32 {
				return fmt.Errorf("leap-second occurrence %d overflows 32-bit encoding", l.Occur)
			}
			if err := binary.Write(w, order, int32(l.Occur)); err != nil {
				return err
			}
			if err := binary.Write(w, order, l.Corr); err != nil {
				return err
			}
		}
	}
	if err := binary.Write(w, order, b.StandardWall); err != nil {
		return err
	}
	return binary.Write(w, order, b.UTLocal)
}

func readDataBlock(r io.Reader, h Header, wide bool) (DataBlock, error) {
	var b DataBlock
	if h.Timecnt > 0 {
		b.TransitionTimes = make([]int64, h.Timecnt)
		if wide {
			if err := binary.Read(r, order, b.TransitionTimes); err != nil {
				return b, fmt.Errorf("reading transition times: %w", err)
			}
		} else {
			narrow := make([]int32, h.Timecnt)
			if err := binary.Read(r, order, narrow); err != nil {
				return b, fmt.Errorf("reading transition times: %w", err)
			}
			for i, t := range narrow {
				b.TransitionTimes[i] = int64(t)
			}
		}
		b.TransitionTypes = make([]uint8, h.Timecnt)
		if err := binary.Read(r, order, b.TransitionTypes); err != nil {
			return b, fmt.Errorf("reading transition types: %w", err)
		}
	}
	if h.Typecnt > 0 {
		b.LocalTimeTypes = make([]LocalTimeType, h.Typecnt)
		if err := binary.Read(r, order, b.LocalTimeTypes); err != nil {
			return b, fmt.Errorf("reading local time types: %w", err)
		}
	}
	if h.Charcnt > 0 {
		b.Designations = make([]byte, h.Charcnt)
		if _, err := io.ReadFull(r, b.Designations); err != nil {
			return b, fmt.Errorf("reading designations: %w", err)
		}
	}
	if h.Leapcnt > 0 {
		b.LeapSeconds = make([]LeapSecond, h.Leapcnt)
		for i := range b.LeapSeconds {
			if wide {
				if err := binary.Read(r, order, &b.LeapSeconds[i]); err != nil {
					return b, fmt.Errorf("reading leap-second records: %w", err)
				}
			} else {
				var occur int32
				if err := binary.Read(r, order, &occur); err != nil {
					return b, fmt.Errorf("reading leap-second records: %w", err)
				}
				b.LeapSeconds[i].Occur = int64(occur)
				if err := binary.Read(r, order, &b.LeapSeconds[i].Corr); err != nil {
					return b, fmt.Errorf("reading leap-second records: %w", err)
				}
			}
		}
	}
	if h.Isstdcnt > 0 {
		b.StandardWall = make([]bool, h.Isstdcnt)
		if err := binary.Read(r, order, b.StandardWall); err != nil {
			return b, fmt.Errorf("reading standard/wall indicators: %w", err)
		}
	}
	if h.Isutcnt > 0 {
		b.UTLocal = make([]bool, h.Isutcnt)
		if err := binary.Read(r, order, b.UTLocal); err != nil {
			return b, fmt.Errorf("reading UT/local indicators: %w", err)
		}
	}
	return b, nil
}

// Footer closes a version 2+ file: a newline, a TZ string and another
// newline.
//
//	+---+--------------------+---+
//	| NL|  TZ string (0...)  |NL |
//	+---+--------------------+---+
type Footer struct {
	// TZString describes local time after the last transition in
	// the 64-bit block, in the expanded POSIX TZ environment
	// variable format. Empty means the information is not
	// available. It must not contain NUL octets.
	TZString string
}

const asciiNewline = byte(0x0A)

func (f Footer) write(w io.Writer) error {
	if _, err := w.Write([]byte{asciiNewline}); err != nil {
		return err
	}
	if _, err := io.WriteString(w, f.TZString); err != nil {
		return err
	}
	_, err := w.Write([]byte{asciiNewline})
	return err
}

func readFooter(r io.Reader) (Footer, error) {
	var f Footer
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return f, fmt.Errorf("reading newline: %w", err)
	}
	if buf[0] != asciiNewline {
		return f, fmt.Errorf("expected newline, got %#x", buf[0])
	}
	var b []byte
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return f, fmt.Errorf("reading TZ string: %w", err)
		}
		if buf[0] == asciiNewline {
			break
		}
		b = append(b, buf[0])
	}
	f.TZString = string(b)
	return f, nil
}
