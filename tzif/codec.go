package tzif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// File is a decoded TZif file. Version 1 files populate only the V1
// fields; version 2+ files populate everything.
type File struct {
	Version Version

	V1Header Header
	V1       DataBlock

	V2Header Header
	V2       DataBlock
	Footer   Footer
}

// Data returns the data block consumers should use: the 64-bit block
// when the file carries one, the 32-bit block otherwise.
func (f File) Data() DataBlock {
	if f.Version > V1 {
		return f.V2
	}
	return f.V1
}

// Encode writes the file to w. Version 1 files produce only the first
// header and data block.
func (f File) Encode(w io.Writer) error {
	if err := f.V1Header.write(w); err != nil {
		return fmt.Errorf("write v1 header: %w", err)
	}
	if err := f.V1.write(w, false); err != nil {
		return fmt.Errorf("write v1 data: %w", err)
	}
	if f.Version > V1 {
		if err := f.V2Header.write(w); err != nil {
			return fmt.Errorf("write v2 header: %w", err)
		}
		if err := f.V2.write(w, true); err != nil {
			return fmt.Errorf("write v2 data: %w", err)
		}
		if err := f.Footer.write(w); err != nil {
			return fmt.Errorf("write footer: %w", err)
		}
	}
	return nil
}

// Decode reads one TZif file from r.
//
// The presence of the 64-bit part is detected by probing for a second
// magic sequence after the 32-bit block rather than by trusting the
// first header's version octet: the appendix B.2 example of RFC 8536
// itself carries 0x00 there despite being a version 2 file, and
// writers in the wild have copied that. File.Version reflects the
// second header when one is present.
func Decode(r io.Reader) (File, error) {
	var (
		f   File
		err error
	)
	f.V1Header, err = readHeader(r)
	if err != nil {
		return f, fmt.Errorf("read v1 header: %w", err)
	}
	f.Version = f.V1Header.Version

	f.V1, err = readDataBlock(r, f.V1Header, false)
	if err != nil {
		return f, fmt.Errorf("read v1 data block: %w", err)
	}

	var probe [4]byte
	if _, err := io.ReadFull(r, probe[:]); err != nil {
		if errors.Is(err, io.EOF) {
			if f.Version > V1 {
				// The first header promised a 64-bit part.
				return f, fmt.Errorf("read v2 header: %w", io.ErrUnexpectedEOF)
			}
			return f, nil
		}
		return f, fmt.Errorf("read v2 header: %w", err)
	}
	if !bytes.Equal(probe[:], Magic[:]) {
		return f, fmt.Errorf("read v2 header: %w: got % x", ErrBadMagic, probe)
	}
	if err := binary.Read(r, order, &f.V2Header); err != nil {
		return f, fmt.Errorf("read v2 header: %w", err)
	}
	if f.V2Header.Version == V1 {
		return f, fmt.Errorf("read v2 header: version %v in second header", f.V2Header.Version)
	}
	f.Version = f.V2Header.Version

	f.V2, err = readDataBlock(r, f.V2Header, true)
	if err != nil {
		return f, fmt.Errorf("read v2 data block: %w", err)
	}
	f.Footer, err = readFooter(r)
	if err != nil {
		return f, fmt.Errorf("read footer: %w", err)
	}

	return f, nil
}

// DecodeBytes decodes one TZif file from b.
func DecodeBytes(b []byte) (File, error) {
	return Decode(bytes.NewReader(b))
}

// HeaderFor returns a header whose counts describe b. Fixture writers
// use it to keep headers and data blocks consistent.
func HeaderFor(v Version, b DataBlock) Header {
	return Header{
		Version:  v,
		Isutcnt:  uint32(len(b.UTLocal)),
		Isstdcnt: uint32(len(b.StandardWall)),
		Leapcnt:  uint32(len(b.LeapSeconds)),
		Timecnt:  uint32(len(b.TransitionTimes)),
		Typecnt:  uint32(len(b.LocalTimeTypes)),
		Charcnt:  uint32(len(b.Designations)),
	}
}
