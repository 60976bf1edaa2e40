package sprite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	errNotEnough = errors.New("sprite: not enough data")
	errTooMuch   = errors.New("sprite: too much data")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = errNotEnough
	}
	return err
}

// Frame is one encoded cel. The first record is always the anchor and the
// first pattern the anchor's.
type Frame struct {
	OffsetX, OffsetY int
	Records          []Record
	Patterns         [][]byte
}

// MarshalBinary encodes the frame.
func (f *Frame) MarshalBinary() ([]byte, error) {
	if len(f.Records) > maxRecords {
		return nil, fmt.Errorf("sprite: %d records, at most %d", len(f.Records), maxRecords)
	}
	if len(f.Patterns) > maxPatterns {
		return nil, &TooManyPatternsError{Count: len(f.Patterns)}
	}

	b := new(bytes.Buffer)
	b.Grow(headerSize + len(f.Records)*recordSize + len(f.Patterns)*tilePixels)

	b.Write([]byte{
		byte(len(f.Records)),
		byte(len(f.Patterns)),
		byte(int8(f.OffsetX)),
		byte(int8(f.OffsetY)),
	})

	for _, r := range f.Records {
		rb, err := r.MarshalBinary()
		if err != nil {
			return nil, err
		}
		b.Write(rb)
	}

	for i, p := range f.Patterns {
		if len(p) != tilePixels {
			return nil, fmt.Errorf("sprite: pattern %d is %d bytes, expected %d", i, len(p), tilePixels)
		}
		b.Write(p)
	}

	return b.Bytes(), nil
}

func (f *Frame) read(r io.Reader) error {
	var header [headerSize]byte
	if err := readFull(r, header[:]); err != nil {
		return err
	}

	*f = Frame{
		OffsetX:  int(int8(header[2])),
		OffsetY:  int(int8(header[3])),
		Records:  make([]Record, int(header[0])),
		Patterns: make([][]byte, int(header[1])),
	}

	var rb [recordSize]byte
	for i := range f.Records {
		if err := readFull(r, rb[:]); err != nil {
			return err
		}
		if err := f.Records[i].UnmarshalBinary(rb[:]); err != nil {
			return err
		}
	}

	for i := range f.Patterns {
		f.Patterns[i] = make([]byte, tilePixels)
		if err := readFull(r, f.Patterns[i]); err != nil {
			return err
		}
	}

	return nil
}

// UnmarshalBinary decodes a single frame.
func (f *Frame) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)
	if err := f.read(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return errTooMuch
	}
	return nil
}

// File is a complete sprite file. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type File struct {
	Frames []Frame
}

// MarshalBinary encodes the file.
func (file *File) MarshalBinary() ([]byte, error) {
	if len(file.Frames) > 0xff {
		return nil, fmt.Errorf("sprite: %d frames, at most 255", len(file.Frames))
	}

	b := new(bytes.Buffer)
	b.WriteByte(byte(len(file.Frames)))

	for i := range file.Frames {
		fb, err := file.Frames[i].MarshalBinary()
		if err != nil {
			return nil, err
		}
		b.Write(fb)
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the file.
func (file *File) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	n, err := r.ReadByte()
	if err != nil {
		return errNotEnough
	}

	file.Frames = make([]Frame, int(n))
	for i := range file.Frames {
		if err := file.Frames[i].read(r); err != nil {
			return err
		}
	}

	if r.Len() != 0 {
		return errTooMuch
	}

	return nil
}
