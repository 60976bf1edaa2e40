package sprite

import (
	"errors"
	"math"
)

var errRecordSize = errors.New("sprite: attribute record must be 5 bytes")

// Record is one hardware sprite attribute record. X and Y are in pixels;
// for relative records they are offsets from the anchor.
type Record struct {
	X, Y     int
	Palette  uint8
	XFlip    bool
	YFlip    bool
	Rotation bool
	Pattern  int
	Anchor   bool
}

// MarshalBinary encodes the record into its five byte form.
func (r Record) MarshalBinary() ([]byte, error) {
	b := make([]byte, recordSize)

	b[0] = byte(r.X)
	b[1] = byte(r.Y)

	attr2 := r.Palette << 4
	if r.XFlip {
		attr2 |= attr2XFlip
	}
	if r.YFlip {
		attr2 |= attr2YFlip
	}
	if r.Rotation {
		attr2 |= attr2Rotate
	}

	// Anchors carry the ninth position bits, relative sprites set the
	// relative palette and relative pattern bits instead
	var attr4 byte
	if r.Anchor {
		attr2 |= byte(r.X>>8) & attr2XMSB
		attr4 = byte(r.Y>>8)&attr4YMSB | attr4Big
	} else {
		attr2 |= attr2XMSB
		attr4 = attr4YMSB | attr4NoCollide
	}

	b[2] = attr2
	b[3] = byte(r.Pattern)&attr3Pattern | attr3Visible | attr3Extended
	b[4] = attr4

	return b, nil
}

// UnmarshalBinary decodes a five byte record.
func (r *Record) UnmarshalBinary(b []byte) error {
	if len(b) != recordSize {
		return errRecordSize
	}

	*r = Record{
		Palette:  b[2] >> 4,
		XFlip:    b[2]&attr2XFlip != 0,
		YFlip:    b[2]&attr2YFlip != 0,
		Rotation: b[2]&attr2Rotate != 0,
		Pattern:  int(b[3] & attr3Pattern),
		Anchor:   b[4]&attr4Big != 0,
	}

	if r.Anchor {
		r.X = int(b[0]) | int(b[2]&attr2XMSB)<<8
		r.Y = int(b[1]) | int(b[4]&attr4YMSB)<<8
	} else {
		r.X = int(int8(b[0]))
		r.Y = int(int8(b[1]))
	}

	return nil
}

func fitsInt8(v int) bool {
	return v >= math.MinInt8 && v <= math.MaxInt8
}
