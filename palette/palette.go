// Package palette serialises document palettes into hardware palette files.
package palette

import (
	"bytes"
	"io"

	"github.com/bodgit/nextgfx/document"
	"github.com/bodgit/nextgfx/rgb332"
)

// MissingPaletteError is returned when a palette file is requested but
// none of the inputs carries a palette.
type MissingPaletteError struct {
	Inputs int
}

func (e *MissingPaletteError) Error() string {
	if e.Inputs == 1 {
		return "no palette found in the input"
	}
	return "no palettes found in any of the inputs"
}

// Encode returns one quantized byte per palette entry.
func Encode(p *document.Palette, q rgb332.Quantizer) []byte {
	b := make([]byte, len(p.Colors))
	for i, c := range p.Colors {
		b[i] = q.Index(c)
	}
	return b
}

// Write writes the palette of every sprite that has one to w. It returns
// the number of palettes written.
func Write(w io.Writer, sprites []*document.Sprite, q rgb332.Quantizer) (int, error) {
	b := new(bytes.Buffer)
	var n int
	for _, s := range sprites {
		if s.Palette == nil {
			continue
		}
		b.Write(Encode(s.Palette, q))
		n++
	}
	if n == 0 {
		return 0, &MissingPaletteError{Inputs: len(sprites)}
	}
	_, err := w.Write(b.Bytes())
	return n, err
}
