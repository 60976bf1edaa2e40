package tile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/bodgit/nextgfx/document"
)

const maxPixel = 0x0f

type encoder struct {
	w       io.Writer
	side    int
	tileset int
}

func (e *encoder) encode(t *document.Tile) error {
	b := make([]byte, Size(e.side))
	for point := 0; point < e.side*e.side; point += 2 {
		for _, p := range []int{point, point + 1} {
			if v := t.Indexed[p]; v > maxPixel {
				return &document.UnsupportedTilesetError{Tileset: e.tileset, Reason: fmt.Sprintf("tile %d pixel %d is %d, 4-bit tiles hold 0-15", t.Index, p, v)}
			}
		}
		o := point
		if e.side == largeSide {
			o = offset(point)
		}
		b[o>>1] = t.Indexed[point]<<4 | t.Indexed[point+1]
	}
	_, err := e.w.Write(b)
	return err
}

// Supported reports why ts cannot be encoded, or nil if it can.
func Supported(ts *document.Tileset) error {
	if ts.Mode != document.Indexed {
		return &document.UnsupportedTilesetError{Tileset: ts.Index, Reason: "tile definitions need an indexed color tileset"}
	}
	if ts.Width != ts.Height || (ts.Width != smallSide && ts.Width != largeSide) {
		return &document.UnsupportedTilesetError{Tileset: ts.Index, Reason: fmt.Sprintf("tiles are %dx%d, expected 8x8 or 16x16", ts.Width, ts.Height)}
	}
	return nil
}

// Encode writes every tile of ts to w. A pixel that does not fit in four
// bits is an error.
func Encode(w io.Writer, ts *document.Tileset) error {
	if err := Supported(ts); err != nil {
		return err
	}

	e := encoder{w: w, side: ts.Width, tileset: ts.Index}
	for i := range ts.Tiles {
		if err := e.encode(&ts.Tiles[i]); err != nil {
			return err
		}
	}

	return nil
}

// EncodeTileset returns the tile definitions of ts.
func EncodeTileset(ts *document.Tileset) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := Encode(b, ts); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// ErrNoTilesets is returned by WriteDefinitions when none of the tilesets
// can be encoded.
var ErrNoTilesets = errors.New("tile: no indexed 8x8 or 16x16 tilesets found")

// WriteDefinitions writes the definitions of every supported tileset to w,
// logging and skipping the others.
func WriteDefinitions(w io.Writer, tilesets []*document.Tileset, logger *log.Logger) error {
	var n int
	for _, ts := range tilesets {
		if err := Supported(ts); err != nil {
			logger.Println("Skipping", err)
			continue
		}
		if err := Encode(w, ts); err != nil {
			return err
		}
		n++
	}
	if n == 0 {
		return ErrNoTilesets
	}
	return nil
}
