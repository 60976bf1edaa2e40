package sprite

import (
	"fmt"

	"github.com/bodgit/nextgfx/document"
	"github.com/bodgit/nextgfx/rgb332"
)

// Encoder converts cels into frames.
type Encoder struct {
	Quantizer rgb332.Quantizer
	Reference Point
}

// NewEncoder returns an Encoder with the default quantizer and a bottom
// center reference point.
func NewEncoder() *Encoder {
	return &Encoder{
		Quantizer: rgb332.Default(),
		Reference: BottomCenter,
	}
}

// Offset returns the position of the anchor tile relative to the reference
// point, in pixels, truncated toward zero.
func Offset(cel *document.Cel, anchor *document.TileRef, ref Point) (int, int) {
	x := float64(anchor.X*tileSide+cel.XPos) - ref.X*float64(cel.CanvasWidth)
	y := float64(anchor.Y*tileSide+cel.YPos) - ref.Y*float64(cel.CanvasHeight)
	return int(x), int(y)
}

// Frame builds the frame for a single cel.
func (e *Encoder) Frame(cel *document.Cel) (*Frame, error) {
	if w, h := cel.TileSize(); w != tileSide || h != tileSide {
		ts := -1
		if cel.Tileset != nil {
			ts = cel.Tileset.Index
		}
		return nil, &document.UnsupportedTilesetError{Tileset: ts, Reason: fmt.Sprintf("sprites need %dx%d tiles, not %dx%d", tileSide, tileSide, w, h)}
	}

	anchor, err := SelectAnchor(cel)
	if err != nil {
		return nil, err
	}

	patterns := Deduplicate(cel, anchor)
	if len(patterns) > maxPatterns {
		return nil, &TooManyPatternsError{Frame: cel.Frame, Count: len(patterns)}
	}
	if len(cel.Tilemap) > maxRecords {
		return nil, fmt.Errorf("frame %d: %d tiles, at most %d sprites per frame", cel.Frame, len(cel.Tilemap), maxRecords)
	}

	f := &Frame{
		Records:  make([]Record, 0, len(cel.Tilemap)),
		Patterns: make([][]byte, 0, len(patterns)),
	}

	f.OffsetX, f.OffsetY = Offset(cel, anchor, e.Reference)
	if !fitsInt8(f.OffsetX) || !fitsInt8(f.OffsetY) {
		return nil, &OffsetRangeError{Frame: cel.Frame, X: f.OffsetX, Y: f.OffsetY}
	}

	remap := make(map[int]int, len(patterns))
	for i, index := range patterns {
		remap[index] = i

		t, ok := cel.Tileset.Tile(index)
		if !ok {
			return nil, fmt.Errorf("frame %d: tile %d not in tileset %d", cel.Frame, index, cel.Tileset.Index)
		}
		f.Patterns = append(f.Patterns, e.pattern(t))
	}

	f.Records = append(f.Records, record(anchor, anchor, remap))
	for i := range cel.Tilemap {
		r := &cel.Tilemap[i]
		if r == anchor {
			continue
		}
		rec := record(r, anchor, remap)
		if !fitsInt8(rec.X) || !fitsInt8(rec.Y) {
			return nil, &OffsetRangeError{Frame: cel.Frame, X: rec.X, Y: rec.Y}
		}
		f.Records = append(f.Records, rec)
	}

	return f, nil
}

// Encode returns the binary frame for a single cel.
func (e *Encoder) Encode(cel *document.Cel) ([]byte, error) {
	f, err := e.Frame(cel)
	if err != nil {
		return nil, err
	}
	return f.MarshalBinary()
}

// EncodeLayer returns a sprite file holding one frame per cel of the layer.
func (e *Encoder) EncodeLayer(layer *document.Layer) ([]byte, error) {
	file := File{Frames: make([]Frame, 0, len(layer.Cels))}
	for i, cel := range layer.Cels {
		f, err := e.Frame(cel)
		if err != nil {
			return nil, fmt.Errorf("layer %q cel %d: %w", layer.Name, i, err)
		}
		file.Frames = append(file.Frames, *f)
	}
	return file.MarshalBinary()
}

func (e *Encoder) pattern(t *document.Tile) []byte {
	b := make([]byte, tilePixels)
	switch t.Mode {
	case document.Indexed:
		copy(b, t.Indexed)
	case document.RGBA:
		for i, c := range t.RGBA {
			b[i] = e.Quantizer.Index(c)
		}
	}
	return b
}

func record(r, anchor *document.TileRef, remap map[int]int) Record {
	return Record{
		X:        (r.X - anchor.X) * tileSide,
		Y:        (r.Y - anchor.Y) * tileSide,
		XFlip:    r.XFlip,
		YFlip:    r.YFlip,
		Rotation: r.Rotation,
		Pattern:  remap[r.Tile],
		Anchor:   r == anchor,
	}
}
