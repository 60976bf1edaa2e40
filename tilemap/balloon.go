package tilemap

import (
	"fmt"
	"math"

	"github.com/bodgit/nextgfx/document"
)

// Balloon describes the window of the tilemap holding the speech balloon
// overlay.
type Balloon struct {
	X, Y          int
	Width, Height int
	Palette       uint8
}

// DefaultBalloon is the 13 by 4 window at tile (19, 5) using palette 2.
var DefaultBalloon = Balloon{
	X:       19,
	Y:       5,
	Width:   13,
	Height:  4,
	Palette: 2,
}

// Size returns the number of bytes Encode produces.
func (b Balloon) Size() int {
	return b.Width * b.Height * 2
}

// Encode returns the window as pairs of tile number and attribute bytes.
// Tile numbers are offset by one so that zero is an empty cell, which leaves
// room for tiles 0 to 254. Cells are written column by column so the runtime
// can grow the balloon sideways.
func (b Balloon) Encode(cel *document.Cel) ([]byte, error) {
	out := make([]byte, 0, b.Size())
	for x := b.X; x < b.X+b.Width; x++ {
		for y := b.Y; y < b.Y+b.Height; y++ {
			r, ok := cel.At(x, y)
			if !ok {
				out = append(out, 0x00, 0x00)
				continue
			}
			attr := b.Palette << 4
			if r.XFlip {
				attr |= 0x08
			}
			if r.YFlip {
				attr |= 0x04
			}
			if r.Tile+1 > math.MaxUint8 {
				return nil, fmt.Errorf("tilemap: balloon cell (%d, %d) uses tile %d, at most %d fit", x, y, r.Tile, math.MaxUint8-1)
			}
			out = append(out, byte(r.Tile+1), attr)
		}
	}
	return out, nil
}
