/*
Package document holds the read-only model of a layered, tiled animation as
produced by a loader such as the aseprite package.

A Sprite owns its Tilesets; each Tileset owns its Tiles. A Cel references
tiles through TileRef values which carry the stable tile index rather than a
pointer, so the same pattern may be placed many times without any aliasing.
Nothing in this package is mutated once a loader has built it.
*/
package document

import (
	"fmt"
	"image/color"
	"time"
)

// ColorMode describes how the pixels of a tile are stored.
type ColorMode int

const (
	// Indexed tiles store one palette index per pixel.
	Indexed ColorMode = iota
	// RGBA tiles store a full 32-bit color per pixel.
	RGBA
)

func (m ColorMode) String() string {
	switch m {
	case Indexed:
		return "indexed"
	case RGBA:
		return "rgba"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(m))
	}
}

// Tile is the pixel content of one pattern. Exactly one of Indexed or RGBA
// is populated, as selected by Mode.
type Tile struct {
	Index   int
	Mode    ColorMode
	Indexed []uint8
	RGBA    []color.RGBA
}

// Len returns the number of pixels in the tile.
func (t *Tile) Len() int {
	if t.Mode == Indexed {
		return len(t.Indexed)
	}
	return len(t.RGBA)
}

// Tileset is the pattern dictionary of a tiled layer.
type Tileset struct {
	Index  int
	Width  int
	Height int
	Mode   ColorMode
	Tiles  []Tile

	byIndex map[int]int
}

// NewTileset returns a Tileset after checking that every tile matches the
// tileset color mode and dimensions and that tile indices are unique.
func NewTileset(index, width, height int, mode ColorMode, tiles []Tile) (*Tileset, error) {
	ts := &Tileset{
		Index:   index,
		Width:   width,
		Height:  height,
		Mode:    mode,
		Tiles:   tiles,
		byIndex: make(map[int]int, len(tiles)),
	}
	for i := range tiles {
		t := &tiles[i]
		if t.Mode != mode {
			return nil, &UnsupportedTilesetError{Tileset: index, Reason: fmt.Sprintf("tile %d is %s in a %s tileset", t.Index, t.Mode, mode)}
		}
		if t.Len() != width*height {
			return nil, &UnsupportedTilesetError{Tileset: index, Reason: fmt.Sprintf("tile %d has %d pixels, expected %d", t.Index, t.Len(), width*height)}
		}
		if _, ok := ts.byIndex[t.Index]; ok {
			return nil, fmt.Errorf("tileset %d: duplicate tile index %d", index, t.Index)
		}
		ts.byIndex[t.Index] = i
	}
	return ts, nil
}

// Tile returns the tile with the given tile index.
func (ts *Tileset) Tile(index int) (*Tile, bool) {
	if ts.byIndex == nil {
		for i := range ts.Tiles {
			if ts.Tiles[i].Index == index {
				return &ts.Tiles[i], true
			}
		}
		return nil, false
	}
	i, ok := ts.byIndex[index]
	if !ok {
		return nil, false
	}
	return &ts.Tiles[i], true
}

// TileRef places a tile at a cel-local grid cell.
type TileRef struct {
	X, Y     int
	Tile     int
	XFlip    bool
	YFlip    bool
	Rotation bool
}

// Cel is the content of one layer in one frame. Width and Height are the
// dimensions of the tile grid, XPos and YPos the position of the grid origin
// in canvas pixels.
type Cel struct {
	Frame        int
	CanvasWidth  int
	CanvasHeight int
	Width        int
	Height       int
	XPos, YPos   int
	Tileset      *Tileset
	Tilemap      []TileRef
}

// At returns the TileRef placed at grid cell (x, y).
func (c *Cel) At(x, y int) (*TileRef, bool) {
	for i := range c.Tilemap {
		if c.Tilemap[i].X == x && c.Tilemap[i].Y == y {
			return &c.Tilemap[i], true
		}
	}
	return nil, false
}

// Tile resolves the pattern referenced by r.
func (c *Cel) Tile(r *TileRef) (*Tile, error) {
	if c.Tileset == nil {
		return nil, fmt.Errorf("frame %d: cel has no tileset", c.Frame)
	}
	t, ok := c.Tileset.Tile(r.Tile)
	if !ok {
		return nil, fmt.Errorf("frame %d: tile %d not in tileset %d", c.Frame, r.Tile, c.Tileset.Index)
	}
	return t, nil
}

// TileAt returns the tile covering canvas pixel (x, y) and the offset of the
// pixel within it. The tile is nil when no tile covers the pixel. Flips are
// not applied.
func (c *Cel) TileAt(x, y int) (*Tile, int, error) {
	tw, th := c.TileSize()
	if tw == 0 || th == 0 {
		return nil, 0, fmt.Errorf("frame %d: cel has no tiles", c.Frame)
	}

	lx, ly := x-c.XPos, y-c.YPos
	if lx < 0 || ly < 0 {
		return nil, 0, nil
	}

	r, ok := c.At(lx/tw, ly/th)
	if !ok {
		return nil, 0, nil
	}
	t, err := c.Tile(r)
	if err != nil {
		return nil, 0, err
	}
	return t, lx%tw + ly%th*tw, nil
}

// TileSize returns the pixel dimensions of the cel's tiles.
func (c *Cel) TileSize() (int, int) {
	if c.Tileset == nil {
		return 0, 0
	}
	return c.Tileset.Width, c.Tileset.Height
}

// Validate checks that no two TileRefs share a grid cell and that every
// reference resolves.
func (c *Cel) Validate() error {
	seen := make(map[[2]int]struct{}, len(c.Tilemap))
	for i := range c.Tilemap {
		r := &c.Tilemap[i]
		k := [2]int{r.X, r.Y}
		if _, ok := seen[k]; ok {
			return fmt.Errorf("frame %d: two tiles at (%d, %d)", c.Frame, r.X, r.Y)
		}
		seen[k] = struct{}{}
		if _, err := c.Tile(r); err != nil {
			return err
		}
	}
	return nil
}

// Layer is an ordered set of cels, one per frame.
type Layer struct {
	Index   int
	Name    string
	Tileset *Tileset
	Cels    []*Cel
}

// Frame is one step of the animation.
type Frame struct {
	Index    int
	Duration time.Duration
}

// Palette is an ordered list of colors.
type Palette struct {
	Colors []color.RGBA
}

// Sprite is the root of the model.
type Sprite struct {
	Name     string
	Width    int
	Height   int
	Palette  *Palette
	Layers   []*Layer
	Frames   []Frame
	Tilesets []*Tileset
}

// Layer returns the first layer, which every export except the tile
// definitions works on.
func (s *Sprite) Layer() (*Layer, error) {
	if len(s.Layers) == 0 {
		return nil, fmt.Errorf("%s: no visible layers", s.Name)
	}
	return s.Layers[0], nil
}
