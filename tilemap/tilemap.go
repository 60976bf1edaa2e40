/*
Package tilemap produces dense hardware tilemaps from the sparse tile grid of
a cel.

The cel's grid, measured in 8 by 8 tiles over the whole canvas, is centered
inside the requested output. Cells falling in the margin are written as tile
0. When the output is smaller than the content the margin is negative and
the content is cropped evenly on both sides.
*/
package tilemap

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/bodgit/nextgfx/document"
)

const tileSide = 8

// Width selects the size of each tilemap entry.
type Width int

const (
	// Width8 writes one byte per cell.
	Width8 Width = iota
	// Width16 writes a little endian 16-bit value per cell.
	Width16
)

// UnsupportedLayerConfigurationError is returned when a layer does not use
// 8 by 8 tiles.
type UnsupportedLayerConfigurationError struct {
	Layer                 string
	TileWidth, TileHeight int
}

func (e *UnsupportedLayerConfigurationError) Error() string {
	if e.TileWidth == 0 && e.TileHeight == 0 {
		return fmt.Sprintf("layer %q: tilemaps need a tiled layer", e.Layer)
	}
	return fmt.Sprintf("layer %q: tilemaps need 8x8 tiles, not %dx%d", e.Layer, e.TileWidth, e.TileHeight)
}

func check(cel *document.Cel, layer string) error {
	if w, h := cel.TileSize(); w != tileSide || h != tileSide {
		return &UnsupportedLayerConfigurationError{Layer: layer, TileWidth: w, TileHeight: h}
	}
	return nil
}

// ContentSize returns the size of the cel's canvas in tiles.
func ContentSize(cel *document.Cel) (int, int) {
	return cel.CanvasWidth / tileSide, cel.CanvasHeight / tileSide
}

// floorDiv divides rounding toward negative infinity, so a cel partly left
// of or above the canvas lands in the right cell.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// center maps an output position to a content position, or -1 when the
// position falls in the margin. The margin is rounded half up.
func center(position, outputSize, contentSize int) int {
	margin := int(math.Floor(float64(outputSize-contentSize)/2 + 0.5))
	if position < margin || position >= outputSize-margin {
		return -1
	}
	return position - margin
}

// Rasterize returns the tile index of every output cell in row order.
func Rasterize(cel *document.Cel, outputWidth, outputHeight int) ([]int, error) {
	if err := check(cel, ""); err != nil {
		return nil, err
	}

	mapWidth, mapHeight := ContentSize(cel)
	originX, originY := floorDiv(cel.XPos, tileSide), floorDiv(cel.YPos, tileSide)

	cells := make([]int, outputWidth*outputHeight)
	for y := 0; y < outputHeight; y++ {
		ty := center(y, outputHeight, mapHeight)
		if ty == -1 {
			continue
		}
		for x := 0; x < outputWidth; x++ {
			tx := center(x, outputWidth, mapWidth)
			if tx == -1 {
				continue
			}
			if r, ok := cel.At(tx-originX, ty-originY); ok {
				cells[x+y*outputWidth] = r.Tile
			}
		}
	}

	return cells, nil
}

// Encode serialises the tile indices with the given entry width.
func Encode(cells []int, width Width) ([]byte, error) {
	switch width {
	case Width8:
		b := make([]byte, len(cells))
		for i, c := range cells {
			if c > math.MaxUint8 {
				return nil, fmt.Errorf("tilemap: tile index %d does not fit in a byte", c)
			}
			b[i] = byte(c)
		}
		return b, nil
	case Width16:
		b := make([]byte, len(cells)*2)
		for i, c := range cells {
			if c > math.MaxUint16 {
				return nil, fmt.Errorf("tilemap: tile index %d does not fit in 16 bits", c)
			}
			binary.LittleEndian.PutUint16(b[i*2:], uint16(c))
		}
		return b, nil
	default:
		return nil, fmt.Errorf("tilemap: unknown width %d", width)
	}
}

// EncodeLayer returns one tilemap per cel of the layer. A zero output width
// or height uses the content size of each cel.
func EncodeLayer(layer *document.Layer, outputWidth, outputHeight int, width Width) ([][]byte, error) {
	maps := make([][]byte, 0, len(layer.Cels))
	for i, cel := range layer.Cels {
		if err := check(cel, layer.Name); err != nil {
			return nil, err
		}

		w, h := ContentSize(cel)
		if outputWidth > 0 {
			w = outputWidth
		}
		if outputHeight > 0 {
			h = outputHeight
		}

		cells, err := Rasterize(cel, w, h)
		if err != nil {
			return nil, err
		}

		b, err := Encode(cells, width)
		if err != nil {
			return nil, fmt.Errorf("cel %d: %w", i, err)
		}
		maps = append(maps, b)
	}
	return maps, nil
}
