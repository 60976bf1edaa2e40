package tile

import (
	"errors"
	"io"
)

var (
	errNotEnough = errors.New("tile: not enough tile data")
	errBadSide   = errors.New("tile: tiles must be 8x8 or 16x16")
)

func upperNibble(b byte) byte {
	return b & 0xf0
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

func decode(b []byte, side int) []uint8 {
	pixels := make([]uint8, side*side)
	for point := 0; point < len(pixels); point += 2 {
		o := point
		if side == largeSide {
			o = offset(point)
		}
		pixels[point] = upperNibble(b[o>>1]) >> 4
		pixels[point+1] = lowerNibble(b[o>>1])
	}
	return pixels
}

// decodeAll reads tile definitions of the given side from r until it is
// exhausted and returns the pixels of each tile in raster order.
func decodeAll(r io.Reader, side int) ([][]uint8, error) {
	if side != smallSide && side != largeSide {
		return nil, errBadSide
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	size := Size(side)
	if len(b)%size != 0 {
		return nil, errNotEnough
	}

	tiles := make([][]uint8, 0, len(b)/size)
	for i := 0; i < len(b); i += size {
		tiles = append(tiles, decode(b[i:i+size], side))
	}

	return tiles, nil
}
