/*
Package tile implements the 4-bit tile definition format used by the
hardware tilemap layer.

Every pixel is a 4-bit palette offset and two pixels are packed into each
byte, the left pixel in the upper nibble. An 8 by 8 tile is 32 bytes written
in raster order. A 16 by 16 tile is 128 bytes made of four 8 by 8 tiles in
the order top left, top right, bottom left, bottom right.
*/
package tile

const (
	smallSide   = 8
	largeSide   = 16
	smallPixels = smallSide * smallSide
)

// Size returns the number of encoded bytes for one tile with the given side.
func Size(side int) int {
	return side * side >> 1
}

// offset returns the position of pixel point of a 16 by 16 tile once it has
// been split into four 8 by 8 quadrants.
func offset(point int) int {
	quadrant := (point>>3)%2 + 2*(point>>7)
	return quadrant*smallPixels + point%8 + 8*((point>>4)%8)
}
