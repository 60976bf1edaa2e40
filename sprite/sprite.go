/*
Package sprite implements the sprite attribute and pattern encoder.

Each cel of a layer becomes one "unified" hardware sprite: an anchor sprite
followed by relative sprites whose positions and pattern numbers are
expressed relative to the anchor. A frame is written as:

	[nTiles][nPatterns][offsetX][offsetY]
	nTiles attribute records of five bytes each
	nPatterns patterns of 16 by 16 pixels, one byte per pixel

and a sprite file is the number of frames followed by each frame.
*/
package sprite

const (
	maxGrid     = 16
	maxPatterns = 0x3f
	maxRecords  = 0xff
	tileSide    = 16
	tilePixels  = tileSide * tileSide
	recordSize  = 5
	headerSize  = 4
)

const (
	attr2XMSB      = 0x01
	attr2Rotate    = 0x02
	attr2YFlip     = 0x04
	attr2XFlip     = 0x08
	attr3Pattern   = 0x3f
	attr3Visible   = 0x80
	attr3Extended  = 0x40
	attr4YMSB      = 0x01
	attr4Big       = 0x20
	attr4NoCollide = 0x40
)
