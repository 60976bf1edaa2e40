/*
Package aseprite decodes Aseprite .ase and .aseprite files into the document
model.

Only the chunks needed to rebuild layers, tiles, tags and palettes are
interpreted, everything else is skipped. Tiled layers keep their tileset.
All visible image layers are flattened into a single layer which is cut into
16 by 16 RGBA tiles, keeping only tiles with at least one opaque pixel.
Frames covered by a tag named "omit" are dropped.
*/
package aseprite

// OmitTag names the tag whose frames are dropped when loading.
const OmitTag = "omit"

// MergedTileSide is the tile size the merged image layer is cut into.
const MergedTileSide = 16

// MergedTileset is the tileset index given to the per-cel tilesets of the
// merged image layer.
const MergedTileset = -1

const (
	fileMagic  = 0xa5e0
	frameMagic = 0xf1fa

	frameHeaderSize = 16
	chunkHeaderSize = 6
)

const (
	chunkOldPalette = 0x0004
	chunkLayer      = 0x2004
	chunkCel        = 0x2005
	chunkTags       = 0x2018
	chunkPalette    = 0x2019
	chunkTileset    = 0x2023
)

// Color depths in bits per pixel
const (
	depthIndexed   = 8
	depthGrayscale = 16
	depthRGBA      = 32
)

const (
	layerVisible = 1 << 0

	layerImage   = 0
	layerGroup   = 1
	layerTilemap = 2

	celRaw               = 0
	celLinked            = 1
	celCompressedImage   = 2
	celCompressedTilemap = 3

	tilesetExternal = 1 << 0
	tilesetEmbedded = 1 << 1

	paletteHasName = 1 << 0
)

type header struct {
	FileSize    uint32
	Magic       uint16
	Frames      uint16
	Width       uint16
	Height      uint16
	Depth       uint16
	Flags       uint32
	Speed       uint16
	_           [8]byte
	Transparent uint8
	_           [3]byte
	Colors      uint16
	PixelWidth  uint8
	PixelHeight uint8
	GridX       int16
	GridY       int16
	GridWidth   uint16
	GridHeight  uint16
	_           [84]byte
}

type frameHeader struct {
	Size      uint32
	Magic     uint16
	OldChunks uint16
	Duration  uint16
	_         [2]byte
	Chunks    uint32
}

func (h *frameHeader) chunks() int {
	if h.Chunks == 0 {
		return int(h.OldChunks)
	}
	return int(h.Chunks)
}
