package aseprite

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"

	"github.com/klauspost/compress/zlib"
)

// chunkReader reads little endian fields from a chunk body, remembering
// the first error.
type chunkReader struct {
	r   *bytes.Reader
	err error
}

func newChunkReader(b []byte) *chunkReader {
	return &chunkReader{r: bytes.NewReader(b)}
}

func (cr *chunkReader) read(v interface{}) {
	if cr.err != nil {
		return
	}
	if err := binary.Read(cr.r, binary.LittleEndian, v); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		cr.err = err
	}
}

func (cr *chunkReader) byte() uint8 {
	var v uint8
	cr.read(&v)
	return v
}

func (cr *chunkReader) word() uint16 {
	var v uint16
	cr.read(&v)
	return v
}

func (cr *chunkReader) short() int16 {
	var v int16
	cr.read(&v)
	return v
}

func (cr *chunkReader) dword() uint32 {
	var v uint32
	cr.read(&v)
	return v
}

func (cr *chunkReader) string() string {
	b := make([]byte, cr.word())
	cr.read(b)
	return string(b)
}

func (cr *chunkReader) skip(n int) {
	if cr.err != nil {
		return
	}
	if cr.r.Len() < n {
		cr.err = io.ErrUnexpectedEOF
		return
	}
	_, cr.err = cr.r.Seek(int64(n), io.SeekCurrent)
}

func (cr *chunkReader) rest() []byte {
	b := make([]byte, cr.r.Len())
	cr.read(b)
	return b
}

func inflate(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

type layerChunk struct {
	flags   uint16
	kind    uint16
	level   int
	name    string
	tileset int
}

func parseLayer(b []byte) (*layerChunk, error) {
	cr := newChunkReader(b)
	l := &layerChunk{}
	l.flags = cr.word()
	l.kind = cr.word()
	l.level = int(cr.word())
	// Default width, height, blend mode, opacity and reserved bytes
	cr.skip(2 + 2 + 2 + 1 + 3)
	l.name = cr.string()
	if l.kind == layerTilemap {
		l.tileset = int(cr.dword())
	}
	if cr.err != nil {
		return nil, fmt.Errorf("layer chunk: %w", cr.err)
	}
	return l, nil
}

type celChunk struct {
	layer int
	x, y  int
	kind  uint16
	link  int

	// Pixels for image cels, tiles for tilemap cels
	width, height int
	data          []byte

	bitsPerTile                           int
	idMask, xFlipMask, yFlipMask, rotMask uint32
}

func parseCel(b []byte) (*celChunk, error) {
	cr := newChunkReader(b)
	c := &celChunk{}
	c.layer = int(cr.word())
	c.x = int(cr.short())
	c.y = int(cr.short())
	cr.skip(1) // opacity
	c.kind = cr.word()
	cr.skip(2 + 5) // z-index and reserved

	switch c.kind {
	case celRaw:
		c.width = int(cr.word())
		c.height = int(cr.word())
		c.data = cr.rest()
	case celLinked:
		c.link = int(cr.word())
	case celCompressedImage:
		c.width = int(cr.word())
		c.height = int(cr.word())
		compressed := cr.rest()
		if cr.err == nil {
			var err error
			if c.data, err = inflate(compressed); err != nil {
				return nil, fmt.Errorf("cel chunk: %w", err)
			}
		}
	case celCompressedTilemap:
		c.width = int(cr.word())
		c.height = int(cr.word())
		c.bitsPerTile = int(cr.word())
		c.idMask = cr.dword()
		c.xFlipMask = cr.dword()
		c.yFlipMask = cr.dword()
		c.rotMask = cr.dword()
		cr.skip(10)
		compressed := cr.rest()
		if cr.err == nil {
			var err error
			if c.data, err = inflate(compressed); err != nil {
				return nil, fmt.Errorf("cel chunk: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("cel chunk: unknown cel type %d", c.kind)
	}

	if cr.err != nil {
		return nil, fmt.Errorf("cel chunk: %w", cr.err)
	}
	return c, nil
}

type tag struct {
	from, to int
	name     string
}

func parseTags(b []byte) ([]tag, error) {
	cr := newChunkReader(b)
	n := int(cr.word())
	cr.skip(8)

	tags := make([]tag, 0, n)
	for i := 0; i < n && cr.err == nil; i++ {
		var t tag
		t.from = int(cr.word())
		t.to = int(cr.word())
		// Direction, repeat count, reserved, color and extra byte
		cr.skip(1 + 2 + 6 + 3 + 1)
		t.name = cr.string()
		tags = append(tags, t)
	}

	if cr.err != nil {
		return nil, fmt.Errorf("tags chunk: %w", cr.err)
	}
	return tags, nil
}

// parsePalette applies a palette chunk on top of p and returns the result.
func parsePalette(p []color.RGBA, b []byte) ([]color.RGBA, error) {
	cr := newChunkReader(b)
	size := int(cr.dword())
	first := int(cr.dword())
	last := int(cr.dword())
	cr.skip(8)
	if cr.err != nil {
		return nil, fmt.Errorf("palette chunk: %w", cr.err)
	}
	if first > last || last >= size {
		return nil, fmt.Errorf("palette chunk: entries %d to %d outside palette of %d", first, last, size)
	}

	p = resize(p, size)
	for i := first; i <= last; i++ {
		flags := cr.word()
		p[i] = color.RGBA{cr.byte(), cr.byte(), cr.byte(), cr.byte()}
		if flags&paletteHasName != 0 {
			_ = cr.string()
		}
	}

	if cr.err != nil {
		return nil, fmt.Errorf("palette chunk: %w", cr.err)
	}
	return p, nil
}

func parseOldPalette(p []color.RGBA, b []byte) ([]color.RGBA, error) {
	cr := newChunkReader(b)
	packets := int(cr.word())
	i := 0
	for j := 0; j < packets && cr.err == nil; j++ {
		i += int(cr.byte())
		n := int(cr.byte())
		if n == 0 {
			n = 256
		}
		p = resize(p, i+n)
		for ; n > 0; n-- {
			p[i] = color.RGBA{cr.byte(), cr.byte(), cr.byte(), 0xff}
			i++
		}
	}

	if cr.err != nil {
		return nil, fmt.Errorf("old palette chunk: %w", cr.err)
	}
	return p, nil
}

func resize(p []color.RGBA, size int) []color.RGBA {
	if len(p) >= size {
		return p[:size]
	}
	return append(p, make([]color.RGBA, size-len(p))...)
}

type tilesetChunk struct {
	id            int
	count         int
	width, height int
	name          string
	data          []byte
}

func parseTileset(b []byte) (*tilesetChunk, error) {
	cr := newChunkReader(b)
	ts := &tilesetChunk{}
	ts.id = int(cr.dword())
	flags := cr.dword()
	ts.count = int(cr.dword())
	ts.width = int(cr.word())
	ts.height = int(cr.word())
	cr.skip(2 + 14) // base index and reserved
	ts.name = cr.string()

	if flags&tilesetExternal != 0 {
		cr.skip(4 + 4)
	}
	if flags&tilesetEmbedded == 0 {
		return nil, fmt.Errorf("tileset %d: tiles are not embedded in the file", ts.id)
	}

	n := int(cr.dword())
	compressed := make([]byte, n)
	cr.read(compressed)
	if cr.err != nil {
		return nil, fmt.Errorf("tileset chunk: %w", cr.err)
	}

	var err error
	if ts.data, err = inflate(compressed); err != nil {
		return nil, fmt.Errorf("tileset %d: %w", ts.id, err)
	}
	return ts, nil
}
