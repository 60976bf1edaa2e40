package nextgfx

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// Just enough of the Aseprite format to produce inputs for the converter.

type aseHeader struct {
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
	_           [94]byte
}

type aseFrameHeader struct {
	Size      uint32
	Magic     uint16
	OldChunks uint16
	Duration  uint16
	_         [2]byte
	Chunks    uint32
}

func le(b *bytes.Buffer, values ...interface{}) {
	for _, v := range values {
		if err := binary.Write(b, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
}

func str(b *bytes.Buffer, s string) {
	le(b, uint16(len(s)))
	b.WriteString(s)
}

func deflate(t *testing.T, data []byte) []byte {
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return b.Bytes()
}

func aseChunk(kind uint16, body []byte) []byte {
	var b bytes.Buffer
	le(&b, uint32(len(body)+6), kind)
	b.Write(body)
	return b.Bytes()
}

func aseLayer(name string, tilemap bool) []byte {
	var b bytes.Buffer
	kind := uint16(0)
	if tilemap {
		kind = 2
	}
	le(&b, uint16(1), kind, uint16(0), uint16(0), uint16(0), uint16(0), uint8(255), [3]byte{})
	str(&b, name)
	if tilemap {
		le(&b, uint32(0))
	}
	return aseChunk(0x2004, b.Bytes())
}

func aseImageCel(t *testing.T, x, y int16, w, h uint16, pixels []byte) []byte {
	var b bytes.Buffer
	le(&b, uint16(0), x, y, uint8(255), uint16(2), int16(0), [5]byte{}, w, h)
	b.Write(deflate(t, pixels))
	return aseChunk(0x2005, b.Bytes())
}

func aseTilemapCel(t *testing.T, w, h uint16, tiles []uint32) []byte {
	var raw bytes.Buffer
	le(&raw, tiles)

	var b bytes.Buffer
	le(&b, uint16(0), int16(0), int16(0), uint8(255), uint16(3), int16(0), [5]byte{})
	le(&b, w, h, uint16(32), uint32(0x1fffffff), uint32(0x80000000), uint32(0x40000000), uint32(0x20000000), [10]byte{})
	b.Write(deflate(t, raw.Bytes()))
	return aseChunk(0x2005, b.Bytes())
}

func aseTileset(t *testing.T, count uint32, side uint16, pixels []byte) []byte {
	compressed := deflate(t, pixels)

	var b bytes.Buffer
	le(&b, uint32(0), uint32(1<<1), count, side, side, int16(1), [14]byte{})
	str(&b, "tiles")
	le(&b, uint32(len(compressed)))
	b.Write(compressed)
	return aseChunk(0x2023, b.Bytes())
}

func asePalette(colors ...color.RGBA) []byte {
	var b bytes.Buffer
	le(&b, uint32(len(colors)), uint32(0), uint32(len(colors)-1), [8]byte{})
	for _, c := range colors {
		le(&b, uint16(0), c.R, c.G, c.B, c.A)
	}
	return aseChunk(0x2019, b.Bytes())
}

func aseFile(width, height, depth uint16, frames ...[][]byte) []byte {
	var body bytes.Buffer
	for _, chunks := range frames {
		var f bytes.Buffer
		for _, c := range chunks {
			f.Write(c)
		}
		le(&body, aseFrameHeader{
			Size:      uint32(f.Len() + 16),
			Magic:     0xf1fa,
			OldChunks: uint16(len(chunks)),
			Duration:  100,
			Chunks:    uint32(len(chunks)),
		})
		body.Write(f.Bytes())
	}

	var b bytes.Buffer
	le(&b, aseHeader{
		FileSize: uint32(128 + body.Len()),
		Magic:    0xa5e0,
		Frames:   uint16(len(frames)),
		Width:    width,
		Height:   height,
		Depth:    depth,
		Colors:   256,
	})
	b.Write(body.Bytes())
	return b.Bytes()
}

func solid(n int, c color.RGBA) []byte {
	b := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		b = append(b, c.R, c.G, c.B, c.A)
	}
	return b
}

var red = color.RGBA{R: 0xff, A: 0xff}

// writeCharacter writes a 16x16 RGBA animation of two solid red frames.
func writeCharacter(t *testing.T, dir string) string {
	path := filepath.Join(dir, "hero.aseprite")
	data := aseFile(16, 16, 32,
		[][]byte{
			aseLayer("body", false),
			aseImageCel(t, 0, 0, 16, 16, solid(256, red)),
		},
		[][]byte{
			aseImageCel(t, 0, 0, 16, 16, solid(256, red)),
		},
	)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// writeLevel writes a 16x8 indexed tilemap of two 8x8 tiles, where every
// pixel of tile n is n.
func writeLevel(t *testing.T, dir string) string {
	pixels := make([]byte, 0, 3*64)
	for i := 0; i < 3; i++ {
		pixels = append(pixels, bytes.Repeat([]byte{byte(i)}, 64)...)
	}

	path := filepath.Join(dir, "level.ase")
	data := aseFile(16, 8, 8,
		[][]byte{
			asePalette(color.RGBA{A: 0xff}, red),
			aseTileset(t, 3, 8, pixels),
			aseLayer("map", true),
			aseTilemapCel(t, 2, 1, []uint32{1, 2}),
		},
	)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
