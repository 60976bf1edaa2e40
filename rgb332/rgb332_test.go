package rgb332

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	q := Default()

	tables := []struct {
		name  string
		color color.RGBA
		index uint8
	}{
		{"black", color.RGBA{0, 0, 0, 0xff}, 0x00},
		{"white", color.RGBA{0xff, 0xff, 0xff, 0xff}, 0xff},
		{"red", color.RGBA{0xff, 0, 0, 0xff}, 0xe0},
		{"green", color.RGBA{0, 0xff, 0, 0xff}, 0x1c},
		{"blue", color.RGBA{0, 0, 0xff, 0xff}, 0x03},
		{"low bits ignored", color.RGBA{0x1f, 0x1f, 0x3f, 0xff}, 0x00},
		// 0xe3 is the transparent index, so the opaque color moves
		{"collision", color.RGBA{0xe0, 0x00, 0xc0, 0xff}, DefaultAlternative},
		{"transparent", color.RGBA{0xff, 0xff, 0xff, 0x00}, DefaultTransparent},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.index, q.Index(table.color))
		})
	}
}

func TestIndexIdempotent(t *testing.T) {
	q := Default()
	for i := 0; i < 256; i++ {
		c := color.RGBA{uint8(i), uint8(255 - i), uint8(i * 7), 0xff}
		assert.Equal(t, q.Index(c), q.Index(c))
	}
}

func TestIndexAlphaZero(t *testing.T) {
	q := Quantizer{Transparent: 0, Alternative: 1}
	for i := 0; i < 256; i += 5 {
		assert.Equal(t, uint8(0), q.Index(color.RGBA{uint8(i), uint8(i), uint8(i), 0}))
	}
	assert.Equal(t, uint8(1), q.Index(color.RGBA{0, 0, 0, 0xff}))
}

func TestColorRoundTrip(t *testing.T) {
	q := Default()
	for i := 0; i < 256; i++ {
		if uint8(i) == q.Transparent {
			continue
		}
		assert.Equal(t, uint8(i), q.Index(Color(uint8(i))), "index %d", i)
	}
}

func TestPalette(t *testing.T) {
	q := Default()
	p := q.Palette()
	assert.Len(t, p, 256)

	_, _, _, a := p[q.Transparent].RGBA()
	assert.Equal(t, uint32(0), a)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, p[0xff])
}

func TestConvert(t *testing.T) {
	q := Default()
	assert.Equal(t, uint8(0xe0), q.Convert(color.NRGBA{0xff, 0, 0, 0xff}))
	assert.Equal(t, q.Transparent, q.Convert(color.Transparent))
}
