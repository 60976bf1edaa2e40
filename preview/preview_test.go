package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/bodgit/nextgfx/document"
	"github.com/bodgit/nextgfx/rgb332"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgbaCel(t *testing.T, c color.RGBA) *document.Cel {
	px := make([]color.RGBA, 4)
	for i := range px {
		px[i] = c
	}
	px[3] = color.RGBA{}
	ts, err := document.NewTileset(0, 2, 2, document.RGBA, []document.Tile{{Mode: document.RGBA, RGBA: px}})
	require.NoError(t, err)

	return &document.Cel{
		CanvasWidth:  4,
		CanvasHeight: 2,
		Width:        1,
		Height:       1,
		XPos:         2,
		Tileset:      ts,
		Tilemap:      []document.TileRef{{}},
	}
}

func TestRender(t *testing.T) {
	red := color.RGBA{0xff, 0, 0, 0xff}
	m, err := Render(rgbaCel(t, red), nil, rgb332.Default())
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 4, 2), m.Bounds())
	assert.Equal(t, color.RGBA{}, m.RGBAAt(0, 0))
	assert.Equal(t, red, m.RGBAAt(2, 0))
	assert.Equal(t, color.RGBA{}, m.RGBAAt(3, 1))
}

func TestRenderIndexed(t *testing.T) {
	ts, err := document.NewTileset(0, 2, 1, document.Indexed, []document.Tile{{Mode: document.Indexed, Indexed: []uint8{1, 0xe0}}})
	require.NoError(t, err)
	cel := &document.Cel{CanvasWidth: 2, CanvasHeight: 1, Width: 1, Height: 1, Tileset: ts, Tilemap: []document.TileRef{{}}}

	q := rgb332.Default()

	// Without a palette the hardware colors are used
	m, err := Render(cel, nil, q)
	require.NoError(t, err)
	assert.Equal(t, rgb332.Color(1), m.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, m.RGBAAt(1, 0))

	green := color.RGBA{0, 0xff, 0, 0xff}
	m, err = Render(cel, &document.Palette{Colors: []color.RGBA{{}, green}}, q)
	require.NoError(t, err)
	assert.Equal(t, green, m.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, m.RGBAAt(1, 0))
}

func TestRenderHardware(t *testing.T) {
	m, err := RenderHardware(rgbaCel(t, color.RGBA{0xff, 0x10, 0x10, 0xff}), rgb332.Default())
	require.NoError(t, err)

	assert.Equal(t, uint8(0), m.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(0xe0), m.ColorIndexAt(2, 0))
	assert.Equal(t, uint8(227), m.ColorIndexAt(3, 1))
}

func TestEncode(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(x * 64), uint8(y * 64), 0, 0xff})
		}
	}

	tables := []struct {
		name   string
		opts   Options
		size   int
		colors int
	}{
		{"plain", Options{}, 4, 0},
		{"scaled", Options{Scale: 3}, 12, 0},
		{"exact palette", Options{Colors: 16}, 4, 16},
		{"reduced", Options{Colors: 4, Scale: 2}, 8, 4},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			var b bytes.Buffer
			require.NoError(t, Encode(&b, src, table.opts))

			m, err := png.Decode(&b)
			require.NoError(t, err)
			assert.Equal(t, table.size, m.Bounds().Dx())
			assert.Equal(t, table.size, m.Bounds().Dy())

			if table.colors > 0 {
				p, ok := m.ColorModel().(color.Palette)
				require.True(t, ok)
				assert.LessOrEqual(t, len(p), table.colors)
			}
		})
	}

	assert.Equal(t, errBadColors, Encode(&bytes.Buffer{}, src, Options{Colors: 257}))
}

func TestScaleKeepsPixels(t *testing.T) {
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{color.Black, color.White})
	src.SetColorIndex(1, 0, 1)

	m := scale(src, 2)
	pm, ok := m.(*image.Paletted)
	require.True(t, ok)
	assert.Equal(t, []uint8{0, 0, 1, 1, 0, 0, 1, 1}, pm.Pix)
}
