/*
Package preview renders cels to PNG images so exported frames can be checked
without the target hardware.

A cel is either rendered in full color from its tiles or, in hardware mode,
through the same 3-3-2 quantization the layer 2 export uses. The result can
then be reduced to a smaller palette with a median cut quantizer and scaled
up with nearest neighbour sampling.
*/
package preview

import (
	"image"
	"image/color"

	"github.com/bodgit/nextgfx/document"
	"github.com/bodgit/nextgfx/layer2"
	"github.com/bodgit/nextgfx/rgb332"
)

// Options controls how an image is written.
type Options struct {
	// Scale multiplies both dimensions, values below 2 leave the size alone
	Scale int
	// Colors limits the palette, 0 keeps every color
	Colors int
}

// Render draws the canvas of cel. Indexed pixels are looked up in p, falling
// back to the hardware palette when p is nil or too short.
func Render(cel *document.Cel, p *document.Palette, q rgb332.Quantizer) (*image.RGBA, error) {
	m := image.NewRGBA(image.Rect(0, 0, cel.CanvasWidth, cel.CanvasHeight))
	for y := 0; y < cel.CanvasHeight; y++ {
		for x := 0; x < cel.CanvasWidth; x++ {
			t, i, err := cel.TileAt(x, y)
			if err != nil {
				return nil, err
			}
			if t == nil {
				continue
			}
			m.SetRGBA(x, y, premultiply(pixel(t, i, p, q)))
		}
	}
	return m, nil
}

// RenderHardware draws the canvas of cel as the 3-3-2 framebuffer would
// display it.
func RenderHardware(cel *document.Cel, q rgb332.Quantizer) (*image.Paletted, error) {
	b, err := layer2.Encode(cel, layer2.RowMajor, q)
	if err != nil {
		return nil, err
	}
	return layer2.Decode(b, cel.CanvasWidth, cel.CanvasHeight, layer2.RowMajor, q)
}

func pixel(t *document.Tile, i int, p *document.Palette, q rgb332.Quantizer) color.RGBA {
	if t.Mode == document.RGBA {
		return t.RGBA[i]
	}
	index := t.Indexed[i]
	if p != nil && int(index) < len(p.Colors) {
		return p.Colors[index]
	}
	if index == q.Transparent {
		return color.RGBA{}
	}
	return rgb332.Color(index)
}

// Tile colors are stored straight, image.RGBA wants them premultiplied.
func premultiply(c color.RGBA) color.RGBA {
	return color.RGBAModel.Convert(color.NRGBA(c)).(color.RGBA)
}
