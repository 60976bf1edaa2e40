/*
Package layer2 serialises cels into raw 8-bit framebuffers, one quantized
byte per canvas pixel.

The hardware can scan its framebuffer row by row or column by column, so the
pixel order is chosen with an Order.
*/
package layer2

import (
	"errors"
	"fmt"
	"image"

	"github.com/bodgit/nextgfx/document"
	"github.com/bodgit/nextgfx/rgb332"
)

// Order calls visit once for every pixel of a width by height area.
type Order func(width, height int, visit func(x, y int))

// RowMajor visits pixels left to right, then top to bottom.
func RowMajor(width, height int, visit func(x, y int)) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			visit(x, y)
		}
	}
}

// ColumnMajor visits pixels top to bottom, then left to right.
func ColumnMajor(width, height int, visit func(x, y int)) {
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			visit(x, y)
		}
	}
}

// OrderFor returns ColumnMajor if columns is set, otherwise RowMajor.
func OrderFor(columns bool) Order {
	if columns {
		return ColumnMajor
	}
	return RowMajor
}

var errSize = errors.New("layer2: bitmap size does not match dimensions")

// Pixel returns the quantized value of canvas pixel (x, y). Pixels not
// covered by a tile are 0.
func Pixel(cel *document.Cel, x, y int, q rgb332.Quantizer) (uint8, error) {
	if x < 0 || y < 0 || x >= cel.CanvasWidth || y >= cel.CanvasHeight {
		return 0, fmt.Errorf("pixel (%d, %d) out of bounds for canvas %dx%d", x, y, cel.CanvasWidth, cel.CanvasHeight)
	}

	t, i, err := cel.TileAt(x, y)
	if err != nil || t == nil {
		return 0, err
	}

	if t.Mode == document.Indexed {
		return t.Indexed[i], nil
	}
	return q.Index(t.RGBA[i]), nil
}

// Encode returns the framebuffer of the cel's canvas.
func Encode(cel *document.Cel, order Order, q rgb332.Quantizer) ([]byte, error) {
	b := make([]byte, 0, cel.CanvasWidth*cel.CanvasHeight)
	var err error
	order(cel.CanvasWidth, cel.CanvasHeight, func(x, y int) {
		if err != nil {
			return
		}
		var p uint8
		p, err = Pixel(cel, x, y, q)
		b = append(b, p)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// EncodeLayer returns the framebuffers of every cel of the layer
// concatenated.
func EncodeLayer(layer *document.Layer, order Order, q rgb332.Quantizer) ([]byte, error) {
	var out []byte
	for i, cel := range layer.Cels {
		b, err := Encode(cel, order, q)
		if err != nil {
			return nil, fmt.Errorf("layer %q cel %d: %w", layer.Name, i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// Decode turns a framebuffer back into an image using the hardware palette.
func Decode(b []byte, width, height int, order Order, q rgb332.Quantizer) (*image.Paletted, error) {
	if len(b) != width*height {
		return nil, errSize
	}

	m := image.NewPaletted(image.Rect(0, 0, width, height), q.Palette())
	i := 0
	order(width, height, func(x, y int) {
		m.SetColorIndex(x, y, b[i])
		i++
	})

	return m, nil
}
