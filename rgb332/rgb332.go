/*
Package rgb332 maps 32-bit colors onto the 256 color hardware palette, which
allocates three bits each to red and green and two bits to blue.

One palette index is reserved as transparent. An opaque color that happens
to land on that index is moved to an alternative index so that it stays
visible.
*/
package rgb332

import "image/color"

const (
	// DefaultTransparent is the global transparency index of the hardware.
	DefaultTransparent = 227
	// DefaultAlternative replaces DefaultTransparent for opaque colors.
	DefaultAlternative = 228
)

// Quantizer converts colors into palette indices.
type Quantizer struct {
	Transparent uint8
	Alternative uint8
}

// Default returns a Quantizer using the hardware default indices.
func Default() Quantizer {
	return Quantizer{
		Transparent: DefaultTransparent,
		Alternative: DefaultAlternative,
	}
}

// Index returns the palette index for c.
func (q Quantizer) Index(c color.RGBA) uint8 {
	if c.A == 0 {
		return q.Transparent
	}
	i := c.R&0xe0 | (c.G&0xe0)>>3 | (c.B&0xc0)>>6
	if i == q.Transparent {
		return q.Alternative
	}
	return i
}

// Convert quantizes any color.Color, using its non-premultiplied value.
func (q Quantizer) Convert(c color.Color) uint8 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return q.Index(color.RGBA{R: n.R, G: n.G, B: n.B, A: n.A})
}

// Color expands a palette index back into the color the hardware displays.
// The missing third blue bit is the OR of the other two.
func Color(i uint8) color.RGBA {
	r := i >> 5 & 0x07
	g := i >> 2 & 0x07
	b := i & 0x03
	b3 := b<<1 | (b>>1|b)&0x01
	return color.RGBA{
		R: r<<5 | r<<2 | r>>1,
		G: g<<5 | g<<2 | g>>1,
		B: b3<<5 | b3<<2 | b3>>1,
		A: 0xff,
	}
}

// Palette returns the full 256 entry hardware palette with the transparent
// index of q made fully transparent.
func (q Quantizer) Palette() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		c := Color(uint8(i))
		if uint8(i) == q.Transparent {
			c.A = 0
			c.R, c.G, c.B = 0, 0, 0
		}
		p[i] = c
	}
	return p
}
