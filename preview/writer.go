package preview

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

const maxColors = 256

var errBadColors = errors.New("preview: palette must hold between 1 and 256 colors")

func uniqueColors(m image.Image) color.Palette {
	seen := make(map[color.RGBA]struct{})
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			seen[color.RGBAModel.Convert(m.At(x, y)).(color.RGBA)] = struct{}{}
		}
	}

	colors := make([]color.RGBA, 0, len(seen))
	for c := range seen {
		colors = append(colors, c)
	}
	// Stable output for identical input
	sort.Slice(colors, func(i, j int) bool {
		a, b := colors[i], colors[j]
		return uint32(a.R)<<24|uint32(a.G)<<16|uint32(a.B)<<8|uint32(a.A) < uint32(b.R)<<24|uint32(b.G)<<16|uint32(b.B)<<8|uint32(b.A)
	})

	p := make(color.Palette, len(colors))
	for i, c := range colors {
		p[i] = c
	}
	return p
}

// reduce returns m as a paletted image of no more than n colors. The exact
// colors are kept when they fit, otherwise a median cut palette is used.
func reduce(m image.Image, n int) *image.Paletted {
	b := m.Bounds()

	p := uniqueColors(m)
	if len(p) > n {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, n), m)
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

func scale(m image.Image, factor int) image.Image {
	b := m.Bounds()
	r := image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor)

	var dst draw.Image
	if pm, ok := m.(*image.Paletted); ok {
		dst = image.NewPaletted(r, pm.Palette)
	} else {
		dst = image.NewRGBA(r)
	}
	draw.NearestNeighbor.Scale(dst, r, m, b, draw.Src, nil)
	return dst
}

// Encode writes m to w as a PNG, applying the palette limit first and the
// scale second.
func Encode(w io.Writer, m image.Image, opts Options) error {
	if opts.Colors < 0 || opts.Colors > maxColors {
		return errBadColors
	}

	if opts.Colors > 0 {
		m = reduce(m, opts.Colors)
	}

	if opts.Scale > 1 {
		m = scale(m, opts.Scale)
	}

	return png.Encode(w, m)
}
