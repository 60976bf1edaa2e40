package aseprite

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"sort"

	"github.com/bodgit/nextgfx/document"
)

func (d *decoder) bytesPerPixel() int {
	return int(d.header.Depth) / 8
}

func (d *decoder) mode() document.ColorMode {
	if d.header.Depth == depthIndexed {
		return document.Indexed
	}
	return document.RGBA
}

// color converts one stored pixel to RGBA. Indexed pixels equal to the
// transparent index are fully transparent.
func (d *decoder) color(p []byte) color.RGBA {
	switch d.header.Depth {
	case depthRGBA:
		return color.RGBA{p[0], p[1], p[2], p[3]}
	case depthGrayscale:
		return color.RGBA{p[0], p[0], p[0], p[1]}
	}
	if p[0] == d.header.Transparent || int(p[0]) >= len(d.palette) {
		return color.RGBA{}
	}
	return d.palette[p[0]]
}

func (d *decoder) omitted() map[int]bool {
	omit := make(map[int]bool)
	for _, t := range d.tags {
		if t.name != OmitTag {
			continue
		}
		for i := t.from; i <= t.to; i++ {
			omit[i] = true
		}
	}
	return omit
}

func (d *decoder) sprite(name string) (*document.Sprite, error) {
	s := &document.Sprite{
		Name:   name,
		Width:  int(d.header.Width),
		Height: int(d.header.Height),
	}

	omit := d.omitted()
	for i, duration := range d.durations {
		if !omit[i] {
			s.Frames = append(s.Frames, document.Frame{Index: i, Duration: duration})
		}
	}

	if len(d.palette) > 0 {
		p := &document.Palette{Colors: make([]color.RGBA, len(d.palette))}
		copy(p.Colors, d.palette)
		if d.header.Depth == depthIndexed && int(d.header.Transparent) < len(p.Colors) {
			p.Colors[d.header.Transparent].A = 0
		}
		s.Palette = p
	}

	byID := make(map[int]*document.Tileset, len(d.tilesets))
	for _, tc := range d.tilesets {
		ts, err := d.tileset(tc)
		if err != nil {
			return nil, err
		}
		s.Tilesets = append(s.Tilesets, ts)
		byID[tc.id] = ts
	}

	var images []int
	for i, l := range d.visibleLayers() {
		if l == nil {
			continue
		}
		switch l.kind {
		case layerTilemap:
			ts, ok := byID[l.tileset]
			if !ok {
				return nil, fmt.Errorf("layer %q: unknown tileset %d", l.name, l.tileset)
			}
			layer := &document.Layer{Index: i, Name: l.name, Tileset: ts}
			for _, f := range s.Frames {
				cel, err := d.tiledCel(d.cels[f.Index][i], f.Index, ts)
				if err != nil {
					return nil, fmt.Errorf("layer %q: %w", l.name, err)
				}
				layer.Cels = append(layer.Cels, cel)
			}
			s.Layers = append(s.Layers, layer)
		case layerImage:
			images = append(images, i)
		}
	}

	if len(images) > 0 {
		layer := &document.Layer{Index: images[0], Name: d.layers[images[0]].name}
		for _, f := range s.Frames {
			cel, err := d.mergedCel(images, f.Index)
			if err != nil {
				return nil, fmt.Errorf("layer %q: %w", layer.Name, err)
			}
			layer.Cels = append(layer.Cels, cel)
		}
		s.Layers = append(s.Layers, layer)
	}

	return s, nil
}

// visibleLayers returns the layers in file order, with nil in place of any
// layer that is hidden either itself or through one of its groups.
func (d *decoder) visibleLayers() []*layerChunk {
	visible := make([]*layerChunk, len(d.layers))
	var parents []bool
	for i, l := range d.layers {
		v := l.flags&layerVisible != 0
		if l.level > 0 && l.level <= len(parents) {
			v = v && parents[l.level-1]
		}
		parents = append(parents[:min(l.level, len(parents))], v)
		if v {
			visible[i] = l
		}
	}
	return visible
}

// tileset builds the tileset, dropping the empty tile 0 so that tile index
// i holds tile i+1 of the file.
func (d *decoder) tileset(tc *tilesetChunk) (*document.Tileset, error) {
	pixels := tc.width * tc.height
	bpp := d.bytesPerPixel()
	if len(tc.data) < tc.count*pixels*bpp {
		return nil, fmt.Errorf("tileset %d: %d bytes of tile data, expected %d", tc.id, len(tc.data), tc.count*pixels*bpp)
	}

	mode := d.mode()
	var tiles []document.Tile
	for id := 1; id < tc.count; id++ {
		b := tc.data[id*pixels*bpp : (id+1)*pixels*bpp]
		t := document.Tile{Index: id - 1, Mode: mode}
		if mode == document.Indexed {
			t.Indexed = append([]uint8(nil), b...)
		} else {
			t.RGBA = make([]color.RGBA, pixels)
			for i := range t.RGBA {
				t.RGBA[i] = d.color(b[i*bpp:])
			}
		}
		tiles = append(tiles, t)
	}

	return document.NewTileset(tc.id, tc.width, tc.height, mode, tiles)
}

func (d *decoder) tiledCel(c *celChunk, frame int, ts *document.Tileset) (*document.Cel, error) {
	cel := &document.Cel{
		Frame:        frame,
		CanvasWidth:  int(d.header.Width),
		CanvasHeight: int(d.header.Height),
		Tileset:      ts,
	}
	if c == nil {
		return cel, nil
	}
	if c.kind != celCompressedTilemap {
		return nil, fmt.Errorf("frame %d: image cel in a tilemap layer", frame)
	}

	cel.Width, cel.Height = c.width, c.height
	cel.XPos, cel.YPos = c.x, c.y

	size := (c.bitsPerTile + 7) / 8
	if size != 4 {
		return nil, fmt.Errorf("frame %d: unsupported %d bits per tile", frame, c.bitsPerTile)
	}
	if len(c.data) < c.width*c.height*size {
		return nil, fmt.Errorf("frame %d: truncated tilemap", frame)
	}

	for i := 0; i < c.width*c.height; i++ {
		v := binary.LittleEndian.Uint32(c.data[i*size:])
		id := int(v & c.idMask)
		if id == 0 {
			continue
		}
		cel.Tilemap = append(cel.Tilemap, document.TileRef{
			X:        i % c.width,
			Y:        i / c.width,
			Tile:     id - 1,
			XFlip:    v&c.xFlipMask != 0,
			YFlip:    v&c.yFlipMask != 0,
			Rotation: v&c.rotMask != 0,
		})
	}

	return cel, nil
}

// pixel returns the color of canvas pixel (x, y) within an image cel.
func (d *decoder) pixel(c *celChunk, x, y int) color.RGBA {
	x, y = x-c.x, y-c.y
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return color.RGBA{}
	}
	bpp := d.bytesPerPixel()
	i := (y*c.width + x) * bpp
	if i+bpp > len(c.data) {
		return color.RGBA{}
	}
	return d.color(c.data[i : i+bpp])
}

// mergedCel flattens the image cels of the given layers for one frame and
// cuts the result into tiles. Later layers are drawn over earlier ones.
func (d *decoder) mergedCel(layers []int, frame int) (*document.Cel, error) {
	var cels []*celChunk
	for _, i := range layers {
		if c, ok := d.cels[frame][i]; ok && c.kind != celCompressedTilemap {
			cels = append(cels, c)
		}
	}
	sort.SliceStable(cels, func(i, j int) bool {
		return cels[i].layer < cels[j].layer
	})

	cel := &document.Cel{
		Frame:        frame,
		CanvasWidth:  int(d.header.Width),
		CanvasHeight: int(d.header.Height),
	}

	var tiles []document.Tile
	if len(cels) > 0 {
		x0, y0 := cels[0].x, cels[0].y
		x1, y1 := x0+cels[0].width, y0+cels[0].height
		for _, c := range cels[1:] {
			x0, y0 = min(x0, c.x), min(y0, c.y)
			x1, y1 = max(x1, c.x+c.width), max(y1, c.y+c.height)
		}

		cel.XPos, cel.YPos = x0, y0
		cel.Width = (x1 - x0 + MergedTileSide - 1) / MergedTileSide
		cel.Height = (y1 - y0 + MergedTileSide - 1) / MergedTileSide

		for ty := 0; ty < cel.Height; ty++ {
			for tx := 0; tx < cel.Width; tx++ {
				content := make([]color.RGBA, MergedTileSide*MergedTileSide)
				empty := true
				for py := 0; py < MergedTileSide; py++ {
					for px := 0; px < MergedTileSide; px++ {
						x := x0 + tx*MergedTileSide + px
						y := y0 + ty*MergedTileSide + py
						for _, c := range cels {
							if p := d.pixel(c, x, y); p.A != 0 {
								content[px+py*MergedTileSide] = p
								empty = false
							}
						}
					}
				}
				if empty {
					continue
				}
				index := len(tiles)
				tiles = append(tiles, document.Tile{Index: index, Mode: document.RGBA, RGBA: content})
				cel.Tilemap = append(cel.Tilemap, document.TileRef{X: tx, Y: ty, Tile: index})
			}
		}
	}

	ts, err := document.NewTileset(MergedTileset, MergedTileSide, MergedTileSide, document.RGBA, tiles)
	if err != nil {
		return nil, err
	}
	cel.Tileset = ts

	return cel, nil
}
