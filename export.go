package nextgfx

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/nextgfx/document"
	"github.com/bodgit/nextgfx/layer2"
	"github.com/bodgit/nextgfx/palette"
	"github.com/bodgit/nextgfx/preview"
	"github.com/bodgit/nextgfx/tile"
	"github.com/bodgit/nextgfx/tilemap"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

// Default output suffixes, applied to the input path.
const (
	SuffixLayerBitmap = FramePlaceholder + ".l2"
	SuffixSprite      = ".sp"
	SuffixTiles       = ".til"
	SuffixBitmap      = ".nxb"
	SuffixTilemap     = ".map"
	SuffixPalette     = ".pal"
	SuffixBalloon     = ".blm"
	SuffixPreview     = FramePlaceholder + ".png"
)

func orDefault(output, input, suffix string) string {
	if output != "" {
		return output
	}
	return DefaultOutput(input, suffix)
}

// FrameCount returns the number of frames in input once omitted frames are
// dropped.
func (c *Converter) FrameCount(input string) (int, error) {
	s, err := c.load(input)
	if err != nil {
		return 0, err
	}
	return len(s.Frames), nil
}

// ExportLayerBitmaps writes the framebuffer of every frame of the first
// layer of input.
func (c *Converter) ExportLayerBitmaps(input, output string, order layer2.Order) error {
	output = orDefault(output, input, SuffixLayerBitmap)

	_, layer, err := c.loadLayer(input)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(layer.Cels),
		progressbar.OptionSetWriter(c.progress),
		progressbar.OptionSetDescription(filepath.Base(input)),
		progressbar.OptionShowCount(),
	)

	frames := make([][]byte, 0, len(layer.Cels))
	for _, cel := range layer.Cels {
		b, err := layer2.Encode(cel, order, c.quantizer)
		if err != nil {
			return errors.Wrapf(err, "%s: layer \"%s\" frame %d", input, layer.Name, cel.Frame)
		}
		frames = append(frames, b)
		bar.Add(1)
	}
	bar.Finish()

	return c.writeFrames(output, KindLayerBitmap, input, frames)
}

// ExportSpriteAttributes writes the sprite file for the first layer of
// input.
func (c *Converter) ExportSpriteAttributes(input, output string) error {
	output = orDefault(output, input, SuffixSprite)

	_, layer, err := c.loadLayer(input)
	if err != nil {
		return err
	}

	b, err := c.encoder.EncodeLayer(layer)
	if err != nil {
		return errors.Wrap(err, input)
	}

	return c.writeBytes(output, KindSprite, []string{input}, b)
}

// ExportTileDefinitions writes the definitions of every tileset used by a
// tiled layer in any of the inputs.
func (c *Converter) ExportTileDefinitions(inputs []string, output string) error {
	if len(inputs) == 0 {
		return errors.New("no inputs")
	}
	output = orDefault(output, inputs[0], SuffixTiles)

	var tilesets []*document.Tileset
	for _, input := range inputs {
		s, err := c.load(input)
		if err != nil {
			return err
		}
		for _, layer := range s.Layers {
			if layer.Tileset != nil {
				tilesets = append(tilesets, layer.Tileset)
			}
		}
	}

	return c.write(output, KindTiles, inputs, func(w io.Writer) error {
		return tile.WriteDefinitions(w, tilesets, c.logger)
	})
}

// ExportBitmap writes the framebuffers of every frame of the first layer
// of input into one file.
func (c *Converter) ExportBitmap(input, output string, order layer2.Order) error {
	output = orDefault(output, input, SuffixBitmap)

	_, layer, err := c.loadLayer(input)
	if err != nil {
		return err
	}

	b, err := layer2.EncodeLayer(layer, order, c.quantizer)
	if err != nil {
		return errors.Wrap(err, input)
	}

	return c.writeBytes(output, KindBitmap, []string{input}, b)
}

// ExportTilemap writes the tilemap of every frame of the first layer of
// input. A zero width or height uses the content size of each frame.
func (c *Converter) ExportTilemap(input, output string, width, height int, wide bool) error {
	output = orDefault(output, input, SuffixTilemap)

	_, layer, err := c.loadLayer(input)
	if err != nil {
		return err
	}

	w := tilemap.Width8
	if wide {
		w = tilemap.Width16
	}

	maps, err := tilemap.EncodeLayer(layer, width, height, w)
	if err != nil {
		return errors.Wrap(err, input)
	}

	return c.writeFrames(output, KindTilemap, input, maps)
}

// ExportPalette writes the palette of every input that has one.
func (c *Converter) ExportPalette(inputs []string, output string) error {
	if len(inputs) == 0 {
		return errors.New("no inputs")
	}
	output = orDefault(output, inputs[0], SuffixPalette)

	sprites := make([]*document.Sprite, 0, len(inputs))
	for _, input := range inputs {
		s, err := c.load(input)
		if err != nil {
			return err
		}
		if s.Palette == nil {
			c.logger.Printf("No palette in \"%s\"\n", input)
		}
		sprites = append(sprites, s)
	}

	return c.write(output, KindPalette, inputs, func(w io.Writer) error {
		n, err := palette.Write(w, sprites, c.quantizer)
		if err != nil {
			return err
		}
		c.logger.Printf("Wrote %d palettes\n", n)
		return nil
	})
}

// ExportBalloon writes the balloon window of the first cel of the first
// layer of input.
func (c *Converter) ExportBalloon(input, output string) error {
	output = orDefault(output, input, SuffixBalloon)

	_, layer, err := c.loadLayer(input)
	if err != nil {
		return err
	}
	if len(layer.Cels) == 0 {
		return errors.Errorf("%s: layer \"%s\" has no frames", input, layer.Name)
	}

	b, err := c.config.Balloon.Encode(layer.Cels[0])
	if err != nil {
		return errors.Wrap(err, input)
	}

	return c.writeBytes(output, KindBalloon, []string{input}, b)
}

// ExportPreview writes PNG previews of the first layer of input. A
// negative frame renders every frame, which needs the frame placeholder in
// output. With hardware set the colors are shown as the framebuffer would
// display them.
func (c *Converter) ExportPreview(input, output string, frame int, hardware bool, opts preview.Options) error {
	output = orDefault(output, input, SuffixPreview)

	s, layer, err := c.loadLayer(input)
	if err != nil {
		return err
	}

	frames := make([]int, 0, len(layer.Cels))
	switch {
	case frame < 0:
		for i := range layer.Cels {
			frames = append(frames, i)
		}
		if len(frames) > 1 && !IsTemplate(output) {
			return errors.Errorf("output \"%s\" needs %s to hold %d frames", output, FramePlaceholder, len(frames))
		}
	case frame < len(layer.Cels):
		frames = append(frames, frame)
	default:
		return errors.Errorf("%s: frame %d out of range, there are %d", input, frame, len(layer.Cels))
	}

	outputs := make([]outputFile, 0, len(frames))
	for _, i := range frames {
		cel := layer.Cels[i]
		outputs = append(outputs, outputFile{Template(output, i), func(w io.Writer) error {
			m, err := c.render(s, cel, hardware)
			if err != nil {
				return errors.Wrapf(err, "%s: frame %d", input, cel.Frame)
			}
			return preview.Encode(w, m, opts)
		}})
	}

	return c.writeAll(KindPreview, []string{input}, outputs)
}

func (c *Converter) render(s *document.Sprite, cel *document.Cel, hardware bool) (image.Image, error) {
	if hardware {
		return preview.RenderHardware(cel, c.quantizer)
	}
	return preview.Render(cel, s.Palette, c.quantizer)
}

// ListAssets prints every recorded asset to w.
func (c *Converter) ListAssets(w io.Writer) error {
	if c.db == nil {
		return errors.New("no asset database")
	}

	assets, err := c.db.Assets()
	if err != nil {
		return err
	}

	for _, a := range assets {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.Path, a.Kind, humanize.Bytes(uint64(a.Size)), humanize.Time(a.Exported), strings.Join(a.Sources, ",")); err != nil {
			return err
		}
	}
	return nil
}

// ListSources prints every input that has been exported to w.
func (c *Converter) ListSources(w io.Writer) error {
	if c.db == nil {
		return errors.New("no asset database")
	}

	sources, err := c.db.Sources()
	if err != nil {
		return err
	}

	for _, s := range sources {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}
