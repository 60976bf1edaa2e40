/*
Package nextgfx is a library for converting Aseprite animations into ZX
Spectrum Next graphics assets.

A Converter loads each input through the aseprite package and hands the
resulting document to one of the encoders. Every output file is written
whole or not at all, and is optionally recorded in an AssetDB manifest.
*/
package nextgfx

import (
	"io"
	"log"
	"time"

	"github.com/bodgit/nextgfx/aseprite"
	"github.com/bodgit/nextgfx/document"
	"github.com/bodgit/nextgfx/rgb332"
	"github.com/bodgit/nextgfx/sprite"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Kinds of asset recorded in the manifest.
const (
	KindLayerBitmap = "layer-bitmap"
	KindSprite      = "sprite"
	KindTiles       = "tiles"
	KindBitmap      = "bitmap"
	KindTilemap     = "tilemap"
	KindPalette     = "palette"
	KindBalloon     = "balloon"
	KindPreview     = "preview"
)

// Converter runs the export commands.
type Converter struct {
	config    Config
	quantizer rgb332.Quantizer
	encoder   *sprite.Encoder
	db        *AssetDB
	logger    *log.Logger
	progress  io.Writer
	now       func() time.Time
}

// New returns a Converter. db may be nil, in which case nothing is
// recorded.
func New(config Config, db *AssetDB, logger *log.Logger) (*Converter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	encoder, err := config.Encoder()
	if err != nil {
		return nil, err
	}

	return &Converter{
		config:    config,
		quantizer: config.Quantizer(),
		encoder:   encoder,
		db:        db,
		logger:    logger,
		progress:  io.Discard,
		now:       time.Now,
	}, nil
}

// SetProgress sets where progress bars are drawn, by default they are
// discarded.
func (c *Converter) SetProgress(w io.Writer) {
	c.progress = w
}

func (c *Converter) load(input string) (*document.Sprite, error) {
	s, err := aseprite.ReadFile(input)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load")
	}
	c.logger.Printf("Loaded \"%s\": %dx%d, %d frames, %d layers, %d tilesets\n", input, s.Width, s.Height, len(s.Frames), len(s.Layers), len(s.Tilesets))
	return s, nil
}

func (c *Converter) loadLayer(input string) (*document.Sprite, *document.Layer, error) {
	s, err := c.load(input)
	if err != nil {
		return nil, nil, err
	}
	layer, err := s.Layer()
	if err != nil {
		return nil, nil, errors.Wrap(err, input)
	}
	return s, layer, nil
}

// outputFile is one file to write and the function producing its content.
type outputFile struct {
	file string
	fn   func(io.Writer) error
}

// writeAll writes every output and records them. Nothing is replaced until
// all of them have been produced, so a failure leaves earlier files alone.
func (c *Converter) writeAll(kind string, sources []string, outputs []outputFile) error {
	files := make([]*staged, 0, len(outputs))
	discard := func() {
		for _, s := range files {
			s.discard()
		}
	}

	for _, o := range outputs {
		s, err := stage(o.file, o.fn)
		if err != nil {
			discard()
			return errors.Wrapf(err, "unable to write \"%s\"", o.file)
		}
		files = append(files, s)
	}

	for i, s := range files {
		if err := s.commit(); err != nil {
			for _, s := range files[i:] {
				s.discard()
			}
			return errors.Wrapf(err, "unable to write \"%s\"", s.file)
		}
		c.logger.Printf("Wrote \"%s\" (%s)\n", s.file, humanize.Bytes(uint64(s.size)))
	}

	for _, s := range files {
		if err := c.record(s, kind, sources); err != nil {
			return err
		}
	}
	return nil
}

func (c *Converter) record(s *staged, kind string, sources []string) error {
	if c.db == nil {
		return nil
	}

	prev, err := c.db.Find(s.file)
	if err != nil {
		return err
	}
	if prev != nil && prev.SHA1 == s.sum {
		c.logger.Printf("\"%s\" unchanged since %s\n", s.file, humanize.Time(prev.Exported))
	}

	return c.db.Add(Asset{
		Path:     s.file,
		Kind:     kind,
		Size:     s.size,
		SHA1:     s.sum,
		Sources:  sources,
		Exported: c.now(),
	})
}

// write writes a single output file and records it.
func (c *Converter) write(file, kind string, sources []string, fn func(io.Writer) error) error {
	return c.writeAll(kind, sources, []outputFile{{file, fn}})
}

func bytesOutput(file string, b []byte) outputFile {
	return outputFile{file, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	}}
}

func (c *Converter) writeBytes(file, kind string, sources []string, b []byte) error {
	return c.writeAll(kind, sources, []outputFile{bytesOutput(file, b)})
}

// writeFrames writes one file per frame when file holds the frame
// placeholder, otherwise every frame is concatenated into one file.
func (c *Converter) writeFrames(file, kind, input string, frames [][]byte) error {
	if !IsTemplate(file) {
		return c.write(file, kind, []string{input}, func(w io.Writer) error {
			for _, b := range frames {
				if _, err := w.Write(b); err != nil {
					return err
				}
			}
			return nil
		})
	}

	outputs := make([]outputFile, 0, len(frames))
	for i, b := range frames {
		outputs = append(outputs, bytesOutput(Template(file, i), b))
	}
	return c.writeAll(kind, []string{input}, outputs)
}
