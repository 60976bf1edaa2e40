package aseprite

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodgit/nextgfx/document"
)

var (
	errNotEnough     = errors.New("aseprite: not enough data")
	errBadMagic      = errors.New("aseprite: invalid file magic")
	errBadFrameMagic = errors.New("aseprite: invalid frame magic")
	errBadChunk      = errors.New("aseprite: invalid chunk size")
)

// UnsupportedDepthError is returned for color depths other than 8, 16 or
// 32 bits per pixel.
type UnsupportedDepthError struct {
	Depth int
}

func (e *UnsupportedDepthError) Error() string {
	return fmt.Sprintf("aseprite: unsupported color depth %d", e.Depth)
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	header     header
	durations  []time.Duration
	layers     []*layerChunk
	cels       []map[int]*celChunk
	tags       []tag
	tilesets   []*tilesetChunk
	palette    []color.RGBA
	newPalette bool
}

func (d *decoder) readHeader() error {
	if err := binary.Read(d.r, binary.LittleEndian, &d.header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errNotEnough
		}
		return err
	}
	if d.header.Magic != fileMagic {
		return errBadMagic
	}
	switch d.header.Depth {
	case depthIndexed, depthGrayscale, depthRGBA:
	default:
		return &UnsupportedDepthError{Depth: int(d.header.Depth)}
	}
	return nil
}

func (d *decoder) readFrame(frame int) error {
	var fh frameHeader
	if err := binary.Read(d.r, binary.LittleEndian, &fh); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errNotEnough
		}
		return err
	}
	if fh.Magic != frameMagic {
		return errBadFrameMagic
	}
	if fh.Size < frameHeaderSize {
		return errBadChunk
	}

	body := make([]byte, fh.Size-frameHeaderSize)
	if err := readFull(d.r, body); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	d.durations = append(d.durations, time.Duration(fh.Duration)*time.Millisecond)
	d.cels = append(d.cels, make(map[int]*celChunk))

	for n := fh.chunks(); n > 0 && len(body) > 0; n-- {
		if len(body) < chunkHeaderSize {
			return errNotEnough
		}
		size := binary.LittleEndian.Uint32(body)
		kind := binary.LittleEndian.Uint16(body[4:])
		if size < chunkHeaderSize {
			return errBadChunk
		}
		if uint64(size) > uint64(len(body)) {
			return errNotEnough
		}

		if err := d.readChunk(frame, kind, body[chunkHeaderSize:size]); err != nil {
			return err
		}
		body = body[size:]
	}

	return nil
}

func (d *decoder) readChunk(frame int, kind uint16, b []byte) error {
	switch kind {
	case chunkLayer:
		l, err := parseLayer(b)
		if err != nil {
			return err
		}
		d.layers = append(d.layers, l)
	case chunkCel:
		c, err := parseCel(b)
		if err != nil {
			return err
		}
		if c.kind == celLinked {
			if c.link >= frame {
				return fmt.Errorf("frame %d: cel links forward to frame %d", frame, c.link)
			}
			linked, ok := d.cels[c.link][c.layer]
			if !ok {
				return fmt.Errorf("frame %d: cel links to empty frame %d", frame, c.link)
			}
			c = linked
		}
		d.cels[frame][c.layer] = c
	case chunkTags:
		tags, err := parseTags(b)
		if err != nil {
			return err
		}
		d.tags = append(d.tags, tags...)
	case chunkPalette:
		p, err := parsePalette(d.palette, b)
		if err != nil {
			return err
		}
		d.palette = p
		d.newPalette = true
	case chunkOldPalette:
		if d.newPalette {
			return nil
		}
		p, err := parseOldPalette(d.palette, b)
		if err != nil {
			return err
		}
		d.palette = p
	case chunkTileset:
		ts, err := parseTileset(b)
		if err != nil {
			return err
		}
		d.tilesets = append(d.tilesets, ts)
	}
	return nil
}

func (d *decoder) decode(r io.Reader) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		return err
	}

	for i := 0; i < int(d.header.Frames); i++ {
		if err := d.readFrame(i); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	return nil
}

// Decode reads an Aseprite file from r. The returned sprite has no name.
func Decode(r io.Reader) (*document.Sprite, error) {
	var d decoder
	if err := d.decode(r); err != nil {
		return nil, err
	}
	return d.sprite("")
}

// ReadFile reads the named Aseprite file. The sprite is named after the
// file without its directory or extension.
func ReadFile(path string) (*document.Sprite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var d decoder
	if err := d.decode(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s, err := d.sprite(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// IsSource reports whether path has an Aseprite file extension.
func IsSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ase", ".aseprite":
		return true
	default:
		return false
	}
}
