package nextgfx

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bodgit/nextgfx/layer2"
	"github.com/bodgit/nextgfx/palette"
	"github.com/bodgit/nextgfx/preview"
	"github.com/bodgit/nextgfx/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConverter(t *testing.T, db *AssetDB) *Converter {
	c, err := New(DefaultConfig(), db, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	c.now = func() time.Time {
		return time.Unix(1700000000, 0)
	}
	return c
}

func readFile(t *testing.T, file string) []byte {
	b, err := os.ReadFile(file)
	require.NoError(t, err)
	return b
}

func TestFrameCount(t *testing.T) {
	dir := t.TempDir()
	c := newTestConverter(t, nil)

	n, err := c.FrameCount(writeCharacter(t, dir))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = c.FrameCount(filepath.Join(dir, "missing.ase"))
	assert.Error(t, err)
}

func TestExportSpriteAttributes(t *testing.T) {
	dir := t.TempDir()
	c := newTestConverter(t, nil)

	require.NoError(t, c.ExportSpriteAttributes(writeCharacter(t, dir), ""))

	b := readFile(t, filepath.Join(dir, "hero.sp"))
	require.Len(t, b, 1+2*(4+5+256))
	assert.Equal(t, byte(2), b[0])
	// One record and one pattern, anchored 8 left of and 16 above the bottom center
	assert.Equal(t, []byte{1, 1, 0xf8, 0xf0}, b[1:5])
	assert.Equal(t, bytes.Repeat([]byte{0xe0}, 256), b[10:266])
}

func TestExportSpriteAttributesTiled(t *testing.T) {
	dir := t.TempDir()
	c := newTestConverter(t, nil)

	output := filepath.Join(dir, "level.sp")
	assert.Error(t, c.ExportSpriteAttributes(writeLevel(t, dir), output))
	assert.NoFileExists(t, output)
}

func TestExportLayerBitmaps(t *testing.T) {
	dir := t.TempDir()
	c := newTestConverter(t, nil)
	input := writeCharacter(t, dir)

	require.NoError(t, c.ExportLayerBitmaps(input, "", layer2.ColumnMajor))
	for _, file := range []string{"hero0.l2", "hero1.l2"} {
		assert.Equal(t, bytes.Repeat([]byte{0xe0}, 256), readFile(t, filepath.Join(dir, file)))
	}

	output := filepath.Join(dir, "all.l2")
	require.NoError(t, c.ExportLayerBitmaps(input, output, layer2.RowMajor))
	assert.Len(t, readFile(t, output), 512)
}

func TestExportBitmap(t *testing.T) {
	dir := t.TempDir()
	c := newTestConverter(t, nil)

	require.NoError(t, c.ExportBitmap(writeLevel(t, dir), "", layer2.RowMajor))

	// Indexed tiles are copied as is
	expected := append(bytes.Repeat([]byte{1}, 8), bytes.Repeat([]byte{2}, 8)...)
	b := readFile(t, filepath.Join(dir, "level"+SuffixBitmap))
	require.Len(t, b, 16*8)
	assert.Equal(t, expected, b[:16])
}

func TestExportTileDefinitions(t *testing.T) {
	dir := t.TempDir()
	c := newTestConverter(t, nil)
	level := writeLevel(t, dir)
	hero := writeCharacter(t, dir)

	output := filepath.Join(dir, "tiles.til")
	require.NoError(t, c.ExportTileDefinitions([]string{level, hero}, output))

	b := readFile(t, output)
	assert.Equal(t, append(bytes.Repeat([]byte{0x11}, 32), bytes.Repeat([]byte{0x22}, 32)...), b)

	err := c.ExportTileDefinitions([]string{hero}, output)
	assert.True(t, errors.Is(err, tile.ErrNoTilesets))
	assert.Equal(t, b, readFile(t, output))
}

func TestExportTilemap(t *testing.T) {
	dir := t.TempDir()
	c := newTestConverter(t, nil)
	input := writeLevel(t, dir)

	require.NoError(t, c.ExportTilemap(input, "", 0, 0, false))
	assert.Equal(t, []byte{0, 1}, readFile(t, filepath.Join(dir, "level.map")))

	output := filepath.Join(dir, "wide.map")
	require.NoError(t, c.ExportTilemap(input, output, 4, 1, true))
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 0, 0, 0}, readFile(t, output))

	assert.Error(t, c.ExportTilemap(writeCharacter(t, dir), output, 0, 0, false))
}

func TestExportPalette(t *testing.T) {
	dir := t.TempDir()
	c := newTestConverter(t, nil)
	level := writeLevel(t, dir)
	hero := writeCharacter(t, dir)

	output := filepath.Join(dir, "all.pal")
	require.NoError(t, c.ExportPalette([]string{hero, level}, output))
	assert.Equal(t, []byte{227, 0xe0}, readFile(t, output))

	err := c.ExportPalette([]string{hero}, output)
	var target *palette.MissingPaletteError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, []byte{227, 0xe0}, readFile(t, output))
}

func TestExportBalloon(t *testing.T) {
	dir := t.TempDir()
	c := newTestConverter(t, nil)

	require.NoError(t, c.ExportBalloon(writeLevel(t, dir), ""))
	assert.Equal(t, make([]byte, 104), readFile(t, filepath.Join(dir, "level"+SuffixBalloon)))
}

func TestExportPreview(t *testing.T) {
	dir := t.TempDir()
	c := newTestConverter(t, nil)
	input := writeCharacter(t, dir)

	require.NoError(t, c.ExportPreview(input, "", -1, false, preview.Options{Scale: 2}))
	for _, file := range []string{"hero0.png", "hero1.png"} {
		m, err := png.Decode(bytes.NewReader(readFile(t, filepath.Join(dir, file))))
		require.NoError(t, err)
		assert.Equal(t, 32, m.Bounds().Dx())
		r, g, b, a := m.At(0, 0).RGBA()
		assert.Equal(t, []uint32{0xffff, 0, 0, 0xffff}, []uint32{r, g, b, a})
	}

	output := filepath.Join(dir, "one.png")
	require.NoError(t, c.ExportPreview(input, output, 1, true, preview.Options{Colors: 4}))
	m, err := png.Decode(bytes.NewReader(readFile(t, output)))
	require.NoError(t, err)
	assert.Equal(t, 16, m.Bounds().Dx())

	assert.Error(t, c.ExportPreview(input, output, 2, false, preview.Options{}))
	assert.Error(t, c.ExportPreview(input, filepath.Join(dir, "all.png"), -1, false, preview.Options{}))
}

func TestConverterRecordsAssets(t *testing.T) {
	dir := t.TempDir()
	db := newTestDB(t)
	c := newTestConverter(t, db)
	input := writeCharacter(t, dir)

	require.NoError(t, c.ExportSpriteAttributes(input, ""))
	require.NoError(t, c.ExportSpriteAttributes(input, ""))
	require.NoError(t, c.ExportBitmap(input, "", layer2.RowMajor))

	assets, err := db.Assets()
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, filepath.Join(dir, "hero"+SuffixBitmap), assets[0].Path)
	assert.Equal(t, KindBitmap, assets[0].Kind)
	assert.Equal(t, int64(512), assets[0].Size)
	assert.Equal(t, filepath.Join(dir, "hero.sp"), assets[1].Path)
	assert.Equal(t, []string{input}, assets[1].Sources)

	var b bytes.Buffer
	require.NoError(t, c.ListAssets(&b))
	assert.Contains(t, b.String(), "hero.sp\tsprite\t531 B\t")

	b.Reset()
	require.NoError(t, c.ListSources(&b))
	assert.Equal(t, input+"\n", b.String())

	assert.Error(t, newTestConverter(t, nil).ListAssets(&b))
	assert.Error(t, newTestConverter(t, nil).ListSources(&b))
}

func TestWriteAllKeepsEarlierOutput(t *testing.T) {
	dir := t.TempDir()
	db := newTestDB(t)
	c := newTestConverter(t, db)

	first, second := filepath.Join(dir, "0.l2"), filepath.Join(dir, "1.l2")
	require.NoError(t, os.WriteFile(first, []byte("old"), 0o644))

	err := c.writeAll(KindLayerBitmap, []string{"hero.ase"}, []outputFile{
		bytesOutput(first, []byte("new")),
		{second, func(io.Writer) error { return errors.New("boom") }},
	})
	assert.Error(t, err)
	assert.Equal(t, []byte("old"), readFile(t, first))
	assert.NoFileExists(t, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assets, err := db.Assets()
	require.NoError(t, err)
	assert.Empty(t, assets)

	require.NoError(t, c.writeAll(KindLayerBitmap, []string{"hero.ase"}, []outputFile{
		bytesOutput(first, []byte("new")),
		bytesOutput(second, []byte("two")),
	}))
	assert.Equal(t, []byte("new"), readFile(t, first))
	assert.Equal(t, []byte("two"), readFile(t, second))
}
