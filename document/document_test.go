package document

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexedTile(index int, n int) Tile {
	return Tile{Index: index, Mode: Indexed, Indexed: make([]uint8, n)}
}

func TestNewTileset(t *testing.T) {
	ts, err := NewTileset(0, 8, 8, Indexed, []Tile{indexedTile(0, 64), indexedTile(5, 64)})
	require.NoError(t, err)

	tile, ok := ts.Tile(5)
	require.True(t, ok)
	assert.Equal(t, 5, tile.Index)

	_, ok = ts.Tile(1)
	assert.False(t, ok)
}

func TestNewTilesetMixedModes(t *testing.T) {
	tiles := []Tile{
		indexedTile(0, 64),
		{Index: 1, Mode: RGBA, RGBA: make([]color.RGBA, 64)},
	}
	_, err := NewTileset(3, 8, 8, Indexed, tiles)

	var target *UnsupportedTilesetError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 3, target.Tileset)
}

func TestNewTilesetWrongSize(t *testing.T) {
	_, err := NewTileset(0, 16, 16, Indexed, []Tile{indexedTile(0, 64)})
	assert.Error(t, err)
}

func TestNewTilesetDuplicateIndex(t *testing.T) {
	_, err := NewTileset(0, 8, 8, Indexed, []Tile{indexedTile(1, 64), indexedTile(1, 64)})
	assert.Error(t, err)
}

func TestCelValidate(t *testing.T) {
	ts, err := NewTileset(0, 8, 8, Indexed, []Tile{indexedTile(0, 64)})
	require.NoError(t, err)

	cel := &Cel{
		Width:   2,
		Height:  2,
		Tileset: ts,
		Tilemap: []TileRef{{X: 0, Y: 0}, {X: 1, Y: 0}},
	}
	assert.NoError(t, cel.Validate())

	r, ok := cel.At(1, 0)
	require.True(t, ok)
	assert.Equal(t, 1, r.X)

	cel.Tilemap = append(cel.Tilemap, TileRef{X: 1, Y: 0})
	assert.Error(t, cel.Validate())

	cel.Tilemap = []TileRef{{X: 0, Y: 0, Tile: 9}}
	assert.Error(t, cel.Validate())
}

func TestCelTileAt(t *testing.T) {
	tile := indexedTile(2, 4)
	tile.Indexed[3] = 9
	ts, err := NewTileset(0, 2, 2, Indexed, []Tile{tile})
	require.NoError(t, err)

	cel := &Cel{Width: 2, Height: 1, XPos: 1, YPos: 1, Tileset: ts, Tilemap: []TileRef{{X: 1, Y: 0, Tile: 2}}}

	got, i, err := cel.TileAt(4, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, i)
	assert.Equal(t, uint8(9), got.Indexed[i])

	// Left of the origin, empty grid cell and past the grid
	for _, p := range [][2]int{{0, 0}, {1, 1}, {5, 1}} {
		got, _, err = cel.TileAt(p[0], p[1])
		require.NoError(t, err)
		assert.Nil(t, got, "%v", p)
	}

	_, _, err = (&Cel{}).TileAt(0, 0)
	assert.Error(t, err)
}
