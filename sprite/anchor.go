package sprite

import "github.com/bodgit/nextgfx/document"

// SelectAnchor returns the tile used as the origin of the relative
// coordinates of every other tile in the cel.
//
// Relative positions are signed bytes so the anchor is picked from the
// bottom right quarter of grids wider or taller than eight tiles:
//
//	 0  1  2  3  4  5  6  7  8  9 10 11 12 13 14 15
//	                         A
//	-8 -7 -6 -5 -4 -3 -2 -1  0 +1 +2 +3 +4 +5 +6 +7
func SelectAnchor(cel *document.Cel) (*document.TileRef, error) {
	if cel.Width > maxGrid || cel.Height > maxGrid {
		return nil, &OversizedCelError{Frame: cel.Frame, Width: cel.Width, Height: cel.Height}
	}

	minX := max(0, cel.Width-maxGrid/2)
	minY := max(0, cel.Height-maxGrid/2)

	for i := range cel.Tilemap {
		if r := &cel.Tilemap[i]; r.X >= minX && r.Y >= minY {
			return r, nil
		}
	}

	return nil, &EmptyCelError{Frame: cel.Frame}
}

// Deduplicate returns the distinct tile indices used by the cel in the order
// they are first seen, starting with the anchor's.
func Deduplicate(cel *document.Cel, anchor *document.TileRef) []int {
	seen := map[int]struct{}{anchor.Tile: {}}
	patterns := []int{anchor.Tile}
	for _, r := range cel.Tilemap {
		if _, ok := seen[r.Tile]; ok {
			continue
		}
		seen[r.Tile] = struct{}{}
		patterns = append(patterns, r.Tile)
	}
	return patterns
}
