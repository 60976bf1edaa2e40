package document

import "fmt"

// UnsupportedTilesetError is returned when a tileset has the wrong color
// mode or tile dimensions for the requested encoding.
type UnsupportedTilesetError struct {
	Tileset int
	Reason  string
}

func (e *UnsupportedTilesetError) Error() string {
	return fmt.Sprintf("unsupported tileset %d: %s", e.Tileset, e.Reason)
}
