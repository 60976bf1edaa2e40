package sprite

import "fmt"

// OversizedCelError is returned when a cel's tile grid is too large to be
// encoded relative to a single anchor.
type OversizedCelError struct {
	Frame         int
	Width, Height int
}

func (e *OversizedCelError) Error() string {
	return fmt.Sprintf("frame %d: tile grid %dx%d exceeds %dx%d", e.Frame, e.Width, e.Height, maxGrid, maxGrid)
}

// EmptyCelError is returned when no tile qualifies as anchor.
type EmptyCelError struct {
	Frame int
}

func (e *EmptyCelError) Error() string {
	return fmt.Sprintf("frame %d: all tiles are empty, no anchor can be used", e.Frame)
}

// TooManyPatternsError is returned when a cel uses more distinct patterns
// than the attribute pattern field can address.
type TooManyPatternsError struct {
	Frame int
	Count int
}

func (e *TooManyPatternsError) Error() string {
	return fmt.Sprintf("frame %d: %d patterns, at most %d can be addressed", e.Frame, e.Count, maxPatterns)
}

// OffsetRangeError is returned when a position does not fit in a signed
// byte.
type OffsetRangeError struct {
	Frame int
	X, Y  int
}

func (e *OffsetRangeError) Error() string {
	return fmt.Sprintf("frame %d: offset (%d, %d) out of signed byte range", e.Frame, e.X, e.Y)
}
