package sprite

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a position on the canvas normalised to the range 0 to 1.
type Point struct {
	X, Y float64
}

// Named reference points.
var (
	TopLeft      = Point{0, 0}
	TopCenter    = Point{0.5, 0}
	TopRight     = Point{1, 0}
	Center       = Point{0.5, 0.5}
	BottomLeft   = Point{0, 1}
	BottomCenter = Point{0.5, 1}
	BottomRight  = Point{1, 1}
)

var points = map[string]Point{
	"top-left":      TopLeft,
	"top-center":    TopCenter,
	"top-right":     TopRight,
	"center":        Center,
	"bottom-left":   BottomLeft,
	"bottom-center": BottomCenter,
	"bottom-right":  BottomRight,
}

// ParsePoint accepts either a named point such as "bottom-center" or a pair
// of numbers such as "0.5,1".
func ParsePoint(s string) (Point, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if p, ok := points[s]; ok {
		return p, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("invalid reference point %q", s)
	}

	var p Point
	var err error
	if p.X, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return Point{}, fmt.Errorf("invalid reference point %q: %w", s, err)
	}
	if p.Y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return Point{}, fmt.Errorf("invalid reference point %q: %w", s, err)
	}
	if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
		return Point{}, fmt.Errorf("reference point %q outside 0..1", s)
	}

	return p, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Point) UnmarshalText(b []byte) error {
	v, err := ParsePoint(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
