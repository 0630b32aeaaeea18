package geometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// DefaultMinSize is the smallest width and height a clamped box may have,
// unless the bounds themselves are smaller.
const DefaultMinSize = 12

// Box is an axis-aligned rectangle in output pixels. The origin is the
// top-left corner of the page, so MinY is the top edge.
//
// Box encodes to JSON as a four element array [minX, minY, maxX, maxY],
// matching the sidecar format.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewBox returns the box spanning the two corners in any order.
func NewBox(x0, y0, x1, y1 float64) Box {
	return Box{MinX: x0, MinY: y0, MaxX: x1, MaxY: y1}.Normalize()
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Normalize swaps reversed edges so that MinX <= MaxX and MinY <= MaxY.
func (b Box) Normalize() Box {
	if b.MinX > b.MaxX {
		b.MinX, b.MaxX = b.MaxX, b.MinX
	}
	if b.MinY > b.MaxY {
		b.MinY, b.MaxY = b.MaxY, b.MinY
	}
	return b
}

// Valid reports whether all coordinates are finite and ordered.
func (b Box) Valid() bool {
	return b.finite() && b.MinX <= b.MaxX && b.MinY <= b.MaxY
}

func (b Box) finite() bool {
	return Finite(b.MinX) && Finite(b.MinY) && Finite(b.MaxX) && Finite(b.MaxY)
}

// Contains reports whether other lies entirely inside b.
func (b Box) Contains(other Box) bool {
	return other.MinX >= b.MinX && other.MaxX <= b.MaxX &&
		other.MinY >= b.MinY && other.MaxY <= b.MaxY
}

// Edge returns the coordinate of the given edge.
func (b Box) Edge(e Edge) float64 {
	switch e {
	case EdgeLeft:
		return b.MinX
	case EdgeRight:
		return b.MaxX
	case EdgeTop:
		return b.MinY
	case EdgeBottom:
		return b.MaxY
	}
	return math.NaN()
}

// WithEdge returns a copy of b with the given edge moved to v.
func (b Box) WithEdge(e Edge, v float64) Box {
	switch e {
	case EdgeLeft:
		b.MinX = v
	case EdgeRight:
		b.MaxX = v
	case EdgeTop:
		b.MinY = v
	case EdgeBottom:
		b.MaxY = v
	}
	return b
}

// Inset shrinks the box by d on every side. Negative d grows it.
func (b Box) Inset(d float64) Box {
	return Box{MinX: b.MinX + d, MinY: b.MinY + d, MaxX: b.MaxX - d, MaxY: b.MaxY - d}
}

func (b Box) String() string {
	return fmt.Sprintf("[%g %g %g %g]", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// MarshalJSON encodes the box as [minX, minY, maxX, maxY].
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.MinX, b.MinY, b.MaxX, b.MaxY})
}

// UnmarshalJSON decodes a box from [minX, minY, maxX, maxY].
func (b *Box) UnmarshalJSON(data []byte) error {
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode box: %w", err)
	}
	if len(v) != 4 {
		return fmt.Errorf("decode box: want 4 coordinates, got %d", len(v))
	}
	*b = Box{MinX: v[0], MinY: v[1], MaxX: v[2], MaxY: v[3]}
	return nil
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ClampBox fits box into bounds.
//
// Reversed edges are reordered first, then each edge is clamped into bounds
// independently. If the result is narrower or shorter than minSize, the
// higher edge grows first, then the lower edge. When bounds is itself smaller
// than minSize on an axis, the result spans bounds on that axis. Coordinates
// are rounded to whole pixels; fractional bounds are first shrunk to the
// whole pixels inside them so rounding never leaves bounds.
//
// Non-finite coordinates fall back to the matching bounds edge.
func ClampBox(box, bounds Box, minSize float64) Box {
	bounds = bounds.Normalize()
	if !Finite(minSize) || minSize < 0 {
		minSize = 0
	}

	box = Box{
		MinX: finiteOr(box.MinX, bounds.MinX),
		MinY: finiteOr(box.MinY, bounds.MinY),
		MaxX: finiteOr(box.MaxX, bounds.MaxX),
		MaxY: finiteOr(box.MaxY, bounds.MaxY),
	}.Normalize()

	lowerX, upperX := inward(bounds.MinX, bounds.MaxX)
	lowerY, upperY := inward(bounds.MinY, bounds.MaxY)
	minX, maxX := clampSpan(box.MinX, box.MaxX, lowerX, upperX, minSize)
	minY, maxY := clampSpan(box.MinY, box.MaxY, lowerY, upperY, minSize)

	return Box{
		MinX: clamp(math.Round(minX), lowerX, upperX),
		MinY: clamp(math.Round(minY), lowerY, upperY),
		MaxX: clamp(math.Round(maxX), lowerX, upperX),
		MaxY: clamp(math.Round(maxY), lowerY, upperY),
	}
}

// inward returns the whole-pixel span inside [lo, hi], or [lo, hi] itself
// when no whole pixel fits.
func inward(lo, hi float64) (float64, float64) {
	l, h := math.Ceil(lo), math.Floor(hi)
	if l > h {
		return lo, hi
	}
	return l, h
}

func clampSpan(lo, hi, lower, upper, minSize float64) (float64, float64) {
	lo = clamp(lo, lower, upper)
	hi = clamp(hi, lower, upper)
	if upper-lower <= minSize {
		return lower, upper
	}
	if hi-lo >= minSize {
		return lo, hi
	}
	hi = math.Min(upper, lo+minSize)
	if hi-lo < minSize {
		lo = math.Max(lower, hi-minSize)
	}
	return lo, hi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finiteOr(v, fallback float64) float64 {
	if Finite(v) {
		return v
	}
	return fallback
}
