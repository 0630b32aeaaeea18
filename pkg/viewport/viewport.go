// Package viewport converts between output-pixel space and the on-screen
// preview.
//
// Three spaces are involved. Output space is the normalized, cropped page in
// pixels. Preview space is the rendered preview image at its natural size.
// Client space is what the pointer reports, after the caller has applied any
// zoom, rotation or pan to the preview element. The element's bounding rect
// already reflects those transforms, so mapping a client point only needs the
// rect, the preview size and the output-to-preview scale.
//
// Degenerate geometry never produces an error. Functions report ok=false and
// the caller ignores the pointer event.
package viewport

import (
	"github.com/asteria/pagereview/pkg/geometry"
)

// Dims is a width and height in pixels.
type Dims struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Scale is the preview-pixels-per-output-pixel ratio on each axis.
type Scale struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Usable reports whether both factors are finite and non-zero.
func (s Scale) Usable() bool {
	return geometry.Finite(s.X) && geometry.Finite(s.Y) && s.X != 0 && s.Y != 0
}

// Rect is an element's bounding rectangle in client pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a position in output pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CalculateOverlayScale returns the scale between output pixels and the
// preview. The output extent is the crop box extent plus one pixel (the crop
// box edges are inclusive) when a crop box is known, otherwise the preview
// itself. It reports false when preview is nil.
func CalculateOverlayScale(cropBox *geometry.Box, preview *Dims) (Scale, bool) {
	if preview == nil {
		return Scale{}, false
	}
	outW, outH := preview.Width, preview.Height
	if cropBox != nil {
		c := cropBox.Normalize()
		if w := c.MaxX - c.MinX + 1; geometry.Finite(w) && w > 0 {
			outW = w
		}
		if h := c.MaxY - c.MinY + 1; geometry.Finite(h) && h > 0 {
			outH = h
		}
	}
	return Scale{X: ratio(preview.Width, outW), Y: ratio(preview.Height, outH)}, true
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Mapping carries everything needed to map a client point into output space.
type Mapping struct {
	Rect    Rect
	Preview Dims
	Scale   Scale
}

// MapClientPointToOutput maps a pointer position in client pixels to output
// pixels. It reports false when the rect has no area, the preview has no
// area, or the scale is zero or non-finite.
func MapClientPointToOutput(m Mapping, clientX, clientY float64) (Point, bool) {
	if !m.usable() {
		return Point{}, false
	}
	px := (clientX - m.Rect.Left) / m.Rect.Width * m.Preview.Width
	py := (clientY - m.Rect.Top) / m.Rect.Height * m.Preview.Height
	p := Point{X: px / m.Scale.X, Y: py / m.Scale.Y}
	if !geometry.Finite(p.X) || !geometry.Finite(p.Y) {
		return Point{}, false
	}
	return p, true
}

// ClientDeltaToOutput converts a pointer displacement in client pixels into
// an output-space displacement.
func ClientDeltaToOutput(m Mapping, dx, dy float64) (float64, float64, bool) {
	if !m.usable() {
		return 0, 0, false
	}
	ox := dx / m.Rect.Width * m.Preview.Width / m.Scale.X
	oy := dy / m.Rect.Height * m.Preview.Height / m.Scale.Y
	if !geometry.Finite(ox) || !geometry.Finite(oy) {
		return 0, 0, false
	}
	return ox, oy, true
}

// OutputToClient is the inverse of [MapClientPointToOutput].
func OutputToClient(m Mapping, p Point) (float64, float64, bool) {
	if !m.usable() {
		return 0, 0, false
	}
	cx := p.X*m.Scale.X/m.Preview.Width*m.Rect.Width + m.Rect.Left
	cy := p.Y*m.Scale.Y/m.Preview.Height*m.Rect.Height + m.Rect.Top
	return cx, cy, geometry.Finite(cx) && geometry.Finite(cy)
}

// OutputToPreview scales an output-space box into preview pixels, for drawing
// the overlay on the unzoomed preview.
func OutputToPreview(box geometry.Box, s Scale) geometry.Box {
	return geometry.Box{
		MinX: box.MinX * s.X,
		MinY: box.MinY * s.Y,
		MaxX: box.MaxX * s.X,
		MaxY: box.MaxY * s.Y,
	}
}

func (m Mapping) usable() bool {
	return m.Rect.Width != 0 && m.Rect.Height != 0 &&
		geometry.Finite(m.Rect.Width) && geometry.Finite(m.Rect.Height) &&
		m.Preview.Width != 0 && m.Preview.Height != 0 &&
		m.Scale.Usable()
}
