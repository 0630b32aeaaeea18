package geometry

import "math"

// Edge names one side of a box.
type Edge string

const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// Edges lists all edges in the order snapping visits them.
var Edges = []Edge{EdgeLeft, EdgeRight, EdgeTop, EdgeBottom}

// Axis returns "x" for vertical edges and "y" for horizontal ones.
func (e Edge) Axis() Axis {
	if e == EdgeLeft || e == EdgeRight {
		return AxisX
	}
	return AxisY
}

// Axis is the coordinate an edge or guide line is positioned on.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Handle identifies the grip a reviewer drags on a box overlay.
type Handle string

const (
	HandleLeft        Handle = "left"
	HandleRight       Handle = "right"
	HandleTop         Handle = "top"
	HandleBottom      Handle = "bottom"
	HandleTopLeft     Handle = "top-left"
	HandleTopRight    Handle = "top-right"
	HandleBottomLeft  Handle = "bottom-left"
	HandleBottomRight Handle = "bottom-right"
)

// Handles lists every supported handle.
var Handles = []Handle{
	HandleLeft, HandleRight, HandleTop, HandleBottom,
	HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight,
}

var handleEdges = map[Handle][]Edge{
	HandleLeft:        {EdgeLeft},
	HandleRight:       {EdgeRight},
	HandleTop:         {EdgeTop},
	HandleBottom:      {EdgeBottom},
	HandleTopLeft:     {EdgeLeft, EdgeTop},
	HandleTopRight:    {EdgeRight, EdgeTop},
	HandleBottomLeft:  {EdgeLeft, EdgeBottom},
	HandleBottomRight: {EdgeRight, EdgeBottom},
}

// EdgesForHandle returns the edges moved by h, or nil for an unknown handle.
func EdgesForHandle(h Handle) []Edge {
	edges := handleEdges[h]
	if edges == nil {
		return nil
	}
	return append([]Edge(nil), edges...)
}

// ParseHandle returns the handle named s.
func ParseHandle(s string) (Handle, bool) {
	h := Handle(s)
	_, ok := handleEdges[h]
	return h, ok
}

// ApplyHandleDrag moves the edges implied by h by (dx, dy). Horizontal edges
// only take dy, vertical edges only take dx. Nothing is clamped; compose with
// [ClampBox]. A non-finite delta counts as zero.
func ApplyHandleDrag(box Box, h Handle, dx, dy float64) Box {
	if !Finite(dx) {
		dx = 0
	}
	if !Finite(dy) {
		dy = 0
	}
	for _, e := range handleEdges[h] {
		switch e {
		case EdgeLeft:
			box.MinX += dx
		case EdgeRight:
			box.MaxX += dx
		case EdgeTop:
			box.MinY += dy
		case EdgeBottom:
			box.MaxY += dy
		}
	}
	return box
}

// SnapBoxToPrior aligns box with a single prior box.
//
// When the top-left corner of box lies within threshold of the prior's
// top-left corner on both axes, the right and bottom edges are each snapped to
// the prior's edge if they are within threshold. Otherwise prior is returned
// unchanged.
func SnapBoxToPrior(prior, box Box, threshold float64) Box {
	if !Finite(threshold) || threshold < 0 || !box.finite() {
		return prior
	}
	if math.Abs(box.MinX-prior.MinX) > threshold || math.Abs(box.MinY-prior.MinY) > threshold {
		return prior
	}
	out := box
	if math.Abs(box.MaxX-prior.MaxX) <= threshold {
		out.MaxX = prior.MaxX
	}
	if math.Abs(box.MaxY-prior.MaxY) <= threshold {
		out.MaxY = prior.MaxY
	}
	return out
}

// HandleAt returns the handle of box under the point (x, y), allowing tol
// pixels of slack around each edge. Corners win over plain edges. Points
// inside the box but away from every edge hit nothing.
func HandleAt(box Box, x, y, tol float64) (Handle, bool) {
	if !box.Valid() || !Finite(x) || !Finite(y) || !Finite(tol) || tol < 0 {
		return "", false
	}
	inX := x >= box.MinX-tol && x <= box.MaxX+tol
	inY := y >= box.MinY-tol && y <= box.MaxY+tol
	left := inY && math.Abs(x-box.MinX) <= tol
	right := inY && math.Abs(x-box.MaxX) <= tol && !left
	top := inX && math.Abs(y-box.MinY) <= tol
	bottom := inX && math.Abs(y-box.MaxY) <= tol && !top

	switch {
	case top && left:
		return HandleTopLeft, true
	case top && right:
		return HandleTopRight, true
	case bottom && left:
		return HandleBottomLeft, true
	case bottom && right:
		return HandleBottomRight, true
	case left:
		return HandleLeft, true
	case right:
		return HandleRight, true
	case top:
		return HandleTop, true
	case bottom:
		return HandleBottom, true
	}
	return "", false
}
