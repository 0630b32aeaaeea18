package review

import (
	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/guides"
	"github.com/asteria/pagereview/pkg/overrides"
	"github.com/asteria/pagereview/pkg/snap"
	"github.com/asteria/pagereview/pkg/viewport"
)

// Target is what a drag gesture moves.
type Target string

const (
	TargetCrop  Target = "crop"
	TargetTrim  Target = "trim"
	TargetGuide Target = "guide"
)

// PointerEvent is one pointer sample in client pixels.
type PointerEvent struct {
	PointerID int
	ClientX   float64
	ClientY   float64
	// SnapBypass is set while the reviewer holds the snap-disable modifier.
	SnapBypass bool
}

// PointerInput is the port a UI toolkit drives with raw pointer events. Each
// method reports whether the event was consumed.
type PointerInput interface {
	PointerDown(ev PointerEvent) bool
	PointerMove(ev PointerEvent) bool
	PointerUp(ev PointerEvent) bool
	PointerCancel()
}

// DragContext is the page state a gesture is resolved against.
type DragContext struct {
	Mapping viewport.Mapping
	Bounds  geometry.Box
	MinSize float64
	Sources []snap.Source
	// SnapDisabled turns snapping off for every gesture.
	SnapDisabled bool
}

func (c DragContext) snapping(ev PointerEvent) bool {
	return !c.SnapDisabled && !ev.SnapBypass && len(c.Sources) > 0
}

// DragSession is the state of one gesture, from pointer-down to pointer-up.
// It is a value: Move returns the next session and leaves the receiver
// untouched.
type DragSession struct {
	PointerID int
	Target    Target
	StartX    float64
	StartY    float64

	// Box gestures.
	Handle   geometry.Handle
	StartBox geometry.Box
	Box      geometry.Box

	// Guide gestures.
	LayerID  string
	Guide    guides.GuideLine
	Position float64

	Snap  snap.Result
	Moves int
}

// BeginBoxDrag starts dragging handle h of box.
func BeginBoxDrag(target Target, h geometry.Handle, box geometry.Box, ev PointerEvent) DragSession {
	return DragSession{
		PointerID: ev.PointerID,
		Target:    target,
		StartX:    ev.ClientX,
		StartY:    ev.ClientY,
		Handle:    h,
		StartBox:  box,
		Box:       box,
		Snap:      snap.Result{Box: box},
	}
}

// BeginGuideDrag starts dragging an editable guide line.
func BeginGuideDrag(layerID string, line guides.GuideLine, ev PointerEvent) DragSession {
	return DragSession{
		PointerID: ev.PointerID,
		Target:    TargetGuide,
		StartX:    ev.ClientX,
		StartY:    ev.ClientY,
		LayerID:   layerID,
		Guide:     line,
		Position:  line.Position,
	}
}

// Move recomputes the session for a new pointer sample. It reports false,
// returning s unchanged, for a foreign pointer or degenerate mapping.
func (s DragSession) Move(ctx DragContext, ev PointerEvent) (DragSession, bool) {
	if ev.PointerID != s.PointerID {
		return s, false
	}
	dx, dy, ok := viewport.ClientDeltaToOutput(ctx.Mapping, ev.ClientX-s.StartX, ev.ClientY-s.StartY)
	if !ok {
		return s, false
	}
	next := s
	next.Moves++

	if s.Target == TargetGuide {
		d := dx
		if s.Guide.Axis == geometry.AxisY {
			d = dy
		}
		next.Position = s.Guide.Position + d
		next.Snap = snap.Result{}
		if ctx.snapping(ev) {
			if pos, m, ok := snap.SnapGuide(s.Guide, next.Position, withoutCandidate(ctx.Sources, s.Guide.ID)); ok {
				next.Position = pos
				next.Snap = snap.Result{Matches: []snap.Match{m}, Guides: []guides.GuideLine{m.Guide()}}
				if m.Candidate.Label != "" {
					next.Snap.Tooltip = "Snapped: " + m.Candidate.Label
				}
			}
		}
		return next, true
	}

	raw := geometry.ApplyHandleDrag(s.StartBox, s.Handle, dx, dy)
	res := snap.Result{Box: raw}
	if ctx.snapping(ev) {
		res = snap.SnapBoxWithSources(raw, geometry.EdgesForHandle(s.Handle), ctx.Sources)
	}
	next.Box = res.Box
	if ctx.Bounds.Valid() && (ctx.Bounds.Width() > 0 || ctx.Bounds.Height() > 0) {
		minSize := ctx.MinSize
		if minSize <= 0 {
			minSize = geometry.DefaultMinSize
		}
		next.Box = geometry.ClampBox(res.Box, ctx.Bounds, minSize)
	}
	next.Snap = res
	return next, true
}

// Snapped reports whether the current position came from a snap match.
func (s DragSession) Snapped() bool {
	return len(s.Snap.Matches) > 0
}

// GuideOverride returns the override that moves the dragged guide to its
// current position.
func (s DragSession) GuideOverride(canvas viewport.Dims) (*overrides.GuideOverrides, bool) {
	if s.Target != TargetGuide {
		return nil, false
	}
	return overrides.ForGuideDrag(s.LayerID, s.Guide, s.Position, canvas.Width, canvas.Height)
}

// withoutCandidate drops candidates with the given id so a dragged guide does
// not snap back onto itself.
func withoutCandidate(sources []snap.Source, id string) []snap.Source {
	if id == "" {
		return sources
	}
	out := make([]snap.Source, 0, len(sources))
	for _, src := range sources {
		kept := src.Candidates[:0:0]
		for _, c := range src.Candidates {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		src.Candidates = kept
		out = append(out, src)
	}
	return out
}

// Controller adapts pointer events to drag sessions for one page. It picks
// the gesture on pointer-down by hit testing editable guides first, then the
// handles of the active box.
type Controller struct {
	Context DragContext
	// Layout is the effective guide layout used for guide hits.
	Layout guides.GuideLayout
	Zoom   float64
	Hit    guides.HitParams
	// Target selects which box is editable, crop or trim.
	Target Target
	Box    geometry.Box
	// OnCommit receives every finished gesture.
	OnCommit func(DragSession)

	session *DragSession
}

var _ PointerInput = (*Controller)(nil)

// Active returns the gesture in progress.
func (c *Controller) Active() (DragSession, bool) {
	if c.session == nil {
		return DragSession{}, false
	}
	return *c.session, true
}

func (c *Controller) PointerDown(ev PointerEvent) bool {
	if c.session != nil {
		return false
	}
	p, ok := viewport.MapClientPointToOutput(c.Context.Mapping, ev.ClientX, ev.ClientY)
	if !ok {
		return false
	}
	hp := c.Hit
	if hp.TargetPx <= 0 {
		hp = guides.DefaultHitParams()
	}
	tol := hp.Tolerance(c.Zoom)

	if hit, ok := guides.HitTestWithin(p, c.Layout, tol); ok {
		s := BeginGuideDrag(hit.LayerID, hit.Guide, ev)
		c.session = &s
		return true
	}
	target := c.Target
	if target == "" {
		target = TargetCrop
	}
	if h, ok := geometry.HandleAt(c.Box, p.X, p.Y, tol); ok {
		s := BeginBoxDrag(target, h, c.Box, ev)
		c.session = &s
		return true
	}
	return false
}

func (c *Controller) PointerMove(ev PointerEvent) bool {
	if c.session == nil {
		return false
	}
	next, ok := c.session.Move(c.Context, ev)
	if !ok {
		return false
	}
	c.session = &next
	return true
}

// PointerUp applies the final sample, ends the gesture and hands it to
// OnCommit.
func (c *Controller) PointerUp(ev PointerEvent) bool {
	if c.session == nil || ev.PointerID != c.session.PointerID {
		return false
	}
	final := *c.session
	c.session = nil
	if final.Moves == 0 && ev.ClientX == final.StartX && ev.ClientY == final.StartY {
		// a click, not a drag
		return true
	}
	if next, ok := final.Move(c.Context, ev); ok {
		final = next
	}
	if final.Target != TargetGuide {
		c.Box = final.Box
	}
	if c.OnCommit != nil {
		c.OnCommit(final)
	}
	return true
}

// PointerCancel drops the gesture without committing it.
func (c *Controller) PointerCancel() {
	c.session = nil
}
