package review

import (
	"testing"

	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/guides"
	"github.com/asteria/pagereview/pkg/snap"
	"github.com/asteria/pagereview/pkg/viewport"
)

// pageContext is a 200x100 preview of a 100x50 output page shown unzoomed at
// the client origin, so one output pixel is two client pixels.
func pageContext(sources []snap.Source) DragContext {
	crop := geometry.Box{MinX: 0, MinY: 0, MaxX: 99, MaxY: 49}
	preview := viewport.Dims{Width: 200, Height: 100}
	scale, _ := viewport.CalculateOverlayScale(&crop, &preview)
	return DragContext{
		Mapping: viewport.Mapping{
			Rect:    viewport.Rect{Width: 200, Height: 100},
			Preview: preview,
			Scale:   scale,
		},
		Bounds:  crop,
		MinSize: geometry.DefaultMinSize,
		Sources: sources,
	}
}

func competingSources() []snap.Source {
	return []snap.Source{
		{ID: snap.SourceDetected, Priority: 3, Weight: 1, Radius: 30, Candidates: []snap.Candidate{
			{Axis: geometry.AxisX, Value: 55, Confidence: 0.9, Label: "Text block"},
		}},
		{ID: snap.SourceBaseline, Priority: 2, Weight: 1, Radius: 30, Candidates: []snap.Candidate{
			{Axis: geometry.AxisX, Value: 58, Confidence: 1.0, Label: "Baseline prior"},
		}},
	}
}

func TestDragRightEdgePriorityWins(t *testing.T) {
	ctx := pageContext(competingSources())
	if ctx.Mapping.Scale != (viewport.Scale{X: 2, Y: 2}) {
		t.Fatalf("scale = %v, want {2 2}", ctx.Mapping.Scale)
	}

	box := geometry.Box{MinX: 0, MinY: 0, MaxX: 99, MaxY: 49}
	s := BeginBoxDrag(TargetCrop, geometry.HandleRight, box, PointerEvent{PointerID: 1, ClientX: 198, ClientY: 50})

	// -20 output px is -40 client px; the raw right edge lands at 79.
	next, ok := s.Move(ctx, PointerEvent{PointerID: 1, ClientX: 158, ClientY: 50})
	if !ok {
		t.Fatal("Move() rejected the event")
	}
	want := geometry.Box{MinX: 0, MinY: 0, MaxX: 55, MaxY: 49}
	if next.Box != want {
		t.Errorf("Box = %v, want %v", next.Box, want)
	}
	if !next.Snapped() || next.Snap.Matches[0].SourceID != snap.SourceDetected {
		t.Errorf("matches = %+v, want detected source", next.Snap.Matches)
	}
	if next.Snap.Tooltip != "Snapped: Text block" {
		t.Errorf("tooltip = %q", next.Snap.Tooltip)
	}
	if s.Box != box || s.Moves != 0 {
		t.Error("Move() modified the receiver")
	}
}

func TestDragSnapBypass(t *testing.T) {
	box := geometry.Box{MinX: 0, MinY: 0, MaxX: 99, MaxY: 49}
	start := PointerEvent{PointerID: 1, ClientX: 198, ClientY: 50}
	moved := PointerEvent{PointerID: 1, ClientX: 158, ClientY: 50}

	tests := []struct {
		name string
		ctx  DragContext
		ev   PointerEvent
	}{
		{"modifier held", pageContext(competingSources()), PointerEvent{PointerID: 1, ClientX: 158, ClientY: 50, SnapBypass: true}},
		{"globally disabled", func() DragContext { c := pageContext(competingSources()); c.SnapDisabled = true; return c }(), moved},
		{"no sources", pageContext(nil), moved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := BeginBoxDrag(TargetCrop, geometry.HandleRight, box, start)
			next, ok := s.Move(tt.ctx, tt.ev)
			if !ok {
				t.Fatal("Move() rejected the event")
			}
			if next.Box.MaxX != 79 {
				t.Errorf("MaxX = %v, want raw 79", next.Box.MaxX)
			}
			if next.Snapped() || len(next.Snap.Guides) != 0 || next.Snap.Tooltip != "" {
				t.Errorf("snap = %+v, want empty", next.Snap)
			}
		})
	}
}

func TestDragClampsAfterSnap(t *testing.T) {
	ctx := pageContext([]snap.Source{{ID: "far", Priority: 1, Weight: 1, Radius: 50, Candidates: []snap.Candidate{
		{Axis: geometry.AxisX, Value: 140, Confidence: 1},
	}}})
	box := geometry.Box{MinX: 0, MinY: 0, MaxX: 99, MaxY: 49}
	s := BeginBoxDrag(TargetCrop, geometry.HandleRight, box, PointerEvent{ClientX: 198, ClientY: 50})
	next, _ := s.Move(ctx, PointerEvent{ClientX: 210, ClientY: 50})
	if next.Box.MaxX != 99 {
		t.Errorf("MaxX = %v, want clamped to 99", next.Box.MaxX)
	}
	if next.Snap.Box.MaxX != 140 {
		t.Errorf("unclamped snap result = %v, want 140", next.Snap.Box.MaxX)
	}
}

func TestDragIgnoresForeignPointerAndDegenerateMapping(t *testing.T) {
	ctx := pageContext(nil)
	s := BeginBoxDrag(TargetCrop, geometry.HandleLeft, geometry.Box{MaxX: 99, MaxY: 49}, PointerEvent{PointerID: 1})

	if _, ok := s.Move(ctx, PointerEvent{PointerID: 2, ClientX: 10}); ok {
		t.Error("foreign pointer should be ignored")
	}
	ctx.Mapping.Rect.Width = 0
	if _, ok := s.Move(ctx, PointerEvent{PointerID: 1, ClientX: 10}); ok {
		t.Error("zero-size rect should be ignored")
	}
}

func TestGuideDragSnapsAndSkipsItself(t *testing.T) {
	line := guides.GuideLine{ID: "u1", Axis: geometry.AxisX, Position: 30, Kind: guides.KindMajor, Source: guides.SourceUser}
	sources := []snap.Source{{ID: snap.SourceUser, Priority: 1, Weight: 1, Radius: 4, Candidates: []snap.Candidate{
		{ID: "u1", Axis: geometry.AxisX, Value: 30, Confidence: 1, Label: "User guide"},
		{ID: "u2", Axis: geometry.AxisX, Value: 36, Confidence: 1, Label: "Other guide"},
	}}}
	ctx := pageContext(sources)

	s := BeginGuideDrag(guides.LayerColumnGuides, line, PointerEvent{ClientX: 60, ClientY: 10})
	next, ok := s.Move(ctx, PointerEvent{ClientX: 66, ClientY: 10})
	if !ok {
		t.Fatal("Move() rejected the event")
	}
	if next.Position != 36 || next.Snap.Tooltip != "Snapped: Other guide" {
		t.Errorf("Position = %v tooltip %q, want 36 from u2", next.Position, next.Snap.Tooltip)
	}

	// 1 output px from the start: only u1 is near, and it is the line itself.
	next, _ = s.Move(ctx, PointerEvent{ClientX: 62, ClientY: 10})
	if next.Position != 31 || next.Snapped() {
		t.Errorf("Position = %v snapped %v, want raw 31", next.Position, next.Snapped())
	}
}

func TestControllerBoxGesture(t *testing.T) {
	var committed []DragSession
	c := &Controller{
		Context:  pageContext(competingSources()),
		Zoom:     1,
		Box:      geometry.Box{MinX: 0, MinY: 0, MaxX: 99, MaxY: 49},
		OnCommit: func(s DragSession) { committed = append(committed, s) },
	}

	if !c.PointerDown(PointerEvent{PointerID: 7, ClientX: 197, ClientY: 50}) {
		t.Fatal("PointerDown on the right edge was not consumed")
	}
	if s, ok := c.Active(); !ok || s.Handle != geometry.HandleRight || s.Target != TargetCrop {
		t.Fatalf("active = %+v, %v", s, ok)
	}
	if c.PointerDown(PointerEvent{PointerID: 8, ClientX: 10, ClientY: 10}) {
		t.Error("second PointerDown during a gesture should be ignored")
	}
	if !c.PointerMove(PointerEvent{PointerID: 7, ClientX: 170, ClientY: 50}) {
		t.Error("PointerMove not consumed")
	}
	if !c.PointerUp(PointerEvent{PointerID: 7, ClientX: 157, ClientY: 50}) {
		t.Fatal("PointerUp not consumed")
	}
	if _, ok := c.Active(); ok {
		t.Error("gesture still active after PointerUp")
	}
	if len(committed) != 1 || committed[0].Box.MaxX != 55 {
		t.Fatalf("committed = %+v", committed)
	}
	if c.Box.MaxX != 55 {
		t.Errorf("controller box = %v, want updated", c.Box)
	}
}

func TestControllerPrefersGuides(t *testing.T) {
	c := &Controller{
		Context: pageContext(nil),
		Layout: guides.GuideLayout{{ID: guides.LayerMarginGuides, Guides: []guides.GuideLine{
			{ID: "m-left", Axis: geometry.AxisX, Position: 1, Kind: guides.KindMajor, Role: "margin-left"},
		}}},
		Zoom: 1,
		Box:  geometry.Box{MinX: 0, MinY: 0, MaxX: 99, MaxY: 49},
	}
	if !c.PointerDown(PointerEvent{ClientX: 2, ClientY: 50}) {
		t.Fatal("PointerDown not consumed")
	}
	s, _ := c.Active()
	if s.Target != TargetGuide || s.Guide.ID != "m-left" {
		t.Errorf("active = %+v, want margin guide drag", s)
	}
	c.PointerCancel()
	if _, ok := c.Active(); ok {
		t.Error("PointerCancel should end the gesture")
	}

	if c.PointerDown(PointerEvent{ClientX: 100, ClientY: 50}) {
		t.Error("PointerDown in the box interior should not start a gesture")
	}
}

func TestControllerClickDoesNotCommit(t *testing.T) {
	calls := 0
	c := &Controller{
		Context:  pageContext(competingSources()),
		Zoom:     1,
		Box:      geometry.Box{MinX: 0, MinY: 0, MaxX: 99, MaxY: 49},
		OnCommit: func(DragSession) { calls++ },
	}
	ev := PointerEvent{ClientX: 198, ClientY: 50}
	c.PointerDown(ev)
	c.PointerUp(ev)
	if calls != 0 {
		t.Errorf("OnCommit called %d times for a click", calls)
	}
}
