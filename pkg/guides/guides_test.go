package guides

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/viewport"
)

func sampleLayout() GuideLayout {
	return GuideLayout{
		{ID: LayerBaselineGrid, Guides: []GuideLine{
			{ID: "bl-0", Axis: geometry.AxisY, Position: 100, Kind: KindMajor, Source: SourceAuto},
			{ID: "bl-0-x", Axis: geometry.AxisY, Position: 92, Kind: KindMinor, Source: SourceAuto},
		}},
		{ID: LayerRulers, Guides: []GuideLine{
			{ID: "ruler-x", Axis: geometry.AxisX, Position: 50, Kind: KindMajor, Source: SourceAuto},
		}},
		{ID: LayerMarginGuides, Guides: []GuideLine{
			{ID: "margin-top", Axis: geometry.AxisY, Position: 40, Kind: KindMajor, Role: "margin-top", Source: SourceAuto},
			{ID: "margin-left", Axis: geometry.AxisX, Position: 60, Kind: KindMajor, Role: "margin-left", Source: SourceAuto},
		}},
		{ID: LayerDetectedGuides, Guides: []GuideLine{
			{ID: "det-1", Axis: geometry.AxisX, Position: 61, Kind: KindMajor, Source: SourceAuto},
		}},
		{ID: LayerDiagnosticGuides, Guides: []GuideLine{
			{ID: "diag-1", Axis: geometry.AxisX, Position: 500, Kind: KindMinor, Source: SourceAuto},
		}},
	}
}

func renderedIDs(layers []RenderedLayer) []string {
	var ids []string
	for _, l := range layers {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestRenderGuideLayersDefaults(t *testing.T) {
	got := renderedIDs(RenderGuideLayers(sampleLayout(), RenderOptions{Zoom: 1}))
	want := []string{LayerRulers, LayerMarginGuides, LayerDetectedGuides}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("visible layers mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderGuideLayersVisibility(t *testing.T) {
	tests := []struct {
		name string
		opts RenderOptions
		want []string
	}{
		{
			name: "layer override shows hidden layer",
			opts: RenderOptions{VisibleLayers: map[string]bool{LayerBaselineGrid: true}},
			want: []string{LayerBaselineGrid, LayerRulers, LayerMarginGuides, LayerDetectedGuides},
		},
		{
			name: "group hidden",
			opts: RenderOptions{GroupVisibility: map[Group]bool{GroupStructural: false}},
			want: []string{LayerDetectedGuides},
		},
		{
			name: "solo ignores group visibility",
			opts: RenderOptions{
				SoloGroup:       GroupStructural,
				GroupVisibility: map[Group]bool{GroupStructural: false},
			},
			want: []string{LayerRulers, LayerMarginGuides},
		},
		{
			name: "solo still honours layer visibility",
			opts: RenderOptions{
				SoloGroup:     GroupDiagnostic,
				VisibleLayers: map[string]bool{LayerDiagnosticGuides: true},
			},
			want: []string{LayerDiagnosticGuides},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderedIDs(RenderGuideLayers(sampleLayout(), tt.opts))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("visible layers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderGuideLayersStyling(t *testing.T) {
	layout := sampleLayout()
	before := layout.Clone()

	layers := RenderGuideLayers(layout, RenderOptions{
		Zoom:          2,
		VisibleLayers: map[string]bool{LayerBaselineGrid: true},
		GroupOpacity:  map[Group]float64{GroupStructural: 1.7, GroupDetected: 0.4},
		ActiveGuideID: "margin-top",
	})

	if diff := cmp.Diff(before, layout); diff != "" {
		t.Fatalf("layout mutated (-before +after):\n%s", diff)
	}

	byID := map[string]RenderedLayer{}
	for _, l := range layers {
		byID[l.ID] = l
	}
	if o := byID[LayerMarginGuides].Opacity; o != 1 {
		t.Errorf("structural opacity = %v, want clamp to 1", o)
	}
	if o := byID[LayerDetectedGuides].Opacity; o != 0.4 {
		t.Errorf("detected opacity = %v, want 0.4", o)
	}

	grid := byID[LayerBaselineGrid].Lines
	if grid[0].StrokeWidth != 0.75 || grid[0].Dashed {
		t.Errorf("major line = %+v, want solid width 0.75", grid[0])
	}
	if !grid[1].Dashed || grid[1].StrokeWidth != 0.5 {
		t.Errorf("minor line = %+v, want dashed width 0.5", grid[1])
	}
	top := byID[LayerMarginGuides].Lines[0]
	if !top.Active || top.StrokeWidth != 1.25 {
		t.Errorf("active line = %+v, want active width 1.25", top)
	}
}

func TestRenderGuideLayersCullsOffCanvas(t *testing.T) {
	layers := RenderGuideLayers(sampleLayout(), RenderOptions{
		CanvasWidth:   55,
		CanvasHeight:  1000,
		VisibleLayers: map[string]bool{LayerDiagnosticGuides: true},
	})
	for _, l := range layers {
		for _, line := range l.Lines {
			if line.Guide.Axis == geometry.AxisX && line.Guide.Position > 55 {
				t.Errorf("line %s at %v should be culled", line.Guide.ID, line.Guide.Position)
			}
		}
	}
}

func TestHitTestGuides(t *testing.T) {
	layout := sampleLayout()
	tests := []struct {
		name   string
		point  viewport.Point
		zoom   float64
		wantID string
	}{
		{"2px from margin at zoom 2", viewport.Point{X: 300, Y: 42}, 2, "margin-top"},
		{"10px from margin at zoom 1", viewport.Point{X: 300, Y: 50}, 1, ""},
		{"6px from margin at zoom 1", viewport.Point{X: 300, Y: 46}, 1, "margin-top"},
		{"rulers are read-only", viewport.Point{X: 50, Y: 700}, 1, ""},
		{"detected guide ignored, margin wins", viewport.Point{X: 61, Y: 700}, 1, "margin-left"},
		{"minor baseline not editable", viewport.Point{X: 300, Y: 92}, 4, ""},
		{"major baseline editable", viewport.Point{X: 300, Y: 99}, 1, "bl-0"},
		{"low zoom floors at 0.5", viewport.Point{X: 300, Y: 52}, 0.1, "margin-top"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := HitTestGuides(tt.point, layout, tt.zoom)
			if tt.wantID == "" {
				if ok {
					t.Errorf("expected no hit, got %s", hit.Guide.ID)
				}
				return
			}
			if !ok {
				t.Fatalf("expected hit on %s", tt.wantID)
			}
			if hit.Guide.ID != tt.wantID {
				t.Errorf("hit = %s, want %s", hit.Guide.ID, tt.wantID)
			}
		})
	}
}

func TestHitTestGuidesTieKeepsFirst(t *testing.T) {
	layout := GuideLayout{
		{ID: LayerMarginGuides, Guides: []GuideLine{
			{ID: "a", Axis: geometry.AxisX, Position: 10, Kind: KindMajor},
		}},
		{ID: LayerColumnGuides, Guides: []GuideLine{
			{ID: "b", Axis: geometry.AxisX, Position: 14, Kind: KindMajor},
		}},
	}
	hit, ok := HitTestGuides(viewport.Point{X: 12, Y: 0}, layout, 1)
	if !ok || hit.Guide.ID != "a" || hit.LayerID != LayerMarginGuides {
		t.Errorf("tie should keep first line, got %+v ok=%v", hit, ok)
	}
}

func TestHitTestGuidesSkipsLocked(t *testing.T) {
	layout := GuideLayout{
		{ID: LayerMarginGuides, Guides: []GuideLine{
			{ID: "locked", Axis: geometry.AxisX, Position: 10, Kind: KindMajor, Locked: true},
		}},
	}
	if _, ok := HitTestGuides(viewport.Point{X: 10}, layout, 1); ok {
		t.Error("locked guide should not be hit")
	}
}

func TestHitTolerance(t *testing.T) {
	tests := []struct {
		zoom float64
		want float64
	}{
		{1, 6},
		{2, 3},
		{4, 3},
		{0.5, 12},
		{0.1, 12},
		{0, 6},
	}
	for _, tt := range tests {
		if got := HitTolerance(tt.zoom); got != tt.want {
			t.Errorf("HitTolerance(%v) = %v, want %v", tt.zoom, got, tt.want)
		}
		if got := DefaultHitParams().Tolerance(tt.zoom); got != tt.want {
			t.Errorf("DefaultHitParams().Tolerance(%v) = %v, want %v", tt.zoom, got, tt.want)
		}
	}

	wide := HitParams{TargetPx: 10, FloorPx: 4, MinZoom: 1}
	if got := wide.Tolerance(0.5); got != 10 {
		t.Errorf("Tolerance(0.5) = %v, want 10", got)
	}
	if got := wide.Tolerance(5); got != 4 {
		t.Errorf("Tolerance(5) = %v, want 4", got)
	}
}

func TestRegistry(t *testing.T) {
	if GroupOf(LayerOrnamentAnchors) != GroupDetected {
		t.Error("ornament anchors belong to the detected group")
	}
	if GroupOf("unknown-layer") != GroupDetected {
		t.Error("unknown layers default to the detected group")
	}
	vis := DefaultVisibility()
	if len(vis) != len(Catalog()) {
		t.Errorf("DefaultVisibility has %d entries, want %d", len(vis), len(Catalog()))
	}
	if _, ok := ParseGroup("diagnostic"); !ok {
		t.Error("ParseGroup(diagnostic) should succeed")
	}
}
