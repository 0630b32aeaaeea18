package guides

import (
	"math"

	"github.com/asteria/pagereview/pkg/geometry"
)

// Zoom below this value is treated as this value when sizing strokes and hit
// targets.
const MinEffectiveZoom = 0.5

// Screen-space stroke widths before zoom compensation.
const (
	majorStrokePx  = 1.5
	minorStrokePx  = 1
	activeStrokePx = 2.5
)

// RenderOptions controls which layers are drawn and how.
type RenderOptions struct {
	Zoom float64
	// Canvas is the output-space page size. Lines outside it are dropped.
	// A zero dimension disables culling on that axis.
	CanvasWidth, CanvasHeight float64
	// VisibleLayers overrides the registry default per layer id.
	VisibleLayers map[string]bool
	// GroupVisibility hides whole groups. Missing groups are visible.
	GroupVisibility map[Group]bool
	// GroupOpacity sets the opacity per group. Missing groups are opaque.
	GroupOpacity map[Group]float64
	// SoloGroup, when set, shows only layers of that group and ignores
	// GroupVisibility.
	SoloGroup Group
	// ActiveGuideID marks a line for highlighted rendering.
	ActiveGuideID string
}

// RenderedLine is a guide line ready to draw.
type RenderedLine struct {
	Guide       GuideLine `json:"guide"`
	Active      bool      `json:"active,omitempty"`
	Dashed      bool      `json:"dashed,omitempty"`
	StrokeWidth float64   `json:"strokeWidth"`
}

// RenderedLayer is a visible layer with its lines.
type RenderedLayer struct {
	ID      string         `json:"id"`
	Group   Group          `json:"group"`
	Opacity float64        `json:"opacity"`
	Lines   []RenderedLine `json:"lines"`
}

// RenderGuideLayers returns the visible layers of layout in layout order.
// Stroke widths are divided by the zoom so lines keep a constant on-screen
// thickness.
func RenderGuideLayers(layout GuideLayout, opts RenderOptions) []RenderedLayer {
	zoom := effectiveZoom(opts.Zoom)
	var out []RenderedLayer
	for _, layer := range layout {
		group := GroupOf(layer.ID)
		if !layerVisible(layer.ID, group, opts) {
			continue
		}

		rl := RenderedLayer{ID: layer.ID, Group: group, Opacity: groupOpacity(group, opts)}
		for _, line := range layer.Guides {
			if !onCanvas(line, opts) {
				continue
			}
			active := opts.ActiveGuideID != "" && line.ID == opts.ActiveGuideID
			width := majorStrokePx
			if line.Kind == KindMinor {
				width = minorStrokePx
			}
			if active {
				width = activeStrokePx
			}
			rl.Lines = append(rl.Lines, RenderedLine{
				Guide:       line,
				Active:      active,
				Dashed:      line.Kind == KindMinor,
				StrokeWidth: width / zoom,
			})
		}
		out = append(out, rl)
	}
	return out
}

func layerVisible(id string, group Group, opts RenderOptions) bool {
	visible, ok := opts.VisibleLayers[id]
	if !ok {
		if spec, known := Lookup(id); known {
			visible = spec.DefaultVisible
		} else {
			visible = true
		}
	}
	if !visible {
		return false
	}
	if opts.SoloGroup != "" {
		return group == opts.SoloGroup
	}
	if gv, ok := opts.GroupVisibility[group]; ok {
		return gv
	}
	return true
}

func groupOpacity(group Group, opts RenderOptions) float64 {
	o, ok := opts.GroupOpacity[group]
	if !ok || !geometry.Finite(o) {
		return 1
	}
	return math.Max(0, math.Min(1, o))
}

func onCanvas(line GuideLine, opts RenderOptions) bool {
	if !geometry.Finite(line.Position) {
		return false
	}
	limit := opts.CanvasWidth
	if line.Axis == geometry.AxisY {
		limit = opts.CanvasHeight
	}
	if limit <= 0 {
		return true
	}
	return line.Position >= 0 && line.Position <= limit
}

func effectiveZoom(z float64) float64 {
	if !geometry.Finite(z) || z <= 0 {
		z = 1
	}
	return math.Max(MinEffectiveZoom, z)
}
