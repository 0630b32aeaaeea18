package guides

import (
	"math"

	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/viewport"
)

// Hit target sizes. The tolerance is HitTargetPx screen pixels converted to
// output pixels, never less than MinHitTolerancePx.
const (
	HitTargetPx       = 6
	MinHitTolerancePx = 3
)

// GuideHit is the result of a successful hit test.
type GuideHit struct {
	LayerID  string
	Guide    GuideLine
	Distance float64
}

// HitParams tunes the hit target. The zero value is not useful; start from
// DefaultHitParams.
type HitParams struct {
	TargetPx float64
	FloorPx  float64
	MinZoom  float64
}

// DefaultHitParams returns the standard hit target sizes.
func DefaultHitParams() HitParams {
	return HitParams{TargetPx: HitTargetPx, FloorPx: MinHitTolerancePx, MinZoom: MinEffectiveZoom}
}

// Tolerance returns the hit tolerance in output pixels for a zoom level.
func (hp HitParams) Tolerance(zoom float64) float64 {
	if !geometry.Finite(zoom) || zoom <= 0 {
		zoom = 1
	}
	return math.Max(hp.FloorPx, hp.TargetPx/math.Max(hp.MinZoom, zoom))
}

// HitTolerance returns the default hit tolerance in output pixels for a zoom
// level.
func HitTolerance(zoom float64) float64 {
	return math.Max(MinHitTolerancePx, HitTargetPx/effectiveZoom(zoom))
}

// HitTestGuides returns the editable guide line nearest to p within the
// zoom-dependent tolerance. Ties go to the line seen first in layout order.
func HitTestGuides(p viewport.Point, layout GuideLayout, zoom float64) (GuideHit, bool) {
	return HitTestWithin(p, layout, HitTolerance(zoom))
}

// HitTestWithin is HitTestGuides with an explicit tolerance in output pixels.
func HitTestWithin(p viewport.Point, layout GuideLayout, tol float64) (GuideHit, bool) {
	if !geometry.Finite(p.X) || !geometry.Finite(p.Y) || !geometry.Finite(tol) {
		return GuideHit{}, false
	}

	var best GuideHit
	found := false
	for _, layer := range layout {
		for _, line := range layer.Guides {
			if !IsEditable(layer.ID, line) || !geometry.Finite(line.Position) {
				continue
			}
			d := math.Abs(p.X - line.Position)
			if line.Axis == geometry.AxisY {
				d = math.Abs(p.Y - line.Position)
			}
			if d > tol {
				continue
			}
			if !found || d < best.Distance {
				best = GuideHit{LayerID: layer.ID, Guide: line, Distance: d}
				found = true
			}
		}
	}
	return best, found
}
