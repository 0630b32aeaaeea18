package overrides

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/guides"
)

// Roles of the lines that overrides address.
const (
	RoleBaseline        = "baseline"
	RoleMarginTop       = "margin-top"
	RoleMarginRight     = "margin-right"
	RoleMarginBottom    = "margin-bottom"
	RoleMarginLeft      = "margin-left"
	RoleColumnLeft      = "column-left"
	RoleColumnRight     = "column-right"
	RoleGutterStart     = "column-gutter-start"
	RoleGutterEnd       = "column-gutter-end"
	RoleHeaderStart     = "header-start"
	RoleHeaderEnd       = "header-end"
	RoleFooterStart     = "footer-start"
	RoleFooterEnd       = "footer-end"
	RoleGutterBandStart = "gutter-start"
	RoleGutterBandEnd   = "gutter-end"
)

// Regenerated baseline grids are capped so a tiny spacing cannot explode the
// layout.
const (
	minGridSpacingPx = 1
	maxGridLines     = 4096
)

// ApplyGuideOverrides returns the effective layout for a page: the detected
// layout with o applied. layout is never modified and must be the original
// detected layout, not a previously overridden one.
//
// canvasWidth and canvasHeight are the output page size. They position the
// right and bottom margins and bound a regenerated baseline grid; overrides
// that need a dimension that is not positive are skipped.
func ApplyGuideOverrides(layout guides.GuideLayout, o *GuideOverrides, canvasWidth, canvasHeight float64) guides.GuideLayout {
	out := layout.Clone()
	if o.IsEmpty() {
		return out
	}
	if o.BaselineGrid != nil {
		out = applyBaseline(out, o.BaselineGrid, canvasHeight)
	}
	if m := o.Margins; m != nil {
		out = setRole(out, guides.LayerMarginGuides, RoleMarginTop, geometry.AxisY, m.TopPx, nil)
		out = setRole(out, guides.LayerMarginGuides, RoleMarginRight, geometry.AxisX, m.RightPx, fromEnd(canvasWidth))
		out = setRole(out, guides.LayerMarginGuides, RoleMarginBottom, geometry.AxisY, m.BottomPx, fromEnd(canvasHeight))
		out = setRole(out, guides.LayerMarginGuides, RoleMarginLeft, geometry.AxisX, m.LeftPx, nil)
	}
	if c := o.Columns; c != nil {
		out = setRole(out, guides.LayerColumnGuides, RoleColumnLeft, geometry.AxisX, c.LeftPx, nil)
		out = setRole(out, guides.LayerColumnGuides, RoleColumnRight, geometry.AxisX, c.RightPx, nil)
		out = applyColumnCount(out, c, canvasWidth)
	}
	if b := o.HeaderBand; b != nil {
		out = setRole(out, guides.LayerHeaderFooterBands, RoleHeaderStart, geometry.AxisY, b.StartPx, nil)
		out = setRole(out, guides.LayerHeaderFooterBands, RoleHeaderEnd, geometry.AxisY, b.EndPx, nil)
	}
	if b := o.FooterBand; b != nil {
		out = setRole(out, guides.LayerHeaderFooterBands, RoleFooterStart, geometry.AxisY, b.StartPx, nil)
		out = setRole(out, guides.LayerHeaderFooterBands, RoleFooterEnd, geometry.AxisY, b.EndPx, nil)
	}
	if b := o.GutterBand; b != nil {
		out = setRole(out, guides.LayerGutterBands, RoleGutterBandStart, geometry.AxisX, b.StartPx, nil)
		out = setRole(out, guides.LayerGutterBands, RoleGutterBandEnd, geometry.AxisX, b.EndPx, nil)
	}
	return out
}

// fromEnd converts an inset from the far canvas edge into a position.
func fromEnd(extent float64) func(float64) (float64, bool) {
	return func(inset float64) (float64, bool) {
		if extent <= 0 || !geometry.Finite(extent) {
			return 0, false
		}
		return extent - inset, true
	}
}

// setRole moves the line with the given role to the override value. The line
// is created when missing, and its layer too.
func setRole(layout guides.GuideLayout, layerID, role string, axis geometry.Axis, f Number, toPos func(float64) (float64, bool)) guides.GuideLayout {
	v, ok := f.Get()
	if !ok {
		return layout
	}
	pos := v
	if toPos != nil {
		if pos, ok = toPos(v); !ok {
			return layout
		}
	}

	layout, li := ensureLayer(layout, layerID)
	layer := &layout[li]
	if i := layer.FindRole(role); i >= 0 {
		layer.Guides[i].Position = pos
		layer.Guides[i].Source = guides.SourceUser
		return layout
	}
	layer.Guides = append(layer.Guides, guides.GuideLine{
		ID:       role,
		Axis:     axis,
		Position: pos,
		Kind:     guides.KindMajor,
		Role:     role,
		Source:   guides.SourceUser,
	})
	return layout
}

func ensureLayer(layout guides.GuideLayout, id string) (guides.GuideLayout, int) {
	if i := layout.LayerIndex(id); i >= 0 {
		return layout, i
	}
	layout = append(layout, guides.GuideLayer{ID: id})
	return layout, len(layout) - 1
}

type gridParams struct {
	spacing, offset, angle float64
}

// detectGrid derives spacing, offset and angle from detected major lines.
func detectGrid(majors []guides.GuideLine) gridParams {
	if len(majors) == 0 {
		return gridParams{}
	}
	p := gridParams{offset: majors[0].Position, angle: majors[0].AngleDeg}
	var gaps []float64
	for i := 1; i < len(majors); i++ {
		if d := majors[i].Position - majors[i-1].Position; d > 0 {
			gaps = append(gaps, d)
		}
	}
	if len(gaps) > 0 {
		slices.Sort(gaps)
		p.spacing = gaps[len(gaps)/2]
	}
	return p
}

func applyBaseline(layout guides.GuideLayout, g *BaselineGrid, canvasHeight float64) guides.GuideLayout {
	li := layout.LayerIndex(guides.LayerBaselineGrid)
	var majors []guides.GuideLine
	if li >= 0 {
		for _, line := range layout[li].Guides {
			if line.Kind == guides.KindMajor && geometry.Finite(line.Position) {
				majors = append(majors, line)
			}
		}
	}
	slices.SortStableFunc(majors, func(a, b guides.GuideLine) int {
		return cmp.Compare(a.Position, b.Position)
	})
	auto := detectGrid(majors)

	_, spacingSet := g.SpacingPx.Get()
	_, offsetSet := g.OffsetPx.Get()
	_, angleSet := g.AngleDeg.Get()
	markCorrect := g.MarkCorrect.Or(false)

	if spacingSet || offsetSet || angleSet {
		p := gridParams{
			spacing: g.SpacingPx.Or(auto.spacing),
			offset:  g.OffsetPx.Or(auto.offset),
			angle:   g.AngleDeg.Or(auto.angle),
		}
		extent := canvasHeight
		if extent <= 0 && len(majors) > 0 {
			extent = majors[len(majors)-1].Position
		}
		lines := generateGrid(p, extent, markCorrect)
		if lines == nil && offsetSet && auto.spacing == 0 && !spacingSet {
			// A lone detected line has no spacing to repeat; move just that line.
			lines = singleLine(p, markCorrect)
		}
		if lines != nil {
			if g.SnapToPeaks.Or(false) {
				snapToPeaks(lines, majors, p.spacing/2)
			}
			layout, li = ensureLayer(layout, guides.LayerBaselineGrid)
			layout[li].Guides = lines
		}
	}

	if markCorrect && li >= 0 {
		for i := range layout[li].Guides {
			layout[li].Guides[i].Confidence = 1
		}
	}
	return layout
}

func generateGrid(p gridParams, extent float64, confirmed bool) []guides.GuideLine {
	if !geometry.Finite(p.spacing) || p.spacing < minGridSpacingPx || !geometry.Finite(extent) || extent <= 0 {
		return nil
	}
	start := p.offset - math.Floor(p.offset/p.spacing)*p.spacing
	var lines []guides.GuideLine
	for i := 0; i < maxGridLines; i++ {
		y := start + float64(i)*p.spacing
		if y > extent {
			break
		}
		line := guides.GuideLine{
			ID:       fmt.Sprintf("baseline-%d", i),
			Axis:     geometry.AxisY,
			Position: y,
			Kind:     guides.KindMajor,
			Role:     RoleBaseline,
			Source:   guides.SourceUser,
			AngleDeg: p.angle,
		}
		if confirmed {
			line.Confidence = 1
		}
		lines = append(lines, line)
	}
	return lines
}

func singleLine(p gridParams, confirmed bool) []guides.GuideLine {
	if !geometry.Finite(p.offset) {
		return nil
	}
	line := guides.GuideLine{
		ID:       "baseline-0",
		Axis:     geometry.AxisY,
		Position: p.offset,
		Kind:     guides.KindMajor,
		Role:     RoleBaseline,
		Source:   guides.SourceUser,
		AngleDeg: p.angle,
	}
	if confirmed {
		line.Confidence = 1
	}
	return []guides.GuideLine{line}
}

// snapToPeaks moves each generated line onto the nearest detected line within
// maxDist.
func snapToPeaks(lines, peaks []guides.GuideLine, maxDist float64) {
	for i := range lines {
		best, bestDist := 0.0, math.Inf(1)
		for _, peak := range peaks {
			if d := math.Abs(peak.Position - lines[i].Position); d < bestDist {
				best, bestDist = peak.Position, d
			}
		}
		if bestDist <= maxDist {
			lines[i].Position = best
		}
	}
}

func applyColumnCount(layout guides.GuideLayout, c *Columns, canvasWidth float64) guides.GuideLayout {
	_, countSet := c.Count.Get()
	_, gutterSet := c.GutterPx.Get()
	if !countSet && !gutterSet {
		return layout
	}

	layout, li := ensureLayer(layout, guides.LayerColumnGuides)
	layer := layout[li]

	left, right := 0.0, canvasWidth
	if i := layer.FindRole(RoleColumnLeft); i >= 0 {
		left = layer.Guides[i].Position
	}
	if i := layer.FindRole(RoleColumnRight); i >= 0 {
		right = layer.Guides[i].Position
	}

	var kept []guides.GuideLine
	detectedCount, detectedGutter := 1, 0.0
	var firstStart *guides.GuideLine
	for _, line := range layer.Guides {
		switch line.Role {
		case RoleGutterStart:
			detectedCount++
			if firstStart == nil {
				l := line
				firstStart = &l
			}
		case RoleGutterEnd:
			if firstStart != nil && detectedGutter == 0 {
				detectedGutter = line.Position - firstStart.Position
			}
		default:
			kept = append(kept, line)
		}
	}

	count := int(math.Round(c.Count.Or(float64(detectedCount))))
	gutter := c.GutterPx.Or(detectedGutter)
	if count < 1 || gutter < 0 || right <= left {
		return layout
	}
	colWidth := (right - left - gutter*float64(count-1)) / float64(count)
	if colWidth <= 0 || !geometry.Finite(colWidth) {
		return layout
	}

	for i := 1; i < count; i++ {
		start := left + float64(i)*colWidth + float64(i-1)*gutter
		kept = append(kept,
			gutterLine(i, RoleGutterStart, start),
			gutterLine(i, RoleGutterEnd, start+gutter),
		)
	}
	layout[li].Guides = kept
	return layout
}

func gutterLine(i int, role string, pos float64) guides.GuideLine {
	return guides.GuideLine{
		ID:       fmt.Sprintf("%s-%d", role, i),
		Axis:     geometry.AxisX,
		Position: pos,
		Kind:     guides.KindMajor,
		Role:     role,
		Source:   guides.SourceUser,
	}
}

// ForGuideDrag converts a dragged editable guide into the override that moves
// it to pos. It reports false for lines that no override field addresses.
func ForGuideDrag(layerID string, line guides.GuideLine, pos, canvasWidth, canvasHeight float64) (*GuideOverrides, bool) {
	if !guides.IsEditable(layerID, line) || !geometry.Finite(pos) {
		return nil, false
	}
	v := Set(pos)
	switch {
	case layerID == guides.LayerBaselineGrid:
		return &GuideOverrides{BaselineGrid: &BaselineGrid{OffsetPx: v}}, true
	case line.Role == RoleMarginTop:
		return &GuideOverrides{Margins: &Margins{TopPx: v}}, true
	case line.Role == RoleMarginLeft:
		return &GuideOverrides{Margins: &Margins{LeftPx: v}}, true
	case line.Role == RoleMarginRight && canvasWidth > 0:
		return &GuideOverrides{Margins: &Margins{RightPx: Set(canvasWidth - pos)}}, true
	case line.Role == RoleMarginBottom && canvasHeight > 0:
		return &GuideOverrides{Margins: &Margins{BottomPx: Set(canvasHeight - pos)}}, true
	case line.Role == RoleColumnLeft:
		return &GuideOverrides{Columns: &Columns{LeftPx: v}}, true
	case line.Role == RoleColumnRight:
		return &GuideOverrides{Columns: &Columns{RightPx: v}}, true
	case line.Role == RoleHeaderStart:
		return &GuideOverrides{HeaderBand: &Band{StartPx: v}}, true
	case line.Role == RoleHeaderEnd:
		return &GuideOverrides{HeaderBand: &Band{EndPx: v}}, true
	case line.Role == RoleFooterStart:
		return &GuideOverrides{FooterBand: &Band{StartPx: v}}, true
	case line.Role == RoleFooterEnd:
		return &GuideOverrides{FooterBand: &Band{EndPx: v}}, true
	case line.Role == RoleGutterBandStart:
		return &GuideOverrides{GutterBand: &Band{StartPx: v}}, true
	case line.Role == RoleGutterBandEnd:
		return &GuideOverrides{GutterBand: &Band{EndPx: v}}, true
	}
	return nil, false
}
