package review

import (
	"fmt"

	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/guides"
	"github.com/asteria/pagereview/pkg/snap"
)

// SnapSources builds the standard snap sources for a page. Template priors,
// running heads and ornaments from the book model feed the template source.
// Detected elements feed the detected source. Baseline grid peaks, or the
// major baseline lines of the layout when the model has no peaks, feed the
// baseline source. User-drawn guides in layout feed the user source.
//
// Sources without settings or without candidates are omitted.
func SnapSources(sc *Sidecar, layout guides.GuideLayout, settings map[string]snap.Settings) []snap.Source {
	if sc == nil {
		return nil
	}
	if settings == nil {
		settings = snap.DefaultSettings()
	}
	candidates := map[string][]snap.Candidate{
		snap.SourceTemplate: templateCandidates(sc.BookModel),
		snap.SourceDetected: detectedCandidates(sc.Elements),
		snap.SourceBaseline: baselineCandidates(sc.BookModel, layout),
		snap.SourceUser:     userCandidates(layout),
	}

	var out []snap.Source
	for _, id := range []string{snap.SourceTemplate, snap.SourceDetected, snap.SourceBaseline, snap.SourceUser} {
		s, ok := settings[id]
		if !ok || len(candidates[id]) == 0 {
			continue
		}
		out = append(out, s.NewSource(id, candidates[id]))
	}
	return out
}

func templateCandidates(bm *BookModel) []snap.Candidate {
	if bm == nil {
		return nil
	}
	var out []snap.Candidate
	add := func(priors []Prior, fallback string) {
		for _, p := range priors {
			if !p.BBox.Valid() {
				continue
			}
			label := p.Label
			if label == "" {
				label = fallback
			}
			out = append(out, snap.BoxCandidates(p.BBox, p.Confidence, label, snap.SourceTemplate)...)
		}
	}
	add(bm.Templates, "Template")
	add(bm.RunningHeads, "Running head template")
	add(bm.Ornaments, "Ornament anchor")
	return out
}

func detectedCandidates(elements []Element) []snap.Candidate {
	var out []snap.Candidate
	for _, e := range elements {
		if !e.BBox.Valid() {
			continue
		}
		out = append(out, snap.BoxCandidates(e.BBox, e.Confidence, e.Label(), snap.SourceDetected)...)
	}
	return out
}

func baselineCandidates(bm *BookModel, layout guides.GuideLayout) []snap.Candidate {
	var out []snap.Candidate
	if bm != nil && bm.BaselineGrid != nil {
		for i, y := range bm.BaselineGrid.Peaks {
			if !geometry.Finite(y) {
				continue
			}
			out = append(out, snap.Candidate{
				ID:         fmt.Sprintf("baseline-peak-%d", i),
				Axis:       geometry.AxisY,
				Value:      y,
				Confidence: bm.BaselineGrid.Confidence,
				Label:      "Baseline grid",
			})
		}
	}
	if len(out) > 0 {
		return out
	}
	if grid, ok := layout.Layer(guides.LayerBaselineGrid); ok {
		for _, line := range grid.Guides {
			if line.Kind != guides.KindMajor || line.Axis != geometry.AxisY {
				continue
			}
			out = append(out, lineCandidate(line, "Baseline grid"))
		}
	}
	return out
}

func userCandidates(layout guides.GuideLayout) []snap.Candidate {
	var out []snap.Candidate
	for _, line := range layout.GuidesWithSource(guides.SourceUser) {
		out = append(out, lineCandidate(line, "User guide"))
	}
	return out
}

// lineCandidate turns a guide line into a candidate. Lines without a
// confidence count as certain.
func lineCandidate(line guides.GuideLine, label string) snap.Candidate {
	conf := line.Confidence
	if conf == 0 {
		conf = 1
	}
	return snap.Candidate{
		ID:         line.ID,
		Axis:       line.Axis,
		Value:      line.Position,
		Confidence: conf,
		Label:      label,
	}
}
