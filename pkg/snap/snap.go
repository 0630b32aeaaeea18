package snap

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/guides"
)

// Standard source ids.
const (
	SourceTemplate = "template"
	SourceDetected = "detected"
	SourceBaseline = "baseline"
	SourceUser     = "user"
)

// Candidate is one position a dragged edge may snap to.
type Candidate struct {
	ID    string        `json:"id,omitempty"`
	Axis  geometry.Axis `json:"axis"`
	Value float64       `json:"value"`
	// ValidEdges restricts which edges may use the candidate. Empty means
	// every edge on Axis.
	ValidEdges []geometry.Edge `json:"validEdges,omitempty"`
	Confidence float64         `json:"confidence"`
	Label      string          `json:"label"`
}

func (c Candidate) validFor(e geometry.Edge) bool {
	return c.Axis == e.Axis() && (len(c.ValidEdges) == 0 || slices.Contains(c.ValidEdges, e))
}

// Source is a prioritized provider of snap candidates.
type Source struct {
	ID            string      `json:"id"`
	Priority      int         `json:"priority"`
	MinConfidence float64     `json:"minConfidence"`
	Weight        float64     `json:"weight"`
	Radius        float64     `json:"radius"`
	Candidates    []Candidate `json:"candidates"`
}

// Match records the candidate chosen for one edge.
type Match struct {
	Edge      geometry.Edge
	SourceID  string
	Priority  int
	Candidate Candidate
	Distance  float64
	Score     float64
}

// Guide returns a guide line marking the match for display.
func (m Match) Guide() guides.GuideLine {
	src := guides.SourceAuto
	switch m.SourceID {
	case SourceTemplate:
		src = guides.SourceTemplate
	case SourceUser:
		src = guides.SourceUser
	}
	return guides.GuideLine{
		ID:         fmt.Sprintf("snap-%s-%s", m.SourceID, m.Edge),
		Axis:       m.Candidate.Axis,
		Position:   m.Candidate.Value,
		Kind:       guides.KindMajor,
		Role:       string(m.Edge),
		Source:     src,
		Confidence: m.Candidate.Confidence,
	}
}

// Result is the outcome of snapping a dragged box.
type Result struct {
	Box     geometry.Box
	Matches []Match
	Guides  []guides.GuideLine
	// Tooltip reads "Snapped: <label>, ..." or is empty when nothing matched.
	Tooltip string
}

// BoxCandidates expands a box into four candidates, one per edge, each valid
// only for that edge.
func BoxCandidates(box geometry.Box, confidence float64, label, sourceID string) []Candidate {
	out := make([]Candidate, 0, len(geometry.Edges))
	for _, e := range geometry.Edges {
		out = append(out, Candidate{
			ID:         fmt.Sprintf("%s-%s", sourceID, e),
			Axis:       e.Axis(),
			Value:      box.Edge(e),
			ValidEdges: []geometry.Edge{e},
			Confidence: confidence,
			Label:      label,
		})
	}
	return out
}

// SnapBoxWithSources snaps each of the given edges of box to the best
// candidate among sources.
func SnapBoxWithSources(box geometry.Box, edges []geometry.Edge, sources []Source) Result {
	res := Result{Box: box}
	for _, e := range edges {
		pos := box.Edge(e)
		m, ok := best(pos, sources, func(c Candidate) bool { return c.validFor(e) })
		if !ok {
			continue
		}
		m.Edge = e
		res.Box = res.Box.WithEdge(e, m.Candidate.Value)
		res.Matches = append(res.Matches, m)
		res.Guides = append(res.Guides, m.Guide())
	}
	res.Tooltip = tooltip(res.Matches)
	return res
}

// SnapGuide snaps a dragged guide line at pos to the best candidate on the
// guide's axis. Edge restrictions on candidates are ignored.
func SnapGuide(line guides.GuideLine, pos float64, sources []Source) (float64, Match, bool) {
	m, ok := best(pos, sources, func(c Candidate) bool { return c.Axis == line.Axis })
	if !ok {
		return pos, Match{}, false
	}
	return m.Candidate.Value, m, true
}

func best(pos float64, sources []Source, accept func(Candidate) bool) (Match, bool) {
	if !geometry.Finite(pos) {
		return Match{}, false
	}
	var winner Match
	found := false
	for _, src := range sources {
		if !geometry.Finite(src.Radius) || src.Radius < 0 {
			continue
		}
		weight := src.Weight
		if !geometry.Finite(weight) {
			weight = 0
		}
		for _, c := range src.Candidates {
			if !accept(c) || !geometry.Finite(c.Value) || c.Confidence < src.MinConfidence {
				continue
			}
			d := math.Abs(c.Value - pos)
			if d > src.Radius {
				continue
			}
			m := Match{
				SourceID:  src.ID,
				Priority:  src.Priority,
				Candidate: c,
				Distance:  d,
				Score:     weight * c.Confidence / (1 + d),
			}
			if !found || beats(m, winner) {
				winner, found = m, true
			}
		}
	}
	return winner, found
}

// beats reports whether a ranks strictly ahead of b.
func beats(a, b Match) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.SourceID < b.SourceID
}

func tooltip(matches []Match) string {
	var labels []string
	for _, m := range matches {
		if l := m.Candidate.Label; l != "" && !slices.Contains(labels, l) {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return ""
	}
	return "Snapped: " + strings.Join(labels, ", ")
}
