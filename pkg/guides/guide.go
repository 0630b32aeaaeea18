package guides

import "github.com/asteria/pagereview/pkg/geometry"

// Kind distinguishes primary lines from secondary ones.
type Kind string

const (
	KindMajor Kind = "major"
	KindMinor Kind = "minor"
)

// Source records where a guide line came from.
type Source string

const (
	SourceAuto     Source = "auto"
	SourceTemplate Source = "template"
	SourceUser     Source = "user"
)

// GuideLine is a single alignment line in output pixels.
type GuideLine struct {
	ID         string        `json:"id"`
	Axis       geometry.Axis `json:"axis"`
	Position   float64       `json:"position"`
	Kind       Kind          `json:"kind"`
	Role       string        `json:"role,omitempty"`
	Source     Source        `json:"source"`
	Confidence float64       `json:"confidence,omitempty"`
	Locked     bool          `json:"locked,omitempty"`
	// AngleDeg tilts baseline-grid lines. Zero for every other layer.
	AngleDeg float64 `json:"angleDeg,omitempty"`
}

// GuideLayer is a named set of guide lines.
type GuideLayer struct {
	ID     string      `json:"id"`
	Guides []GuideLine `json:"guides"`
}

// GuideLayout is the ordered list of layers for a page.
type GuideLayout []GuideLayer

// Clone returns a deep copy of the layout.
func (l GuideLayout) Clone() GuideLayout {
	if l == nil {
		return nil
	}
	out := make(GuideLayout, len(l))
	for i, layer := range l {
		out[i] = GuideLayer{ID: layer.ID}
		if layer.Guides != nil {
			out[i].Guides = append([]GuideLine(nil), layer.Guides...)
		}
	}
	return out
}

// Layer returns the layer with the given id.
func (l GuideLayout) Layer(id string) (GuideLayer, bool) {
	for _, layer := range l {
		if layer.ID == id {
			return layer, true
		}
	}
	return GuideLayer{}, false
}

// LayerIndex returns the position of the layer with the given id, or -1.
func (l GuideLayout) LayerIndex(id string) int {
	for i, layer := range l {
		if layer.ID == id {
			return i
		}
	}
	return -1
}

// FindRole returns the index of the first line with the given role, or -1.
func (g GuideLayer) FindRole(role string) int {
	for i, line := range g.Guides {
		if line.Role == role {
			return i
		}
	}
	return -1
}

// GuidesWithSource returns every line in the layout whose source is src,
// in layer order.
func (l GuideLayout) GuidesWithSource(src Source) []GuideLine {
	var out []GuideLine
	for _, layer := range l {
		for _, line := range layer.Guides {
			if line.Source == src {
				out = append(out, line)
			}
		}
	}
	return out
}
