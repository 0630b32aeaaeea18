package guides

// Group is a category of layers that can be shown, hidden or soloed together.
type Group string

const (
	GroupStructural Group = "structural"
	GroupDetected   Group = "detected"
	GroupDiagnostic Group = "diagnostic"
)

// Groups lists every group in display order.
var Groups = []Group{GroupStructural, GroupDetected, GroupDiagnostic}

// Layer ids known to the registry.
const (
	LayerBaselineGrid      = "baseline-grid"
	LayerRulers            = "rulers"
	LayerMarginGuides      = "margin-guides"
	LayerColumnGuides      = "column-guides"
	LayerGutterBands       = "gutter-bands"
	LayerHeaderFooterBands = "header-footer-bands"
	LayerOrnamentAnchors   = "ornament-anchors"
	LayerDetectedGuides    = "detected-guides"
	LayerDiagnosticGuides  = "diagnostic-guides"
)

// LayerSpec describes one catalogued layer.
type LayerSpec struct {
	ID             string
	Label          string
	Group          Group
	DefaultVisible bool
}

var catalog = []LayerSpec{
	{ID: LayerBaselineGrid, Label: "Baseline grid", Group: GroupStructural, DefaultVisible: false},
	{ID: LayerRulers, Label: "Rulers", Group: GroupStructural, DefaultVisible: true},
	{ID: LayerMarginGuides, Label: "Margins", Group: GroupStructural, DefaultVisible: true},
	{ID: LayerColumnGuides, Label: "Columns", Group: GroupStructural, DefaultVisible: true},
	{ID: LayerGutterBands, Label: "Gutter bands", Group: GroupStructural, DefaultVisible: false},
	{ID: LayerHeaderFooterBands, Label: "Header / footer bands", Group: GroupStructural, DefaultVisible: true},
	{ID: LayerOrnamentAnchors, Label: "Ornament anchors", Group: GroupDetected, DefaultVisible: false},
	{ID: LayerDetectedGuides, Label: "Detected guides", Group: GroupDetected, DefaultVisible: true},
	{ID: LayerDiagnosticGuides, Label: "Diagnostics", Group: GroupDiagnostic, DefaultVisible: false},
}

// Catalog returns the layer registry in display order.
func Catalog() []LayerSpec {
	return append([]LayerSpec(nil), catalog...)
}

// Lookup returns the registry entry for a layer id.
func Lookup(id string) (LayerSpec, bool) {
	for _, spec := range catalog {
		if spec.ID == id {
			return spec, true
		}
	}
	return LayerSpec{}, false
}

// GroupOf returns the group of a layer. Layers missing from the registry are
// treated as detected output.
func GroupOf(id string) Group {
	if spec, ok := Lookup(id); ok {
		return spec.Group
	}
	return GroupDetected
}

// DefaultVisibility returns the default per-layer visibility map.
func DefaultVisibility() map[string]bool {
	out := make(map[string]bool, len(catalog))
	for _, spec := range catalog {
		out[spec.ID] = spec.DefaultVisible
	}
	return out
}

// ParseGroup returns the group named s.
func ParseGroup(s string) (Group, bool) {
	for _, g := range Groups {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

var editableLayers = map[string]bool{
	LayerBaselineGrid:      true,
	LayerMarginGuides:      true,
	LayerColumnGuides:      true,
	LayerHeaderFooterBands: true,
	LayerGutterBands:       true,
}

// IsEditable reports whether a reviewer may drag line within layer. Only the
// major lines of the baseline grid are editable; rulers, detections and
// diagnostics are read-only. Locked lines are never editable.
func IsEditable(layerID string, line GuideLine) bool {
	if !editableLayers[layerID] || line.Locked {
		return false
	}
	if layerID == LayerBaselineGrid {
		return line.Kind == KindMajor
	}
	return true
}
