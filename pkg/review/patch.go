package review

import (
	"time"

	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/overrides"
	"github.com/asteria/pagereview/pkg/templates"
)

// NormalizationPatch replaces normalization values. Nil fields are left alone.
type NormalizationPatch struct {
	CropBox     *geometry.Box `json:"cropBox,omitempty"`
	TrimBox     *geometry.Box `json:"trimBox,omitempty"`
	RotationDeg *float64      `json:"rotationDeg,omitempty"`
}

func (n *NormalizationPatch) isEmpty() bool {
	return n == nil || (n.CropBox == nil && n.TrimBox == nil && n.RotationDeg == nil)
}

// OverridePatch is what gets persisted for one (run, page).
type OverridePatch struct {
	Normalization *NormalizationPatch       `json:"normalization,omitempty"`
	Guides        *overrides.GuideOverrides `json:"guides,omitempty"`
}

// IsEmpty reports whether applying the patch would change nothing.
func (p OverridePatch) IsEmpty() bool {
	return p.Normalization.isEmpty() && p.Guides.IsEmpty()
}

// MergePatch layers patch over base. Normalization values in patch replace
// those in base; guide overrides merge leaf by leaf.
func MergePatch(base, patch OverridePatch) OverridePatch {
	out := OverridePatch{Guides: overrides.Merge(base.Guides, patch.Guides)}
	if !base.Normalization.isEmpty() || !patch.Normalization.isEmpty() {
		n := NormalizationPatch{}
		if base.Normalization != nil {
			n = *base.Normalization
		}
		if p := patch.Normalization; p != nil {
			if p.CropBox != nil {
				n.CropBox = p.CropBox
			}
			if p.TrimBox != nil {
				n.TrimBox = p.TrimBox
			}
			if p.RotationDeg != nil {
				n.RotationDeg = p.RotationDeg
			}
		}
		out.Normalization = &n
	}
	return out
}

// TrainingSignal tells the template learner that a reviewer applied the same
// correction across a section or template.
type TrainingSignal struct {
	ID            string          `json:"id,omitempty"`
	TemplateID    string          `json:"templateId"`
	Scope         templates.Scope `json:"scope"`
	Pages         []string        `json:"pages"`
	Overrides     OverridePatch   `json:"overrides"`
	AppliedAt     time.Time       `json:"appliedAt"`
	SourcePageID  string          `json:"sourcePageId"`
	LayoutProfile string          `json:"layoutProfile,omitempty"`
}
