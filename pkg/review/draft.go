package review

import (
	"reflect"

	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/guides"
	"github.com/asteria/pagereview/pkg/overrides"
	"github.com/asteria/pagereview/pkg/viewport"
)

// draftState is one snapshot of the editable values.
type draftState struct {
	CropBox     *geometry.Box
	TrimBox     *geometry.Box
	RotationDeg float64
	Guides      *overrides.GuideOverrides
}

// Draft is the reviewer's unsaved edit of one page. It is reset from the
// sidecar when the page is selected and compared against that baseline to
// build the patch.
type Draft struct {
	PageID string
	Bounds geometry.Box
	Canvas viewport.Dims

	current  draftState
	baseline draftState
}

// NewDraft returns a draft reset to the sidecar's state.
func NewDraft(sc *Sidecar) *Draft {
	d := &Draft{}
	d.Reset(sc)
	return d
}

// Reset discards all edits and reloads the baseline from sc. Previously saved
// overrides take precedence over the pipeline's normalization.
func (d *Draft) Reset(sc *Sidecar) {
	st := draftState{
		CropBox:     cloneBox(sc.Normalization.CropBox),
		TrimBox:     cloneBox(sc.Normalization.Trim),
		RotationDeg: sc.Normalization.RotationDeg,
	}
	if saved := sc.Overrides; saved != nil {
		if n := saved.Normalization; n != nil {
			if n.CropBox != nil {
				st.CropBox = cloneBox(n.CropBox)
			}
			if n.TrimBox != nil {
				st.TrimBox = cloneBox(n.TrimBox)
			}
			if n.RotationDeg != nil {
				st.RotationDeg = *n.RotationDeg
			}
		}
		st.Guides = overrides.Merge(nil, saved.Guides)
	}

	d.PageID = sc.PageID
	d.Bounds, _ = sc.Bounds()
	d.Canvas = sc.Canvas()
	d.baseline = st
	d.current = st.clone()
}

// CropBox returns the current crop box.
func (d *Draft) CropBox() (geometry.Box, bool) { return deref(d.current.CropBox) }

// TrimBox returns the current trim box.
func (d *Draft) TrimBox() (geometry.Box, bool) { return deref(d.current.TrimBox) }

// Guides returns the current guide overrides. The result must not be
// modified.
func (d *Draft) Guides() *overrides.GuideOverrides { return d.current.Guides }

// RotationDeg returns the current rotation.
func (d *Draft) RotationDeg() float64 { return d.current.RotationDeg }

func (d *Draft) SetCropBox(b geometry.Box) { d.current.CropBox = &b }
func (d *Draft) SetTrimBox(b geometry.Box) { d.current.TrimBox = &b }

// SetRotation sets the rotation. Non-finite values are ignored.
func (d *Draft) SetRotation(deg float64) {
	if geometry.Finite(deg) {
		d.current.RotationDeg = deg
	}
}

// UpdateGuides merges patch into the current guide overrides.
func (d *Draft) UpdateGuides(patch *overrides.GuideOverrides) {
	if patch.IsEmpty() {
		return
	}
	d.current.Guides = overrides.Merge(d.current.Guides, patch)
}

// ApplyDrag stores the outcome of a finished gesture. It reports false when
// the gesture changed nothing the draft tracks.
func (d *Draft) ApplyDrag(s DragSession) bool {
	switch s.Target {
	case TargetCrop:
		d.SetCropBox(s.Box)
	case TargetTrim:
		d.SetTrimBox(s.Box)
	case TargetGuide:
		o, ok := s.GuideOverride(d.Canvas)
		if !ok {
			return false
		}
		d.UpdateGuides(o)
	default:
		return false
	}
	return true
}

// Layout returns the effective guide layout for the detected layout.
func (d *Draft) Layout(detected guides.GuideLayout) guides.GuideLayout {
	return overrides.ApplyGuideOverrides(detected, d.current.Guides, d.Canvas.Width, d.Canvas.Height)
}

// Dirty reports whether anything differs from the baseline.
func (d *Draft) Dirty() bool {
	return !d.Patch().IsEmpty()
}

// Patch returns the changes since the baseline. Guide overrides are sent
// whole when they changed, so a store merging the patch onto the saved
// overrides ends with exactly the current set.
func (d *Draft) Patch() OverridePatch {
	var p OverridePatch
	var n NormalizationPatch
	if !equalBox(d.current.CropBox, d.baseline.CropBox) {
		n.CropBox = cloneBox(d.current.CropBox)
	}
	if !equalBox(d.current.TrimBox, d.baseline.TrimBox) {
		n.TrimBox = cloneBox(d.current.TrimBox)
	}
	if d.current.RotationDeg != d.baseline.RotationDeg {
		r := d.current.RotationDeg
		n.RotationDeg = &r
	}
	if !n.isEmpty() {
		p.Normalization = &n
	}
	if !reflect.DeepEqual(d.current.Guides, d.baseline.Guides) && !d.current.Guides.IsEmpty() {
		p.Guides = overrides.Merge(nil, d.current.Guides)
	}
	return p
}

// Commit makes the current state the new baseline, after the patch has been
// persisted.
func (d *Draft) Commit() {
	d.baseline = d.current.clone()
}

// Revert discards edits since the last baseline.
func (d *Draft) Revert() {
	d.current = d.baseline.clone()
}

func (s draftState) clone() draftState {
	return draftState{
		CropBox:     cloneBox(s.CropBox),
		TrimBox:     cloneBox(s.TrimBox),
		RotationDeg: s.RotationDeg,
		Guides:      overrides.Merge(nil, s.Guides),
	}
}

func cloneBox(b *geometry.Box) *geometry.Box {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

func deref(b *geometry.Box) (geometry.Box, bool) {
	if b == nil {
		return geometry.Box{}, false
	}
	return *b, true
}

func equalBox(a, b *geometry.Box) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
