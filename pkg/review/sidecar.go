package review

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/asteria/pagereview/pkg/errors"
	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/guides"
	"github.com/asteria/pagereview/pkg/viewport"
)

// Normalization is the pipeline's geometric normalization of a page.
type Normalization struct {
	CropBox     *geometry.Box `json:"cropBox,omitempty"`
	Trim        *geometry.Box `json:"trim,omitempty"`
	PageMask    *geometry.Box `json:"pageMask,omitempty"`
	RotationDeg float64       `json:"rotationDeg,omitempty"`
}

// Element types reported by layout detection.
const (
	ElementTitle       = "title"
	ElementRunningHead = "running_head"
	ElementFolio       = "folio"
	ElementOrnament    = "ornament"
	ElementTextBlock   = "text_block"
)

// Element is one detected structural element.
type Element struct {
	ID         string       `json:"id,omitempty"`
	Type       string       `json:"type"`
	BBox       geometry.Box `json:"bbox"`
	Confidence float64      `json:"confidence"`
}

// Label returns a human label for the element type.
func (e Element) Label() string {
	if e.Type == "" {
		return "Element"
	}
	s := strings.ReplaceAll(e.Type, "_", " ")
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Prior is a book-wide expectation of where something sits on the page.
type Prior struct {
	ID         string       `json:"id,omitempty"`
	Label      string       `json:"label,omitempty"`
	BBox       geometry.Box `json:"bbox"`
	Confidence float64      `json:"confidence"`
}

// BaselinePrior is the book-wide baseline grid estimate.
type BaselinePrior struct {
	SpacingPx  float64   `json:"spacingPx"`
	OffsetPx   float64   `json:"offsetPx"`
	AngleDeg   float64   `json:"angleDeg,omitempty"`
	Confidence float64   `json:"confidence"`
	Peaks      []float64 `json:"peaks,omitempty"`
}

// BookModel carries priors learned across the whole book.
type BookModel struct {
	TemplateID   string         `json:"templateId,omitempty"`
	Templates    []Prior        `json:"templates,omitempty"`
	Ornaments    []Prior        `json:"ornaments,omitempty"`
	RunningHeads []Prior        `json:"runningHeads,omitempty"`
	BaselineGrid *BaselinePrior `json:"baselineGrid,omitempty"`
}

// Sidecar is the pipeline's per-page record.
type Sidecar struct {
	PageID        string             `json:"pageId"`
	Normalization Normalization      `json:"normalization"`
	DPI           float64            `json:"dpi,omitempty"`
	Elements      []Element          `json:"elements,omitempty"`
	BookModel     *BookModel         `json:"bookModel,omitempty"`
	Guides        guides.GuideLayout `json:"guides,omitempty"`
	Overrides     *OverridePatch     `json:"overrides,omitempty"`
}

// Bounds returns the area boxes are clamped into: the page mask when known,
// otherwise the crop box.
func (s *Sidecar) Bounds() (geometry.Box, bool) {
	if m := s.Normalization.PageMask; m != nil && m.Valid() {
		return *m, true
	}
	if c := s.Normalization.CropBox; c != nil && c.Valid() {
		return *c, true
	}
	return geometry.Box{}, false
}

// Canvas returns the output-space page size. Crop box edges are inclusive,
// so the extent is one pixel more than the span.
func (s *Sidecar) Canvas() viewport.Dims {
	b := s.Normalization.CropBox
	if b == nil || !b.Valid() {
		b = s.Normalization.PageMask
	}
	if b == nil || !b.Valid() {
		return viewport.Dims{}
	}
	return viewport.Dims{Width: b.Width() + 1, Height: b.Height() + 1}
}

// OverlayScale returns the scale for drawing this page over a preview.
func (s *Sidecar) OverlayScale(preview *viewport.Dims) (viewport.Scale, bool) {
	return viewport.CalculateOverlayScale(s.Normalization.CropBox, preview)
}

// Validate rejects sidecars whose geometry cannot be edited.
func (s *Sidecar) Validate() error {
	boxes := []struct {
		name string
		box  *geometry.Box
	}{
		{"cropBox", s.Normalization.CropBox},
		{"trim", s.Normalization.Trim},
		{"pageMask", s.Normalization.PageMask},
	}
	for _, b := range boxes {
		if b.box != nil && !b.box.Valid() {
			return errors.New(errors.ErrCodeInvalidSidecar, "normalization.%s %v is not a valid box", b.name, *b.box)
		}
	}
	for i, e := range s.Elements {
		if !e.BBox.Valid() {
			return errors.New(errors.ErrCodeInvalidSidecar, "elements[%d] has invalid bbox %v", i, e.BBox)
		}
	}
	for _, layer := range s.Guides {
		for _, line := range layer.Guides {
			if line.Axis != geometry.AxisX && line.Axis != geometry.AxisY {
				return errors.New(errors.ErrCodeInvalidSidecar, "guide %s/%s has unknown axis %q", layer.ID, line.ID, line.Axis)
			}
		}
	}
	return nil
}

func (s *Sidecar) String() string {
	return fmt.Sprintf("sidecar(%s, %d elements, %d guide layers)", s.PageID, len(s.Elements), len(s.Guides))
}
