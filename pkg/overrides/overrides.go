// Package overrides applies partial reviewer overrides onto an auto-detected
// guide layout.
//
// Every override leaf is a tri-state [Field]: unset leaves the detected value
// alone, cleared explicitly reverts to the detected value, and set replaces
// it. [ApplyGuideOverrides] always starts from the original detected layout,
// so applying the same overrides twice gives the same result and an empty
// override set gives back the detected layout.
package overrides

// BaselineGrid overrides the baseline grid parameters.
type BaselineGrid struct {
	SpacingPx   Number `json:"spacingPx,omitzero"`
	OffsetPx    Number `json:"offsetPx,omitzero"`
	AngleDeg    Number `json:"angleDeg,omitzero"`
	SnapToPeaks Flag   `json:"snapToPeaks,omitzero"`
	MarkCorrect Flag   `json:"markCorrect,omitzero"`
}

// Margins overrides page margins. Each value is the inset from the matching
// canvas edge.
type Margins struct {
	TopPx    Number `json:"topPx,omitzero"`
	RightPx  Number `json:"rightPx,omitzero"`
	BottomPx Number `json:"bottomPx,omitzero"`
	LeftPx   Number `json:"leftPx,omitzero"`
}

// Columns overrides the text column block. LeftPx and RightPx are absolute
// x positions of the block edges.
type Columns struct {
	Count    Number `json:"count,omitzero"`
	LeftPx   Number `json:"leftPx,omitzero"`
	RightPx  Number `json:"rightPx,omitzero"`
	GutterPx Number `json:"gutterPx,omitzero"`
}

// Band overrides the start and end positions of a band.
type Band struct {
	StartPx Number `json:"startPx,omitzero"`
	EndPx   Number `json:"endPx,omitzero"`
}

// GuideOverrides is the partial override set for one page. A nil category
// carries no overrides.
type GuideOverrides struct {
	BaselineGrid *BaselineGrid `json:"baselineGrid,omitempty"`
	Margins      *Margins      `json:"margins,omitempty"`
	Columns      *Columns      `json:"columns,omitempty"`
	HeaderBand   *Band         `json:"headerBand,omitempty"`
	FooterBand   *Band         `json:"footerBand,omitempty"`
	GutterBand   *Band         `json:"gutterBand,omitempty"`
}

// IsEmpty reports whether no leaf is set or cleared.
func (o *GuideOverrides) IsEmpty() bool {
	if o == nil {
		return true
	}
	if g := o.BaselineGrid; g != nil {
		if !g.SpacingPx.IsZero() || !g.OffsetPx.IsZero() || !g.AngleDeg.IsZero() ||
			!g.SnapToPeaks.IsZero() || !g.MarkCorrect.IsZero() {
			return false
		}
	}
	if m := o.Margins; m != nil {
		if !m.TopPx.IsZero() || !m.RightPx.IsZero() || !m.BottomPx.IsZero() || !m.LeftPx.IsZero() {
			return false
		}
	}
	if c := o.Columns; c != nil {
		if !c.Count.IsZero() || !c.LeftPx.IsZero() || !c.RightPx.IsZero() || !c.GutterPx.IsZero() {
			return false
		}
	}
	for _, b := range []*Band{o.HeaderBand, o.FooterBand, o.GutterBand} {
		if b != nil && (!b.StartPx.IsZero() || !b.EndPx.IsZero()) {
			return false
		}
	}
	return true
}

// Merge layers patch on top of base. A leaf set or cleared in patch wins; an
// unset leaf keeps the base leaf. Neither input is modified.
func Merge(base, patch *GuideOverrides) *GuideOverrides {
	if base == nil && patch == nil {
		return nil
	}
	var b, p GuideOverrides
	if base != nil {
		b = *base
	}
	if patch != nil {
		p = *patch
	}
	return &GuideOverrides{
		BaselineGrid: mergeBaseline(b.BaselineGrid, p.BaselineGrid),
		Margins:      mergeMargins(b.Margins, p.Margins),
		Columns:      mergeColumns(b.Columns, p.Columns),
		HeaderBand:   mergeBand(b.HeaderBand, p.HeaderBand),
		FooterBand:   mergeBand(b.FooterBand, p.FooterBand),
		GutterBand:   mergeBand(b.GutterBand, p.GutterBand),
	}
}

func mergeBaseline(base, patch *BaselineGrid) *BaselineGrid {
	if base == nil && patch == nil {
		return nil
	}
	var b, p BaselineGrid
	if base != nil {
		b = *base
	}
	if patch != nil {
		p = *patch
	}
	return &BaselineGrid{
		SpacingPx:   p.SpacingPx.Over(b.SpacingPx),
		OffsetPx:    p.OffsetPx.Over(b.OffsetPx),
		AngleDeg:    p.AngleDeg.Over(b.AngleDeg),
		SnapToPeaks: p.SnapToPeaks.Over(b.SnapToPeaks),
		MarkCorrect: p.MarkCorrect.Over(b.MarkCorrect),
	}
}

func mergeMargins(base, patch *Margins) *Margins {
	if base == nil && patch == nil {
		return nil
	}
	var b, p Margins
	if base != nil {
		b = *base
	}
	if patch != nil {
		p = *patch
	}
	return &Margins{
		TopPx:    p.TopPx.Over(b.TopPx),
		RightPx:  p.RightPx.Over(b.RightPx),
		BottomPx: p.BottomPx.Over(b.BottomPx),
		LeftPx:   p.LeftPx.Over(b.LeftPx),
	}
}

func mergeColumns(base, patch *Columns) *Columns {
	if base == nil && patch == nil {
		return nil
	}
	var b, p Columns
	if base != nil {
		b = *base
	}
	if patch != nil {
		p = *patch
	}
	return &Columns{
		Count:    p.Count.Over(b.Count),
		LeftPx:   p.LeftPx.Over(b.LeftPx),
		RightPx:  p.RightPx.Over(b.RightPx),
		GutterPx: p.GutterPx.Over(b.GutterPx),
	}
}

func mergeBand(base, patch *Band) *Band {
	if base == nil && patch == nil {
		return nil
	}
	var b, p Band
	if base != nil {
		b = *base
	}
	if patch != nil {
		p = *patch
	}
	return &Band{
		StartPx: p.StartPx.Over(b.StartPx),
		EndPx:   p.EndPx.Over(b.EndPx),
	}
}
