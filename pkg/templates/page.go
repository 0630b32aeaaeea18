package templates

import "strings"

// Preview kinds produced by the pipeline.
const (
	PreviewSource     = "source"
	PreviewNormalized = "normalized"
	PreviewOverlay    = "overlay"
)

// PreviewRef points at one rendered preview image of a page.
type PreviewRef struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ReviewPage is one entry of the review queue. It is read-only here.
type ReviewPage struct {
	ID            string       `json:"id"`
	Filename      string       `json:"filename"`
	LayoutProfile string       `json:"layoutProfile,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Confidence    float64      `json:"confidence"`
	Previews      []PreviewRef `json:"previews,omitempty"`
	Issues        []string     `json:"issues,omitempty"`
}

// Preview returns the first preview of the given kind.
func (p ReviewPage) Preview(kind string) (PreviewRef, bool) {
	for _, ref := range p.Previews {
		if ref.Kind == kind {
			return ref, true
		}
	}
	return PreviewRef{}, false
}

// HasOverlay reports whether an overlay preview was rendered for the page.
func (p ReviewPage) HasOverlay() bool {
	ref, ok := p.Preview(PreviewOverlay)
	return ok && ref.Path != ""
}

// ReasonPrefix marks keys derived from a review reason rather than a profile.
const ReasonPrefix = "reason:"

// profilePrefix escapes layout profiles that would otherwise read as a
// reason key or as an escaped profile.
const profilePrefix = "profile:"

const unknownReason = "unspecified"

// TemplateKey returns the bucket a page belongs to. Distinct profiles and
// reasons always map to distinct keys.
func TemplateKey(p ReviewPage) string {
	if profile := strings.TrimSpace(p.LayoutProfile); profile != "" {
		if strings.HasPrefix(profile, ReasonPrefix) || strings.HasPrefix(profile, profilePrefix) {
			return profilePrefix + profile
		}
		return profile
	}
	reason := strings.Join(strings.Fields(strings.ToLower(p.Reason)), "-")
	if reason == "" {
		reason = unknownReason
	}
	return ReasonPrefix + reason
}

// IsReasonKey reports whether key was derived from a review reason.
func IsReasonKey(key string) bool {
	return strings.HasPrefix(key, ReasonPrefix)
}

// KeyLabel returns a display label for a template key.
func KeyLabel(key string) string {
	if IsReasonKey(key) {
		return "Reason: " + strings.ReplaceAll(strings.TrimPrefix(key, ReasonPrefix), "-", " ")
	}
	return strings.TrimPrefix(key, profilePrefix)
}

// IndexOf returns the queue index of the page with the given id, or -1.
func IndexOf(pages []ReviewPage, id string) int {
	for i, p := range pages {
		if p.ID == id {
			return i
		}
	}
	return -1
}
