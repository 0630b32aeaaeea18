package templates

import (
	"github.com/asteria/pagereview/pkg/errors"
)

// Scope is how broadly an edit applies.
type Scope string

const (
	ScopePage     Scope = "page"
	ScopeSection  Scope = "section"
	ScopeTemplate Scope = "template"
)

// Scopes lists the supported scopes, narrowest first.
var Scopes = []Scope{ScopePage, ScopeSection, ScopeTemplate}

// ParseScope returns the scope named s.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(s); sc {
	case ScopePage, ScopeSection, ScopeTemplate:
		return sc, nil
	}
	return "", errors.New(errors.ErrCodeInvalidScope, "unknown scope %q (want page, section or template)", s)
}

// Broad reports whether the scope can reach more than the current page.
func (s Scope) Broad() bool {
	return s == ScopeSection || s == ScopeTemplate
}

// TemplatePages returns every page in the queue whose key equals key, in
// queue order.
func TemplatePages(pages []ReviewPage, key string) []ReviewPage {
	var out []ReviewPage
	for _, p := range pages {
		if TemplateKey(p) == key {
			out = append(out, p)
		}
	}
	return out
}

// SectionRange returns the half-open index range [start, end) of the
// contiguous run sharing the key of pages[index].
func SectionRange(pages []ReviewPage, index int) (start, end int, ok bool) {
	if index < 0 || index >= len(pages) {
		return 0, 0, false
	}
	key := TemplateKey(pages[index])
	start, end = index, index+1
	for start > 0 && TemplateKey(pages[start-1]) == key {
		start--
	}
	for end < len(pages) && TemplateKey(pages[end]) == key {
		end++
	}
	return start, end, true
}

// SectionPages returns the contiguous run around index sharing its key, or
// nil when index is out of range.
func SectionPages(pages []ReviewPage, index int) []ReviewPage {
	start, end, ok := SectionRange(pages, index)
	if !ok {
		return nil
	}
	return append([]ReviewPage(nil), pages[start:end]...)
}

// ResolveScope returns the pages an edit on pages[index] applies to.
func ResolveScope(pages []ReviewPage, index int, scope Scope) ([]ReviewPage, error) {
	if index < 0 || index >= len(pages) {
		return nil, errors.New(errors.ErrCodePageNotFound, "page index %d out of range (queue has %d pages)", index, len(pages))
	}
	switch scope {
	case ScopePage:
		return []ReviewPage{pages[index]}, nil
	case ScopeSection:
		return SectionPages(pages, index), nil
	case ScopeTemplate:
		return TemplatePages(pages, TemplateKey(pages[index])), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidScope, "unknown scope %q", scope)
}

// PageIDs returns the ids of pages in order.
func PageIDs(pages []ReviewPage) []string {
	ids := make([]string, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
	}
	return ids
}
