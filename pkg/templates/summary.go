package templates

import (
	"cmp"
	"math"
	"slices"
)

// MaxIssues is how many issue codes a summary keeps.
const MaxIssues = 3

// IssueCount is one issue code and the number of pages reporting it.
type IssueCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// TemplateSummary aggregates the pages of one template.
type TemplateSummary struct {
	ID                string       `json:"id"`
	Label             string       `json:"label"`
	Pages             []ReviewPage `json:"pages"`
	AverageConfidence float64      `json:"averageConfidence"`
	MinConfidence     float64      `json:"minConfidence"`
	IssueSummary      []IssueCount `json:"issueSummary"`
	// GuideCoverage is the fraction of pages with an overlay preview.
	GuideCoverage float64 `json:"guideCoverage"`
}

// BuildTemplateSummaries groups pages by template key. Groups are ordered by
// size, largest first; equal sizes keep first-appearance order.
func BuildTemplateSummaries(pages []ReviewPage) []TemplateSummary {
	var order []string
	groups := make(map[string][]ReviewPage)
	for _, p := range pages {
		key := TemplateKey(p)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}

	out := make([]TemplateSummary, 0, len(order))
	for _, key := range order {
		out = append(out, summarize(key, groups[key]))
	}
	slices.SortStableFunc(out, func(a, b TemplateSummary) int {
		return cmp.Compare(len(b.Pages), len(a.Pages))
	})
	return out
}

func summarize(key string, pages []ReviewPage) TemplateSummary {
	s := TemplateSummary{
		ID:            key,
		Label:         KeyLabel(key),
		Pages:         pages,
		MinConfidence: math.Inf(1),
	}

	var sum float64
	var scored, covered int
	counts := make(map[string]int)
	var codes []string
	for _, p := range pages {
		if p.HasOverlay() {
			covered++
		}
		if !math.IsNaN(p.Confidence) && !math.IsInf(p.Confidence, 0) {
			sum += p.Confidence
			scored++
			s.MinConfidence = min(s.MinConfidence, p.Confidence)
		}
		for _, code := range p.Issues {
			if counts[code] == 0 {
				codes = append(codes, code)
			}
			counts[code]++
		}
	}
	if scored > 0 {
		s.AverageConfidence = sum / float64(scored)
	} else {
		s.MinConfidence = 0
	}
	if len(pages) > 0 {
		s.GuideCoverage = float64(covered) / float64(len(pages))
	}

	// first-seen order breaks count ties
	slices.SortStableFunc(codes, func(a, b string) int {
		return cmp.Compare(counts[b], counts[a])
	})
	for _, code := range codes[:min(len(codes), MaxIssues)] {
		s.IssueSummary = append(s.IssueSummary, IssueCount{Code: code, Count: counts[code]})
	}
	return s
}

// RepresentativePages returns the lowest, median and highest confidence
// pages of a group with more than three members, or all members otherwise.
func RepresentativePages(s TemplateSummary) []ReviewPage {
	if len(s.Pages) <= 3 {
		return append([]ReviewPage(nil), s.Pages...)
	}
	sorted := slices.Clone(s.Pages)
	slices.SortStableFunc(sorted, func(a, b ReviewPage) int {
		return cmp.Compare(a.Confidence, b.Confidence)
	})
	return []ReviewPage{sorted[0], sorted[len(sorted)/2], sorted[len(sorted)-1]}
}
