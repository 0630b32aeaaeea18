// Package templates groups review pages into layout templates and resolves
// how far an edit propagates.
//
// A template key is the page's layout profile when the pipeline assigned one.
// Pages without a profile are bucketed by their normalized review reason under
// a "reason:" prefix so they never merge with a real profile or with each
// other when their reasons differ.
//
// Sections are maximal contiguous runs of the same key in queue order. They
// are only meaningful while the queue is in document order; a reordered or
// filtered queue yields arbitrary sections.
//
// [BuildTemplateSummaries] aggregates confidence and issue statistics per
// template for reviewer feedback, and [RepresentativePages] picks up to three
// pages worth inspecting from a group.
package templates
