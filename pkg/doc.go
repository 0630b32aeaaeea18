// Package pkg provides the libraries behind pagereview, the overlay editor
// for reviewing normalized book scans.
//
// # Overview
//
// A normalization run produces one sidecar per page: crop and trim boxes,
// detected elements, a book-wide model of where things usually sit, and a
// layout of guide lines. A reviewer corrects pages by dragging boxes and
// guides over a preview. The pkg directory is organized into three areas:
//
//  1. Pure geometry - boxes, coordinate mapping, guides, overrides, snapping
//     and template scopes. No I/O, no logging, no retained state.
//  2. Review - sidecars, drafts, pointer-driven drag sessions and scoped
//     application of override patches.
//  3. Infrastructure - configuration, coded errors, observability hooks and
//     the file-backed patch store.
//
// # Architecture
//
// The typical flow of one edit:
//
//	sidecar + preview
//	       ↓
//	  [viewport] map pointer events into output pixels
//	       ↓
//	  [review] DragSession → [geometry] handle drag → [snap] sources → clamp
//	       ↓
//	  [review] Draft.Patch (only changed fields)
//	       ↓
//	  [templates] resolve page / section / template scope
//	       ↓
//	  [review] ApplyScoped → [store] one patch file per page
//
// # Quick Start
//
// Snap a dragged crop edge the way the overlay does:
//
//	sc, _ := review.LoadSidecar("page-0042.json")
//	draft := review.NewDraft(sc)
//	sources := review.SnapSources(sc, draft.Layout(sc.Guides), nil)
//
//	crop, _ := draft.CropBox()
//	raw := geometry.ApplyHandleDrag(crop, geometry.HandleRight, -20, 0)
//	res := snap.SnapBoxWithSources(raw, geometry.EdgesForHandle(geometry.HandleRight), sources)
//	fmt.Println(res.Box, res.Tooltip)
//
// # Main Packages
//
// ## Pure Geometry
//
// [geometry] - Boxes in output pixels, drag handles and their edges,
// clamping to page bounds with a minimum size, snapping to a prior.
//
// [viewport] - Overlay scale between output and preview pixels, and the
// mapping from on-screen pointer positions back into output space.
//
// [guides] - Guide lines and layers, the layer registry with its groups,
// visibility filtering for rendering, and zoom-aware hit testing.
//
// [overrides] - Tri-state override fields (unset, cleared, set) and the
// engine that regenerates margins, columns, bands and the baseline grid.
//
// [snap] - Prioritized snap sources and the ranking that picks one
// candidate per dragged edge.
//
// [templates] - Template keys, section and template scopes, and per-template
// summaries of the review queue.
//
// ## Review
//
// [review] - Sidecar and queue decoding, drafts, the drag state machine and
// partial-failure tolerant application of a patch across a scope.
//
// ## Infrastructure
//
// [store] - File-backed patch store keyed by run and page, plus the
// training-signal log for broad-scope edits.
//
// [config] - TOML configuration for box, hit, snap and layer settings.
//
// [errors] - Coded errors and id validation.
//
// [observability] - Hook registry for drag, apply and store events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/snap/...       # Specific package
//	go test -run Example ./...   # Examples only
//
// [geometry]: https://pkg.go.dev/github.com/asteria/pagereview/pkg/geometry
// [viewport]: https://pkg.go.dev/github.com/asteria/pagereview/pkg/viewport
// [guides]: https://pkg.go.dev/github.com/asteria/pagereview/pkg/guides
// [overrides]: https://pkg.go.dev/github.com/asteria/pagereview/pkg/overrides
// [snap]: https://pkg.go.dev/github.com/asteria/pagereview/pkg/snap
// [templates]: https://pkg.go.dev/github.com/asteria/pagereview/pkg/templates
// [review]: https://pkg.go.dev/github.com/asteria/pagereview/pkg/review
// [store]: https://pkg.go.dev/github.com/asteria/pagereview/pkg/store
// [config]: https://pkg.go.dev/github.com/asteria/pagereview/pkg/config
// [errors]: https://pkg.go.dev/github.com/asteria/pagereview/pkg/errors
// [observability]: https://pkg.go.dev/github.com/asteria/pagereview/pkg/observability
package pkg
