// Package review holds the per-page editing state that sits between the
// pipeline's sidecar output and the persisted override patches.
//
// # Lifecycle
//
// When the reviewer selects a page, a [Draft] is reset from the page's
// [Sidecar]: the crop and trim boxes and any previously saved guide overrides
// become the baseline. Pointer gestures run through a [Controller], which
// implements the [PointerInput] port and advances an explicit [DragSession]
// value on every move. Committed gestures update the draft. Nothing is written
// until the reviewer applies the draft, at which point [ApplyScoped] submits
// the [OverridePatch] once per page in the chosen scope.
//
// # Partial failure
//
// Scoped application never stops at the first failing page. Each target
// yields an [Outcome]; [Summarize] condenses them into a [BatchSummary] whose
// Message names the failure count, the first error and how many others
// followed.
package review
