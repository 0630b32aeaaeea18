// Package geometry provides pure operations on axis-aligned boxes in
// output-pixel space.
//
// A [Box] is described by its four edges. The functions in this package never
// fail: reversed edges are reordered, non-finite coordinates fall back to the
// bounds, and the result of [ClampBox] always lies inside the bounds it was
// given.
//
// Drag handling is split in two steps so callers can insert snapping in
// between:
//
//	raw := geometry.ApplyHandleDrag(start, geometry.HandleRight, dx, dy)
//	// optional: snapped := snap.SnapBoxWithSources(raw, ...)
//	box := geometry.ClampBox(raw, bounds, geometry.DefaultMinSize)
package geometry
