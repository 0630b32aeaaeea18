// Package snap resolves dragged box edges and guide lines against several
// prioritized sources of alignment candidates.
//
// A [Source] is a provider such as book-wide templates, per-page detections,
// baseline priors or user guides. Each source has a priority, a weight, a
// minimum confidence and a search radius. For every edge being dragged, the
// engine collects the in-radius candidates on that edge's axis and picks a
// winner by, in order:
//
//  1. highest source priority
//  2. highest weight × confidence / (1 + distance)
//  3. smallest distance
//  4. smallest source id
//
// The winning value replaces the edge. Edges without a candidate keep their
// dragged position. Results are not clamped; run them through
// geometry.ClampBox.
//
// Turning snapping off is the caller's decision: skip the engine and use the
// raw dragged box.
package snap
