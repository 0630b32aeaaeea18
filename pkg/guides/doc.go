// Package guides models alignment guide lines and the layers that group them.
//
// A [GuideLayout] is an ordered list of [GuideLayer] values, produced fresh by
// the detection backend for each page. Every line is positioned in output
// pixels on one axis. Layers are catalogued in a fixed registry that assigns
// each layer id to a [Group] (structural, detected or diagnostic) with a
// default visibility.
//
// [RenderGuideLayers] projects a layout into the lines to draw for the current
// visibility and opacity settings. [HitTestGuides] finds the editable line
// closest to a pointer. Neither function modifies the layout it is given.
package guides
