package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asteria/pagereview/pkg/errors"
	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/review"
	"github.com/asteria/pagereview/pkg/snap"
)

// snapOpts holds the command-line flags for the snap command.
type snapOpts struct {
	handle  string  // drag handle: left, top-right, ...
	dx, dy  float64 // drag delta in output pixels
	target  string  // crop or trim
	noSnap  bool    // bypass snapping as if the modifier were held
	toPrior bool    // finish by snapping to the book's template prior
	json    bool
}

// snapResult is the JSON form of a snapped drag.
type snapResult struct {
	PageID  string       `json:"pageId"`
	Target  string       `json:"target"`
	Handle  string       `json:"handle"`
	Start   geometry.Box `json:"start"`
	Raw     geometry.Box `json:"raw"`
	Box     geometry.Box `json:"box"`
	Tooltip string       `json:"tooltip,omitempty"`
	Matches []snapMatch  `json:"matches,omitempty"`
}

type snapMatch struct {
	Edge     geometry.Edge `json:"edge"`
	Source   string        `json:"source"`
	Label    string        `json:"label,omitempty"`
	Value    float64       `json:"value"`
	Distance float64       `json:"distance"`
	Score    float64       `json:"score"`
}

// snapCommand creates the snap command, which replays one handle drag against
// a page's snap sources.
func (c *CLI) snapCommand() *cobra.Command {
	opts := snapOpts{handle: string(geometry.HandleRight), target: string(review.TargetCrop)}

	cmd := &cobra.Command{
		Use:   "snap [sidecar]",
		Short: "Drag a box handle and snap it to template, detected, baseline and user guides",
		Long: `Snap moves one handle of the page's crop or trim box by (dx, dy) output
pixels and snaps the affected edges to the strongest nearby candidate.
Candidates come from the book model (template), detected elements,
baseline peaks and user guides, ranked by source priority.`,
		Example: `  pagereview snap page-0042.json --handle right --dx -20
  pagereview snap page-0042.json --handle top-left --dx 6 --dy 4 --target trim --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSnap(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.handle, "handle", opts.handle, "handle to drag: left, right, top, bottom, top-left, top-right, bottom-left, bottom-right")
	cmd.Flags().Float64Var(&opts.dx, "dx", 0, "horizontal drag in output pixels")
	cmd.Flags().Float64Var(&opts.dy, "dy", 0, "vertical drag in output pixels")
	cmd.Flags().StringVar(&opts.target, "target", opts.target, "box to drag: crop or trim")
	cmd.Flags().BoolVar(&opts.noSnap, "no-snap", false, "move the handle without snapping")
	cmd.Flags().BoolVar(&opts.toPrior, "prior", false, "snap the result to the template prior when close")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	completeHandle(cmd)
	completeTarget(cmd)

	return cmd
}

func (c *CLI) runSnap(path string, opts snapOpts) error {
	h, ok := geometry.ParseHandle(opts.handle)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown handle %q", opts.handle)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	sc, err := c.loadSidecar(path)
	if err != nil {
		return err
	}

	draft := review.NewDraft(sc)
	target := review.Target(opts.target)
	var start geometry.Box
	switch target {
	case review.TargetCrop:
		start, ok = draft.CropBox()
	case review.TargetTrim:
		start, ok = draft.TrimBox()
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown target %q (want crop or trim)", opts.target)
	}
	if !ok {
		return errors.New(errors.ErrCodeInvalidSidecar, "page %s has no %s box", sc.PageID, target)
	}

	raw := geometry.ApplyHandleDrag(start, h, opts.dx, opts.dy)
	res := snap.Result{Box: raw}
	sources := review.SnapSources(sc, draft.Layout(sc.Guides), cfg.Snap.Sources)
	if cfg.Snap.Enabled && !opts.noSnap {
		res = snap.SnapBoxWithSources(raw, geometry.EdgesForHandle(h), sources)
	}
	c.Logger.Debug("snap", "page", sc.PageID, "sources", len(sources), "matches", len(res.Matches))

	box := res.Box
	if opts.toPrior {
		if prior, ok := templatePrior(sc); ok {
			box = geometry.SnapBoxToPrior(prior, box, cfg.Box.PriorThreshold)
		} else {
			c.Logger.Warn("no template prior on page", "page", sc.PageID)
		}
	}
	if bounds, ok := sc.Bounds(); ok {
		box = geometry.ClampBox(box, bounds, cfg.Box.MinSize)
	}

	out := snapResult{
		PageID:  sc.PageID,
		Target:  string(target),
		Handle:  string(h),
		Start:   start,
		Raw:     raw,
		Box:     box,
		Tooltip: res.Tooltip,
	}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, snapMatch{
			Edge:     m.Edge,
			Source:   m.SourceID,
			Label:    m.Candidate.Label,
			Value:    m.Candidate.Value,
			Distance: m.Distance,
			Score:    m.Score,
		})
	}
	if opts.json {
		return c.printJSON(out)
	}

	if len(out.Matches) > 0 {
		c.printSuccess("%s box %s snapped", target, h)
	} else {
		c.printInfo("%s box %s moved", target, h)
	}
	c.printKeyValue("start", start.String())
	c.printKeyValue("raw", raw.String())
	c.printKeyValue("box", StyleHighlight.Render(box.String()))
	if out.Tooltip != "" {
		c.printKeyValue("tooltip", out.Tooltip)
	}
	for _, m := range out.Matches {
		c.printItem(fmt.Sprintf("%s → %s %q at %g (d=%.2f, score=%.3f)", m.Edge, m.Source, m.Label, m.Value, m.Distance, m.Score))
	}
	c.printStats([]string{plural(len(sources), "source", "sources"), plural(len(out.Matches), "match", "matches")}, len(out.Matches) > 0)
	return nil
}

// templatePrior returns the page's first template prior.
func templatePrior(sc *review.Sidecar) (geometry.Box, bool) {
	if sc.BookModel == nil {
		return geometry.Box{}, false
	}
	for _, p := range sc.BookModel.Templates {
		if p.BBox.Valid() {
			return p.BBox, true
		}
	}
	return geometry.Box{}, false
}
