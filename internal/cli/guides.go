package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asteria/pagereview/pkg/errors"
	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/guides"
	"github.com/asteria/pagereview/pkg/review"
)

type guidesOpts struct {
	patch  string  // extra override patch layered on the saved overrides
	zoom   float64 // viewport zoom, scales stroke widths
	solo   string  // show only this group
	active string  // guide id to highlight
	lines  bool    // list every line, not only layer totals
	json   bool
}

// guidesCommand creates the guides command, which prints the effective guide
// layers of a page after overrides and visibility rules.
func (c *CLI) guidesCommand() *cobra.Command {
	opts := guidesOpts{zoom: 1}

	cmd := &cobra.Command{
		Use:   "guides [sidecar]",
		Short: "Render the visible guide layers of a page",
		Long: `Guides applies the page's saved guide overrides (and --patch, if given)
to the detected layout, then filters layers through the configured
layer and group visibility and prints what an overlay would draw.`,
		Example: `  pagereview guides page-0042.json
  pagereview guides page-0042.json --patch margins.json --solo structural --lines`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGuides(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.patch, "patch", "", "override patch file to layer on top of saved overrides")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", opts.zoom, "viewport zoom")
	cmd.Flags().StringVar(&opts.solo, "solo", "", "show only one group: structural, detected, diagnostic")
	cmd.Flags().StringVar(&opts.active, "active", "", "guide id to highlight")
	cmd.Flags().BoolVar(&opts.lines, "lines", false, "list every line")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print rendered layers as JSON")
	completeGroup(cmd)

	return cmd
}

func (c *CLI) runGuides(path string, opts guidesOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	sc, err := c.loadSidecar(path)
	if err != nil {
		return err
	}
	layout, err := c.effectiveLayout(sc, opts.patch)
	if err != nil {
		return err
	}

	ro := cfg.RenderOptions()
	ro.Zoom = opts.zoom
	canvas := sc.Canvas()
	ro.CanvasWidth, ro.CanvasHeight = canvas.Width, canvas.Height
	ro.ActiveGuideID = opts.active
	if opts.solo != "" {
		g, ok := guides.ParseGroup(opts.solo)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "unknown group %q", opts.solo)
		}
		ro.SoloGroup = g
	}

	rendered := guides.RenderGuideLayers(layout, ro)
	if opts.json {
		return c.printJSON(rendered)
	}

	if len(rendered) == 0 {
		c.printWarning("No visible guide layers on %s", sc.PageID)
		return nil
	}
	c.printSuccess("%s: %s visible", sc.PageID, plural(len(rendered), "layer", "layers"))
	total := 0
	for _, l := range rendered {
		total += len(l.Lines)
		c.printKeyValue(l.ID, fmt.Sprintf("%s · %s · opacity %.2f", l.Group, plural(len(l.Lines), "line", "lines"), l.Opacity))
		if !opts.lines {
			continue
		}
		for _, rl := range l.Lines {
			c.printItem(describeLine(rl))
		}
	}
	c.printStats([]string{plural(total, "line", "lines"), fmt.Sprintf("zoom %g", ro.Zoom)}, false)
	return nil
}

// effectiveLayout applies the saved overrides, then the optional patch file,
// to the sidecar's detected layout.
func (c *CLI) effectiveLayout(sc *review.Sidecar, patchPath string) (guides.GuideLayout, error) {
	draft := review.NewDraft(sc)
	if patchPath != "" {
		patch, err := review.LoadPatch(patchPath)
		if err != nil {
			return nil, err
		}
		draft.UpdateGuides(patch.Guides)
		c.Logger.Debug("patch applied", "path", patchPath, "dirty", draft.Dirty())
	}
	return draft.Layout(sc.Guides), nil
}

func describeLine(rl guides.RenderedLine) string {
	g := rl.Guide
	s := fmt.Sprintf("%s %s=%g %s/%s", g.ID, g.Axis, g.Position, g.Kind, g.Source)
	if g.Role != "" {
		s += " " + g.Role
	}
	if g.Axis == geometry.AxisY && g.AngleDeg != 0 {
		s += fmt.Sprintf(" %g°", g.AngleDeg)
	}
	if rl.Dashed {
		s += " dashed"
	}
	if rl.Active {
		s += " " + StyleHighlight.Render("active")
	}
	return s
}
