package cli

import (
	"github.com/spf13/cobra"

	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/guides"
	"github.com/asteria/pagereview/pkg/review"
	"github.com/asteria/pagereview/pkg/viewport"
)

type hitOpts struct {
	x, y  float64 // output-space point
	zoom  float64
	patch string
	json  bool
}

// hitResult is the JSON form of a hit test. Guide is nil on a miss.
type hitResult struct {
	PageID    string            `json:"pageId"`
	Point     viewport.Point    `json:"point"`
	Tolerance float64           `json:"tolerance"`
	LayerID   string            `json:"layerId,omitempty"`
	Guide     *guides.GuideLine `json:"guide,omitempty"`
	Distance  float64           `json:"distance,omitempty"`
	Handle    geometry.Handle   `json:"handle,omitempty"`
}

// hitCommand creates the hit command, which reports which editable guide or
// crop handle a pointer at (x, y) would grab.
func (c *CLI) hitCommand() *cobra.Command {
	opts := hitOpts{zoom: 1}

	cmd := &cobra.Command{
		Use:   "hit [sidecar]",
		Short: "Hit-test editable guides and crop handles at an output point",
		Example: `  pagereview hit page-0042.json --x 120 --y 40
  pagereview hit page-0042.json --x 120 --y 40 --zoom 2 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHit(args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.x, "x", 0, "x in output pixels")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "y in output pixels")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", opts.zoom, "viewport zoom")
	cmd.Flags().StringVar(&opts.patch, "patch", "", "override patch file to layer on top of saved overrides")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) runHit(path string, opts hitOpts) error {
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

	p := viewport.Point{X: opts.x, Y: opts.y}
	tol := cfg.HitParams().Tolerance(opts.zoom)
	res := hitResult{PageID: sc.PageID, Point: p, Tolerance: tol}
	if hit, ok := guides.HitTestWithin(p, layout, tol); ok {
		res.LayerID = hit.LayerID
		res.Guide = &hit.Guide
		res.Distance = hit.Distance
	} else if crop, ok := review.NewDraft(sc).CropBox(); ok {
		res.Handle, _ = geometry.HandleAt(crop, p.X, p.Y, tol)
	}
	if opts.json {
		return c.printJSON(res)
	}

	switch {
	case res.Guide != nil:
		c.printSuccess("Hit %s in %s", res.Guide.ID, res.LayerID)
		c.printKeyValue("position", StyleNumber.Render(formatFloat(res.Guide.Position)))
		c.printKeyValue("distance", formatFloat(res.Distance))
	case res.Handle != "":
		c.printSuccess("Hit crop handle %s", res.Handle)
	default:
		c.printInfo("Nothing within %spx of (%g, %g)", formatFloat(tol), p.X, p.Y)
	}
	c.printDetail("tolerance %spx at zoom %g", formatFloat(tol), opts.zoom)
	return nil
}
