package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/asteria/pagereview/pkg/errors"
	"github.com/asteria/pagereview/pkg/review"
	"github.com/asteria/pagereview/pkg/templates"
)

type applyOpts struct {
	page     string
	scope    string
	run      string
	storeDir string
	noSignal bool
}

// applyCommand creates the apply command, which writes one override patch to
// every page in the chosen scope.
func (c *CLI) applyCommand() *cobra.Command {
	opts := applyOpts{scope: string(templates.ScopePage)}

	cmd := &cobra.Command{
		Use:   "apply [queue] [patch]",
		Short: "Apply an override patch to a page, its section, or its template",
		Long: `Apply merges the patch into the stored overrides of every page the scope
reaches. Pages are applied independently: a failure on one page is
reported and the rest of the scope is still applied. Section and template
edits are also recorded as training signals.`,
		Example: `  pagereview apply queue.json crop.json --page p-0042
  pagereview apply queue.json margins.json --page p-0042 --scope template`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApply(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.page, "page", "", "page id the edit was made on (required)")
	cmd.Flags().StringVar(&opts.scope, "scope", opts.scope, "page, section or template")
	cmd.Flags().StringVar(&opts.run, "run", "", "run id (default: the queue's run id)")
	cmd.Flags().StringVar(&opts.storeDir, "store", "", "override store directory")
	cmd.Flags().BoolVar(&opts.noSignal, "no-signal", false, "do not record a training signal")
	completeScope(cmd)
	_ = cmd.MarkFlagRequired("page")

	return cmd
}

func (c *CLI) runApply(ctx context.Context, queuePath, patchPath string, opts applyOpts) error {
	scope, err := templates.ParseScope(opts.scope)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	q, err := review.LoadQueue(queuePath)
	if err != nil {
		return err
	}
	patch, err := review.LoadPatch(patchPath)
	if err != nil {
		return err
	}
	idx, targets, err := resolveTargets(q, opts.page, scope)
	if err != nil {
		return err
	}
	st, err := c.openStore(cfg, opts.storeDir)
	if err != nil {
		return err
	}

	aopts := review.ApplyOptions{
		Scope:  scope,
		Source: q.Pages[idx],
		Logger: c.Logger,
	}
	if !opts.noSignal {
		aopts.Sink = st
	}

	runID := runIDFor(opts.run, q)
	prog := newProgress(c.Logger)
	var sp *spinner
	if scope.Broad() && c.Out == nil {
		sp = newSpinner(ctx, os.Stderr, "Applying to "+plural(len(targets), "page", "pages"))
		sp.Start()
	}
	outcomes, err := review.ApplyScoped(ctx, st, runID, targets, patch, aopts)
	if sp != nil {
		sp.Stop()
	}
	if outcomes == nil && err != nil {
		return err
	}
	summary := review.Summarize(outcomes)
	prog.done(summary.Message())

	if summary.Failed == 0 {
		c.printSuccess("%s", summary.Message())
	} else {
		c.printError("%s", summary.Message())
		for _, o := range outcomes {
			if !o.OK() {
				c.printDetail("%s: %s", o.PageID, errors.UserMessage(o.Err))
			}
		}
	}
	c.printDetail("Store: %s", st.Path())
	if err != nil {
		// the pages were applied but the signal was not recorded
		c.printWarning("%s", errors.UserMessage(err))
		return err
	}
	if summary.Failed > 0 {
		return errors.New(errors.ErrCodeInternal, "apply incomplete for run %s", runID)
	}
	return nil
}
