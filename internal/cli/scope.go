package cli

import (
	"github.com/spf13/cobra"

	"github.com/asteria/pagereview/pkg/errors"
	"github.com/asteria/pagereview/pkg/review"
	"github.com/asteria/pagereview/pkg/templates"
)

type scopeOpts struct {
	page  string
	scope string
	json  bool
}

// scopeResult is the JSON form of a resolved scope.
type scopeResult struct {
	PageID   string   `json:"pageId"`
	Scope    string   `json:"scope"`
	Template string   `json:"template"`
	Pages    []string `json:"pages"`
}

// scopeCommand creates the scope command, which lists the pages an edit on
// one page would reach.
func (c *CLI) scopeCommand() *cobra.Command {
	opts := scopeOpts{scope: string(templates.ScopePage)}

	cmd := &cobra.Command{
		Use:   "scope [queue]",
		Short: "List the pages a page, section or template edit would reach",
		Long: `Scope resolves the target pages for an edit made on --page. A section is
the run of consecutive queue pages sharing the page's template key; a
template is every page with that key, wherever it sits in the queue.`,
		Example: `  pagereview scope queue.json --page p-0042 --scope section`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScope(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.page, "page", "", "page id the edit is made on (required)")
	cmd.Flags().StringVar(&opts.scope, "scope", opts.scope, "page, section or template")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	completeScope(cmd)
	_ = cmd.MarkFlagRequired("page")

	return cmd
}

func (c *CLI) runScope(path string, opts scopeOpts) error {
	scope, err := templates.ParseScope(opts.scope)
	if err != nil {
		return err
	}
	q, err := review.LoadQueue(path)
	if err != nil {
		return err
	}
	idx, targets, err := resolveTargets(q, opts.page, scope)
	if err != nil {
		return err
	}

	res := scopeResult{
		PageID:   opts.page,
		Scope:    string(scope),
		Template: templates.TemplateKey(q.Pages[idx]),
		Pages:    templates.PageIDs(targets),
	}
	if opts.json {
		return c.printJSON(res)
	}

	c.printSuccess("%s scope of %s: %s", scope, res.PageID, plural(len(res.Pages), "page", "pages"))
	c.printKeyValue("template", templates.KeyLabel(res.Template))
	for _, id := range res.Pages {
		c.printItem(id)
	}
	return nil
}

// resolveTargets finds pageID in the queue and resolves scope around it.
func resolveTargets(q *review.Queue, pageID string, scope templates.Scope) (int, []templates.ReviewPage, error) {
	idx := templates.IndexOf(q.Pages, pageID)
	if idx < 0 {
		return -1, nil, errors.New(errors.ErrCodePageNotFound, "page %q is not in the queue", pageID)
	}
	targets, err := templates.ResolveScope(q.Pages, idx, scope)
	if err != nil {
		return -1, nil, err
	}
	return idx, targets, nil
}
