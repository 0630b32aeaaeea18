package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/asteria/pagereview/pkg/review"
	"github.com/asteria/pagereview/pkg/templates"
)

// summaryRow is the JSON form of one template summary.
type summaryRow struct {
	templates.TemplateSummary
	Representatives []string `json:"representatives"`
}

// summaryCommand creates the summary command, which groups the review queue
// by template and prints one row per template.
func (c *CLI) summaryCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "summary [queue]",
		Short:   "Summarize the review queue by template",
		Example: `  pagereview summary queue.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSummary(args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print summaries as JSON")

	return cmd
}

func (c *CLI) runSummary(path string, asJSON bool) error {
	q, err := review.LoadQueue(path)
	if err != nil {
		return err
	}
	summaries := templates.BuildTemplateSummaries(q.Pages)

	if asJSON {
		rows := make([]summaryRow, len(summaries))
		for i, s := range summaries {
			rows[i] = summaryRow{TemplateSummary: s, Representatives: templates.PageIDs(templates.RepresentativePages(s))}
		}
		return c.printJSON(rows)
	}

	if len(summaries) == 0 {
		c.printWarning("Queue is empty")
		return nil
	}
	fmt.Fprintln(c.out(), StyleTitle.Render(fmt.Sprintf("Run %s", runIDFor("", q))))
	fmt.Fprintln(c.out(), summaryTable(summaries))
	c.printStats([]string{plural(len(q.Pages), "page", "pages"), plural(len(summaries), "template", "templates")}, false)
	c.printNextStep("Review a template", "pagereview scope "+path+" --scope template --page "+templates.RepresentativePages(summaries[0])[0].ID)
	return nil
}

// summaryTable renders summaries with low-confidence templates dimmed.
func summaryTable(summaries []templates.TemplateSummary) string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Label,
			fmt.Sprint(len(s.Pages)),
			fmt.Sprintf("%.2f", s.AverageConfidence),
			fmt.Sprintf("%.2f", s.MinConfidence),
			formatIssues(s.IssueSummary),
			fmt.Sprintf("%.0f%%", s.GuideCoverage*100),
			strings.Join(templates.PageIDs(templates.RepresentativePages(s)), ", "),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Template", "Pages", "Avg", "Min", "Issues", "Guides", "Representatives").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(summaries) {
				return base
			}
			s := summaries[row]
			switch {
			case col == 0 && templates.IsReasonKey(s.ID):
				return base.Foreground(colorYellow)
			case col == 0:
				return base.Foreground(colorCyan)
			case col == 3 && s.MinConfidence < 0.5:
				return base.Foreground(colorRed)
			case col == 4 || col == 6:
				return base.Foreground(colorGray)
			}
			return base
		})
	return t.Render()
}

func formatIssues(issues []templates.IssueCount) string {
	if len(issues) == 0 {
		return "—"
	}
	parts := make([]string, len(issues))
	for i, ic := range issues {
		parts[i] = fmt.Sprintf("%s ×%d", ic.Code, ic.Count)
	}
	return strings.Join(parts, ", ")
}
