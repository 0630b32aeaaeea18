package cli

import (
	"github.com/spf13/cobra"

	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/guides"
	"github.com/asteria/pagereview/pkg/review"
	"github.com/asteria/pagereview/pkg/templates"
)

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for your shell. Flag values such as --scope,
--handle and --solo complete too.

  $ source <(pagereview completion bash)
  $ pagereview completion zsh > "${fpath[1]}/_pagereview"
  $ pagereview completion fish > ~/.config/fish/completions/pagereview.fish
  PS> pagereview completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), c.out()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			default:
				return root.GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}

// completeWith registers a fixed value list for flag on cmd.
func completeWith[T ~string](cmd *cobra.Command, flag string, values []T) {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(names, cobra.ShellCompDirectiveNoFileComp))
}

func completeScope(cmd *cobra.Command)  { completeWith(cmd, "scope", templates.Scopes) }
func completeHandle(cmd *cobra.Command) { completeWith(cmd, "handle", geometry.Handles) }
func completeGroup(cmd *cobra.Command)  { completeWith(cmd, "solo", guides.Groups) }

func completeTarget(cmd *cobra.Command) {
	completeWith(cmd, "target", []review.Target{review.TargetCrop, review.TargetTrim})
}
