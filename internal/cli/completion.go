package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoxl/pkg/pipeline"
	"github.com/matzehuels/pianoxl/pkg/state"
)

var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pianoxl.

Bash:
  $ source <(pianoxl completion bash)

Zsh:
  $ pianoxl completion zsh > "${fpath[1]}/_pianoxl"

Fish:
  $ pianoxl completion fish > ~/.config/fish/completions/pianoxl.fish

PowerShell:
  PS> pianoxl completion powershell | Out-String | Invoke-Expression

Flag values such as --format, --size, --select and --store complete too.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// flagChoices lists the fixed values of enumerated flags, by flag name.
func flagChoices() map[string][]string {
	selectable := append([]string{""}, state.Selectable...)
	return map[string][]string{
		"format": {pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON},
		"size":   state.SizeModes,
		"select": selectable,
		"store":  {storeFile, storeRedis, storeMongo, storeNone},
	}
}

// registerFlagCompletions attaches value completion to every enumerated
// flag in the command tree. The plan command's --format takes other values
// and is skipped.
func registerFlagCompletions(root *cobra.Command) {
	choices := flagChoices()
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		for name, values := range choices {
			if cmd.Flags().Lookup(name) == nil || (cmd.Name() == "plan" && name == "format") {
				continue
			}
			_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}
