package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionNoDesc bool

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a completion script for grokline. Completion covers
subcommands, flags, the --set bundle names and the --engine, --format and
--on-type-error values.

Bash:
  $ source <(grokline completion bash)

Zsh:
  $ grokline completion zsh > "${fpath[1]}/_grokline"

Fish:
  $ grokline completion fish > ~/.config/fish/completions/grokline.fish

PowerShell:
  PS> grokline completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

func init() {
	completionCmd.Flags().BoolVar(&completionNoDesc, "no-descriptions", false,
		"Omit completion descriptions")
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	out := cmd.OutOrStdout()
	desc := !completionNoDesc

	switch args[0] {
	case "bash":
		return root.GenBashCompletionV2(out, desc)
	case "zsh":
		if desc {
			return root.GenZshCompletion(out)
		}
		return root.GenZshCompletionNoDesc(out)
	case "fish":
		return root.GenFishCompletion(out, desc)
	case "powershell":
		if desc {
			return root.GenPowerShellCompletionWithDesc(out)
		}
		return root.GenPowerShellCompletion(out)
	}
	return fmt.Errorf("unsupported shell %q", args[0])
}
