package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell.

Bash:
  $ source <(porenet completion bash)

  # To install permanently on Linux:
  $ porenet completion bash > /etc/bash_completion.d/porenet
  # or on macOS:
  $ porenet completion bash > $(brew --prefix)/etc/bash_completion.d/porenet

Zsh:
  # Enable completion once if you have not already:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ porenet completion zsh > "${fpath[1]}/_porenet"

Fish:
  $ porenet completion fish > ~/.config/fish/completions/porenet.fish

PowerShell:
  PS> porenet completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}
