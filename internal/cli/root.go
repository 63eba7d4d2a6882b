// Package cli provides the command-line interface for repo-standards.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/oddessentials/repo-standards/internal/cli/commands"
	"github.com/oddessentials/repo-standards/internal/cli/config"
	"github.com/oddessentials/repo-standards/internal/cli/output"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "repo-standards",
		Short: "repo-standards - checklist compiler for repository standards",
		Long: `repo-standards compiles a master standards document into deterministic
per-stack and per-CI-system checklists.

The master document declares stacks, CI systems and a checklist of core,
recommended and optional items. repo-standards validates it, writes canonical
JSON views for every stack and stack/CI pair, and renders agent instructions
from those views.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			cmd.SetContext(context.WithValue(cmd.Context(), config.LoggerKey(), logger))

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			logger.Debug("resolved inputs",
				"master", cfg.MasterPath,
				"readme", cfg.ReadmePath,
				"out_dir", cfg.OutDir)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: repo-standards.yaml, searched upward)")
	pf.String("master", "", "Path to the master standards document (default: config/standards.json)")
	pf.String("schema", "", "Path to a JSON Schema overriding the built-in one")
	pf.String("readme", "", "Path to the README checked for version references (default: README.md)")
	pf.String("out-dir", "", "Directory generated artifacts are written to (default: dist/config)")
	pf.String("package-version", "", "Package release version the schema version must match")
	pf.BoolP("verbose", "v", false, "Verbose output (debug logging)")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.String("log-format", "", "Log format (text|json)")
	pf.StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewBuildCommand())
	rootCmd.AddCommand(commands.NewProjectCommand())
	rootCmd.AddCommand(commands.NewInstructionsCommand())
	rootCmd.AddCommand(commands.NewCountsCommand())
	rootCmd.AddCommand(commands.NewStacksCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewSyncVersionCommand())
	rootCmd.AddCommand(commands.NewDetectBazelCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for repo-standards.

To load completions:

Bash:
  $ source <(repo-standards completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ repo-standards completion bash > /etc/bash_completion.d/repo-standards
  # macOS:
  $ repo-standards completion bash > $(brew --prefix)/etc/bash_completion.d/repo-standards

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ repo-standards completion zsh > "${fpath[1]}/_repo-standards"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ repo-standards completion fish | source

  # To load completions for each session, execute once:
  $ repo-standards completion fish > ~/.config/fish/completions/repo-standards.fish

PowerShell:
  PS> repo-standards completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> repo-standards completion powershell > repo-standards.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
