package commands

import (
	"fmt"
	"os"

	"github.com/oddessentials/repo-standards/internal/loader"
	"github.com/oddessentials/repo-standards/pkg/canonical"
	"github.com/oddessentials/repo-standards/pkg/projector"
	"github.com/oddessentials/repo-standards/pkg/standards"
	"github.com/spf13/cobra"
)

// ProjectOptions holds options for the project command.
type ProjectOptions struct {
	OutputFile string
}

// NewProjectCommand creates the project command.
func NewProjectCommand() *cobra.Command {
	opts := &ProjectOptions{}
	cmd := &cobra.Command{
		Use:   "project <stack> [ci-system]",
		Short: "Print the checklist for one stack",
		Long: `Print the canonical projection of the master document for one stack and,
optionally, one CI system.

Stack aliases from the configuration (golang, ts, py, ...) are resolved
before projecting. An unknown stack or CI system fails with the list of
valid values.`,
		Example: `  repo-standards project go
  repo-standards project python github-actions
  repo-standards project ts -O standards.typescript-js.json`,
		Args: cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			return completeTarget(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputFile, "output-file", "O", "", "Write to a file instead of stdout")

	return cmd
}

func runProject(cmd *cobra.Command, args []string, opts *ProjectOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	p, err := cmdCtx.project(args)
	if err != nil {
		return err
	}
	data, err := canonical.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode projection: %w", err)
	}

	if opts.OutputFile == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.OutputFile, data, 0o644); err != nil { //nolint:gosec // generated artifacts are world-readable
		return fmt.Errorf("write %s: %w", opts.OutputFile, err)
	}
	cmdCtx.Logger.Info("wrote projection", "path", opts.OutputFile)
	return nil
}

// project loads the master and projects it for args[0] and optional args[1].
func (c *CommandContext) project(args []string) (*standards.Projected, error) {
	doc, err := loader.Load(c.Cfg.MasterPath)
	if err != nil {
		return nil, err
	}
	stack := c.Cfg.ResolveStack(args[0])
	ci := ""
	if len(args) > 1 {
		ci = args[1]
	}
	if stack != args[0] {
		c.Logger.Debug("resolved stack alias", "alias", args[0], "stack", stack)
	}
	return projector.Project(doc.Master, stack, ci)
}

// completeTarget offers stacks for the first argument and CI systems for the
// second, read from the configured master.
func completeTarget(args []string) ([]string, cobra.ShellCompDirective) {
	cfg, err := getConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	doc, err := loader.Load(cfg.MasterPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	switch len(args) {
	case 0:
		return doc.Master.StackIDs(), cobra.ShellCompDirectiveNoFileComp
	case 1:
		return doc.Master.CISystems, cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}
