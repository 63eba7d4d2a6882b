package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oddessentials/repo-standards/internal/instructions"
	"github.com/oddessentials/repo-standards/internal/loader"
	"github.com/oddessentials/repo-standards/pkg/projector"
	"github.com/spf13/cobra"
)

// InstructionsOptions holds options for the instructions command.
type InstructionsOptions struct {
	OutputFile string
	All        bool
}

// NewInstructionsCommand creates the instructions command.
func NewInstructionsCommand() *cobra.Command {
	opts := &InstructionsOptions{}
	cmd := &cobra.Command{
		Use:   "instructions [stack] [ci-system]",
		Short: "Render agent instructions for a stack",
		Long: `Render Markdown instructions for an autonomous coding agent from the
projection for one stack and, optionally, one CI system.

Each checklist item becomes a short list of guidance bullets: its description,
how to verify it, required files and scripts, suggested tools and Bazel hints.
Empty sections are left out.

With --all, instructions for every stack and every stack/CI pair are written
to the output directory as instructions.<stack>[.<ci>].md.`,
		Example: `  repo-standards instructions rust
  repo-standards instructions go github-actions -O AGENTS.md
  repo-standards instructions --all`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.All {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			return completeTarget(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.All {
				return runInstructionsAll(cmd)
			}
			return runInstructions(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputFile, "output-file", "O", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Write instructions for every target to the output directory")
	cmd.MarkFlagsMutuallyExclusive("all", "output-file")

	return cmd
}

func runInstructions(cmd *cobra.Command, args []string, opts *InstructionsOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	p, err := cmdCtx.project(args)
	if err != nil {
		return err
	}

	target := projector.Target{Stack: p.Stack}
	if len(args) > 1 {
		target.CI = args[1]
	}
	md := instructions.Render(p, target.ArtifactName())

	if opts.OutputFile == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}
	if err := os.WriteFile(opts.OutputFile, []byte(md), 0o644); err != nil { //nolint:gosec // generated docs are world-readable
		return fmt.Errorf("write %s: %w", opts.OutputFile, err)
	}
	cmdCtx.Renderer.StatusLine(true, "Wrote "+opts.OutputFile)
	return nil
}

func runInstructionsAll(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	doc, err := loader.Load(cmdCtx.Cfg.MasterPath)
	if err != nil {
		return err
	}

	targets := projector.Targets(doc.Master, cmdCtx.Cfg.Build.CIViews)
	results, err := projector.ProjectAll(cmd.Context(), doc.Master, targets, cmdCtx.Cfg.Build.Concurrency)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cmdCtx.Cfg.OutDir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, res := range results {
		name := instructions.ArtifactName(res.Target.Stack, res.Target.CI)
		md := instructions.Render(res.Projected, res.Target.ArtifactName())
		path := filepath.Join(cmdCtx.Cfg.OutDir, name)
		if err := os.WriteFile(path, []byte(md), 0o644); err != nil { //nolint:gosec // generated docs are world-readable
			return fmt.Errorf("write %s: %w", path, err)
		}
		cmdCtx.Renderer.StatusLine(true, name)
	}
	cmdCtx.Logger.Info("wrote instructions", "out_dir", cmdCtx.Cfg.OutDir, "files", len(results))
	return nil
}
