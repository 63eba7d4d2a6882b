package commands

import (
	"fmt"
	"os"

	"github.com/oddessentials/repo-standards/internal/bazel"
	"github.com/spf13/cobra"
)

// NewDetectBazelCommand creates the detect-bazel command.
func NewDetectBazelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect-bazel [dir]",
		Short: "Detect whether a repository is built with Bazel",
		Long: `Inspect a repository root for Bazel markers and print the result as JSON.

MODULE.bazel means bzlmod mode; WORKSPACE.bazel or WORKSPACE means workspace
mode. .bazelrc and .bazelversion are reported but never trigger detection on
their own. Only the root directory is inspected.`,
		Example: `  repo-standards detect-bazel
  repo-standards detect-bazel ../service`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("detect-bazel: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("detect-bazel: %s is not a directory", dir)
			}

			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			d := bazel.Detect(dir)
			cmdCtx.Logger.Debug("bazel detection", "dir", dir, "detected", d.Detected, "mode", d.Mode)
			return cmdCtx.Renderer.JSON(d)
		},
	}
}
