package commands

import (
	"errors"
	"fmt"

	"github.com/oddessentials/repo-standards/internal/cli/output"
	"github.com/oddessentials/repo-standards/internal/versionsync"
	"github.com/spf13/cobra"
)

// NewSyncVersionCommand creates the sync-version command.
func NewSyncVersionCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "sync-version [version]",
		Short: "Raise the schema version to a release's major version",
		Long: `Set the master document's version to the major component of a package
release and update the README's schema version references.

The version argument defaults to the configured package_version. Syncing only
upgrades: when the release major is not above the current schema version
nothing is written. The master file keeps its formatting; only the version
value changes.`,
		Example: `  repo-standards sync-version 4.0.0
  REPO_STANDARDS_PACKAGE_VERSION=4.1.0 repo-standards sync-version`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			cmdCtx.WithFormat(cmd, format)

			version := cmdCtx.Cfg.PackageVersion
			if len(args) == 1 {
				version = args[0]
			}
			if version == "" {
				return errors.New("no version given: pass one or set package_version")
			}

			res, err := versionsync.Sync(versionsync.Options{
				MasterPath: cmdCtx.Cfg.MasterPath,
				ReadmePath: cmdCtx.Cfg.ReadmePath,
				Version:    version,
			}, cmdCtx.Logger)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				if res.Warnings == nil {
					res.Warnings = []string{}
				}
				return r.JSON(res)
			}
			for _, w := range res.Warnings {
				r.Warning(w)
			}
			if !res.MasterUpdated {
				r.StatusLine(true, fmt.Sprintf("Schema version already current (%d)", res.Previous))
				return nil
			}
			r.StatusLine(true, fmt.Sprintf("Schema version %d -> %d", res.Previous, res.Next))
			if res.ReadmeUpdated {
				r.StatusLine(true, "README schema version references updated")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}
