package commands

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/oddessentials/repo-standards/internal/build"
	"github.com/oddessentials/repo-standards/internal/cli/config"
	"github.com/oddessentials/repo-standards/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	// Commands may adjust their copy with command flags.
	local := *cfg
	return &CommandContext{
		Cfg:      &local,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// getConfig returns the current configuration, loading it from the working
// directory when the root command has not done so.
func getConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}

// WithFormat replaces the renderer when a per-command format is given.
func (c *CommandContext) WithFormat(cmd *cobra.Command, format string) {
	if format != "" {
		c.Renderer = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
	}
}

// BuildOptions maps the configuration onto builder options.
func (c *CommandContext) BuildOptions() (build.Options, error) {
	vc, err := c.Cfg.ValidatorConfig()
	if err != nil {
		return build.Options{}, err
	}
	return build.Options{
		MasterPath:     c.Cfg.MasterPath,
		SchemaPath:     c.Cfg.SchemaPath,
		ReadmePath:     c.optionalPath(c.Cfg.ReadmePath),
		OutDir:         c.Cfg.OutDir,
		PackageVersion: c.Cfg.PackageVersion,
		IncludeCI:      c.Cfg.Build.CIViews,
		Concurrency:    c.Cfg.Build.Concurrency,
		Validation:     vc,
	}, nil
}

// optionalPath drops a supporting file that does not exist.
func (c *CommandContext) optionalPath(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		c.Logger.Debug("supporting file not found, skipping", slog.String("path", path))
		return ""
	}
	return path
}

// Helper functions shared across commands

// disabledFlag appends rule ids from a --disable flag to the config.
func disabledFlag(cmd *cobra.Command, cfg *config.Config, ids []string) {
	if cmd.Flags().Changed("disable") {
		cfg.Validation.Disabled = append(append([]string{}, cfg.Validation.Disabled...), ids...)
	}
}
