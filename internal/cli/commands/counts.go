package commands

import (
	"fmt"

	"github.com/oddessentials/repo-standards/internal/cli/output"
	"github.com/oddessentials/repo-standards/internal/loader"
	"github.com/oddessentials/repo-standards/pkg/standards"
	"github.com/spf13/cobra"
)

// CountsJSONOutput is the JSON output structure for counts.
type CountsJSONOutput struct {
	Core                 int `json:"core"`
	Recommended          int `json:"recommended"`
	OptionalEnhancements int `json:"optionalEnhancements"`
	Total                int `json:"total"`
}

// NewCountsCommand creates the counts command.
func NewCountsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Print checklist item counts for the README",
		Long: `Print the number of checklist items per section as a Markdown snippet,
so the README never states stale counts.`,
		Example: `  repo-standards counts
  repo-standards counts --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			cmdCtx.WithFormat(cmd, format)

			doc, err := loader.Load(cmdCtx.Cfg.MasterPath)
			if err != nil {
				return err
			}
			c := doc.Master.Checklist
			counts := CountsJSONOutput{
				Core:                 len(c.Section(standards.SectionCore)),
				Recommended:          len(c.Section(standards.SectionRecommended)),
				OptionalEnhancements: len(c.Section(standards.SectionOptional)),
			}
			counts.Total = counts.Core + counts.Recommended + counts.OptionalEnhancements

			if cmdCtx.Renderer.EffectiveMode() == output.ModeJSON {
				return cmdCtx.Renderer.JSON(counts)
			}
			cmdCtx.Renderer.Println(CountsLine(counts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// CountsLine formats counts as the README snippet.
func CountsLine(c CountsJSONOutput) string {
	return fmt.Sprintf("**%d core** (required), **%d recommended**, **%d optional enhancements**",
		c.Core, c.Recommended, c.OptionalEnhancements)
}
