package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/oddessentials/repo-standards/internal/build"
	"github.com/oddessentials/repo-standards/internal/cli/output"
	"github.com/oddessentials/repo-standards/pkg/validate"
	"github.com/spf13/cobra"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Disable []string // Rule IDs to skip
	Format  string   // Output format
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the master standards document",
		Long: `Validate the master standards document against the schema and the
semantic rules (unique ids, references, stacks, CI systems, thresholds,
execution stages, README version and section policy).

All findings are reported together. The command exits non-zero when any
finding has error severity; warnings alone do not fail validation.

Validity means no finding of error severity, not an empty report. With
validate.severity overrides in the configuration a document can be valid
while still reporting warning or info findings.`,
		Example: `  # Validate config/standards.json
  repo-standards validate

  # Validate another document, skipping the README check
  repo-standards validate --master other.yaml --disable V08

  # Machine-readable findings
  repo-standards validate --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to skip (repeatable)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// ValidateJSONOutput is the JSON output structure for validation.
type ValidateJSONOutput struct {
	Path     string             `json:"path"`
	Valid    bool               `json:"valid"`
	Findings []validate.Finding `json:"findings"`
	Errors   int                `json:"errors"`
	Warnings int                `json:"warnings"`
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cmdCtx.WithFormat(cmd, opts.Format)
	disabledFlag(cmd, cmdCtx.Cfg, opts.Disable)

	buildOpts, err := cmdCtx.BuildOptions()
	if err != nil {
		return err
	}
	out, err := build.New(buildOpts, cmdCtx.Logger).Validate()
	if out == nil {
		return err
	}
	if err != nil && !errors.Is(err, build.ErrInvalid) {
		return err
	}

	r := cmdCtx.Renderer
	var renderErr error
	switch r.EffectiveMode() {
	case output.ModeJSON:
		renderErr = r.JSON(ValidateJSONOutput{
			Path:     out.Document.Path,
			Valid:    out.Validation.Valid,
			Findings: out.Validation.Findings,
			Errors:   len(out.Validation.Errors()),
			Warnings: len(out.Validation.Warnings()),
		})
	case output.ModeMarkdown:
		renderFindingsMarkdown(r, out.Document.Path, out.Validation)
	default:
		renderFindingsText(r, out.Document.Path, out.Validation)
	}
	if renderErr != nil {
		return renderErr
	}
	return err
}

func renderFindingsText(r *output.Renderer, path string, res validate.Result) {
	styles := r.Styles()

	r.Println(styles.Header1.Render("Validating " + filepath.Base(path)))
	r.Println("")
	for _, f := range res.Findings {
		line := fmt.Sprintf("  %s %s %s", severityStyle(styles, f.Severity).Render(severitySymbol(f.Severity)), styles.Muted.Render(f.RuleID), f.Message)
		if f.Path != "" {
			line += styles.Muted.Render("  (" + f.Path + ")")
		}
		r.Println(line)
	}
	if len(res.Findings) > 0 {
		r.Println("")
	}
	r.StatusLine(res.Valid, summary(res))
}

func renderFindingsMarkdown(r *output.Renderer, path string, res validate.Result) {
	r.Printf("# Validation of `%s`\n\n", filepath.Base(path))
	for _, f := range res.Findings {
		r.Printf("- **%s** (`%s`) %s", f.RuleID, f.Severity, f.Message)
		if f.Path != "" {
			r.Printf(" at `%s`", f.Path)
		}
		r.Println("")
	}
	if len(res.Findings) > 0 {
		r.Println("")
	}
	r.StatusLine(res.Valid, summary(res))
}

func summary(res validate.Result) string {
	errs, warns := len(res.Errors()), len(res.Warnings())
	if res.Valid {
		if warns == 0 {
			return "standards document is valid"
		}
		return fmt.Sprintf("standards document is valid (%d warning(s))", warns)
	}
	return fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
}

// Helper functions

func severityStyle(styles *output.Styles, sev validate.Severity) lipgloss.Style {
	switch sev {
	case validate.SeverityError:
		return styles.Error
	case validate.SeverityWarning:
		return styles.Warning
	case validate.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}

func severitySymbol(sev validate.Severity) string {
	switch sev {
	case validate.SeverityError:
		return "✗"
	case validate.SeverityWarning:
		return "!"
	default:
		return "i"
	}
}
