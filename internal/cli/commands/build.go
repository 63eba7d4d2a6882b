package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oddessentials/repo-standards/internal/build"
	"github.com/oddessentials/repo-standards/internal/cli/output"
	"github.com/spf13/cobra"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	Check       bool
	Watch       bool
	Concurrency int
	CIViews     bool
	Debounce    time.Duration
	Disable     []string
	Format      string
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate the master document and write every artifact",
		Long: `Validate the master standards document and, when it is valid, write the
canonical master and every projection to the output directory:

  standards.json                 the master, canonicalized
  standards.<stack>.json         one view per declared stack
  standards.<stack>.<ci>.json    one view per stack and CI system

Nothing is written from an invalid document. With --check nothing is written
at all: the command compares the would-be output with the files on disk and
exits non-zero on drift. With --watch the build reruns whenever the master,
the schema override or the README changes.

The schema version rule (V10) only runs when a package version is known.
package_version defaults to empty, so set it in CI with --package-version or
REPO_STANDARDS_PACKAGE_VERSION to check the schema version against the
package major.`,
		Example: `  # Build into dist/config
  repo-standards build

  # Fail CI when committed artifacts are out of date
  repo-standards build --check

  # Rebuild on every save
  repo-standards build --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "Report drift against the output directory without writing")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Rebuild when inputs change")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Projection workers (0 = unbounded)")
	cmd.Flags().BoolVar(&opts.CIViews, "ci-views", true, "Also write per-CI-system views")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", build.DefaultDebounce, "Quiet period before a watch rebuild")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to skip (repeatable)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")
	cmd.MarkFlagsMutuallyExclusive("check", "watch")

	return cmd
}

// ArtifactJSON describes one written artifact.
type ArtifactJSON struct {
	Name   string `json:"name"`
	Stack  string `json:"stack,omitempty"`
	CI     string `json:"ci,omitempty"`
	SHA256 string `json:"sha256"`
	Bytes  int    `json:"bytes"`
}

// BuildJSONOutput is the JSON output structure for build.
type BuildJSONOutput struct {
	OutDir    string         `json:"outDir"`
	Artifacts []ArtifactJSON `json:"artifacts"`
}

// CheckJSONOutput is the JSON output structure for build --check.
type CheckJSONOutput struct {
	OutDir   string        `json:"outDir"`
	UpToDate bool          `json:"upToDate"`
	Drift    []build.Drift `json:"drift"`
}

func runBuild(cmd *cobra.Command, opts *BuildOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cmdCtx.WithFormat(cmd, opts.Format)
	disabledFlag(cmd, cmdCtx.Cfg, opts.Disable)
	if cmd.Flags().Changed("concurrency") {
		cmdCtx.Cfg.Build.Concurrency = opts.Concurrency
	}
	if cmd.Flags().Changed("ci-views") {
		cmdCtx.Cfg.Build.CIViews = opts.CIViews
	}

	buildOpts, err := cmdCtx.BuildOptions()
	if err != nil {
		return err
	}
	b := build.New(buildOpts, cmdCtx.Logger)
	r := cmdCtx.Renderer

	switch {
	case opts.Check:
		report, err := b.Check(cmd.Context())
		if err != nil && !errors.Is(err, build.ErrDrift) {
			if errors.Is(err, build.ErrInvalid) {
				renderInvalid(r, report.Output)
			}
			return err
		}
		if renderErr := renderCheck(r, buildOpts.OutDir, report); renderErr != nil {
			return renderErr
		}
		return err

	case opts.Watch:
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx, b, r, buildOpts.OutDir, opts.Debounce)

	default:
		out, err := b.Build(cmd.Context())
		if errors.Is(err, build.ErrInvalid) {
			renderInvalid(r, out)
			return err
		}
		if err != nil {
			return err
		}
		return renderBuild(r, buildOpts.OutDir, out)
	}
}

func watch(ctx context.Context, b *build.Builder, r *output.Renderer, outDir string, debounce time.Duration) error {
	r.Println(r.Styles().Muted.Render("Watching for changes (Ctrl+C to stop)"))
	return b.Watch(ctx, debounce, func(out *build.Output, err error) {
		stamp := time.Now().Format("15:04:05")
		switch {
		case errors.Is(err, build.ErrInvalid):
			r.StatusLine(false, fmt.Sprintf("%s build failed: %v", stamp, err))
			renderInvalid(r, out)
		case err != nil:
			r.StatusLine(false, fmt.Sprintf("%s build failed: %v", stamp, err))
		default:
			r.StatusLine(true, fmt.Sprintf("%s wrote %d artifact(s) to %s", stamp, len(out.Artifacts), outDir))
		}
	})
}

func renderInvalid(r *output.Renderer, out *build.Output) {
	if out == nil || out.Document == nil {
		return
	}
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(ValidateJSONOutput{
			Path:     out.Document.Path,
			Valid:    out.Validation.Valid,
			Findings: out.Validation.Findings,
			Errors:   len(out.Validation.Errors()),
			Warnings: len(out.Validation.Warnings()),
		})
		return
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		renderFindingsMarkdown(r, out.Document.Path, out.Validation)
		return
	}
	renderFindingsText(r, out.Document.Path, out.Validation)
}

func renderBuild(r *output.Renderer, outDir string, out *build.Output) error {
	if r.EffectiveMode() == output.ModeJSON {
		res := BuildJSONOutput{OutDir: outDir, Artifacts: make([]ArtifactJSON, 0, len(out.Artifacts))}
		for _, a := range out.Artifacts {
			aj := ArtifactJSON{Name: a.Name, SHA256: a.Digest(), Bytes: len(a.Data)}
			if a.Target != nil {
				aj.Stack, aj.CI = a.Target.Stack, a.Target.CI
			}
			res.Artifacts = append(res.Artifacts, aj)
		}
		return r.JSON(res)
	}

	r.Header("Build")
	for _, a := range out.Artifacts {
		r.StatusLine(true, a.Name)
	}
	r.Println("")
	r.Success(fmt.Sprintf("Build complete: %d artifact(s) written to %s", len(out.Artifacts), outDir))
	if warns := out.Validation.Warnings(); len(warns) > 0 {
		for _, f := range warns {
			r.Warning(f.String())
		}
	}
	return nil
}

func renderCheck(r *output.Renderer, outDir string, report *build.Report) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		drift := report.Drift
		if drift == nil {
			drift = []build.Drift{}
		}
		return r.JSON(CheckJSONOutput{OutDir: outDir, UpToDate: report.UpToDate(), Drift: drift})

	case output.ModeMarkdown:
		r.Println("# Artifact check")
		r.Println("")
		if report.UpToDate() {
			r.StatusLine(true, fmt.Sprintf("%d artifact(s) up to date", len(report.Output.Artifacts)))
			return nil
		}
		for _, d := range report.Drift {
			r.StatusLine(false, fmt.Sprintf("`%s` %s", d.Name, d.Status))
		}
		for _, d := range report.Drift {
			if d.Diff == "" {
				continue
			}
			r.Println("")
			r.Println("```diff")
			r.Printf("%s", d.Diff)
			r.Println("```")
		}
		r.Println("")
		r.Println("Run `repo-standards build` to update the artifacts.")
		return nil

	default:
		styles := r.Styles()
		if report.UpToDate() {
			r.StatusLine(true, fmt.Sprintf("%d artifact(s) up to date in %s", len(report.Output.Artifacts), outDir))
			return nil
		}
		r.Println(styles.Header1.Render("Artifacts out of date"))
		r.Println("")
		for _, d := range report.Drift {
			r.StatusLine(false, fmt.Sprintf("%s %s", d.Name, styles.Muted.Render(string(d.Status))))
		}
		for _, d := range report.Drift {
			if d.Diff != "" {
				r.Println("")
				r.Printf("%s", d.Diff)
			}
		}
		r.Println("")
		r.Println(styles.Muted.Render("Run 'repo-standards build' to update the artifacts"))
		return nil
	}
}
