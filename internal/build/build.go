// Package build compiles a master standards document into its persisted
// artifacts: the canonical master and every per-stack and per-(stack, CI
// system) projection.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/oddessentials/repo-standards/internal/loader"
	"github.com/oddessentials/repo-standards/pkg/canonical"
	"github.com/oddessentials/repo-standards/pkg/projector"
	"github.com/oddessentials/repo-standards/pkg/validate"
	_ "github.com/oddessentials/repo-standards/pkg/validate/rules" // register validation rules
)

var (
	// ErrInvalid is returned when the master document has error findings.
	// No artifact is produced from an invalid document.
	ErrInvalid = errors.New("standards document is invalid")
	// ErrDrift is returned by Check when the artifacts on disk are out of date.
	ErrDrift = errors.New("generated artifacts are out of date")
)

// Options configures a Builder.
type Options struct {
	MasterPath     string
	SchemaPath     string // optional schema override
	ReadmePath     string // optional; enables the README version rule
	OutDir         string
	PackageVersion string // optional; enables the schema-version rule
	IncludeCI      bool   // also emit per-(stack, CI system) views
	Concurrency    int    // projection workers; <= 0 means unbounded
	Validation     *validate.Config
}

// Artifact is one file the build produces.
type Artifact struct {
	Name   string
	Target *projector.Target // nil for the master artifact
	Data   []byte
}

// Digest returns the sha256 of the artifact content.
func (a Artifact) Digest() string {
	return canonical.Digest(a.Data)
}

// Output is the result of compiling the master document.
type Output struct {
	Document   *loader.Document
	Validation validate.Result
	Artifacts  []Artifact
}

// Builder compiles, writes and checks artifacts.
type Builder struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Builder. A nil logger discards log output.
func New(opts Options, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{opts: opts, logger: logger}
}

// Validate loads the master document and runs the rule set over it. When
// validation fails the returned Output carries the findings and the error
// wraps ErrInvalid. Load failures return a nil Output.
func (b *Builder) Validate() (*Output, error) {
	doc, err := loader.Load(b.opts.MasterPath)
	if err != nil {
		return nil, err
	}
	readme, err := loader.ReadOptional(b.opts.ReadmePath)
	if err != nil {
		return nil, err
	}
	schemaData, err := loader.ReadOptional(b.opts.SchemaPath)
	if err != nil {
		return nil, err
	}

	vctx := &validate.Context{
		Master:         doc.Master,
		Instance:       doc.Instance,
		Readme:         readme,
		PackageVersion: b.opts.PackageVersion,
		Schema:         schemaData,
	}
	out := &Output{
		Document:   doc,
		Validation: validate.NewValidator(b.opts.Validation).Validate(vctx),
	}
	b.logger.Debug("validated standards document",
		slog.String("path", doc.Path),
		slog.Int("findings", len(out.Validation.Findings)))
	if !out.Validation.Valid {
		return out, fmt.Errorf("%w: %d error(s)", ErrInvalid, len(out.Validation.Errors()))
	}
	return out, nil
}

// Compile validates the master document and renders every artifact in
// memory. Nothing is rendered from an invalid document.
func (b *Builder) Compile(ctx context.Context) (*Output, error) {
	out, err := b.Validate()
	if err != nil {
		return out, err
	}
	doc := out.Document

	masterData, err := canonical.Marshal(doc.Instance)
	if err != nil {
		return nil, fmt.Errorf("canonicalize master: %w", err)
	}
	out.Artifacts = append(out.Artifacts, Artifact{Name: projector.MasterArtifactName, Data: masterData})

	targets := projector.Targets(doc.Master, b.opts.IncludeCI)
	results, err := projector.ProjectAll(ctx, doc.Master, targets, b.opts.Concurrency)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		data, err := canonical.Marshal(r.Projected)
		if err != nil {
			return nil, fmt.Errorf("canonicalize %s: %w", r.Target, err)
		}
		target := r.Target
		out.Artifacts = append(out.Artifacts, Artifact{Name: target.ArtifactName(), Target: &target, Data: data})
	}
	return out, nil
}

// Build compiles the document and writes every artifact to the output
// directory. Files are replaced atomically.
func (b *Builder) Build(ctx context.Context) (*Output, error) {
	out, err := b.Compile(ctx)
	if err != nil {
		return out, err
	}
	if err := os.MkdirAll(b.opts.OutDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	for _, a := range out.Artifacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(b.opts.OutDir, a.Name)
		if err := writeAtomic(path, a.Data); err != nil {
			return nil, err
		}
		b.logger.Debug("wrote artifact", slog.String("path", path), slog.String("sha256", a.Digest()[:12]))
	}
	b.logger.Info("build complete",
		slog.String("out_dir", b.opts.OutDir),
		slog.Int("artifacts", len(out.Artifacts)))
	return out, nil
}

func writeAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil { //nolint:gosec // artifacts are meant to be world-readable
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
