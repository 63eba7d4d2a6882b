package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DriftStatus describes how an on-disk artifact differs from the build.
type DriftStatus string

// Drift statuses.
const (
	DriftMissing DriftStatus = "missing" // would be created
	DriftChanged DriftStatus = "changed" // content differs
	DriftStale   DriftStatus = "stale"   // on disk but no longer produced
)

// Drift is one out-of-date artifact.
type Drift struct {
	Name   string      `json:"name"`
	Status DriftStatus `json:"status"`
	Diff   string      `json:"diff,omitempty"` // unified diff for changed artifacts
}

// Report is the outcome of Check.
type Report struct {
	Output *Output
	Drift  []Drift
}

// UpToDate reports whether nothing drifted.
func (r *Report) UpToDate() bool {
	return len(r.Drift) == 0
}

// Check compiles the document and compares every artifact with the file on
// disk without writing anything. Artifacts in the output directory that the
// build no longer produces are reported as stale. When anything drifted the
// error wraps ErrDrift.
func (b *Builder) Check(ctx context.Context) (*Report, error) {
	out, err := b.Compile(ctx)
	if err != nil {
		return &Report{Output: out}, err
	}

	report := &Report{Output: out}
	produced := make(map[string]bool, len(out.Artifacts))
	for _, a := range out.Artifacts {
		produced[a.Name] = true
		path := filepath.Join(b.opts.OutDir, a.Name)
		current, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			report.Drift = append(report.Drift, Drift{Name: a.Name, Status: DriftMissing})
		case err != nil:
			return nil, fmt.Errorf("read %s: %w", path, err)
		case !bytes.Equal(current, a.Data):
			report.Drift = append(report.Drift, Drift{
				Name:   a.Name,
				Status: DriftChanged,
				Diff:   unifiedDiff(a.Name, current, a.Data),
			})
		}
	}

	stale, err := staleArtifacts(b.opts.OutDir, produced)
	if err != nil {
		return nil, err
	}
	for _, name := range stale {
		report.Drift = append(report.Drift, Drift{Name: name, Status: DriftStale})
	}

	if !report.UpToDate() {
		b.logger.Warn("artifacts drifted", slog.Int("count", len(report.Drift)))
		return report, fmt.Errorf("%w: %d artifact(s)", ErrDrift, len(report.Drift))
	}
	b.logger.Debug("artifacts up to date", slog.Int("artifacts", len(out.Artifacts)))
	return report, nil
}

// staleArtifacts lists standards*.json files in dir that are not produced.
func staleArtifacts(dir string, produced map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read output directory: %w", err)
	}
	var stale []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "standards.") || filepath.Ext(name) != ".json" {
			continue
		}
		if !produced[name] {
			stale = append(stale, name)
		}
	}
	sort.Strings(stale)
	return stale, nil
}

func unifiedDiff(name string, current, want []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(want)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("(diff unavailable: %v)", err)
	}
	return diff
}
