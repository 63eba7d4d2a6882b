package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/oddessentials/repo-standards/pkg/standards"
)

// Master returns a small, valid master document. Each call returns a fresh
// value so tests may mutate it freely.
//
// Layout:
//   - stacks: go, rust, python; CI systems: github-actions, azure-devops
//   - core: linting (all stacks), unit-tests (go, rust)
//   - recommended: ci-cache (go, github-actions only)
//   - optionalEnhancements: nightly-fuzz (rust)
func Master() *standards.Master {
	threshold := 0.8
	return &standards.Master{
		Version:   3,
		CISystems: []string{"github-actions", "azure-devops"},
		Stacks: map[string]standards.StackMeta{
			"go":     {Label: "Go", LanguageFamily: "go"},
			"rust":   {Label: "Rust", LanguageFamily: "rust"},
			"python": {Label: "Python", LanguageFamily: "python"},
		},
		Meta: &standards.Meta{
			DefaultCoverageThreshold: &threshold,
			CoverageThresholdUnit:    standards.CoverageUnitRatio,
			MigrationGuide: []standards.MigrationStep{
				{Step: 1, Title: "Baseline", Description: "Turn on linting and tests", FocusIDs: []string{"linting", "unit-tests"}},
				{Step: 2, Title: "Speed", Description: "Cache CI", FocusIDs: []string{"ci-cache"}},
			},
		},
		Checklist: standards.Checklist{
			Core: []standards.Item{
				{
					ID:             "linting",
					Label:          "Linting",
					Description:    "Run a linter on every change.",
					Enforcement:    standards.EnforcementRequired,
					Severity:       standards.SeverityError,
					ExecutionStage: standards.StagePreCommit,
					AppliesTo:      standards.AppliesTo{Stacks: []string{"go", "rust", "python"}},
					CIHints: map[string]standards.CIHint{
						"github-actions": {Job: "lint"},
						"azure-devops":   {Stage: "quality"},
					},
					StackHints: map[string]standards.StackHints{
						"go": {
							ExampleTools:  []string{"golangci-lint"},
							RequiredFiles: []string{".golangci.yml"},
							Verification:  "golangci-lint run exits 0",
							BazelHints: &standards.BazelHints{
								Commands:           []string{"bazel run //tools:lint"},
								RecommendedTargets: []string{"//tools:lint"},
							},
						},
						"rust": {ExampleTools: []string{"clippy"}},
					},
				},
				{
					ID:             "unit-tests",
					Label:          "Unit tests",
					Description:    "Run the unit test suite.",
					Enforcement:    standards.EnforcementRequired,
					Severity:       standards.SeverityError,
					ExecutionStage: standards.StageCIPR,
					AppliesTo:      standards.AppliesTo{Stacks: []string{"go", "rust"}},
					CIHints: map[string]standards.CIHint{
						"github-actions": {Job: "test"},
					},
				},
			},
			Recommended: []standards.Item{
				{
					ID:             "ci-cache",
					Label:          "CI cache",
					Description:    "Cache dependencies between CI runs.",
					Enforcement:    standards.EnforcementRecommended,
					Severity:       standards.SeverityWarn,
					ExecutionStage: standards.StageCIPR,
					AppliesTo: standards.AppliesTo{
						Stacks:    []string{"go"},
						CISystems: []string{"github-actions"},
					},
				},
			},
			OptionalEnhancements: []standards.Item{
				{
					ID:             "nightly-fuzz",
					Label:          "Nightly fuzzing",
					Description:    "Fuzz parsers nightly.",
					Enforcement:    standards.EnforcementOptional,
					Severity:       standards.SeverityInfo,
					ExecutionStage: standards.StageNightly,
					AppliesTo:      standards.AppliesTo{Stacks: []string{"rust"}},
				},
			},
		},
	}
}

// MasterJSON returns Master encoded as indented JSON.
func MasterJSON(t testing.TB) []byte {
	t.Helper()
	data, err := json.MarshalIndent(Master(), "", "  ")
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return data
}

// Readme returns README text whose schema version references name version.
func Readme(version string) string {
	return "# repo-standards\n\n" +
		"- version — schema version (currently `" + version + "`)\n\n" +
		"## Schema versions\n\n" +
		"- `" + version + "` — Schema version aligned to package major version " + version + ".\n\n" +
		"Consumers should ignore unknown fields for forward compatibility.\n"
}

// WriteProject lays out a project directory holding the fixture master at
// config/standards.json and a matching README.md. It returns the directory.
func WriteProject(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o750); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "standards.json"), MasterJSON(t), 0o600); err != nil {
		t.Fatalf("write master: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(Readme("3")), 0o600); err != nil {
		t.Fatalf("write readme: %v", err)
	}
	return dir
}
