package instructions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddessentials/repo-standards/internal/testutil"
	"github.com/oddessentials/repo-standards/pkg/projector"
	"github.com/oddessentials/repo-standards/pkg/standards"
)

func TestSectionTitle(t *testing.T) {
	assert.Equal(t, "Core Requirements", SectionTitle(standards.SectionCore))
	assert.Equal(t, "Recommended Practices", SectionTitle(standards.SectionRecommended))
	assert.Equal(t, "Optional Enhancements", SectionTitle(standards.SectionOptional))
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "instructions.go.md", ArtifactName("go", ""))
	assert.Equal(t, "instructions.go.github-actions.md", ArtifactName("go", "github-actions"))
}

func TestBullets(t *testing.T) {
	exit := 2
	tests := []struct {
		name  string
		hints *standards.StackHints
		want  []string
	}{
		{
			name:  "no hints",
			hints: nil,
			want:  []string{"Do the thing."},
		},
		{
			name: "required and any-of files",
			hints: &standards.StackHints{
				RequiredFiles: []string{"go.mod"},
				AnyOfFiles:    []string{".golangci.yml", ".golangci.yaml"},
			},
			want: []string{
				"Do the thing.",
				"Ensure go.mod exists, and at least one of .golangci.yml, .golangci.yaml is present.",
			},
		},
		{
			name: "scripts and machine check",
			hints: &standards.StackHints{
				RequiredScripts: []string{"lint", "test"},
				MachineCheck:    &standards.MachineCheck{Command: "make lint", ExpectExitCode: &exit, Description: "Lint gate."},
			},
			want: []string{
				"Do the thing.",
				"Define a `lint`, `test` script or equivalent command.",
				"Lint gate. Run `make lint` (expect exit code 2).",
			},
		},
		{
			name: "tools only and optional files elided",
			hints: &standards.StackHints{
				ExampleTools:  []string{"ruff"},
				OptionalFiles: []string{"a", "b", "c", "d"},
			},
			want: []string{
				"Do the thing.",
				"Common tools: ruff.",
				"Consider adding a, b, c and others if applicable.",
			},
		},
		{
			name: "long notes dropped",
			hints: &standards.StackHints{
				ExampleConfigFiles: []string{"ruff.toml"},
				Notes:              strings.Repeat("x", 150),
			},
			want: []string{"Do the thing.", "Example config files: ruff.toml."},
		},
		{
			name: "capped at five",
			hints: &standards.StackHints{
				Verification:    "run it",
				RequiredFiles:   []string{"f"},
				RequiredScripts: []string{"s"},
				MachineCheck:    &standards.MachineCheck{Command: "c"},
				ExampleTools:    []string{"t"},
				PinningNotes:    "pin",
				Notes:           "short",
			},
			want: []string{
				"Do the thing.",
				"Verify with: run it",
				"Ensure f exists in the repository.",
				"Define a `s` script or equivalent command.",
				"Run `c` (expect exit code 0).",
			},
		},
		{
			name: "bazel hints",
			hints: &standards.StackHints{
				BazelHints: &standards.BazelHints{
					Commands:           []string{"bazel test //..."},
					RecommendedTargets: []string{"//:lint"},
					Notes:              "Use remote cache.",
				},
			},
			want: []string{
				"Do the thing.",
				"Bazel commands: `bazel test //...`.",
				"Recommended Bazel targets: //:lint.",
				"Use remote cache.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &standards.ProjectedItem{ID: "x", Label: "X", Description: "Do the thing.", Stack: tt.hints}
			assert.Equal(t, tt.want, Bullets(item))
		})
	}
}

func TestRender(t *testing.T) {
	p, err := projector.Project(testutil.Master(), "go", "github-actions")
	require.NoError(t, err)

	got := Render(p, "dist/standards.go.github-actions.json")

	assert.True(t, strings.HasPrefix(got, "# Repository Standards Instructions\n\n"))
	assert.Contains(t, got, "> Auto-generated from `dist/standards.go.github-actions.json`\n")
	assert.Contains(t, got, "> Stack: Go | CI: github-actions\n")
	assert.Contains(t, got, "## Core Requirements\n\n### Linting\n\n- Run a linter on every change.\n- Verify with: golangci-lint run exits 0\n")
	assert.Contains(t, got, "## Recommended Practices\n\n### CI cache\n")
	assert.NotContains(t, got, "## Optional Enhancements", "empty sections are omitted")
}

func TestRender_NoSource(t *testing.T) {
	p, err := projector.Project(testutil.Master(), "rust", "")
	require.NoError(t, err)

	got := Render(p, "")
	assert.NotContains(t, got, "Auto-generated")
	assert.Contains(t, got, "> Stack: Rust | CI: github-actions, azure-devops\n")
	assert.Contains(t, got, "## Optional Enhancements\n\n### Nightly fuzzing\n")
}
