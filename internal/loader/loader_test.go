package loader

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddessentials/repo-standards/internal/testutil"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_JSON(t *testing.T) {
	dir := testutil.WriteProject(t)
	path := filepath.Join(dir, "config", "standards.json")

	doc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, doc.Path)
	assert.Equal(t, FormatJSON, doc.Format)
	assert.Equal(t, doc.Raw, doc.JSON)
	assert.Equal(t, 3, doc.Master.Version)
	assert.Equal(t, []string{"go", "python", "rust"}, doc.Master.StackIDs())

	inst, ok := doc.Instance.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("3"), inst["version"])
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "standards.yaml", `
version: 2
ciSystems: [github-actions]
stacks:
  go:
    label: Go
    languageFamily: go
meta:
  defaultCoverageThreshold: 0.75
  coverageThresholdUnit: ratio
checklist:
  core:
    - id: linting
      label: Linting
      description: Lint it.
      executionStage: pre-commit
      appliesTo:
        stacks: [go]
      stackHints:
        go:
          exampleTools: [golangci-lint]
  recommended: []
  optionalEnhancements: []
`)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, doc.Format)
	assert.Equal(t, 2, doc.Master.Version)
	require.Len(t, doc.Master.Checklist.Core, 1)
	assert.Equal(t, []string{"golangci-lint"}, doc.Master.Checklist.Core[0].StackHints["go"].ExampleTools)
	require.NotNil(t, doc.Master.Meta.DefaultCoverageThreshold)
	assert.InDelta(t, 0.75, *doc.Master.Meta.DefaultCoverageThreshold, 1e-9)
	assert.True(t, json.Valid(doc.JSON))
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantLine int
		contains string
	}{
		{"invalid json", "standards.json", "{\n  \"version\": 1,\n  oops\n}", 3, "invalid JSON"},
		{"type mismatch", "standards.json", "{\n  \"version\": \"one\"\n}", 2, `field "version"`},
		{"non-object root", "standards.json", "[1, 2]", 0, "must be an object"},
		{"invalid yaml", "standards.yml", "version: [1\n", 0, "invalid YAML"},
		{"non-string yaml keys", "standards.yaml", "stacks:\n  1: x\n", 0, "not representable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
			assert.Contains(t, err.Error(), tt.contains)
			assert.Contains(t, err.Error(), path)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantLine, pe.Line)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformed))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("a/standards.YAML"))
	assert.Equal(t, FormatYAML, FormatFor("standards.yml"))
	assert.Equal(t, FormatJSON, FormatFor("standards.json"))
	assert.Equal(t, FormatJSON, FormatFor("standards"))
}

func TestReadOptional(t *testing.T) {
	data, err := ReadOptional("")
	require.NoError(t, err)
	assert.Nil(t, data)

	path := writeFile(t, "README.md", "hello")
	data, err = ReadOptional(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = ReadOptional(filepath.Join(t.TempDir(), "README.md"))
	assert.Error(t, err)
}
