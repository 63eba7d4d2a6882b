package versionsync

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddessentials/repo-standards/internal/loader"
	"github.com/oddessentials/repo-standards/internal/testutil"
	"github.com/oddessentials/repo-standards/pkg/validate"
	_ "github.com/oddessentials/repo-standards/pkg/validate/rules"
)

func TestMajor(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"4.0.0", 4, false},
		{"v5.2.1", 5, false},
		{"3.0.0-beta.2", 3, false},
		{"next", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Major(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetVersion_PreservesFormatting(t *testing.T) {
	in := []byte("{\n    \"meta\": {\"version\": 99},\n    \"version\"  :\t3,\n    \"x\": [1, 2]\n}\n")

	out, err := SetVersion(in, 12)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"meta\": {\"version\": 99},\n    \"version\"  :\t12,\n    \"x\": [1, 2]\n}\n", string(out))
}

func TestSetVersion_Errors(t *testing.T) {
	_, err := SetVersion([]byte(`[1]`), 2)
	assert.Error(t, err)

	_, err = SetVersion([]byte(`{"a": 1}`), 2)
	assert.ErrorContains(t, err, "no top-level version")

	_, err = SetVersion([]byte(`{"version": "3"}`), 2)
	assert.ErrorContains(t, err, "not a number")
}

func TestSetYAMLVersion(t *testing.T) {
	out, err := SetYAMLVersion([]byte("# master\nversion: 3\nmeta:\n  version: 7\n"), 4)
	require.NoError(t, err)
	assert.Equal(t, "# master\nversion: 4\nmeta:\n  version: 7\n", string(out))

	_, err = SetYAMLVersion([]byte("stacks: {}\n"), 4)
	assert.Error(t, err)
}

func TestUpdateReadme(t *testing.T) {
	got, warnings := UpdateReadme(testutil.Readme("3"), 4)
	assert.Empty(t, warnings)
	assert.Contains(t, got, "version — schema version (currently `4`)")
	assert.Contains(t, got, "- `4` — Schema version aligned to package major version 4.\n\n"+ReadmeAnchor)
	assert.Contains(t, got, "- `3` — Schema version aligned", "history is kept")

	again, warnings := UpdateReadme(got, 4)
	assert.Empty(t, warnings)
	assert.Equal(t, got, again, "idempotent")

	_, warnings = UpdateReadme("# nothing here\n", 4)
	assert.Len(t, warnings, 2)
}

func TestSync(t *testing.T) {
	dir := testutil.WriteProject(t)
	masterPath := filepath.Join(dir, "config", "standards.json")
	readmePath := filepath.Join(dir, "README.md")
	before, err := os.ReadFile(masterPath)
	require.NoError(t, err)

	res, err := Sync(Options{MasterPath: masterPath, ReadmePath: readmePath, Version: "4.0.0"}, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Previous)
	assert.Equal(t, 4, res.Next)
	assert.True(t, res.MasterUpdated)
	assert.True(t, res.ReadmeUpdated)
	assert.Empty(t, res.Warnings)

	after, err := os.ReadFile(masterPath)
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(string(before), `"version": 3`, `"version": 4`, 1), string(after))

	// The synced project validates against the new release.
	doc, err := loader.Load(masterPath)
	require.NoError(t, err)
	readme, err := os.ReadFile(readmePath)
	require.NoError(t, err)
	result := validate.Validate(&validate.Context{
		Master:         doc.Master,
		Instance:       doc.Instance,
		Readme:         readme,
		PackageVersion: "4.0.0",
	})
	assert.True(t, result.Valid, "%v", result.Findings)
}

func TestSync_UpgradeOnly(t *testing.T) {
	dir := testutil.WriteProject(t)
	masterPath := filepath.Join(dir, "config", "standards.json")
	before, err := os.ReadFile(masterPath)
	require.NoError(t, err)

	for _, v := range []string{"3.9.9", "2.0.0"} {
		res, err := Sync(Options{MasterPath: masterPath, Version: v}, nil)
		require.NoError(t, err)
		assert.False(t, res.MasterUpdated)
	}

	after, err := os.ReadFile(masterPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSync_MissingReadme(t *testing.T) {
	dir := testutil.WriteProject(t)
	res, err := Sync(Options{
		MasterPath: filepath.Join(dir, "config", "standards.json"),
		ReadmePath: filepath.Join(dir, "MISSING.md"),
		Version:    "5.0.0",
	}, nil)
	require.NoError(t, err)
	assert.True(t, res.MasterUpdated)
	assert.False(t, res.ReadmeUpdated)
	assert.Len(t, res.Warnings, 1)
}

func TestSync_BadVersion(t *testing.T) {
	_, err := Sync(Options{MasterPath: "unused.json", Version: "latest"}, nil)
	assert.Error(t, err)
}
