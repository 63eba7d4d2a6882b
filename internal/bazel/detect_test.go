package bazel

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  Detection
	}{
		{
			name:  "empty repository",
			files: nil,
			want:  Detection{Markers: []string{}},
		},
		{
			name:  "bzlmod",
			files: []string{"MODULE.bazel", ".bazelversion"},
			want:  Detection{Detected: true, Mode: ModeBzlmod, Markers: []string{"MODULE.bazel", ".bazelversion"}},
		},
		{
			name:  "bzlmod wins over workspace",
			files: []string{"MODULE.bazel", "WORKSPACE"},
			want:  Detection{Detected: true, Mode: ModeBzlmod, Markers: []string{"MODULE.bazel"}},
		},
		{
			name:  "workspace reports first marker only",
			files: []string{"WORKSPACE.bazel", "WORKSPACE", ".bazelrc"},
			want:  Detection{Detected: true, Mode: ModeWorkspace, Markers: []string{"WORKSPACE.bazel", ".bazelrc"}},
		},
		{
			name:  "legacy workspace",
			files: []string{"WORKSPACE"},
			want:  Detection{Detected: true, Mode: ModeWorkspace, Markers: []string{"WORKSPACE"}},
		},
		{
			name:  "optional markers alone do not detect",
			files: []string{".bazelrc", ".bazelversion"},
			want:  Detection{Markers: []string{".bazelrc", ".bazelversion"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o600))
			}
			assert.Equal(t, tt.want, Detect(dir))
		})
	}
}

func TestDetect_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor", "dep"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "dep", "MODULE.bazel"), nil, 0o600))

	assert.False(t, Detect(dir).Detected)
}

func TestDetection_JSON(t *testing.T) {
	data, err := json.Marshal(Detection{Markers: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"detected": false, "markers": []}`, string(data))
}
