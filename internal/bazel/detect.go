// Package bazel detects whether a repository is built with Bazel.
//
// Only markers at the repository root are considered; BUILD files in
// subdirectories are ignored because vendored dependencies often ship them.
package bazel

import (
	"os"
	"path/filepath"
)

// Mode is the way a Bazel repository declares its external dependencies.
type Mode string

// Bazel modes.
const (
	ModeBzlmod    Mode = "bzlmod"
	ModeWorkspace Mode = "workspace"
)

var (
	bzlmodMarkers    = []string{"MODULE.bazel"}
	workspaceMarkers = []string{"WORKSPACE.bazel", "WORKSPACE"}
	// optionalMarkers support Bazel but never trigger detection alone.
	optionalMarkers = []string{".bazelrc", ".bazelversion"}
)

// Detection is the result of probing a repository root.
type Detection struct {
	Detected bool     `json:"detected"`
	Mode     Mode     `json:"mode,omitempty"`
	Markers  []string `json:"markers"`
}

// Detect inspects root for Bazel markers. bzlmod wins over workspace mode, and
// at most one workspace marker is reported.
func Detect(root string) Detection {
	d := Detection{Markers: []string{}}

	for _, m := range bzlmodMarkers {
		if exists(root, m) {
			d.Markers = append(d.Markers, m)
			d.Mode = ModeBzlmod
		}
	}

	if d.Mode == "" {
		for _, m := range workspaceMarkers {
			if exists(root, m) {
				d.Markers = append(d.Markers, m)
				d.Mode = ModeWorkspace
				break
			}
		}
	}

	for _, m := range optionalMarkers {
		if exists(root, m) {
			d.Markers = append(d.Markers, m)
		}
	}

	d.Detected = d.Mode != ""
	return d
}

func exists(root, name string) bool {
	_, err := os.Stat(filepath.Join(root, name))
	return err == nil
}
