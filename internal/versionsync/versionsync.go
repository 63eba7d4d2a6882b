// Package versionsync raises the schema version of a master document, and
// the README references to it, to the major version of a package release.
//
// Syncing only ever upgrades: a release whose major version is not above the
// current schema version leaves every file untouched.
package versionsync

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/oddessentials/repo-standards/internal/loader"
)

// ReadmeAnchor is the README sentence new schema-version entries are
// inserted in front of.
const ReadmeAnchor = "Consumers should ignore unknown fields for forward compatibility."

// Options configures Sync.
type Options struct {
	MasterPath string
	ReadmePath string // optional
	Version    string // semantic version of the release
}

// Result describes what Sync did.
type Result struct {
	Previous      int      `json:"previous"`
	Next          int      `json:"next"`
	MasterUpdated bool     `json:"masterUpdated"`
	ReadmeUpdated bool     `json:"readmeUpdated"`
	Warnings      []string `json:"warnings"`
}

// Major returns the major component of a semantic version.
func Major(version string) (int, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return 0, fmt.Errorf("unable to parse major version from %q: %w", version, err)
	}
	return int(v.Major()), nil //nolint:gosec // G115: schema versions are small
}

// Sync raises the master document's version to the release's major version
// and updates the README to match.
func Sync(opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	next, err := Major(opts.Version)
	if err != nil {
		return nil, err
	}

	doc, err := loader.Load(opts.MasterPath)
	if err != nil {
		return nil, err
	}
	res := &Result{Previous: doc.Master.Version, Next: next}

	if next <= doc.Master.Version {
		logger.Info("schema version already current; no update needed",
			slog.Int("version", doc.Master.Version),
			slog.Int("release_major", next))
		return res, nil
	}

	var updated []byte
	if doc.Format == loader.FormatYAML {
		updated, err = SetYAMLVersion(doc.Raw, next)
	} else {
		updated, err = SetVersion(doc.Raw, next)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.MasterPath, err)
	}
	if err := writeKeepMode(opts.MasterPath, updated); err != nil {
		return nil, err
	}
	res.MasterUpdated = true
	logger.Info("updated schema version", slog.Int("from", res.Previous), slog.Int("to", next))

	if opts.ReadmePath == "" {
		return res, nil
	}
	readme, err := os.ReadFile(opts.ReadmePath)
	if errors.Is(err, os.ErrNotExist) {
		res.Warnings = append(res.Warnings, "README not found; skipping README update")
		logger.Warn("README not found; skipping README update", slog.String("path", opts.ReadmePath))
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read README: %w", err)
	}

	text, warnings := UpdateReadme(string(readme), next)
	for _, w := range warnings {
		logger.Warn(w)
	}
	res.Warnings = append(res.Warnings, warnings...)
	if text != string(readme) {
		if err := writeKeepMode(opts.ReadmePath, []byte(text)); err != nil {
			return nil, err
		}
		res.ReadmeUpdated = true
		logger.Info("updated README schema version references")
	}
	return res, nil
}

// SetVersion replaces the value of the top-level "version" member of a JSON
// object in place, leaving every other byte as it was.
func SetVersion(data []byte, version int) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("document root is not an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		keyEnd := dec.InputOffset()

		if key != "version" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if _, ok := valTok.(json.Number); !ok {
			return nil, fmt.Errorf("version is %v, not a number", valTok)
		}
		end := dec.InputOffset()

		seg := data[keyEnd:end]
		colon := bytes.IndexByte(seg, ':')
		literal := bytes.TrimLeft(seg[colon+1:], " \t\r\n")
		start := end - int64(len(literal))

		out := make([]byte, 0, len(data)+4)
		out = append(out, data[:start]...)
		out = strconv.AppendInt(out, int64(version), 10)
		out = append(out, data[end:]...)
		return out, nil
	}
	return nil, errors.New("document has no top-level version")
}

var yamlVersionPattern = regexp.MustCompile(`(?m)^(version:[ \t]*)\d+`)

// SetYAMLVersion replaces the top-level version of a YAML document.
func SetYAMLVersion(data []byte, version int) ([]byte, error) {
	loc := yamlVersionPattern.FindSubmatchIndex(data)
	if loc == nil {
		return nil, errors.New("document has no top-level version")
	}
	out := make([]byte, 0, len(data)+4)
	out = append(out, data[:loc[3]]...)
	out = strconv.AppendInt(out, int64(version), 10)
	out = append(out, data[loc[1]:]...)
	return out, nil
}

var readmeCurrentLine = regexp.MustCompile("version\\s+—\\s+schema version \\(currently `\\d+`\\)")

// UpdateReadme rewrites the "currently" line and adds a schema-version list
// entry for version. Missing markers produce warnings, not errors.
func UpdateReadme(readme string, version int) (string, []string) {
	var warnings []string

	if loc := readmeCurrentLine.FindStringIndex(readme); loc != nil {
		replacement := fmt.Sprintf("version — schema version (currently `%d`)", version)
		readme = readme[:loc[0]] + replacement + readme[loc[1]:]
	} else {
		warnings = append(warnings, "README current schema version line not found; skipping update")
	}

	if !strings.Contains(readme, fmt.Sprintf("- `%d` —", version)) {
		if strings.Contains(readme, ReadmeAnchor) {
			entry := fmt.Sprintf("- `%d` — Schema version aligned to package major version %d.", version, version)
			readme = strings.Replace(readme, ReadmeAnchor, entry+"\n\n"+ReadmeAnchor, 1)
		} else {
			warnings = append(warnings, "README schema version list anchor not found; skipping list update")
		}
	}
	return readme, warnings
}

func writeKeepMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
