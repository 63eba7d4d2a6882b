// Package config provides configuration management for the repo-standards CLI.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oddessentials/repo-standards/pkg/validate"
)

// Config holds all CLI configuration options.
type Config struct {
	ProjectRoot    string            `koanf:"-"`
	MasterPath     string            `koanf:"master"`
	SchemaPath     string            `koanf:"schema"`
	ReadmePath     string            `koanf:"readme"`
	OutDir         string            `koanf:"out_dir"`
	PackageVersion string            `koanf:"package_version"`
	OutputFormat   string            `koanf:"output"`
	Verbose        bool              `koanf:"verbose"`
	LogLevel       string            `koanf:"log_level"`
	LogFormat      string            `koanf:"log_format"`
	StackAliases   map[string]string `koanf:"stack_aliases"`
	Validation     ValidateConfig    `koanf:"validate"`
	Build          BuildConfig       `koanf:"build"`
}

// ValidateConfig tunes the rule set.
type ValidateConfig struct {
	Disabled []string          `koanf:"disabled"`
	Severity map[string]string `koanf:"severity"`
}

// BuildConfig holds options for the build command.
type BuildConfig struct {
	Concurrency int  `koanf:"concurrency"`
	CIViews     bool `koanf:"ci_views"`
}

// Default configuration values.
const (
	DefaultMasterPath  = "config/standards.json"
	DefaultReadmePath  = "README.md"
	DefaultOutDir      = "dist/config"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultConcurrency = 4
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"repo-standards.yaml", "repo-standards.yml"}

// DefaultStackAliases maps common alternate spellings to canonical stack ids.
func DefaultStackAliases() map[string]string {
	return map[string]string{
		"csharp": "csharp-dotnet",
		"dotnet": "csharp-dotnet",
		"golang": "go",
		"js":     "typescript-js",
		"py":     "python",
		"rs":     "rust",
		"ts":     "typescript-js",
	}
}

// ResolveStack maps an alias to its canonical stack id. Unknown names are
// returned lower-cased and otherwise unchanged.
func (c *Config) ResolveStack(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := c.StackAliases[key]; ok {
		return target
	}
	return key
}

// ValidatorConfig converts the validate section into a validator config.
func (c *Config) ValidatorConfig() (*validate.Config, error) {
	vc := validate.NewConfig()
	for _, id := range c.Validation.Disabled {
		if id = strings.TrimSpace(id); id != "" {
			vc.DisabledRules[strings.ToUpper(id)] = true
		}
	}

	ids := make([]string, 0, len(c.Validation.Severity))
	for id := range c.Validation.Severity {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sev, ok := validate.ParseSeverity(c.Validation.Severity[id])
		if !ok {
			return nil, fmt.Errorf("validate.severity.%s: unknown severity %q (want error, warning or info)", id, c.Validation.Severity[id])
		}
		vc.SeverityOverrides[strings.ToUpper(id)] = sev
	}
	return vc, nil
}

// Validate checks the configuration for values that cannot be acted on.
func (c *Config) Validate() error {
	if c.MasterPath == "" {
		return fmt.Errorf("master is required")
	}
	if c.Build.Concurrency < 0 {
		return fmt.Errorf("build.concurrency must not be negative, got %d", c.Build.Concurrency)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if _, err := c.ValidatorConfig(); err != nil {
		return err
	}
	return nil
}
