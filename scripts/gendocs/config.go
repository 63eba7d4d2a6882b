package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oddessentials/repo-standards/internal/cli/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "paths", "output", "validate", "build"
}

// getConfigSchema returns the configuration schema definition.
// This is based on internal/cli/config/types.go Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "master", Type: "string", Default: config.DefaultMasterPath, Description: "Master standards document (JSON or YAML)", Category: "paths"},
		{Name: "schema", Type: "string", Description: "JSON Schema replacing the embedded one", Category: "paths"},
		{Name: "readme", Type: "string", Default: config.DefaultReadmePath, Description: "README checked for the schema version; skipped when missing", Category: "paths"},
		{Name: "out_dir", Type: "string", Default: config.DefaultOutDir, Description: "Directory generated artifacts are written to", Category: "paths"},
		{Name: "package_version", Type: "string", Description: "Release version for sync-version and the schema version check", Category: "paths"},

		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text, markdown, json", Category: "output"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Shorthand for log_level: debug", Category: "output"},
		{Name: "log_level", Type: "string", Default: config.DefaultLogLevel, Description: "Log level: debug, info, warn, error", Category: "output"},
		{Name: "log_format", Type: "string", Default: config.DefaultLogFormat, Description: "Log format: text or json", Category: "output"},
		{Name: "stack_aliases", Type: "map[string]string", Description: "Extra stack aliases, merged over the built-in ones", Category: "output"},

		{Name: "validate.disabled", Type: "[]string", Description: "Rule IDs to skip", Category: "validate"},
		{Name: "validate.severity", Type: "map[string]string", Description: "Per-rule severity overrides: error, warning, info", Category: "validate"},

		{Name: "build.concurrency", Type: "int", Default: strconv.Itoa(config.DefaultConcurrency), Description: "Projection workers; 0 means unbounded", Category: "build"},
		{Name: "build.ci_views", Type: "bool", Default: "true", Description: "Also write per-CI-system views", Category: "build"},
	}
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "repo-standards configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("repo-standards reads %s (or %s) from the working directory or the nearest parent. "+
		"Relative paths in the file resolve against the directory that holds it.",
		InlineCode(config.ConfigFileNames[0]), InlineCode(config.ConfigFileNames[1])))

	fields := getConfigSchema()
	sections := []struct {
		category, title, intro string
	}{
		{"paths", "Inputs and Outputs", "Where documents are read from and artifacts are written to:"},
		{"output", "Output and Logging", "How results and logs are presented:"},
		{"validate", "Validation", "Tuning of the rule set. See the rules reference for the rule IDs."},
		{"build", "Build", "Options for `repo-standards build`:"},
	}

	for _, sec := range sections {
		w.Header(2, sec.title)
		w.Paragraph(sec.intro)

		var rows [][]string
		for _, f := range fields {
			if f.Category != sec.category {
				continue
			}
			defVal := "-"
			if f.Default != "" {
				defVal = InlineCode(f.Default)
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, f.Description})
		}
		w.Table([]string{"Field", "Type", "Default", "Description"}, rows)
	}

	w.Header(2, "Example")
	w.CodeBlock("yaml", `master: config/standards.json
readme: README.md
out_dir: dist/config
log_level: info

stack_aliases:
  golang: go

validate:
  disabled: [V08]

build:
  concurrency: 8
  ci_views: true`)

	w.Header(2, "Precedence")
	w.Paragraph(fmt.Sprintf("Defaults < configuration file < environment (%s, nested keys joined with %s) < command-line flags.",
		InlineCode(config.EnvPrefix+"*"), InlineCode("__")))

	if err := os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
