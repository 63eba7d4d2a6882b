package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/oddessentials/repo-standards/internal/cli"
	"github.com/oddessentials/repo-standards/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const binary = "repo-standards"

// generateCLIDocs writes index.md plus one page per user-facing command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	root := cli.NewRootCmd()
	if err := writePage(outDir, "index.md", renderCLIIndex(root)); err != nil {
		return err
	}
	for _, cmd := range visibleCommands(root) {
		if err := writePage(outDir, pageName(cmd), renderCommandPage(cmd)); err != nil {
			return err
		}
	}
	return nil
}

func writePage(outDir, name string, body []byte) error {
	if err := os.WriteFile(filepath.Join(outDir, name), body, 0600); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	log.Printf("  Generated %s", name)
	return nil
}

// visibleCommands returns every documented command below parent, depth first.
func visibleCommands(parent *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range parent.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		out = append(out, c)
		out = append(out, visibleCommands(c)...)
	}
	return out
}

// pageName is the command path without the binary, joined with dashes.
func pageName(cmd *cobra.Command) string {
	path := strings.Fields(cmd.CommandPath())[1:]
	return strings.Join(path, "-") + ".md"
}

func renderCLIIndex(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for "+binary)
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(binary + " validates the master standards document and compiles it into per-stack and per-CI-system checklists, agent instructions and README snippets.")
	w.CodeBlock("bash", "go install github.com/oddessentials/repo-standards/cmd/repo-standards@latest\n"+binary+" <command> [options]")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range visibleCommands(root) {
		name := strings.TrimSuffix(pageName(cmd), ".md")
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), name),
			strings.Join(strings.Fields(cmd.Use)[1:], " "),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Arguments", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Paragraph("Every command accepts these flags. Each one can also be set from the environment variable in the Env column or from the configuration file. Flags win over the environment, which wins over the file.")
	flagTable(w, root.PersistentFlags(), true)
	w.Paragraph(fmt.Sprintf("Nested configuration keys use a double underscore, for example %s.", InlineCode(config.EnvPrefix+"BUILD__CONCURRENCY")))

	w.Header(2, "Exit Status")
	w.BulletList([]string{
		InlineCode("0") + " the command succeeded",
		InlineCode("1") + " the document is invalid, generated artifacts drifted, or the command failed; details go to stderr",
	})

	return w.Bytes()
}

func renderCommandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.CommandPath())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)
	w.CodeBlock("bash", cmd.UseLine())

	if len(cmd.Aliases) > 0 {
		w.Paragraph("Aliases: " + InlineCode(strings.Join(cmd.Aliases, "`, `")))
	}

	if subs := visibleCommands(cmd); len(subs) > 0 {
		w.Header(2, "Subcommands")
		items := make([]string, 0, len(subs))
		for _, sub := range subs {
			items = append(items, InlineCode(sub.Name())+" "+cleanDescription(sub.Short))
		}
		w.BulletList(items)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		flagTable(w, cmd.LocalFlags(), false)
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Header(2, "Global Options")
		flagTable(w, cmd.InheritedFlags(), true)
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w.Bytes()
}

// flagTable renders flags as a table. Global flags get an Env column.
func flagTable(w *MarkdownWriter, flags *pflag.FlagSet, global bool) {
	headers := []string{"Flag", "Type", "Default", "Description"}
	if global {
		headers = []string{"Flag", "Type", "Default", "Env", "Description"}
	}

	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := ""
		if f.DefValue != "" && f.DefValue != "[]" {
			def = InlineCode(f.DefValue)
		}
		row := []string{name, f.Value.Type(), def}
		if global {
			env := ""
			if name := envName(f.Name); name != "" {
				env = InlineCode(name)
			}
			row = append(row, env)
		}
		rows = append(rows, append(row, cleanDescription(f.Usage)))
	})
	w.Table(headers, rows)
}

// envName derives the environment variable bound to a global flag. The
// --config flag picks the file itself and has none.
func envName(flag string) string {
	if flag == "config" {
		return ""
	}
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// dedent strips the indentation shared by all non-blank lines.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	prefix, seen := "", false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !seen || len(indent) < len(prefix) {
			prefix, seen = indent, true
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
