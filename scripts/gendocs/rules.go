package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/oddessentials/repo-standards/pkg/validate"
	"github.com/oddessentials/repo-standards/pkg/validate/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	rules.GroupStructure:  "Rules about the shape of the document: schema conformance and identifier uniqueness.",
	rules.GroupReferences: "Rules about references between parts of the document: stacks, CI systems and migration steps.",
	rules.GroupPolicy:     "Rules about checklist policy: sections, execution stages, thresholds and the schema version.",
	rules.GroupDocs:       "Rules that keep the README consistent with the document.",
}

// groupOrder is the order groups appear in on the rules page.
var groupOrder = []string{rules.GroupStructure, rules.GroupReferences, rules.GroupPolicy, rules.GroupDocs}

// generateRuleDocs generates the validation rules reference.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	all := validate.GetAll()

	w := NewMarkdownWriter()
	w.Frontmatter("Validation Rules", "Rules checked by repo-standards validate")
	w.GeneratedMarker()

	w.Header(1, "Validation Rules")
	w.Paragraph(fmt.Sprintf("`repo-standards validate` checks the master document against **%d rules**. "+
		"All findings are reported together; only error findings make the document invalid.", len(all)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "The document is invalid and no artifacts are built"},
			{InlineCode("warning"), "Reported, but the document stays valid"},
			{InlineCode("info"), "Informational feedback"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules can be disabled or re-graded in `repo-standards.yaml`:")
	w.CodeBlock("yaml", `validate:
  disabled: [V08]        # skip the README version check
  severity:
    V12: error           # promote a warning`)

	grouped := make(map[string][]validate.RuleDef)
	for _, r := range all {
		grouped[r.Group] = append(grouped[r.Group], r)
	}

	for _, group := range groupOrder {
		groupRules := grouped[group]
		if len(groupRules) == 0 {
			continue
		}

		// Write group header with anchor
		w.Line(fmt.Sprintf("## %s {#%s}", capitalizeFirst(group), group))
		w.Newline()

		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}

		for _, rule := range groupRules {
			writeRuleDoc(w, rule)
		}
	}

	if err := os.WriteFile(filepath.Join(outDir, "rules.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated rules.md")
	return nil
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule validate.RuleDef) {
	// Rule header with anchor: ### V02 - unique-ids {#V02}
	w.Line(fmt.Sprintf("### %s - %s {#%s}", rule.ID, rule.Name, rule.ID))
	w.Newline()

	w.Line(fmt.Sprintf("**Severity:** %s", InlineCode(rule.Severity.String())))
	w.Newline()

	w.Paragraph(cleanDescription(rule.Description))

	if rule.Rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(strings.TrimSpace(rule.Rationale))
	}

	if rule.Fix != "" {
		w.Header(4, "How to Fix")
		w.Paragraph(strings.TrimSpace(rule.Fix))
	}

	w.Line("---")
	w.Newline()
}
