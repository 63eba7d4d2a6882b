// Package instructions renders a projected checklist as Markdown guidance
// for coding agents.
package instructions

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/oddessentials/repo-standards/pkg/standards"
)

const (
	// MaxBullets caps the guidance rendered per item.
	MaxBullets = 5
	// maxNotesLen is the length below which stack notes are short enough to
	// be rendered as a bullet.
	maxNotesLen = 150
	// maxOptionalFiles is how many optional files are named before eliding.
	maxOptionalFiles = 3
)

// SectionTitle returns the heading of a section, e.g. "Core Requirements".
func SectionTitle(s standards.Section) string {
	return cases.Title(language.English).String(s.Title())
}

// ArtifactName returns the file name instructions for target are written
// to: instructions.<stack>[.<ci>].md.
func ArtifactName(stack, ci string) string {
	if ci == "" {
		return fmt.Sprintf("instructions.%s.md", stack)
	}
	return fmt.Sprintf("instructions.%s.%s.md", stack, ci)
}

// Render returns the Markdown instructions for p. source names the
// projection the instructions were generated from; empty omits the line.
func Render(p *standards.Projected, source string) string {
	w := &markdownWriter{}

	w.heading(1, "Repository Standards Instructions")
	if source != "" {
		w.line("> Auto-generated from `%s`", source)
	}
	w.line("> Stack: %s | CI: %s", p.StackLabel, strings.Join(p.CISystems, ", "))
	w.blank()
	w.line("This document provides high-level guidance for an autonomous coding agent to bring a repository into compliance with the defined standards.")
	w.blank()

	for _, s := range standards.Sections() {
		items := p.Checklist.Section(s)
		if len(items) == 0 {
			continue
		}
		w.heading(2, SectionTitle(s))
		for i := range items {
			w.heading(3, items[i].Label)
			for _, b := range Bullets(&items[i]) {
				w.line("- %s", b)
			}
			w.blank()
		}
	}
	return w.String()
}

// Bullets derives up to MaxBullets lines of guidance from an item and its
// stack hints, most important first.
func Bullets(item *standards.ProjectedItem) []string {
	bullets := []string{item.Description}
	h := item.Stack
	if h == nil {
		return bullets
	}

	if h.Verification != "" {
		bullets = append(bullets, "Verify with: "+h.Verification)
	}

	required := strings.Join(h.RequiredFiles, ", ")
	anyOf := strings.Join(h.AnyOfFiles, ", ")
	switch {
	case required != "" && anyOf != "":
		bullets = append(bullets, fmt.Sprintf("Ensure %s exists, and at least one of %s is present.", required, anyOf))
	case required != "":
		bullets = append(bullets, fmt.Sprintf("Ensure %s exists in the repository.", required))
	case anyOf != "":
		bullets = append(bullets, fmt.Sprintf("Ensure at least one of %s is present.", anyOf))
	}

	if len(h.RequiredScripts) > 0 {
		bullets = append(bullets, fmt.Sprintf("Define a %s script or equivalent command.", codeList(h.RequiredScripts)))
	}

	if mc := h.MachineCheck; mc != nil {
		prefix := ""
		if mc.Description != "" {
			prefix = mc.Description + " "
		}
		code := 0
		if mc.ExpectExitCode != nil {
			code = *mc.ExpectExitCode
		}
		bullets = append(bullets, fmt.Sprintf("%sRun `%s` (expect exit code %d).", prefix, mc.Command, code))
	}

	tools := strings.Join(h.ExampleTools, ", ")
	configs := strings.Join(h.ExampleConfigFiles, ", ")
	switch {
	case tools != "" && configs != "":
		bullets = append(bullets, fmt.Sprintf("Common tools: %s. Example config files: %s.", tools, configs))
	case tools != "":
		bullets = append(bullets, fmt.Sprintf("Common tools: %s.", tools))
	case configs != "":
		bullets = append(bullets, fmt.Sprintf("Example config files: %s.", configs))
	}

	if h.PinningNotes != "" {
		bullets = append(bullets, h.PinningNotes)
	}

	if n := len(h.OptionalFiles); n > 0 {
		files := h.OptionalFiles
		more := ""
		if n > maxOptionalFiles {
			files = files[:maxOptionalFiles]
			more = " and others"
		}
		bullets = append(bullets, fmt.Sprintf("Consider adding %s%s if applicable.", strings.Join(files, ", "), more))
	}

	if bz := h.BazelHints; bz != nil {
		if len(bz.Commands) > 0 {
			bullets = append(bullets, fmt.Sprintf("Bazel commands: %s.", codeList(bz.Commands)))
		}
		if len(bz.RecommendedTargets) > 0 {
			bullets = append(bullets, fmt.Sprintf("Recommended Bazel targets: %s.", strings.Join(bz.RecommendedTargets, ", ")))
		}
		if bz.Notes != "" {
			bullets = append(bullets, bz.Notes)
		}
	}

	if h.Notes != "" && utf8.RuneCountInString(h.Notes) < maxNotesLen {
		bullets = append(bullets, h.Notes)
	}

	if len(bullets) > MaxBullets {
		bullets = bullets[:MaxBullets]
	}
	return bullets
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}

type markdownWriter struct {
	sb strings.Builder
}

func (w *markdownWriter) heading(level int, text string) {
	w.sb.WriteString(strings.Repeat("#", level))
	w.sb.WriteByte(' ')
	w.sb.WriteString(text)
	w.sb.WriteString("\n\n")
}

func (w *markdownWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

func (w *markdownWriter) blank() {
	w.sb.WriteByte('\n')
}

func (w *markdownWriter) String() string {
	return w.sb.String()
}
