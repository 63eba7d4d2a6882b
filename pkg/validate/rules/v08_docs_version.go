package rules

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/oddessentials/repo-standards/pkg/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V08",
		Name:        "docs-version",
		Group:       GroupDocs,
		Description: "README references the current schema version",
		Severity:    validate.SeverityError,
		Check:       checkDocsVersion,

		Rationale: `The README tells consumers which schema version they are reading. It must name the
current version both in the "(currently N)" line and in the version history list.`,
		Fix: "Run `repo-standards sync-version` or edit the README by hand.",
	})
}

var readmeCurrentPattern = regexp.MustCompile("(?i)version.*\\(currently `(\\d+)`\\)")

// readmeListPattern matches the schema-version history entry for version.
func readmeListPattern(version int) *regexp.Regexp {
	return regexp.MustCompile("-\\s*`" + strconv.Itoa(version) + "`\\s*—")
}

// checkDocsVersion is vacuous when no README was supplied.
func checkDocsVersion(ctx *validate.Context) []validate.Finding {
	if ctx.Readme == nil || ctx.Master == nil {
		return nil
	}
	version := ctx.Master.Version

	var findings []validate.Finding
	m := readmeCurrentPattern.FindSubmatch(ctx.Readme)
	switch {
	case m == nil:
		findings = append(findings, validate.Finding{
			Kind:    validate.KindDocsVersion,
			Message: "README.md missing current schema version reference",
		})
	case string(m[1]) != strconv.Itoa(version):
		findings = append(findings, validate.Finding{
			Kind:    validate.KindDocsVersion,
			Message: fmt.Sprintf("README.md current schema version (%s) does not match standards.json (%d)", m[1], version),
		})
	}

	if !readmeListPattern(version).Match(ctx.Readme) {
		findings = append(findings, validate.Finding{
			Kind:    validate.KindDocsVersion,
			Message: fmt.Sprintf("README.md schema version list does not include current version %d", version),
		})
	}
	return findings
}
