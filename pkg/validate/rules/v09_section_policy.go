package rules

import (
	"fmt"

	"github.com/oddessentials/repo-standards/pkg/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V09",
		Name:        "section-policy",
		Group:       GroupPolicy,
		Description: "Item enforcement and severity match the section it is declared in",
		Severity:    validate.SeverityError,
		Check:       checkSectionPolicy,

		Rationale: `The section is the policy: core items are required errors, recommended items are
recommended warnings and optional enhancements are optional infos. Contradicting values confuse consumers.`,
		Fix: "Move the item to the matching section or drop the contradicting field.",
	})
}

// checkSectionPolicy only checks fields that are present.
func checkSectionPolicy(ctx *validate.Context) []validate.Finding {
	var findings []validate.Finding
	for _, si := range allItems(ctx.Master) {
		enforcement, severity := si.Section.Policy()
		if e := si.Item.Enforcement; e != "" && e != enforcement {
			findings = append(findings, validate.Finding{
				Kind:    validate.KindSectionPolicy,
				Message: fmt.Sprintf("Item %q in %s has enforcement %q (expected %q)", si.Item.ID, si.Section, e, enforcement),
				ItemID:  si.Item.ID,
				Path:    itemPath(si) + "/enforcement",
			})
		}
		if s := si.Item.Severity; s != "" && s != severity {
			findings = append(findings, validate.Finding{
				Kind:    validate.KindSectionPolicy,
				Message: fmt.Sprintf("Item %q in %s has severity %q (expected %q)", si.Item.ID, si.Section, s, severity),
				ItemID:  si.Item.ID,
				Path:    itemPath(si) + "/severity",
			})
		}
	}
	return findings
}
