package rules

import (
	"fmt"

	"github.com/oddessentials/repo-standards/pkg/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V12",
		Name:        "ci-applicability",
		Group:       GroupReferences,
		Description: "appliesTo.ciSystems only names declared CI systems",
		Severity:    validate.SeverityError,
		Check:       checkCIApplicability,

		Rationale: "An item restricted to an undeclared CI system disappears from every CI view.",
		Fix:       "Add the CI system to \"ciSystems\" or fix appliesTo.ciSystems.",
	})
}

func checkCIApplicability(ctx *validate.Context) []validate.Finding {
	var findings []validate.Finding
	for _, si := range allItems(ctx.Master) {
		for i, ci := range si.Item.AppliesTo.CISystems {
			if ctx.Master.HasCISystem(ci) {
				continue
			}
			findings = append(findings, validate.Finding{
				Kind:    validate.KindUnknownCISystem,
				Message: fmt.Sprintf("Item %q references unknown CI system %q in appliesTo.ciSystems", si.Item.ID, ci),
				ItemID:  si.Item.ID,
				Path:    fmt.Sprintf("%s/appliesTo/ciSystems/%d", itemPath(si), i),
			})
		}
	}
	return findings
}
