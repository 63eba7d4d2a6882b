package rules

import (
	"fmt"

	"github.com/oddessentials/repo-standards/pkg/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V05",
		Name:        "ci-hint-keys",
		Group:       GroupReferences,
		Description: "ciHints keys are declared CI systems",
		Severity:    validate.SeverityError,
		Check:       checkCIHintKeys,

		Rationale: "Hints for an undeclared CI system can never be selected by a projection.",
		Fix:       "Add the CI system to \"ciSystems\" or rename the ciHints key.",
	})
}

func checkCIHintKeys(ctx *validate.Context) []validate.Finding {
	var findings []validate.Finding
	for _, si := range allItems(ctx.Master) {
		for _, key := range sortedKeys(si.Item.CIHints) {
			if ctx.Master.HasCISystem(key) {
				continue
			}
			findings = append(findings, validate.Finding{
				Kind:    validate.KindUnknownCISystem,
				Message: fmt.Sprintf("Item %q has ciHints key %q not in ciSystems", si.Item.ID, key),
				ItemID:  si.Item.ID,
				Path:    fmt.Sprintf("%s/ciHints/%s", itemPath(si), key),
			})
		}
	}
	return findings
}
