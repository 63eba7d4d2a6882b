package rules

import (
	"fmt"

	"github.com/oddessentials/repo-standards/pkg/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V11",
		Name:        "stack-hint-keys",
		Group:       GroupReferences,
		Description: "stackHints keys are declared stacks",
		Severity:    validate.SeverityError,
		Check:       checkStackHintKeys,

		Rationale: "Hints for an undeclared stack are dropped by every projection.",
		Fix:       "Declare the stack or rename the stackHints key.",
	})
}

func checkStackHintKeys(ctx *validate.Context) []validate.Finding {
	var findings []validate.Finding
	for _, si := range allItems(ctx.Master) {
		for _, key := range sortedKeys(si.Item.StackHints) {
			if ctx.Master.HasStack(key) {
				continue
			}
			findings = append(findings, validate.Finding{
				Kind:    validate.KindUnknownStack,
				Message: fmt.Sprintf("Item %q has stackHints key %q not in stacks", si.Item.ID, key),
				ItemID:  si.Item.ID,
				Path:    fmt.Sprintf("%s/stackHints/%s", itemPath(si), key),
			})
		}
	}
	return findings
}
