package rules

import (
	"fmt"

	"github.com/oddessentials/repo-standards/pkg/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V04",
		Name:        "stack-references",
		Group:       GroupReferences,
		Description: "Items only apply to declared stacks",
		Severity:    validate.SeverityError,
		Check:       checkStackReferences,

		Rationale: "An item scoped to an undeclared stack never appears in any projection.",
		Fix:       "Declare the stack under \"stacks\" or fix the identifier in appliesTo.stacks.",
	})
}

func checkStackReferences(ctx *validate.Context) []validate.Finding {
	var findings []validate.Finding
	for _, si := range allItems(ctx.Master) {
		for i, stack := range si.Item.AppliesTo.Stacks {
			if ctx.Master.HasStack(stack) {
				continue
			}
			findings = append(findings, validate.Finding{
				Kind:    validate.KindUnknownStack,
				Message: fmt.Sprintf("Item %q references unknown stack %q in appliesTo.stacks", si.Item.ID, stack),
				ItemID:  si.Item.ID,
				Path:    fmt.Sprintf("%s/appliesTo/stacks/%d", itemPath(si), i),
			})
		}
	}
	return findings
}
