package rules

import (
	"fmt"

	"github.com/oddessentials/repo-standards/pkg/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V03",
		Name:        "migration-references",
		Group:       GroupReferences,
		Description: "Migration guide focus IDs reference existing checklist items",
		Severity:    validate.SeverityError,
		Check:       checkMigrationReferences,

		Rationale: "A migration step pointing at a removed or misspelled item silently drops guidance.",
		Fix:       "Correct the focus ID or remove it from the migration step.",
	})
}

func checkMigrationReferences(ctx *validate.Context) []validate.Finding {
	if ctx.Master == nil || ctx.Master.Meta == nil {
		return nil
	}
	ids := ctx.Master.ItemIDs()

	var findings []validate.Finding
	for si, step := range ctx.Master.Meta.MigrationGuide {
		for fi, id := range step.FocusIDs {
			if ids[id] {
				continue
			}
			findings = append(findings, validate.Finding{
				Kind:    validate.KindDanglingRef,
				Message: fmt.Sprintf("migrationGuide focusId %q does not reference a valid checklist ID", id),
				ItemID:  id,
				Path:    fmt.Sprintf("/meta/migrationGuide/%d/focusIds/%d", si, fi),
			})
		}
	}
	return findings
}
