package rules

import (
	"fmt"
	"strings"

	"github.com/oddessentials/repo-standards/pkg/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V02",
		Name:        "unique-ids",
		Group:       GroupStructure,
		Description: "Checklist item identifiers are unique across all sections",
		Severity:    validate.SeverityError,
		Check:       checkUniqueIDs,

		Rationale: `Item identifiers are the stable keys consumers and the migration guide refer to.
An identifier used twice makes every reference to it ambiguous, even across sections.`,
		Fix: "Rename one of the items so every identifier appears exactly once.",
	})
}

// checkUniqueIDs reports each duplicated identifier once, listing every
// location it occurs at, in document order.
func checkUniqueIDs(ctx *validate.Context) []validate.Finding {
	locations := make(map[string][]string)
	var order []string
	for _, si := range allItems(ctx.Master) {
		id := si.Item.ID
		if _, seen := locations[id]; !seen {
			order = append(order, id)
		}
		locations[id] = append(locations[id], itemPath(si))
	}

	var findings []validate.Finding
	for _, id := range order {
		locs := locations[id]
		if len(locs) < 2 {
			continue
		}
		findings = append(findings, validate.Finding{
			Kind:    validate.KindDuplicateID,
			Message: fmt.Sprintf("Duplicate checklist ID %q found %d times (%s)", id, len(locs), strings.Join(locs, ", ")),
			ItemID:  id,
			Path:    locs[1],
		})
	}
	return findings
}
