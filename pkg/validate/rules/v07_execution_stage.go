package rules

import (
	"fmt"

	"github.com/oddessentials/repo-standards/pkg/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V07",
		Name:        "execution-stage",
		Group:       GroupPolicy,
		Description: "Every item declares a valid executionStage",
		Severity:    validate.SeverityError,
		Check:       checkExecutionStage,

		Rationale: "Consumers schedule checks by stage; an item without one is never run.",
		Fix:       "Set executionStage to one of pre-commit, pre-push, ci-pr, ci-main, release, nightly.",
	})
}

func checkExecutionStage(ctx *validate.Context) []validate.Finding {
	var findings []validate.Finding
	for _, si := range allItems(ctx.Master) {
		stage := si.Item.ExecutionStage
		var msg string
		switch {
		case stage == "":
			msg = fmt.Sprintf("Item %q is missing executionStage", si.Item.ID)
		case !stage.Valid():
			msg = fmt.Sprintf("Item %q has invalid executionStage %q", si.Item.ID, stage)
		default:
			continue
		}
		findings = append(findings, validate.Finding{
			Kind:    validate.KindExecutionStage,
			Message: msg,
			ItemID:  si.Item.ID,
			Path:    itemPath(si) + "/executionStage",
		})
	}
	return findings
}
