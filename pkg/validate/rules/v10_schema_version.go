package rules

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/oddessentials/repo-standards/pkg/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V10",
		Name:        "schema-version",
		Group:       GroupPolicy,
		Description: "Document version equals the package major version",
		Severity:    validate.SeverityError,
		Check:       checkSchemaVersion,

		Rationale: `The schema version is pinned to the major version of the package that ships it.
A breaking release must bump both together.`,
		Fix: "Run `repo-standards sync-version` after a major release.",
	})
}

// checkSchemaVersion is vacuous when no package version was supplied.
func checkSchemaVersion(ctx *validate.Context) []validate.Finding {
	if ctx.PackageVersion == "" || ctx.Master == nil {
		return nil
	}
	v, err := semver.NewVersion(ctx.PackageVersion)
	if err != nil {
		return []validate.Finding{{
			Kind:    validate.KindSchemaVersion,
			Message: fmt.Sprintf("package version %q is not a semantic version: %v", ctx.PackageVersion, err),
		}}
	}
	if v.Major() == uint64(ctx.Master.Version) {
		return nil
	}
	return []validate.Finding{{
		Kind:    validate.KindSchemaVersion,
		Message: fmt.Sprintf("standards.json version (%d) does not match package major version (%d)", ctx.Master.Version, v.Major()),
		Path:    "/version",
	}}
}
