package rules

import (
	"fmt"
	"strconv"

	"github.com/oddessentials/repo-standards/pkg/standards"
	"github.com/oddessentials/repo-standards/pkg/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V06",
		Name:        "coverage-threshold",
		Group:       GroupPolicy,
		Description: "A ratio coverage threshold lies in [0, 1]",
		Severity:    validate.SeverityError,
		Check:       checkCoverageThreshold,

		Rationale: `A threshold of 80 with unit "ratio" reads as 8000% and fails every consumer.`,
		Fix:       "Express the threshold as a fraction (0.8) or change coverageThresholdUnit.",
	})
}

func checkCoverageThreshold(ctx *validate.Context) []validate.Finding {
	if ctx.Master == nil || ctx.Master.Meta == nil {
		return nil
	}
	meta := ctx.Master.Meta
	if meta.DefaultCoverageThreshold == nil || meta.CoverageThresholdUnit != standards.CoverageUnitRatio {
		return nil
	}
	v := *meta.DefaultCoverageThreshold
	if v >= 0 && v <= 1 {
		return nil
	}
	return []validate.Finding{{
		Kind: validate.KindThresholdRange,
		Message: fmt.Sprintf("defaultCoverageThreshold is %s but coverageThresholdUnit is %q (must be 0-1)",
			strconv.FormatFloat(v, 'f', -1, 64), standards.CoverageUnitRatio),
		Path: "/meta/defaultCoverageThreshold",
	}}
}
