package rules

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddessentials/repo-standards/internal/testutil"
	"github.com/oddessentials/repo-standards/pkg/standards"
	"github.com/oddessentials/repo-standards/pkg/validate"
)

func messages(findings []validate.Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Message)
	}
	return out
}

func instanceOf(t *testing.T, master *standards.Master) any {
	t.Helper()
	data, err := json.Marshal(master)
	require.NoError(t, err)
	inst, err := validate.DecodeInstance(data)
	require.NoError(t, err)
	return inst
}

func TestAllRulesRegistered(t *testing.T) {
	rules := validate.GetAll()
	require.Len(t, rules, 12)
	for i, r := range rules {
		assert.NotEmpty(t, r.Name, r.ID)
		assert.NotEmpty(t, r.Description, r.ID)
		assert.NotNil(t, r.Check, r.ID)
		if i > 0 {
			assert.Less(t, rules[i-1].ID, r.ID)
		}
	}
	assert.Equal(t, "V01", rules[0].ID)
	assert.Equal(t, "schema-conformance", rules[0].Name)
}

func TestValidFixture(t *testing.T) {
	ctx := validate.NewContext(testutil.Master())
	ctx.Readme = []byte(testutil.Readme("3"))
	ctx.PackageVersion = "3.4.1"

	result := validate.Validate(ctx)
	assert.Empty(t, messages(result.Findings))
	assert.True(t, result.Valid)
}

func TestSchemaConformance(t *testing.T) {
	t.Run("type mismatch", func(t *testing.T) {
		master := testutil.Master()
		inst := instanceOf(t, master).(map[string]any)
		inst["version"] = "three"

		findings := checkSchemaConformance(&validate.Context{Master: master, Instance: inst})
		require.Len(t, findings, 1)
		assert.Equal(t, "/version", findings[0].Path)
		assert.Equal(t, validate.KindSchema, findings[0].Kind)
		assert.True(t, strings.HasPrefix(findings[0].Message, "/version: "))
	})

	t.Run("unknown item field", func(t *testing.T) {
		raw := testutil.MasterJSON(t)
		var inst map[string]any
		require.NoError(t, json.Unmarshal(raw, &inst))
		core := inst["checklist"].(map[string]any)["core"].([]any)
		core[0].(map[string]any)["bogus"] = true

		findings := checkSchemaConformance(&validate.Context{Master: testutil.Master(), Instance: inst})
		require.Len(t, findings, 1)
		assert.Equal(t, "/checklist/core/0", findings[0].Path)
		assert.Contains(t, findings[0].Message, "bogus")
	})

	t.Run("one finding per leaf error", func(t *testing.T) {
		master := testutil.Master()
		inst := instanceOf(t, master).(map[string]any)
		inst["version"] = 0
		delete(inst, "ciSystems")

		findings := checkSchemaConformance(&validate.Context{Master: master, Instance: inst})
		assert.Len(t, findings, 2)
	})

	t.Run("stage values are left to the stage rule", func(t *testing.T) {
		master := testutil.Master()
		master.Checklist.Core[0].ExecutionStage = "sometime"
		assert.Empty(t, checkSchemaConformance(validate.NewContext(master)))
	})

	t.Run("schema override", func(t *testing.T) {
		ctx := validate.NewContext(testutil.Master())
		ctx.Schema = []byte(`{"type": "array"}`)
		findings := checkSchemaConformance(ctx)
		require.Len(t, findings, 1)
		assert.Equal(t, "/", findings[0].Path)

		ctx.Schema = []byte(`not json`)
		findings = checkSchemaConformance(ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "schema is unusable")
	})
}

func TestUniqueIDs(t *testing.T) {
	master := testutil.Master()
	assert.Empty(t, checkUniqueIDs(validate.NewContext(master)))

	dup := master.Checklist.Core[0]
	master.Checklist.Recommended = append(master.Checklist.Recommended, dup)
	master.Checklist.OptionalEnhancements = append(master.Checklist.OptionalEnhancements, dup)
	again := master.Checklist.Core[1]
	master.Checklist.OptionalEnhancements = append(master.Checklist.OptionalEnhancements, again)

	findings := checkUniqueIDs(validate.NewContext(master))
	require.Len(t, findings, 2, "one finding per duplicated identifier")
	assert.Equal(t, "linting", findings[0].ItemID)
	assert.Equal(t,
		`Duplicate checklist ID "linting" found 3 times (/checklist/core/0, /checklist/recommended/1, /checklist/optionalEnhancements/1)`,
		findings[0].Message)
	assert.Equal(t, "unit-tests", findings[1].ItemID)
	assert.Equal(t, validate.KindDuplicateID, findings[1].Kind)
}

func TestMigrationReferences(t *testing.T) {
	master := testutil.Master()
	assert.Empty(t, checkMigrationReferences(validate.NewContext(master)))

	master.Meta.MigrationGuide[1].FocusIDs = append(master.Meta.MigrationGuide[1].FocusIDs, "does-not-exist")

	findings := checkMigrationReferences(validate.NewContext(master))
	require.Len(t, findings, 1, "exactly one dangling reference")
	assert.Equal(t, `migrationGuide focusId "does-not-exist" does not reference a valid checklist ID`, findings[0].Message)
	assert.Equal(t, "/meta/migrationGuide/1/focusIds/1", findings[0].Path)

	master.Meta = nil
	assert.Empty(t, checkMigrationReferences(validate.NewContext(master)))
}

func TestStackReferences(t *testing.T) {
	master := testutil.Master()
	assert.Empty(t, checkStackReferences(validate.NewContext(master)))

	master.Checklist.Recommended[0].AppliesTo.Stacks = []string{"go", "cobol"}
	findings := checkStackReferences(validate.NewContext(master))
	require.Len(t, findings, 1)
	assert.Equal(t, `Item "ci-cache" references unknown stack "cobol" in appliesTo.stacks`, findings[0].Message)
	assert.Equal(t, "/checklist/recommended/0/appliesTo/stacks/1", findings[0].Path)
}

func TestCIHintKeys(t *testing.T) {
	master := testutil.Master()
	assert.Empty(t, checkCIHintKeys(validate.NewContext(master)))

	master.Checklist.Core[0].CIHints["jenkins"] = standards.CIHint{Job: "lint"}
	master.Checklist.Core[0].CIHints["circleci"] = standards.CIHint{Job: "lint"}
	findings := checkCIHintKeys(validate.NewContext(master))
	assert.Equal(t, []string{
		`Item "linting" has ciHints key "circleci" not in ciSystems`,
		`Item "linting" has ciHints key "jenkins" not in ciSystems`,
	}, messages(findings))
}

func TestCoverageThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold *float64
		unit      string
		wantMsg   string
	}{
		{"ratio in range", ptr(0.8), "ratio", ""},
		{"ratio lower bound", ptr(0), "ratio", ""},
		{"ratio upper bound", ptr(1), "ratio", ""},
		{"ratio above range", ptr(1.4), "ratio", `defaultCoverageThreshold is 1.4 but coverageThresholdUnit is "ratio" (must be 0-1)`},
		{"ratio negative", ptr(-0.1), "ratio", `defaultCoverageThreshold is -0.1 but coverageThresholdUnit is "ratio" (must be 0-1)`},
		{"percent unit not bounded", ptr(80), "percent", ""},
		{"no threshold", nil, "ratio", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			master := testutil.Master()
			master.Meta.DefaultCoverageThreshold = tt.threshold
			master.Meta.CoverageThresholdUnit = tt.unit

			findings := checkCoverageThreshold(validate.NewContext(master))
			if tt.wantMsg == "" {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, tt.wantMsg, findings[0].Message)
			assert.Equal(t, validate.KindThresholdRange, findings[0].Kind)
		})
	}
}

func ptr(v float64) *float64 { return &v }

func TestExecutionStage(t *testing.T) {
	master := testutil.Master()
	assert.Empty(t, checkExecutionStage(validate.NewContext(master)))

	master.Checklist.Core[1].ExecutionStage = ""
	master.Checklist.OptionalEnhancements[0].ExecutionStage = "weekly"

	findings := checkExecutionStage(validate.NewContext(master))
	assert.Equal(t, []string{
		`Item "unit-tests" is missing executionStage`,
		`Item "nightly-fuzz" has invalid executionStage "weekly"`,
	}, messages(findings))
}

func TestDocsVersion(t *testing.T) {
	tests := []struct {
		name   string
		readme *string
		want   []string
	}{
		{"no readme is vacuous", nil, nil},
		{"matching", str(testutil.Readme("3")), nil},
		{
			"stale",
			str(testutil.Readme("2")),
			[]string{
				"README.md current schema version (2) does not match standards.json (3)",
				"README.md schema version list does not include current version 3",
			},
		},
		{
			"missing reference",
			str("# Title\n\n- `3` — Schema version aligned to package major version 3.\n"),
			[]string{"README.md missing current schema version reference"},
		},
		{
			"current line only",
			str("The version field is the schema version (currently `3`).\n"),
			[]string{"README.md schema version list does not include current version 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := validate.NewContext(testutil.Master())
			if tt.readme != nil {
				ctx.Readme = []byte(*tt.readme)
			}
			findings := checkDocsVersion(ctx)
			if tt.want == nil {
				assert.Empty(t, findings)
				return
			}
			assert.Equal(t, tt.want, messages(findings))
		})
	}
}

func str(s string) *string { return &s }

func TestSectionPolicy(t *testing.T) {
	master := testutil.Master()
	assert.Empty(t, checkSectionPolicy(validate.NewContext(master)))

	master.Checklist.Core[0].Severity = standards.SeverityWarn
	master.Checklist.Recommended[0].Enforcement = ""
	master.Checklist.Recommended[0].Severity = ""
	master.Checklist.OptionalEnhancements[0].Enforcement = standards.EnforcementRequired

	findings := checkSectionPolicy(validate.NewContext(master))
	assert.Equal(t, []string{
		`Item "linting" in core has severity "warn" (expected "error")`,
		`Item "nightly-fuzz" in optionalEnhancements has enforcement "required" (expected "optional")`,
	}, messages(findings))
}

func TestSchemaVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"unset is vacuous", "", ""},
		{"same major", "3.0.0", ""},
		{"prerelease same major", "3.2.0-rc.1", ""},
		{"drift", "4.0.0", "standards.json version (3) does not match package major version (4)"},
		{"not semver", "banana", `package version "banana" is not a semantic version`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := validate.NewContext(testutil.Master())
			ctx.PackageVersion = tt.version
			findings := checkSchemaVersion(ctx)
			if tt.want == "" {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Contains(t, findings[0].Message, tt.want)
		})
	}
}

func TestStackHintKeys(t *testing.T) {
	master := testutil.Master()
	assert.Empty(t, checkStackHintKeys(validate.NewContext(master)))

	master.Checklist.Core[0].StackHints["java"] = standards.StackHints{Notes: "n"}
	findings := checkStackHintKeys(validate.NewContext(master))
	require.Len(t, findings, 1)
	assert.Equal(t, "/checklist/core/0/stackHints/java", findings[0].Path)
}

func TestCIApplicability(t *testing.T) {
	master := testutil.Master()
	assert.Empty(t, checkCIApplicability(validate.NewContext(master)))

	master.Checklist.Recommended[0].AppliesTo.CISystems = []string{"github-actions", "travis"}
	findings := checkCIApplicability(validate.NewContext(master))
	require.Len(t, findings, 1)
	assert.Equal(t, `Item "ci-cache" references unknown CI system "travis" in appliesTo.ciSystems`, findings[0].Message)
}

// A document with several independent problems reports all of them in rule
// order.
func TestValidate_ReportsEveryFailure(t *testing.T) {
	master := testutil.Master()
	master.Checklist.Recommended = append(master.Checklist.Recommended, master.Checklist.Core[1])
	master.Meta.MigrationGuide[0].FocusIDs = []string{"ghost"}
	master.Checklist.Core[0].AppliesTo.Stacks = append(master.Checklist.Core[0].AppliesTo.Stacks, "cobol")
	threshold := 1.4
	master.Meta.DefaultCoverageThreshold = &threshold

	ctx := validate.NewContext(master)
	ctx.Readme = []byte(testutil.Readme("3"))
	result := validate.Validate(ctx)
	assert.False(t, result.Valid)

	var ruleIDs []string
	for _, f := range result.Findings {
		ruleIDs = append(ruleIDs, f.RuleID)
	}
	// The duplicate also lands in recommended, breaking its section policy.
	assert.Equal(t, []string{"V02", "V03", "V04", "V06", "V09", "V09"}, ruleIDs)
}
