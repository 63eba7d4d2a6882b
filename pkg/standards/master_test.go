package standards

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMaster = `{
  "version": 3,
  "ciSystems": ["github-actions", "azure-devops"],
  "stacks": {
    "go": {"label": "Go", "languageFamily": "go"},
    "rust": {"label": "Rust", "languageFamily": "rust"}
  },
  "meta": {"defaultCoverageThreshold": 0.8, "coverageThresholdUnit": "ratio", "futureField": {"x": 1}},
  "checklist": {
    "core": [
      {
        "id": "linting",
        "label": "Linting",
        "description": "Run a linter",
        "executionStage": "pre-commit",
        "appliesTo": {"stacks": ["go", "rust"]},
        "stackHints": {"go": {"exampleTools": ["golangci-lint"], "experimental": true}}
      }
    ],
    "recommended": [
      {
        "id": "ci-cache",
        "label": "CI cache",
        "description": "Cache dependencies",
        "appliesTo": {"stacks": ["go"], "ciSystems": ["github-actions"]}
      }
    ],
    "optionalEnhancements": []
  }
}`

func decodeSample(t *testing.T) *Master {
	t.Helper()
	var m Master
	require.NoError(t, json.Unmarshal([]byte(sampleMaster), &m))
	return &m
}

func TestMaster_Decode(t *testing.T) {
	m := decodeSample(t)

	assert.Equal(t, 3, m.Version)
	assert.Equal(t, []string{"github-actions", "azure-devops"}, m.CISystems)
	assert.Equal(t, []string{"go", "rust"}, m.StackIDs())
	require.NotNil(t, m.Meta)
	require.NotNil(t, m.Meta.DefaultCoverageThreshold)
	assert.InDelta(t, 0.8, *m.Meta.DefaultCoverageThreshold, 1e-9)
	assert.Equal(t, StagePreCommit, m.Checklist.Core[0].ExecutionStage)
}

func TestMaster_AllItemsInSectionOrder(t *testing.T) {
	m := decodeSample(t)

	items := m.AllItems()
	require.Len(t, items, 2)
	assert.Equal(t, SectionCore, items[0].Section)
	assert.Equal(t, "linting", items[0].Item.ID)
	assert.Equal(t, SectionRecommended, items[1].Section)
	assert.Equal(t, "ci-cache", items[1].Item.ID)

	assert.Equal(t, map[string]bool{"linting": true, "ci-cache": true}, m.ItemIDs())
}

func TestMaster_StackLabelFallsBackToID(t *testing.T) {
	m := decodeSample(t)

	assert.Equal(t, "Go", m.StackLabel("go"))
	assert.Equal(t, "python", m.StackLabel("python"))
}

func TestItem_Applicability(t *testing.T) {
	m := decodeSample(t)
	unrestricted := m.Checklist.Core[0]
	restricted := m.Checklist.Recommended[0]

	assert.True(t, unrestricted.AppliesToStack("rust"))
	assert.False(t, unrestricted.AppliesToStack("python"))
	assert.True(t, unrestricted.AppliesToCI("anything"))

	assert.True(t, restricted.AppliesToCI("github-actions"))
	assert.False(t, restricted.AppliesToCI("azure-devops"))
}

func TestVerbatimReencoding(t *testing.T) {
	m := decodeSample(t)

	metaJSON, err := json.Marshal(m.Meta)
	require.NoError(t, err)
	assert.Contains(t, string(metaJSON), `"futureField"`)

	hintJSON, err := json.Marshal(m.Checklist.Core[0].StackHints["go"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"exampleTools": ["golangci-lint"], "experimental": true}`, string(hintJSON))
}

func TestConstructedValuesEncodeFromFields(t *testing.T) {
	hint := StackHints{Notes: "pin versions", BazelHints: &BazelHints{Commands: []string{"bazel test //..."}}}

	data, err := json.Marshal(hint)
	require.NoError(t, err)
	assert.JSONEq(t, `{"notes": "pin versions", "bazelHints": {"commands": ["bazel test //..."]}}`, string(data))
}

func TestSectionPolicy(t *testing.T) {
	tests := []struct {
		section     Section
		enforcement Enforcement
		severity    Severity
	}{
		{SectionCore, EnforcementRequired, SeverityError},
		{SectionRecommended, EnforcementRecommended, SeverityWarn},
		{SectionOptional, EnforcementOptional, SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.section), func(t *testing.T) {
			enf, sev := tt.section.Policy()
			assert.Equal(t, tt.enforcement, enf)
			assert.Equal(t, tt.severity, sev)
		})
	}
}

func TestExecutionStageValid(t *testing.T) {
	for _, s := range ExecutionStages() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ExecutionStage("weekly").Valid())
	assert.False(t, ExecutionStage("").Valid())
}

func TestMetaFocusIDs(t *testing.T) {
	var nilMeta *Meta
	assert.Nil(t, nilMeta.FocusIDs())

	meta := &Meta{MigrationGuide: []MigrationStep{
		{Step: 1, FocusIDs: []string{"a", "b"}},
		{Step: 2},
		{Step: 3, FocusIDs: []string{"c"}},
	}}
	assert.Equal(t, []FocusRef{{1, "a"}, {1, "b"}, {3, "c"}}, meta.FocusIDs())
}
