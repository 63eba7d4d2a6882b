package projector

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddessentials/repo-standards/internal/testutil"
	"github.com/oddessentials/repo-standards/pkg/canonical"
	"github.com/oddessentials/repo-standards/pkg/standards"
)

func ids(items []standards.ProjectedItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestProject_GoRustPythonScenario(t *testing.T) {
	master := &standards.Master{
		Version:   1,
		CISystems: []string{"github-actions"},
		Stacks: map[string]standards.StackMeta{
			"go":     {Label: "Go"},
			"rust":   {Label: "Rust"},
			"python": {Label: "Python"},
		},
		Checklist: standards.Checklist{
			Core: []standards.Item{{
				ID:        "fmt",
				Label:     "Formatting",
				AppliesTo: standards.AppliesTo{Stacks: []string{"go", "rust"}},
				StackHints: map[string]standards.StackHints{
					"go":   {ExampleTools: []string{"gofmt"}},
					"rust": {ExampleTools: []string{"rustfmt"}},
				},
			}},
		},
	}

	goView, err := Project(master, "go", "")
	require.NoError(t, err)
	require.Len(t, goView.Checklist.Core, 1)
	item := goView.Checklist.Core[0]
	assert.Equal(t, "fmt", item.ID)
	require.NotNil(t, item.Stack)
	assert.Equal(t, []string{"gofmt"}, item.Stack.ExampleTools)
	assert.Nil(t, item.CIHints)

	pyView, err := Project(master, "python", "")
	require.NoError(t, err)
	assert.Empty(t, pyView.Checklist.Core)
	assert.Equal(t, "Python", pyView.StackLabel)

	data, err := canonical.Marshal(pyView)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"core": []`)
}

func TestProject_FilterCorrectness(t *testing.T) {
	master := testutil.Master()

	tests := []struct {
		name        string
		stack, ci   string
		core        []string
		recommended []string
		optional    []string
	}{
		{"go all CI", "go", "", []string{"linting", "unit-tests"}, []string{"ci-cache"}, []string{}},
		{"go github", "go", "github-actions", []string{"linting", "unit-tests"}, []string{"ci-cache"}, []string{}},
		{"go azure drops CI-restricted item", "go", "azure-devops", []string{"linting", "unit-tests"}, []string{}, []string{}},
		{"rust", "rust", "", []string{"linting", "unit-tests"}, []string{}, []string{"nightly-fuzz"}},
		{"python", "python", "azure-devops", []string{"linting"}, []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Project(master, tt.stack, tt.ci)
			require.NoError(t, err)
			assert.Equal(t, tt.core, ids(p.Checklist.Core))
			assert.Equal(t, tt.recommended, ids(p.Checklist.Recommended))
			assert.Equal(t, tt.optional, ids(p.Checklist.OptionalEnhancements))
		})
	}
}

// Every projected item must come from the master and satisfy the filter, and
// every master item satisfying the filter must be projected.
func TestProject_FilterIsExact(t *testing.T) {
	master := testutil.Master()
	for _, target := range Targets(master, true) {
		p, err := Project(master, target.Stack, target.CI)
		require.NoError(t, err)

		for _, s := range standards.Sections() {
			var want []string
			for _, item := range master.Checklist.Section(s) {
				if item.AppliesToStack(target.Stack) && (target.CI == "" || item.AppliesToCI(target.CI)) {
					want = append(want, item.ID)
				}
			}
			if want == nil {
				want = []string{}
			}
			assert.Equal(t, want, ids(p.Checklist.Section(s)), "%s %s", target, s)
		}
	}
}

func TestProject_CIHints(t *testing.T) {
	master := testutil.Master()

	t.Run("omitted CI keeps full mapping", func(t *testing.T) {
		p, err := Project(master, "go", "")
		require.NoError(t, err)
		assert.Len(t, p.Checklist.Core[0].CIHints, 2)
		assert.Equal(t, []string{"github-actions", "azure-devops"}, p.CISystems)
	})

	t.Run("matching CI keeps one entry", func(t *testing.T) {
		p, err := Project(master, "go", "azure-devops")
		require.NoError(t, err)
		hints := p.Checklist.Core[0].CIHints
		require.Len(t, hints, 1)
		assert.Equal(t, "quality", hints["azure-devops"].Stage)
		assert.Equal(t, []string{"azure-devops"}, p.CISystems)
	})

	t.Run("no matching hint omits field", func(t *testing.T) {
		p, err := Project(master, "go", "azure-devops")
		require.NoError(t, err)
		unit := p.Checklist.Core[1]
		require.Equal(t, "unit-tests", unit.ID)
		assert.Nil(t, unit.CIHints)

		data, err := json.Marshal(unit)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "ciHints")
	})
}

func TestProject_StackHintsAndMeta(t *testing.T) {
	master := testutil.Master()

	p, err := Project(master, "go", "")
	require.NoError(t, err)
	require.NotNil(t, p.Checklist.Core[0].Stack)
	require.NotNil(t, p.Checklist.Core[0].Stack.BazelHints)
	assert.Equal(t, []string{"//tools:lint"}, p.Checklist.Core[0].Stack.BazelHints.RecommendedTargets)
	assert.Nil(t, p.Checklist.Core[1].Stack, "unit-tests has no go hints")
	assert.Same(t, master.Meta, p.Meta)
	assert.Equal(t, 3, p.Version)
}

func TestProject_PreservesUnknownHintFields(t *testing.T) {
	raw := []byte(`{
  "version": 1,
  "ciSystems": ["github-actions"],
  "stacks": {"go": {"label": "Go", "languageFamily": "go"}},
  "meta": {"futureKnob": {"x": 1}},
  "checklist": {
    "core": [{
      "id": "a", "label": "A", "description": "d",
      "appliesTo": {"stacks": ["go"]},
      "ciHints": {"github-actions": {"job": "j", "matrix": ["x"]}},
      "stackHints": {"go": {"notes": "n", "experimental": true}}
    }],
    "recommended": [],
    "optionalEnhancements": []
  }
}`)
	var master standards.Master
	require.NoError(t, json.Unmarshal(raw, &master))

	p, err := Project(&master, "go", "github-actions")
	require.NoError(t, err)
	out, err := canonical.Marshal(p)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `"experimental": true`)
	assert.Contains(t, s, `"matrix"`)
	assert.Contains(t, s, `"futureKnob"`)
}

func TestProject_DoesNotMutateMaster(t *testing.T) {
	master := testutil.Master()
	before, err := canonical.Marshal(master)
	require.NoError(t, err)

	for _, target := range Targets(master, true) {
		_, err := Project(master, target.Stack, target.CI)
		require.NoError(t, err)
	}

	after, err := canonical.Marshal(master)
	require.NoError(t, err)
	if diff := cmp.Diff(string(before), string(after)); diff != "" {
		t.Errorf("master mutated (-before +after):\n%s", diff)
	}
}

func TestProject_Deterministic(t *testing.T) {
	master := testutil.Master()
	a, err := Project(master, "go", "github-actions")
	require.NoError(t, err)
	b, err := Project(master, "go", "github-actions")
	require.NoError(t, err)

	ca, err := canonical.Marshal(a)
	require.NoError(t, err)
	cb, err := canonical.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ca), string(cb))
}

func TestProject_Preconditions(t *testing.T) {
	master := testutil.Master()

	_, err := Project(master, "cobol", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStack))
	assert.Contains(t, err.Error(), "go, python, rust")

	_, err = Project(master, "go", "jenkins")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCISystem))
	assert.Contains(t, err.Error(), "github-actions, azure-devops")

	_, err = Project(nil, "go", "")
	assert.Error(t, err)
}

func TestTargets(t *testing.T) {
	master := testutil.Master()

	stackOnly := Targets(master, false)
	assert.Equal(t, []Target{{Stack: "go"}, {Stack: "python"}, {Stack: "rust"}}, stackOnly)

	all := Targets(master, true)
	require.Len(t, all, 9)
	assert.Equal(t, Target{Stack: "go", CI: "github-actions"}, all[3])
	assert.Equal(t, Target{Stack: "go", CI: "azure-devops"}, all[4])
	assert.Equal(t, Target{Stack: "rust", CI: "azure-devops"}, all[8])
}

func TestTarget_Names(t *testing.T) {
	tests := []struct {
		target   Target
		str      string
		artifact string
	}{
		{Target{Stack: "go"}, "go", "standards.go.json"},
		{Target{Stack: "go", CI: "azure-devops"}, "go/azure-devops", "standards.go.azure-devops.json"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.target.String())
			assert.Equal(t, tt.artifact, tt.target.ArtifactName())
		})
	}
}

func TestProjectAll(t *testing.T) {
	master := testutil.Master()
	targets := Targets(master, true)

	for _, concurrency := range []int{0, 1, 4} {
		results, err := ProjectAll(context.Background(), master, targets, concurrency)
		require.NoError(t, err)
		require.Len(t, results, len(targets))
		for i, r := range results {
			assert.Equal(t, targets[i], r.Target)
			want, err := Project(master, r.Target.Stack, r.Target.CI)
			require.NoError(t, err)
			assert.Equal(t, want, r.Projected)
		}
	}
}

func TestProjectAll_Errors(t *testing.T) {
	master := testutil.Master()

	_, err := ProjectAll(context.Background(), master, []Target{{Stack: "go"}, {Stack: "cobol"}}, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStack))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ProjectAll(ctx, master, Targets(master, false), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProject_NullAndEmptyHints(t *testing.T) {
	raw := []byte(`{
  "version": 1,
  "ciSystems": ["github-actions", "azure-devops"],
  "stacks": {"go": {"label": "Go"}},
  "checklist": {
    "core": [
      {"id": "a", "label": "A", "description": "d", "appliesTo": {"stacks": ["go"]}, "ciHints": {}},
      {"id": "b", "label": "B", "description": "d", "appliesTo": {"stacks": ["go"]},
       "ciHints": {"github-actions": null, "azure-devops": {"stage": "s"}}},
      {"id": "c", "label": "C", "description": "d", "appliesTo": {"stacks": ["go"]}, "stackHints": {"go": null}}
    ],
    "recommended": [],
    "optionalEnhancements": []
  }
}`)
	var master standards.Master
	require.NoError(t, json.Unmarshal(raw, &master))

	for _, ci := range []string{"", "github-actions"} {
		p, err := Project(&master, "go", ci)
		require.NoError(t, err)
		out, err := canonical.Marshal(p)
		require.NoError(t, err)

		s := string(out)
		assert.NotContains(t, s, "null", "ci=%q", ci)
		assert.NotContains(t, s, `"ciHints": {}`, "ci=%q", ci)

		core := p.Checklist.Core
		require.Len(t, core, 3)
		assert.Nil(t, core[0].CIHints, "empty mapping is omitted")
		assert.Nil(t, core[2].Stack, "null stack hints are omitted")
	}

	p, err := Project(&master, "go", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"azure-devops"}, mapKeys(p.Checklist.Core[1].CIHints))

	p, err = Project(&master, "go", "github-actions")
	require.NoError(t, err)
	assert.Nil(t, p.Checklist.Core[1].CIHints)
}

func mapKeys(m map[string]standards.CIHint) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
