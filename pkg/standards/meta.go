package standards

import (
	"bytes"
	"encoding/json"
)

// CoverageUnitRatio marks a coverage threshold expressed as a ratio in [0,1].
const CoverageUnitRatio = "ratio"

// Meta holds document-wide policy: coverage thresholds, quality gate policy,
// the migration guide and Bazel integration notes.
//
// Projections carry the block unmodified, so a Meta decoded from JSON
// re-encodes to exactly the bytes it was decoded from.
type Meta struct {
	DefaultCoverageThreshold     *float64          `json:"defaultCoverageThreshold,omitempty"`
	CoverageThresholdUnit        string            `json:"coverageThresholdUnit,omitempty"`
	CoverageThresholdDescription string            `json:"coverageThresholdDescription,omitempty"`
	ComplexityChecks             *ComplexityChecks `json:"complexityChecks,omitempty"`
	QualityGatePolicy            *QualityGate      `json:"qualityGatePolicy,omitempty"`
	MigrationGuide               []MigrationStep   `json:"migrationGuide,omitempty"`
	BazelIntegration             *BazelIntegration `json:"bazelIntegration,omitempty"`

	raw []byte
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Meta) UnmarshalJSON(data []byte) error {
	type plain Meta
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Meta(p)
	m.raw = bytes.Clone(data)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Meta) MarshalJSON() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}
	type plain Meta
	return json.Marshal(plain(m))
}

// ComplexityChecks toggles complexity gating.
type ComplexityChecks struct {
	EnabledByDefault *bool  `json:"enabledByDefault,omitempty"`
	Description      string `json:"description,omitempty"`
}

// QualityGate describes how strictly legacy code is gated.
type QualityGate struct {
	PreferSoftFailOnLegacy *bool  `json:"preferSoftFailOnLegacy,omitempty"`
	Description            string `json:"description,omitempty"`
}

// MigrationStep is one ordered onboarding step. FocusIDs reference checklist
// item identifiers.
type MigrationStep struct {
	Step        int      `json:"step"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	FocusIDs    []string `json:"focusIds,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// BazelIntegration documents how the checklist maps onto Bazel repositories.
type BazelIntegration struct {
	Description       string            `json:"description,omitempty"`
	DetectionRules    *DetectionRules   `json:"detectionRules,omitempty"`
	OptOut            *OptOut           `json:"optOut,omitempty"`
	TargetConventions map[string]string `json:"targetConventions,omitempty"`
	CIContract        *CIContract       `json:"ciContract,omitempty"`
	AdvisoryNotice    string            `json:"advisoryNotice,omitempty"`
}

// DetectionRules lists the files that mark a Bazel workspace root.
type DetectionRules struct {
	RootMarkers     []string `json:"rootMarkers,omitempty"`
	OptionalMarkers []string `json:"optionalMarkers,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// OptOut describes how a repository disables Bazel integration.
type OptOut struct {
	Description string `json:"description,omitempty"`
	ConfigPath  string `json:"configPath,omitempty"`
}

// CIContract captures the expectations on Bazel invocations in CI.
type CIContract struct {
	VersionPinning     string   `json:"versionPinning,omitempty"`
	ConfigFlag         string   `json:"configFlag,omitempty"`
	DeterministicFlags []string `json:"deterministicFlags,omitempty"`
	RemoteCache        string   `json:"remoteCache,omitempty"`
}

// FocusIDs returns every checklist reference made by the migration guide,
// paired with the step that made it.
func (m *Meta) FocusIDs() []FocusRef {
	if m == nil {
		return nil
	}
	var refs []FocusRef
	for _, step := range m.MigrationGuide {
		for _, id := range step.FocusIDs {
			refs = append(refs, FocusRef{Step: step.Step, ID: id})
		}
	}
	return refs
}

// FocusRef is a single migration-guide reference to a checklist item.
type FocusRef struct {
	Step int
	ID   string
}
