package standards

// =============================================================================
// Enforcement & Severity
// =============================================================================

// Enforcement is the obligation level of a checklist item.
type Enforcement string

// Enforcement levels.
const (
	EnforcementRequired    Enforcement = "required"
	EnforcementRecommended Enforcement = "recommended"
	EnforcementOptional    Enforcement = "optional"
)

// Severity is how a violation of a checklist item is reported by consumers.
type Severity string

// Severity levels.
const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
	SeverityInfo  Severity = "info"
)

// =============================================================================
// Execution stages
// =============================================================================

// ExecutionStage is where in the delivery pipeline a check is expected to run.
type ExecutionStage string

// Execution stages.
const (
	StagePreCommit ExecutionStage = "pre-commit"
	StagePrePush   ExecutionStage = "pre-push"
	StageCIPR      ExecutionStage = "ci-pr"
	StageCIMain    ExecutionStage = "ci-main"
	StageRelease   ExecutionStage = "release"
	StageNightly   ExecutionStage = "nightly"
)

// ExecutionStages lists every valid stage in pipeline order.
func ExecutionStages() []ExecutionStage {
	return []ExecutionStage{
		StagePreCommit,
		StagePrePush,
		StageCIPR,
		StageCIMain,
		StageRelease,
		StageNightly,
	}
}

// Valid reports whether s is one of the enumerated stages.
func (s ExecutionStage) Valid() bool {
	for _, stage := range ExecutionStages() {
		if s == stage {
			return true
		}
	}
	return false
}

// =============================================================================
// Sections
// =============================================================================

// Section names a checklist section. The value is the JSON key of the section.
type Section string

// Checklist sections in document order.
const (
	SectionCore        Section = "core"
	SectionRecommended Section = "recommended"
	SectionOptional    Section = "optionalEnhancements"
)

// Sections returns the checklist sections in document order.
func Sections() []Section {
	return []Section{SectionCore, SectionRecommended, SectionOptional}
}

// Policy returns the enforcement and severity every item of the section must carry.
func (s Section) Policy() (Enforcement, Severity) {
	switch s {
	case SectionCore:
		return EnforcementRequired, SeverityError
	case SectionRecommended:
		return EnforcementRecommended, SeverityWarn
	default:
		return EnforcementOptional, SeverityInfo
	}
}

// Title returns the human heading used for the section in rendered output.
func (s Section) Title() string {
	switch s {
	case SectionCore:
		return "core requirements"
	case SectionRecommended:
		return "recommended practices"
	default:
		return "optional enhancements"
	}
}
