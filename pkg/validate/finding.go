package validate

import "fmt"

// Kind classifies the failure a finding reports.
type Kind string

// Finding kinds.
const (
	KindSchema           Kind = "schema"
	KindDuplicateID      Kind = "duplicate-id"
	KindDanglingRef      Kind = "dangling-reference"
	KindUnknownStack     Kind = "unknown-stack"
	KindUnknownCISystem  Kind = "unknown-ci-system"
	KindThresholdRange   Kind = "threshold-out-of-range"
	KindExecutionStage   Kind = "execution-stage"
	KindDocsVersion      Kind = "docs-version"
	KindSectionPolicy    Kind = "section-policy"
	KindSchemaVersion    Kind = "schema-version"
	KindDocumentEncoding Kind = "document-encoding"
)

// Finding is one validation failure.
type Finding struct {
	RuleID   string   `json:"ruleId"`
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	ItemID   string   `json:"itemId,omitempty"` // Checklist item the finding is about, if any
	Path     string   `json:"path,omitempty"`   // JSON pointer into the document, if known
}

// String renders the finding as "[RULE] message".
func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", f.RuleID, f.Message)
}
