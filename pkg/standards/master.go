package standards

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Master is the root aggregate: the single source of truth every projection
// is derived from.
type Master struct {
	Version   int                  `json:"version"`
	Meta      *Meta                `json:"meta,omitempty"`
	CISystems []string             `json:"ciSystems"`
	Stacks    map[string]StackMeta `json:"stacks"`
	Checklist Checklist            `json:"checklist"`
}

// StackMeta describes a declared stack.
type StackMeta struct {
	Label          string `json:"label"`
	LanguageFamily string `json:"languageFamily"`
}

// Checklist holds the three checklist sections.
type Checklist struct {
	Core                 []Item `json:"core"`
	Recommended          []Item `json:"recommended"`
	OptionalEnhancements []Item `json:"optionalEnhancements"`
}

// Section returns the items of the named section.
func (c *Checklist) Section(s Section) []Item {
	switch s {
	case SectionCore:
		return c.Core
	case SectionRecommended:
		return c.Recommended
	case SectionOptional:
		return c.OptionalEnhancements
	}
	return nil
}

// Item is one compliance requirement.
type Item struct {
	ID             string                `json:"id"`
	Label          string                `json:"label"`
	Description    string                `json:"description"`
	Enforcement    Enforcement           `json:"enforcement,omitempty"`
	Severity       Severity              `json:"severity,omitempty"`
	ExecutionStage ExecutionStage        `json:"executionStage,omitempty"`
	AppliesTo      AppliesTo             `json:"appliesTo"`
	CIHints        map[string]CIHint     `json:"ciHints,omitempty"`
	StackHints     map[string]StackHints `json:"stackHints,omitempty"`
}

// AppliesTo scopes an item. A nil CISystems means the item is not restricted
// to any CI system.
type AppliesTo struct {
	Stacks    []string `json:"stacks"`
	CISystems []string `json:"ciSystems,omitempty"`
}

// AppliesToStack reports whether the item applies to stack.
func (i *Item) AppliesToStack(stack string) bool {
	return contains(i.AppliesTo.Stacks, stack)
}

// AppliesToCI reports whether the item applies to the CI system. Items
// without a CI restriction apply to every CI system.
func (i *Item) AppliesToCI(ci string) bool {
	if i.AppliesTo.CISystems == nil {
		return true
	}
	return contains(i.AppliesTo.CISystems, ci)
}

// SectionItem pairs an item with the section it was declared in.
type SectionItem struct {
	Section Section
	Index   int
	Item    *Item
}

// AllItems returns every item of the document in section order.
func (m *Master) AllItems() []SectionItem {
	var out []SectionItem
	for _, s := range Sections() {
		items := m.Checklist.Section(s)
		for i := range items {
			out = append(out, SectionItem{Section: s, Index: i, Item: &items[i]})
		}
	}
	return out
}

// ItemIDs returns the set of identifiers declared in any section.
func (m *Master) ItemIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, si := range m.AllItems() {
		ids[si.Item.ID] = true
	}
	return ids
}

// StackIDs returns the declared stack identifiers sorted lexicographically.
func (m *Master) StackIDs() []string {
	ids := make([]string, 0, len(m.Stacks))
	for id := range m.Stacks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasStack reports whether id is a declared stack.
func (m *Master) HasStack(id string) bool {
	_, ok := m.Stacks[id]
	return ok
}

// HasCISystem reports whether id is a declared CI system.
func (m *Master) HasCISystem(id string) bool {
	return contains(m.CISystems, id)
}

// StackLabel returns the declared label of a stack, falling back to the raw id.
func (m *Master) StackLabel(id string) string {
	if meta, ok := m.Stacks[id]; ok && meta.Label != "" {
		return meta.Label
	}
	return id
}

// =============================================================================
// Hints
// =============================================================================

// CIHint is per-CI-system guidance for an item.
//
// A CIHint decoded from JSON re-encodes to exactly the bytes it was decoded
// from, so fields unknown to this model survive projection.
type CIHint struct {
	Stage string `json:"stage,omitempty"`
	Job   string `json:"job,omitempty"`
	Notes string `json:"notes,omitempty"`

	raw []byte
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *CIHint) UnmarshalJSON(data []byte) error {
	type plain CIHint
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*h = CIHint(p)
	h.raw = bytes.Clone(data)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (h CIHint) MarshalJSON() ([]byte, error) {
	if h.raw != nil {
		return h.raw, nil
	}
	type plain CIHint
	return json.Marshal(plain(h))
}

// Null reports whether the hint was decoded from a JSON null.
func (h CIHint) Null() bool {
	return bytes.Equal(h.raw, jsonNull)
}

// StackHints is per-stack guidance for an item. Like CIHint, it re-encodes
// verbatim when decoded from JSON.
type StackHints struct {
	ExampleTools       []string      `json:"exampleTools,omitempty"`
	ExampleConfigFiles []string      `json:"exampleConfigFiles,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	Verification       string        `json:"verification,omitempty"`
	RequiredFiles      []string      `json:"requiredFiles,omitempty"`
	OptionalFiles      []string      `json:"optionalFiles,omitempty"`
	AnyOfFiles         []string      `json:"anyOfFiles,omitempty"`
	RequiredScripts    []string      `json:"requiredScripts,omitempty"`
	PinningNotes       string        `json:"pinningNotes,omitempty"`
	MachineCheck       *MachineCheck `json:"machineCheck,omitempty"`
	BazelHints         *BazelHints   `json:"bazelHints,omitempty"`

	raw []byte
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *StackHints) UnmarshalJSON(data []byte) error {
	type plain StackHints
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*h = StackHints(p)
	h.raw = bytes.Clone(data)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (h StackHints) MarshalJSON() ([]byte, error) {
	if h.raw != nil {
		return h.raw, nil
	}
	type plain StackHints
	return json.Marshal(plain(h))
}

// MachineCheck is a command a consumer may run to verify an item.
type MachineCheck struct {
	Command        string `json:"command"`
	ExpectExitCode *int   `json:"expectExitCode,omitempty"`
	Description    string `json:"description,omitempty"`
}

// BazelHints are build-system execution hints. Commands are real Bazel
// invocations; targets are conventions, not labels assumed to exist.
type BazelHints struct {
	Commands           []string `json:"commands,omitempty"`
	RecommendedTargets []string `json:"recommendedTargets,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Null reports whether the hints were decoded from a JSON null.
func (h StackHints) Null() bool {
	return bytes.Equal(h.raw, jsonNull)
}

var jsonNull = []byte("null")
