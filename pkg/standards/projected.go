package standards

// Projected is a per-stack (and optionally per-CI-system) view of a Master.
// It has no identity of its own: it is fully determined by the master
// document, the stack and the CI system it was filtered against.
type Projected struct {
	Version    int               `json:"version"`
	Stack      string            `json:"stack"`
	StackLabel string            `json:"stackLabel"`
	CISystems  []string          `json:"ciSystems"`
	Meta       *Meta             `json:"meta,omitempty"`
	Checklist  ProjectedSections `json:"checklist"`
}

// ProjectedSections mirrors Checklist for projected items. Empty sections
// encode as [] rather than null.
type ProjectedSections struct {
	Core                 []ProjectedItem `json:"core"`
	Recommended          []ProjectedItem `json:"recommended"`
	OptionalEnhancements []ProjectedItem `json:"optionalEnhancements"`
}

// Section returns the projected items of the named section.
func (p *ProjectedSections) Section(s Section) []ProjectedItem {
	switch s {
	case SectionCore:
		return p.Core
	case SectionRecommended:
		return p.Recommended
	case SectionOptional:
		return p.OptionalEnhancements
	}
	return nil
}

// Set replaces the items of the named section.
func (p *ProjectedSections) Set(s Section, items []ProjectedItem) {
	if items == nil {
		items = []ProjectedItem{}
	}
	switch s {
	case SectionCore:
		p.Core = items
	case SectionRecommended:
		p.Recommended = items
	case SectionOptional:
		p.OptionalEnhancements = items
	}
}

// Len returns the number of items across all sections.
func (p *ProjectedSections) Len() int {
	return len(p.Core) + len(p.Recommended) + len(p.OptionalEnhancements)
}

// ProjectedItem is a checklist item flattened for a single stack. Stack holds
// the item's hints for the projected stack; CIHints holds either the single
// matching CI entry or, when no CI system was requested, the full mapping.
type ProjectedItem struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Description string            `json:"description"`
	CIHints     map[string]CIHint `json:"ciHints,omitempty"`
	Stack       *StackHints       `json:"stack,omitempty"`
}
