// Package rules registers the built-in validation rules.
// Import this package to register every rule with the global registry.
package rules

import (
	"fmt"
	"sort"

	"github.com/oddessentials/repo-standards/pkg/standards"
)

// Rule groups.
const (
	GroupStructure  = "structure"
	GroupReferences = "references"
	GroupPolicy     = "policy"
	GroupDocs       = "docs"
)

// itemPath returns the JSON pointer of a checklist item.
func itemPath(si standards.SectionItem) string {
	return fmt.Sprintf("/checklist/%s/%d", si.Section, si.Index)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func allItems(master *standards.Master) []standards.SectionItem {
	if master == nil {
		return nil
	}
	return master.AllItems()
}
