// Package projector derives per-stack and per-(stack, CI system) views of a
// master standards document.
//
// Projection is a pure function of (master, stack, ci): it never mutates the
// master, performs no I/O and is safe to run concurrently for different
// targets. The master is expected to have passed validation; an unknown stack
// or CI system is a caller error, reported with ErrUnknownStack or
// ErrUnknownCISystem rather than tolerated.
package projector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oddessentials/repo-standards/pkg/standards"
)

var (
	// ErrUnknownStack is returned when the requested stack is not declared.
	ErrUnknownStack = errors.New("unknown stack")
	// ErrUnknownCISystem is returned when the requested CI system is not declared.
	ErrUnknownCISystem = errors.New("unknown CI system")
)

// Project returns the view of master scoped to stack and, when ci is not
// empty, to a single CI system.
func Project(master *standards.Master, stack, ci string) (*standards.Projected, error) {
	if master == nil {
		return nil, errors.New("project: nil master document")
	}
	if !master.HasStack(stack) {
		return nil, fmt.Errorf("%w %q (valid stacks: %s)", ErrUnknownStack, stack, strings.Join(master.StackIDs(), ", "))
	}
	if ci != "" && !master.HasCISystem(ci) {
		return nil, fmt.Errorf("%w %q (valid CI systems: %s)", ErrUnknownCISystem, ci, strings.Join(master.CISystems, ", "))
	}

	ciSystems := master.CISystems
	if ci != "" {
		ciSystems = []string{ci}
	}

	out := &standards.Projected{
		Version:    master.Version,
		Stack:      stack,
		StackLabel: master.StackLabel(stack),
		CISystems:  append([]string{}, ciSystems...),
		Meta:       master.Meta,
	}
	for _, s := range standards.Sections() {
		out.Checklist.Set(s, filterSection(master.Checklist.Section(s), stack, ci))
	}
	return out, nil
}

// filterSection keeps the items applicable to stack (and ci, when set) and
// flattens their hints.
func filterSection(items []standards.Item, stack, ci string) []standards.ProjectedItem {
	out := make([]standards.ProjectedItem, 0, len(items))
	for i := range items {
		item := &items[i]
		if !item.AppliesToStack(stack) {
			continue
		}
		if ci != "" && !item.AppliesToCI(ci) {
			continue
		}
		out = append(out, reshape(item, stack, ci))
	}
	return out
}

func reshape(item *standards.Item, stack, ci string) standards.ProjectedItem {
	p := standards.ProjectedItem{
		ID:          item.ID,
		Label:       item.Label,
		Description: item.Description,
	}

	if len(item.CIHints) > 0 {
		if ci != "" {
			// No matching hint: omit the field rather than emit {}.
			if hint, ok := item.CIHints[ci]; ok && !hint.Null() {
				p.CIHints = map[string]standards.CIHint{ci: hint}
			}
		} else {
			hints := make(map[string]standards.CIHint, len(item.CIHints))
			for k, v := range item.CIHints {
				if !v.Null() {
					hints[k] = v
				}
			}
			if len(hints) > 0 {
				p.CIHints = hints
			}
		}
	}

	if hints, ok := item.StackHints[stack]; ok && !hints.Null() {
		h := hints
		p.Stack = &h
	}
	return p
}
