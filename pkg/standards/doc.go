// Package standards defines the document model of the repo-standards system.
//
// This package contains:
//   - The master specification (Master) and its checklist items
//   - The per-stack projection shape (Projected)
//   - Enumerations shared by the validator and projector (stages, sections)
//
// The Golden Rule: pkg/standards imports ONLY the standard library.
// The canonicalizer, projector and validator depend on it, not the reverse.
package standards
