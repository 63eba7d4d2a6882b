package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/oddessentials/repo-standards/pkg/standards"
)

// Context is the input to every rule.
type Context struct {
	// Master is the typed document.
	Master *standards.Master

	// Instance is the generic decoded form of the same document, numbers as
	// json.Number. Schema conformance is checked against it so that fields the
	// typed model does not know about are still seen. When nil it is derived
	// from Master on first use.
	Instance any

	// Readme is the documentation text whose schema-version references are
	// checked. Nil disables the documentation rule.
	Readme []byte

	// PackageVersion is the semantic version of the consuming package. Empty
	// disables the schema-version rule.
	PackageVersion string

	// Schema overrides the embedded JSON Schema when not nil.
	Schema []byte
}

// NewContext creates a context for master with no README, package version
// or schema override.
func NewContext(master *standards.Master) *Context {
	return &Context{Master: master}
}

// Document returns the generic form of the document, deriving and caching it
// from Master when Instance was not supplied.
func (c *Context) Document() (any, error) {
	if c.Instance != nil {
		return c.Instance, nil
	}
	if c.Master == nil {
		return nil, fmt.Errorf("no document to validate")
	}
	data, err := json.Marshal(c.Master)
	if err != nil {
		return nil, fmt.Errorf("encode master: %w", err)
	}
	inst, err := DecodeInstance(data)
	if err != nil {
		return nil, err
	}
	c.Instance = inst
	return inst, nil
}

// DecodeInstance decodes JSON into the generic form rules expect.
func DecodeInstance(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return v, nil
}
