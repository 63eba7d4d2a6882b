// Package schema embeds the JSON Schema for master standards documents.
package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// URL is the identifier the schema is registered under.
const URL = "https://github.com/oddessentials/repo-standards/standards.schema.json"

//go:embed standards.schema.json
var standardsSchema []byte

// Default returns the embedded schema document.
func Default() []byte {
	return bytes.Clone(standardsSchema)
}

var (
	defaultOnce   sync.Once
	defaultSchema *jsonschema.Schema
	defaultErr    error
)

// Compile compiles data as a JSON Schema. A nil data returns the embedded
// schema, compiled once per process.
func Compile(data []byte) (*jsonschema.Schema, error) {
	if data == nil {
		defaultOnce.Do(func() {
			defaultSchema, defaultErr = compile(standardsSchema)
		})
		return defaultSchema, defaultErr
	}
	return compile(data)
}

func compile(data []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(URL, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(URL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return sch, nil
}
