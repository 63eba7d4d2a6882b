// Package loader reads master standards documents from disk.
//
// JSON is the native format. Files ending in .yaml or .yml are decoded with
// YAML and converted to JSON first, so every later stage sees the same
// representation.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oddessentials/repo-standards/pkg/standards"
	"github.com/oddessentials/repo-standards/pkg/validate"
)

// ErrMalformed is matched by every load error caused by the document's
// content rather than by I/O.
var ErrMalformed = errors.New("malformed standards document")

// Format is the on-disk encoding of a document.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from the file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Document is a loaded master document in both its typed and generic forms.
type Document struct {
	Path     string
	Format   Format
	Raw      []byte // file contents as read
	JSON     []byte // JSON form; same as Raw for JSON documents
	Master   *standards.Master
	Instance any // generic form, numbers as json.Number
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read standards document: %w", err)
	}
	doc, err := Parse(data, FormatFor(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	jsonData := data
	if format == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		jsonData = converted
	}

	inst, err := validate.DecodeInstance(jsonData)
	if err != nil {
		return nil, newParseError(jsonData, err)
	}
	if _, ok := inst.(map[string]any); !ok {
		return nil, &ParseError{Message: "document root must be an object"}
	}

	var master standards.Master
	if err := json.Unmarshal(jsonData, &master); err != nil {
		return nil, newParseError(jsonData, err)
	}

	return &Document{
		Format:   format,
		Raw:      data,
		JSON:     jsonData,
		Master:   &master,
		Instance: inst,
	}, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid YAML: %v", err), Err: err}
	}
	out, err := json.Marshal(v)
	if err != nil {
		// Non-string mapping keys end up here.
		return nil, &ParseError{Message: fmt.Sprintf("YAML is not representable as JSON: %v", err), Err: err}
	}
	return out, nil
}

// ReadOptional reads a supporting file such as the README. An empty path
// yields nil with no error.
func ReadOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// ParseError describes a document that could not be decoded.
type ParseError struct {
	File    string
	Line    int
	Message string
	Err     error
}

func newParseError(data []byte, err error) *ParseError {
	pe := &ParseError{Message: err.Error(), Err: err}
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntax):
		pe.Line = lineAt(data, syntax.Offset)
		pe.Message = "invalid JSON: " + syntax.Error()
	case errors.As(err, &typeErr):
		pe.Line = lineAt(data, typeErr.Offset)
		pe.Message = fmt.Sprintf("field %q: cannot use %s as %s", typeErr.Field, typeErr.Value, typeErr.Type)
	}
	return pe
}

func (e *ParseError) Error() string {
	if e.File != "" {
		if e.Line > 0 {
			return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
		}
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ParseError as ErrMalformed.
func (e *ParseError) Is(target error) bool { return target == ErrMalformed }

func lineAt(data []byte, offset int64) int {
	if offset <= 0 {
		return 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}
