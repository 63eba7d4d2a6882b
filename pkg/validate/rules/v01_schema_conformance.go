package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/oddessentials/repo-standards/pkg/validate"
	"github.com/oddessentials/repo-standards/pkg/validate/schema"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "V01",
		Name:        "schema-conformance",
		Group:       GroupStructure,
		Description: "Document conforms to the standards JSON Schema",
		Severity:    validate.SeverityError,
		Check:       checkSchemaConformance,

		Rationale: `Every projection and every consumer relies on the shape of the master document.
Structural errors are reported once per offending location so they can be fixed in one pass.`,
		Fix: "Correct the field at the reported path so it matches the schema.",
	})
}

var printer = message.NewPrinter(language.English)

func checkSchemaConformance(ctx *validate.Context) []validate.Finding {
	inst, err := ctx.Document()
	if err != nil {
		return []validate.Finding{{
			Kind:    validate.KindDocumentEncoding,
			Message: err.Error(),
		}}
	}

	sch, err := schema.Compile(ctx.Schema)
	if err != nil {
		return []validate.Finding{{
			Kind:    validate.KindSchema,
			Message: fmt.Sprintf("schema is unusable: %v", err),
		}}
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []validate.Finding{{Kind: validate.KindSchema, Message: err.Error()}}
	}

	var findings []validate.Finding
	for _, leaf := range leaves(ve) {
		path := pointer(leaf.InstanceLocation)
		findings = append(findings, validate.Finding{
			Kind:    validate.KindSchema,
			Message: fmt.Sprintf("%s: %s", path, leaf.ErrorKind.LocalizedString(printer)),
			Path:    path,
		})
	}
	return findings
}

// leaves flattens a validation error tree to the errors that have no causes.
func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

func pointer(loc []string) string {
	if len(loc) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, tok := range loc {
		sb.WriteByte('/')
		tok = strings.ReplaceAll(tok, "~", "~0")
		sb.WriteString(strings.ReplaceAll(tok, "/", "~1"))
	}
	return sb.String()
}
