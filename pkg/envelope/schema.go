package envelope

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/raiden-network/raiden-services/pkg/lib/schemaloader"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	envelopeSchemaFile = "schemas/envelope.json"
	messageSchemaFile  = "schemas/message.json"

	rootField = "(root)"
)

var (
	envelopeSchema = mustLoadSchema(envelopeSchemaFile)
	messageSchema  = mustLoadSchema(messageSchemaFile)
)

func mustLoadSchema(file string) schemaloader.Schema {
	s, err := schemaloader.NewEmbeddedSchema(schemaFS, file)
	if err != nil {
		panic(fmt.Sprintf("DEVELOPER ERROR: embedded schema %s: %s", file, err))
	}
	return s
}

// Validate checks a candidate outer envelope, given either as raw JSON
// ([]byte, json.RawMessage or string) or as an already decoded value.
// It has no side effects and never looks inside data.
func Validate(candidate any) error {
	var (
		result *gojsonschema.Result
		err    error
	)
	switch c := candidate.(type) {
	case []byte:
		result, err = envelopeSchema.ValidateBytes(c)
	case json.RawMessage:
		result, err = envelopeSchema.ValidateBytes(c)
	case string:
		result, err = envelopeSchema.ValidateBytes([]byte(c))
	default:
		result, err = envelopeSchema.ValidateGo(c)
	}
	return checkResult(StageEnvelope, result, err)
}

// EnvelopeSchema returns the JSON schema of the outer envelope.
func EnvelopeSchema() ([]byte, error) {
	return schemaFS.ReadFile(envelopeSchemaFile)
}

func validateData(data []byte) error {
	result, err := messageSchema.ValidateBytes(data)
	return checkResult(StageData, result, err)
}

// checkResult turns a gojsonschema result into a SchemaError naming the first offending field.
func checkResult(stage string, result *gojsonschema.Result, err error) error {
	if err != nil {
		return &SchemaError{Stage: stage, Reason: "not a valid JSON document", Err: err}
	}
	if result.Valid() {
		return nil
	}

	resultErrors := result.Errors()
	violations := make([]string, 0, len(resultErrors))
	for _, e := range resultErrors {
		violations = append(violations, e.String())
	}
	first := resultErrors[0]
	return &SchemaError{
		Stage:      stage,
		Field:      offendingField(first),
		Reason:     first.Description(),
		Violations: violations,
	}
}

func offendingField(e gojsonschema.ResultError) string {
	field := e.Field()
	if field == rootField {
		field = ""
	}
	switch e.Type() {
	case "required", "additional_property_not_allowed":
		if property, ok := e.Details()["property"].(string); ok {
			if field == "" {
				return property
			}
			return field + "." + property
		}
	}
	return field
}
