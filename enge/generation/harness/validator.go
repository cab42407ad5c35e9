package harness

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONValidator checks documents against a compiled JSON schema.
type JSONValidator struct {
	schema *gojsonschema.Schema
}

// NewJSONValidator compiles schema once for repeated use.
func NewJSONValidator(schema string) (*JSONValidator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &JSONValidator{schema: compiled}, nil
}

// MustJSONValidator is NewJSONValidator for package-level schemas.
func MustJSONValidator(schema string) *JSONValidator {
	v, err := NewJSONValidator(schema)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate returns nil when data is valid JSON conforming to the schema.
func (v *JSONValidator) Validate(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("data is not valid JSON")
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return fmt.Errorf("schema validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// StringListSchema accepts a JSON array of strings.
const StringListSchema = `{
  "type": "array",
  "items": {"type": "string"}
}`
