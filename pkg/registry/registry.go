// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// SchemaError lists every JSON Schema violation found in a registry document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("registry schema validation failed: %s", strings.Join(e.Violations, "; "))
}

func LoadRegistry(path string) (*InstrumentRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse validates data against the registry schema and decodes it.
func Parse(data []byte) (*InstrumentRegistry, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var reg InstrumentRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}

func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		violations[i] = desc.String()
	}
	return &SchemaError{Violations: violations}
}

// Find returns the definition with the given id.
func (r *InstrumentRegistry) Find(id string) (*InstrumentDefinition, bool) {
	for i := range r.Instruments {
		if r.Instruments[i].ID == id {
			return &r.Instruments[i], true
		}
	}
	return nil, false
}
