/*
Copyright 2025 The Cordinate Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package oapi

import (
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/kaptinlin/jsonschema"
)

// ValidationError represents a single validation error from payload schema
// validation.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult contains the results of payload validation.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// SchemaValidator validates payloads against the component schemas embedded
// in the OpenAPI document. Schemas are compiled on first use and cached;
// the validator is safe for concurrent use.
type SchemaValidator struct {
	compiler *jsonschema.Compiler

	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// NewSchemaValidator builds a validator over the embedded OpenAPI document.
func NewSchemaValidator() (*SchemaValidator, error) {
	// Compiler uses the sonic encoder/decoder for consistency with the rest
	// of the SDK's JSON handling.
	compiler := jsonschema.NewCompiler()
	compiler.WithDecoderJSON(sonic.Unmarshal)
	compiler.WithEncoderJSON(sonic.Marshal)

	return &SchemaValidator{
		compiler: compiler,
		compiled: make(map[string]*jsonschema.Schema),
	}, nil
}

// Validate validates a payload against the named component schema.
// It compiles the JSON schema on first use and validates the payload
// structure, types, and constraints. Returns a ValidationResult containing
// the validation status and any errors.
func (v *SchemaValidator) Validate(schemaName string, payload any) (*ValidationResult, error) {
	compiledSchema, err := v.schema(schemaName)
	if err != nil {
		return nil, err
	}

	// Convert payload to map for validation
	var docMap map[string]any
	switch p := payload.(type) {
	case map[string]any:
		docMap = p
	default:
		docBytes, err := sonic.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshalling payload: %w", err)
		}
		if err := sonic.Unmarshal(docBytes, &docMap); err != nil {
			return nil, fmt.Errorf("unmarshalling payload to map: %w", err)
		}
	}

	result := compiledSchema.ValidateMap(docMap)

	validationResult := &ValidationResult{
		Valid: result.IsValid(),
	}
	if !result.IsValid() {
		validationResult.Errors = make([]ValidationError, 0, len(result.Errors))
		for field, e := range result.Errors {
			validationResult.Errors = append(validationResult.Errors, ValidationError{
				Field:   field,
				Message: e.Message,
			})
		}
	}

	return validationResult, nil
}

// schema returns the compiled schema for name, compiling and caching it on
// first use from the embedded OpenAPI document.
func (v *SchemaValidator) schema(name string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if compiled, ok := v.compiled[name]; ok {
		return compiled, nil
	}

	swagger, err := GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("loading embedded spec: %w", err)
	}
	if swagger.Components == nil {
		return nil, fmt.Errorf("embedded spec has no component schemas")
	}
	ref, ok := swagger.Components.Schemas[name]
	if !ok || ref.Value == nil {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	schemaBytes, err := ref.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshalling schema %s: %w", name, err)
	}
	compiled, err := v.compiler.Compile(schemaBytes)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}

	v.compiled[name] = compiled
	return compiled, nil
}
