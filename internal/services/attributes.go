package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrValidation can be used with errors.Is to detect attribute validation failures.
var ErrValidation = errors.New("validation failed")

// AttributeValidator checks NFT attribute payloads against the platform
// attribute schema before they reach the catalog.
type AttributeValidator struct {
	schema *jsonschema.Schema
}

// NewAttributeValidator compiles the schema at schemaPath
// (e.g. "schemas/nft_attributes.json").
func NewAttributeValidator(schemaPath string) (*AttributeValidator, error) {
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("read schema %q: %w", schemaPath, err)
	}
	schema, err := jsonschema.CompileString("https://vaultorx.dev/schemas/nft_attributes", string(data))
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", schemaPath, err)
	}
	return &AttributeValidator{schema: schema}, nil
}

// Normalize unwraps attribute payloads the admin UI double-encodes as a JSON
// string and returns the inner document. Plain payloads pass through.
func Normalize(attributes json.RawMessage) (json.RawMessage, error) {
	if len(attributes) == 0 {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(attributes, &s); err == nil {
		if !json.Valid([]byte(s)) {
			return nil, fmt.Errorf("%w: string payload is not JSON", ErrValidation)
		}
		return json.RawMessage(s), nil
	}
	return attributes, nil
}

// Validate hard-rejects attribute payloads that do not match the schema.
// A nil or empty payload is allowed; attributes are optional on mint.
func (v *AttributeValidator) Validate(attributes json.RawMessage) error {
	attributes, err := Normalize(attributes)
	if err != nil {
		return err
	}
	if len(attributes) == 0 {
		return nil
	}
	var doc interface{}
	if err := json.Unmarshal(attributes, &doc); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrValidation, err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
