package services

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
)

func testSchemaPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "schemas", "nft_attributes.json")
}

func newTestAttributeValidator(t *testing.T) *AttributeValidator {
	t.Helper()
	v, err := NewAttributeValidator(testSchemaPath(t))
	if err != nil {
		t.Fatalf("NewAttributeValidator: %v", err)
	}
	return v
}

func TestAttributeValidator_ValidPayload(t *testing.T) {
	v := newTestAttributeValidator(t)

	payload := json.RawMessage(`[
		{"trait_type": "Background", "value": "Midnight"},
		{"trait_type": "Power", "value": 88, "display_type": "number", "max_value": 100}
	]`)
	if err := v.Validate(payload); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestAttributeValidator_EmptyPayloadAllowed(t *testing.T) {
	v := newTestAttributeValidator(t)

	if err := v.Validate(nil); err != nil {
		t.Errorf("nil payload: %v", err)
	}
	if err := v.Validate(json.RawMessage(`[]`)); err != nil {
		t.Errorf("empty array: %v", err)
	}
}

func TestAttributeValidator_UnwrapsStringWrappedPayload(t *testing.T) {
	v := newTestAttributeValidator(t)

	wrapped := json.RawMessage(`"[{\"trait_type\": \"Background\", \"value\": \"Midnight\"}]"`)
	if err := v.Validate(wrapped); err != nil {
		t.Fatalf("Validate wrapped payload: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	plain := json.RawMessage(`[{"trait_type": "x", "value": 1}]`)
	got, err := Normalize(plain)
	if err != nil {
		t.Fatalf("Normalize plain: %v", err)
	}
	if string(got) != string(plain) {
		t.Errorf("plain payload changed: %s", got)
	}

	got, err = Normalize(json.RawMessage(`"[1, 2]"`))
	if err != nil {
		t.Fatalf("Normalize wrapped: %v", err)
	}
	if string(got) != "[1, 2]" {
		t.Errorf("unwrapped = %s, want [1, 2]", got)
	}

	if _, err := Normalize(json.RawMessage(`"not json"`)); !errors.Is(err, ErrValidation) {
		t.Errorf("string of garbage: err = %v, want ErrValidation", err)
	}

	if got, err := Normalize(nil); err != nil || got != nil {
		t.Errorf("nil payload: got %s, err %v", got, err)
	}
}

func TestAttributeValidator_RejectsMalformedEntries(t *testing.T) {
	v := newTestAttributeValidator(t)

	cases := map[string]string{
		"missing value":      `[{"trait_type": "Background"}]`,
		"empty trait_type":   `[{"trait_type": "", "value": "x"}]`,
		"unknown field":      `[{"trait_type": "x", "value": 1, "rank": 3}]`,
		"not an array":       `{"trait_type": "x", "value": 1}`,
		"bad display_type":   `[{"trait_type": "x", "value": 1, "display_type": "emoji"}]`,
		"invalid JSON":       `[{"trait_type"`,
	}
	for name, payload := range cases {
		if err := v.Validate(json.RawMessage(payload)); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", name, err)
		}
	}
}
