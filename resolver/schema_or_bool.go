package resolver

import (
	"fmt"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// SchemaOrBool models JSON Schema keywords that accept either a boolean or
// a sub-schema (additionalProperties). Boolean true and an empty schema are
// equivalent; false disables the keyword.
type SchemaOrBool struct {
	// Allowed is false only when the keyword was the literal false.
	Allowed bool
	// Schema is the declared sub-schema, nil when the keyword was a boolean.
	Schema *Schema
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *SchemaOrBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		s.Allowed = b
		s.Schema = nil
		return nil
	}
	var sub Schema
	if err := json.Unmarshal(data, &sub); err != nil {
		return fmt.Errorf("additionalProperties must be a boolean or a schema: %w", err)
	}
	s.Allowed = true
	s.Schema = &sub
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *SchemaOrBool) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var b bool
		if err := node.Decode(&b); err != nil {
			return fmt.Errorf("additionalProperties must be a boolean or a schema: %w", err)
		}
		s.Allowed = b
		s.Schema = nil
		return nil
	}
	var sub Schema
	if err := node.Decode(&sub); err != nil {
		return fmt.Errorf("additionalProperties must be a boolean or a schema: %w", err)
	}
	s.Allowed = true
	s.Schema = &sub
	return nil
}
