package common

import (
	"encoding/json"
)

// Type is a JSON Schema primitive type.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
)

// Field describes one argument.
type Field struct {
	Name        string
	Type        Type
	Required    bool
	Description string

	// Enum restricts string fields to a fixed set.
	Enum []string

	// Minimum is an inclusive lower bound for integer fields.
	Minimum *int
}

// Schema is the declarative argument list of a tool. It is rendered to
// JSON Schema for the MCP tool listing and for validation.
type Schema struct {
	Fields []Field
}

// Min returns a pointer to n for Field.Minimum.
func Min(n int) *int {
	return &n
}

// Object renders the schema as a JSON Schema object. Unknown properties are
// allowed.
func (s Schema) Object() map[string]any {
	properties := make(map[string]any, len(s.Fields))
	required := []string{}
	for _, f := range s.Fields {
		prop := map[string]any{"type": string(f.Type)}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		if len(f.Enum) > 0 {
			prop["enum"] = f.Enum
		}
		if f.Minimum != nil {
			prop["minimum"] = *f.Minimum
		}
		properties[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}

	obj := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		obj["required"] = required
	}
	return obj
}

// JSON returns the rendered schema. Map keys are emitted in sorted order,
// so the output is stable.
func (s Schema) JSON() json.RawMessage {
	raw, err := json.Marshal(s.Object())
	if err != nil {
		// Object only contains strings, ints and slices of strings.
		panic(err)
	}
	return raw
}

// Field returns the named field.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
