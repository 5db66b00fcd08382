// Package schema holds the core message grammar: the JSON Schema
// document every structured message must satisfy, its write-once
// persistence to disk, and structural validation of candidate
// mappings. Extension schemas layer constraints onto "extensions"
// elsewhere; the core grammar never changes for them.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ID is the canonical identifier of the core grammar.
const ID = "urn:polytech:msg:core:1.0"

// Document builds the draft 2020-12 schema describing the message
// envelope: required metadata, optional text, the tagged union of
// built-in components keyed by "kind", and the open extensions object.
func Document() map[string]any {
	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         ID,
		"title":       "Structured Message - Core 1.0",
		"description": "Common grammar for minimal interoperable messaging between two accounts.",
		"type":        "object",
		"properties": map[string]any{
			"id":        map[string]any{"type": "string", "format": "uuid"},
			"thread_id": map[string]any{"type": "string", "format": "uuid"},
			"timestamp": map[string]any{"type": "string", "format": "date-time"},
			"sender":    map[string]any{"type": "string"},
			"receiver":  map[string]any{"type": "string"},
			"text":      map[string]any{"type": "string"},
			"components": map[string]any{
				"type":    "array",
				"items":   map[string]any{"$ref": "#/$defs/component"},
				"default": []any{},
			},
			"extensions": map[string]any{
				"type":        "object",
				"description": "Heterogeneous payloads validated by extra schemas (plugins).",
				"default":     map[string]any{},
			},
		},
		"required": []any{"id", "thread_id", "timestamp", "sender", "receiver"},
		"$defs": map[string]any{
			"component": map[string]any{
				"oneOf": []any{
					map[string]any{"$ref": "#/$defs/checkbox"},
					map[string]any{"$ref": "#/$defs/binaryQuestion"},
					map[string]any{"$ref": "#/$defs/multiChoice"},
					map[string]any{"$ref": "#/$defs/timeSlot"},
					map[string]any{"$ref": "#/$defs/color"},
				},
			},
			"checkbox": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind":    map[string]any{"const": "checkbox"},
					"label":   map[string]any{"type": "string"},
					"checked": map[string]any{"type": "boolean"},
				},
				"required": []any{"kind", "label", "checked"},
			},
			"binaryQuestion": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind":     map[string]any{"const": "binaryQuestion"},
					"question": map[string]any{"type": "string"},
					"answer":   map[string]any{"type": []any{"boolean", "null"}},
				},
				"required": []any{"kind", "question"},
			},
			"multiChoice": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind":     map[string]any{"const": "multiChoice"},
					"question": map[string]any{"type": "string"},
					"choices": map[string]any{
						"type":     "array",
						"items":    map[string]any{"type": "string"},
						"minItems": 1,
					},
					"selected": map[string]any{"type": []any{"string", "null"}},
				},
				"required": []any{"kind", "question", "choices"},
			},
			"timeSlot": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind":  map[string]any{"const": "timeSlot"},
					"start": map[string]any{"type": "string", "format": "date-time"},
					"end":   map[string]any{"type": "string", "format": "date-time"},
				},
				"required": []any{"kind", "start", "end"},
			},
			"color": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind": map[string]any{"const": "color"},
					"hex":  map[string]any{"type": "string", "pattern": "^#?[0-9a-fA-F]{6}$"},
				},
				"required": []any{"kind", "hex"},
			},
		},
	}
}

// EnsureFile persists the core grammar to path once, so other teams can
// validate against it or generate UI from it. An existing file is never
// overwritten by the kernel.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat schema file: %w", err)
	}
	b, err := json.MarshalIndent(Document(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal core schema: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}
	return nil
}

// Violation is one structural problem found in a candidate mapping.
type Violation struct {
	Path   string
	Reason string
}

// Validator checks candidate message mappings against the core grammar.
type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	b, err := json.Marshal(Document())
	if err != nil {
		return nil, fmt.Errorf("marshal core schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("reload core schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(ID, doc); err != nil {
		return nil, fmt.Errorf("add core schema resource: %w", err)
	}
	compiled, err := compiler.Compile(ID)
	if err != nil {
		return nil, fmt.Errorf("compile core schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate reports every structural violation in the candidate, or nil
// when it conforms. Validation is shape-only; cross-field business
// rules belong to extension schemas.
func (v *Validator) Validate(candidate map[string]any) ([]Violation, error) {
	b, err := json.Marshal(candidate)
	if err != nil {
		return nil, fmt.Errorf("marshal candidate: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("reload candidate: %w", err)
	}
	err = v.schema.Validate(instance)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validate candidate: %w", err)
	}
	return collect(ve, nil), nil
}

func collect(ve *jsonschema.ValidationError, acc []Violation) []Violation {
	if len(ve.Causes) == 0 {
		acc = append(acc, Violation{
			Path:   "/" + strings.Join(ve.InstanceLocation, "/"),
			Reason: ve.Error(),
		})
		return acc
	}
	for _, cause := range ve.Causes {
		acc = collect(cause, acc)
	}
	return acc
}
