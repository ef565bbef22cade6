// Package schema holds the declarative description of the book payload and
// the validator that interprets it.
//
// The description lives in YAML so it can be replaced without touching the
// HTTP controllers or the repository:
//
//	s, err := schema.Load(cfg.Schema.Path) // "" falls back to the embedded book.yaml
//	v, err := schema.NewValidator(s)
//	book, err := v.ValidateCreate(payload)
package schema

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects which required-ness rules apply.
type Mode string

const (
	ModeCreate Mode = "create" // every required field must be present
	ModeUpdate Mode = "update" // any subset, each supplied field still type-checked
)

type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
)

// Field describes a single payload attribute.
type Field struct {
	Name      string    `yaml:"name" json:"name"`
	Type      FieldType `yaml:"type" json:"type"`
	Required  []Mode    `yaml:"required" json:"required,omitempty"`
	Immutable bool      `yaml:"immutable" json:"immutable,omitempty"`
	Rules     string    `yaml:"rules" json:"rules,omitempty"` // go-playground/validator tags
}

// RequiredIn reports whether the field must be present in the given mode.
func (f Field) RequiredIn(mode Mode) bool {
	for _, m := range f.Required {
		if m == mode {
			return true
		}
	}
	return false
}

// Schema is the full payload description.
type Schema struct {
	Resource string  `yaml:"resource" json:"resource"`
	Key      string  `yaml:"key" json:"key"`
	Fields   []Field `yaml:"fields" json:"fields"`
}

//go:embed book.yaml
var defaultSchema []byte

// Default returns the embedded book schema.
func Default() (*Schema, error) {
	return Parse(defaultSchema)
}

// Load reads a schema from path, or the embedded default when path is empty.
func Load(path string) (*Schema, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and sanity-checks a YAML schema description.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if len(s.Fields) == 0 {
		return nil, fmt.Errorf("schema %q declares no fields", s.Resource)
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema %q has a field without a name", s.Resource)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("schema %q declares field %q twice", s.Resource, f.Name)
		}
		seen[f.Name] = true

		switch f.Type {
		case TypeString, TypeInteger:
		default:
			return nil, fmt.Errorf("field %q has unsupported type %q", f.Name, f.Type)
		}
		for _, m := range f.Required {
			if m != ModeCreate && m != ModeUpdate {
				return nil, fmt.Errorf("field %q has unknown mode %q", f.Name, m)
			}
		}
	}

	if s.Key == "" || !seen[s.Key] {
		return nil, fmt.Errorf("schema %q key %q is not a declared field", s.Resource, s.Key)
	}
	return &s, nil
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
