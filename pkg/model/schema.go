// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"fmt"
	"regexp"
	"slices"
	"sort"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeBoolean FieldType = "boolean"
)

// Field describes one accepted configuration option. The constraint set is
// deliberately closed: pattern, enum, minLength and minimum are everything
// a construct schema may express.
type Field struct {
	Type      FieldType `json:"Type"`
	Pattern   string    `json:"Pattern,omitempty"`
	Enum      []string  `json:"Enum,omitempty"`
	MinLength int       `json:"MinLength,omitempty"`
	Minimum   *int64    `json:"Minimum,omitempty"`
	Required  bool      `json:"Required,omitempty"`

	Doc string `json:"Doc,omitempty"`
}

// Schema is the declarative description of a construct type's
// configuration. Additional properties are always rejected.
type Schema struct {
	Fields map[string]Field `json:"Fields"`
}

// FieldNames returns the accepted field names in sorted order.
func (s Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Required returns the names of all required fields, sorted.
func (s Schema) Required() []string {
	var required []string
	for name, field := range s.Fields {
		if field.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)
	return required
}

// Validate checks raw configuration against the schema. It rejects unknown
// fields, type mismatches and constraint violations so that a construct
// never observes invalid input. The `type` discriminator field is owned by
// the definition layer and ignored here.
func (s Schema) Validate(raw json.RawMessage) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	parsed := gjson.ParseBytes(raw)
	if !parsed.IsObject() {
		return fmt.Errorf("configuration must be an object, got %s", parsed.Type)
	}

	var err error
	parsed.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == "type" {
			return true
		}

		field, known := s.Fields[name]
		if !known {
			err = fmt.Errorf("unknown configuration field %q (accepted: %v)", name, s.FieldNames())
			return false
		}

		err = field.validate(name, value)
		return err == nil
	})
	if err != nil {
		return err
	}

	for _, name := range s.Required() {
		if !parsed.Get(name).Exists() {
			return fmt.Errorf("missing required configuration field %q", name)
		}
	}

	return nil
}

func (f Field) validate(name string, value gjson.Result) error {
	switch f.Type {
	case FieldTypeString:
		if value.Type != gjson.String {
			return fmt.Errorf("field %q must be a string", name)
		}
		str := value.String()
		if f.MinLength > 0 && len(str) < f.MinLength {
			return fmt.Errorf("field %q must be at least %d characters", name, f.MinLength)
		}
		if len(f.Enum) > 0 && !slices.Contains(f.Enum, str) {
			return fmt.Errorf("field %q must be one of %v, got %q", name, f.Enum, str)
		}
		if f.Pattern != "" {
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				return fmt.Errorf("field %q has an invalid pattern: %w", name, err)
			}
			if !re.MatchString(str) {
				return fmt.Errorf("field %q must match pattern %q", name, f.Pattern)
			}
		}
	case FieldTypeInteger:
		if value.Type != gjson.Number || value.Num != float64(value.Int()) {
			return fmt.Errorf("field %q must be an integer", name)
		}
		if f.Minimum != nil && value.Int() < *f.Minimum {
			return fmt.Errorf("field %q must be at least %d", name, *f.Minimum)
		}
	case FieldTypeBoolean:
		if value.Type != gjson.True && value.Type != gjson.False {
			return fmt.Errorf("field %q must be a boolean", name)
		}
	default:
		return fmt.Errorf("field %q has unsupported type %q", name, f.Type)
	}

	return nil
}
