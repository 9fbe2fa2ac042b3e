// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// stack names end up in resource names and secret paths, so they follow
// the same naming rules as logical ids
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Definition is one parsed deployment definition: a stack name plus the
// construct declarations it contains.
type Definition struct {
	Stack      string                 `yaml:"stack"`
	Constructs map[string]Declaration `yaml:"constructs"`
}

// Declaration is a single construct block before validation: its type
// identifier plus the raw configuration handed to schema validation.
type Declaration struct {
	Type   string
	Config json.RawMessage
}

func (d *Declaration) UnmarshalYAML(node *yaml.Node) error {
	var fields map[string]any
	if err := node.Decode(&fields); err != nil {
		return err
	}

	typeID, ok := fields["type"].(string)
	if !ok || typeID == "" {
		return fmt.Errorf("construct declaration is missing a type")
	}
	delete(fields, "type")

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to normalize construct configuration: %w", err)
	}

	d.Type = typeID
	d.Config = raw
	return nil
}

// LogicalIDs returns the declared construct ids in sorted order, which is
// also the compilation order.
func (d *Definition) LogicalIDs() []string {
	ids := make([]string, 0, len(d.Constructs))
	for id := range d.Constructs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (d *Definition) Validate() error {
	if d.Stack == "" {
		return fmt.Errorf("definition is missing a stack name")
	}
	if !namePattern.MatchString(d.Stack) {
		return fmt.Errorf("stack name %q must match %s", d.Stack, namePattern)
	}
	if len(d.Constructs) == 0 {
		return fmt.Errorf("definition declares no constructs")
	}
	for id := range d.Constructs {
		if !namePattern.MatchString(id) {
			return fmt.Errorf("construct id %q must match %s", id, namePattern)
		}
	}
	return nil
}

// LoadDefinition reads and validates a deployment definition from a YAML
// file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}

	return ParseDefinition(data)
}

// ParseDefinition parses a deployment definition from YAML bytes.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}
