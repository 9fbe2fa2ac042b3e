// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package provision

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/segmentio/ksuid"
	"github.com/tidwall/sjson"

	"github.com/platform-engineering-labs/stratum/pkg/expr"
)

// Template accumulates resource declarations for one stack. It is
// append-only until Build seals it; constructs write through per-construct
// scopes so their logical ids cannot collide.
type Template struct {
	stack     string
	order     []string
	resources map[string]templateResource
	outputs   map[string]expr.Node
	outOrder  []string
	sealed    bool
}

type templateResource struct {
	Type       string
	Ksuid      string
	Properties json.RawMessage
	DependsOn  []string
}

func NewTemplate(stack string) *Template {
	return &Template{
		stack:     stack,
		resources: make(map[string]templateResource),
		outputs:   make(map[string]expr.Node),
	}
}

func (t *Template) Stack() string { return t.stack }

// Scope returns an Engine that qualifies every declaration with the
// construct's logical id.
func (t *Template) Scope(constructID string) Engine {
	return &scope{template: t, constructID: constructID}
}

type scope struct {
	template    *Template
	constructID string
}

var _ Engine = &scope{}

func (s *scope) Declare(res Resource) (*Handle, error) {
	if res.LogicalID == "" {
		return nil, fmt.Errorf("construct %s declared a resource without a logical id", s.constructID)
	}
	if res.Type == "" {
		return nil, fmt.Errorf("construct %s declared resource %s without a type", s.constructID, res.LogicalID)
	}

	qualified := s.constructID + "." + res.LogicalID
	deps := make([]string, 0, len(res.DependsOn))
	for _, dep := range res.DependsOn {
		deps = append(deps, s.constructID+"."+dep)
	}

	return s.template.declare(qualified, res.Type, res.Properties, deps)
}

func (s *scope) Output(name string, value expr.Node) (*OutputHandle, error) {
	return s.template.output(s.constructID+"."+name, value)
}

func (t *Template) declare(logicalID, resourceType string, props map[string]any, deps []string) (*Handle, error) {
	if t.sealed {
		return nil, fmt.Errorf("template for stack %s is sealed", t.stack)
	}
	if _, exists := t.resources[logicalID]; exists {
		return nil, fmt.Errorf("duplicate resource logical id %q in stack %s", logicalID, t.stack)
	}
	for _, dep := range deps {
		if _, exists := t.resources[dep]; !exists {
			return nil, fmt.Errorf("resource %q depends on undeclared resource %q", logicalID, dep)
		}
	}

	encoded, err := EncodeProperties(props)
	if err != nil {
		return nil, fmt.Errorf("failed to encode properties of %q: %w", logicalID, err)
	}

	id := ksuid.New().String()
	t.resources[logicalID] = templateResource{
		Type:       resourceType,
		Ksuid:      id,
		Properties: encoded,
		DependsOn:  deps,
	}
	t.order = append(t.order, logicalID)

	return &Handle{logicalID: logicalID, resourceType: resourceType, ksuid: id}, nil
}

func (t *Template) output(key string, value expr.Node) (*OutputHandle, error) {
	if t.sealed {
		return nil, fmt.Errorf("template for stack %s is sealed", t.stack)
	}
	if value == nil {
		return nil, fmt.Errorf("output %q has no value", key)
	}
	if _, exists := t.outputs[key]; exists {
		return nil, fmt.Errorf("duplicate output %q in stack %s", key, t.stack)
	}

	t.outputs[key] = value
	t.outOrder = append(t.outOrder, key)

	return &OutputHandle{key: key}, nil
}

// ResourceIDs returns declared logical ids in declaration order.
func (t *Template) ResourceIDs() []string {
	ids := make([]string, len(t.order))
	copy(ids, t.order)
	return ids
}

// OutputKeys returns declared output keys in declaration order.
func (t *Template) OutputKeys() []string {
	keys := make([]string, len(t.outOrder))
	copy(keys, t.outOrder)
	return keys
}

// ResourceType returns the type of a declared resource.
func (t *Template) ResourceType(logicalID string) (string, bool) {
	res, ok := t.resources[logicalID]
	return res.Type, ok
}

// Build seals the template and renders the document handed to the
// orchestrator. After Build, further declarations fail.
func (t *Template) Build() (*Document, error) {
	t.sealed = true

	doc := fmt.Sprintf(`{"Stack":%q,"Resources":{},"Outputs":{}}`, t.stack)

	for _, logicalID := range t.order {
		res := t.resources[logicalID]
		entry := struct {
			Type       string          `json:"Type"`
			Ksuid      string          `json:"Ksuid"`
			Properties json.RawMessage `json:"Properties"`
			DependsOn  []string        `json:"DependsOn,omitempty"`
		}{
			Type:       res.Type,
			Ksuid:      res.Ksuid,
			Properties: res.Properties,
		}
		if len(res.DependsOn) > 0 {
			entry.DependsOn = make([]string, len(res.DependsOn))
			copy(entry.DependsOn, res.DependsOn)
			sort.Strings(entry.DependsOn)
		}

		raw, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to render resource %q: %w", logicalID, err)
		}
		doc, err = sjson.SetRaw(doc, "Resources."+escapePath(logicalID), string(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to render resource %q: %w", logicalID, err)
		}
	}

	for _, key := range t.outOrder {
		encoded, err := t.outputs[key].Encode()
		if err != nil {
			return nil, fmt.Errorf("failed to encode output %q: %w", key, err)
		}
		doc, err = sjson.SetRaw(doc, "Outputs."+escapePath(key), string(encoded))
		if err != nil {
			return nil, fmt.Errorf("failed to render output %q: %w", key, err)
		}
	}

	return &Document{stack: t.stack, raw: []byte(doc)}, nil
}

// logical ids embed the construct id separator; escape it so sjson treats
// the whole id as one key
func escapePath(key string) string {
	return strings.ReplaceAll(key, ".", `\.`)
}
