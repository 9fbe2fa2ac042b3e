// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package provision is the boundary between constructs and the resource
// engine. Constructs declare resources and outputs imperatively during
// construction; the engine records them into an immutable template the
// orchestrator later applies.
package provision

import (
	"github.com/goccy/go-json"

	"github.com/platform-engineering-labs/stratum/pkg/expr"
)

// Resource is one declarative resource before it is admitted into a
// template. Properties may embed encoded expression nodes.
type Resource struct {
	LogicalID  string
	Type       string
	Properties map[string]any
	DependsOn  []string
}

// Engine is the provisioning surface handed to a construct. All calls
// happen synchronously during construction; a returned error aborts the
// whole compilation.
type Engine interface {
	// Declare admits a resource into the plan and returns its handle.
	// Logical ids must be unique within the declaring construct.
	Declare(res Resource) (*Handle, error)

	// Output records a named output whose value the orchestrator
	// realizes after deployment.
	Output(name string, value expr.Node) (*OutputHandle, error)
}

// Handle identifies a declared resource. Attribute references made
// through it resolve at deploy time.
type Handle struct {
	logicalID    string
	resourceType string
	ksuid        string
}

func (h *Handle) LogicalID() string { return h.logicalID }

func (h *Handle) Type() string { return h.resourceType }

func (h *Handle) Ksuid() string { return h.ksuid }

// Attr returns a deferred reference to an attribute of the resource.
func (h *Handle) Attr(name string) expr.Node {
	return expr.Ref{LogicalID: h.logicalID, Attribute: name}
}

// OutputHandle identifies a declared stack output.
type OutputHandle struct {
	key string
}

// Key is the fully qualified output name, unique within the stack.
func (o *OutputHandle) Key() string { return o.key }

// EncodeProperties renders a property map, encoding any expr.Node values
// into their template form.
func EncodeProperties(props map[string]any) (json.RawMessage, error) {
	encoded := make(map[string]json.RawMessage, len(props))
	for key, value := range props {
		raw, err := encodeValue(value)
		if err != nil {
			return nil, err
		}
		encoded[key] = raw
	}
	return json.Marshal(encoded)
}

func encodeValue(value any) (json.RawMessage, error) {
	switch v := value.(type) {
	case expr.Node:
		return v.Encode()
	case map[string]any:
		return EncodeProperties(v)
	case []any:
		parts := make([]json.RawMessage, 0, len(v))
		for _, item := range v {
			raw, err := encodeValue(item)
			if err != nil {
				return nil, err
			}
			parts = append(parts, raw)
		}
		return json.Marshal(parts)
	default:
		return json.Marshal(v)
	}
}
