// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package expr models values that are only partially known at compile time.
// A connection string, for example, mixes literal segments with resource
// attributes the engine substitutes once the stack is deployed.
package expr

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Node is one segment of a deferred value. Exactly one of the
// implementations below applies; the engine resolves Ref nodes at deploy
// time by substituting the realized resource attribute.
type Node interface {
	// Static reports whether the node can be rendered without the
	// deployed stack. Lit nodes are static, Ref nodes are not, Concat is
	// static only if all of its parts are.
	Static() bool

	// Encode returns the template encoding of the node. Static nodes
	// encode to a plain JSON string.
	Encode() (json.RawMessage, error)
}

// Lit is a literal string segment.
type Lit string

func (l Lit) Static() bool { return true }

func (l Lit) Encode() (json.RawMessage, error) {
	return json.Marshal(string(l))
}

// Ref is a deferred reference to an attribute of a declared resource,
// identified by its logical id within the stack template.
type Ref struct {
	LogicalID string
	Attribute string
}

func (r Ref) Static() bool { return false }

func (r Ref) Encode() (json.RawMessage, error) {
	if r.LogicalID == "" || r.Attribute == "" {
		return nil, fmt.Errorf("incomplete reference: logical id %q, attribute %q", r.LogicalID, r.Attribute)
	}
	return json.Marshal(map[string][]string{"$get": {r.LogicalID, r.Attribute}})
}

// Concat joins parts into a single string value.
type Concat []Node

func (c Concat) Static() bool {
	for _, part := range c {
		if !part.Static() {
			return false
		}
	}
	return true
}

func (c Concat) Encode() (json.RawMessage, error) {
	if c.Static() {
		rendered, err := Render(c, nil)
		if err != nil {
			return nil, err
		}
		return json.Marshal(rendered)
	}

	parts := make([]json.RawMessage, 0, len(c))
	for _, part := range c {
		encoded, err := part.Encode()
		if err != nil {
			return nil, err
		}
		parts = append(parts, encoded)
	}
	return json.Marshal(map[string][]json.RawMessage{"$concat": parts})
}

// Fmt builds a Concat from a format string where every "%s" verb is
// replaced by the corresponding node. Literal runs between verbs become
// Lit segments.
func Fmt(format string, nodes ...Node) (Concat, error) {
	segments := strings.Split(format, "%s")
	if len(segments)-1 != len(nodes) {
		return nil, fmt.Errorf("format %q expects %d nodes, got %d", format, len(segments)-1, len(nodes))
	}

	var out Concat
	for i, segment := range segments {
		if segment != "" {
			out = append(out, Lit(segment))
		}
		if i < len(nodes) {
			out = append(out, nodes[i])
		}
	}
	return out, nil
}

// Resolver substitutes a deferred reference with its realized value.
type Resolver func(ref Ref) (string, error)

// Render evaluates a node to a plain string. Ref nodes require a
// resolver; rendering a non-static node without one is an error.
func Render(node Node, resolve Resolver) (string, error) {
	switch n := node.(type) {
	case Lit:
		return string(n), nil
	case Ref:
		if resolve == nil {
			return "", fmt.Errorf("cannot render %s#%s without a resolver", n.LogicalID, n.Attribute)
		}
		return resolve(n)
	case Concat:
		var sb strings.Builder
		for _, part := range n {
			rendered, err := Render(part, resolve)
			if err != nil {
				return "", err
			}
			sb.WriteString(rendered)
		}
		return sb.String(), nil
	default:
		return "", fmt.Errorf("unknown expression node %T", node)
	}
}
