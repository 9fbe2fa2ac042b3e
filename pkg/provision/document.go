// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package provision

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/theory/jsonpath"
	"github.com/tidwall/gjson"
)

// jsonpathParser is a package-level parser with RFC 9535 support
var jsonpathParser = jsonpath.NewParser()

// Document is a sealed stack template. Read-only once built.
type Document struct {
	stack string
	raw   []byte
}

func (d *Document) Stack() string { return d.stack }

func (d *Document) JSON() []byte {
	out := make([]byte, len(d.raw))
	copy(out, d.raw)
	return out
}

// Indent returns the document pretty-printed for display.
func (d *Document) Indent() ([]byte, error) {
	var parsed any
	if err := json.Unmarshal(d.raw, &parsed); err != nil {
		return nil, fmt.Errorf("template document is not valid JSON: %w", err)
	}
	return json.MarshalIndent(parsed, "", "  ")
}

// Get retrieves a value using a gjson path relative to the document root.
func (d *Document) Get(path string) (string, bool) {
	result := gjson.GetBytes(d.raw, path)
	if !result.Exists() || result.Type == gjson.Null {
		return "", false
	}
	return result.String(), true
}

// Query retrieves the first match of an RFC 9535 JSONPath query. Plain
// field names are normalized to JSONPath syntax for convenience.
func (d *Document) Query(query string) (string, bool) {
	var data any
	if err := json.Unmarshal(d.raw, &data); err != nil {
		slog.Error("failed to unmarshal template document", "error", err)
		return "", false
	}

	if !strings.HasPrefix(query, "$") {
		query = "$." + query
	}
	path, err := jsonpathParser.Parse(query)
	if err != nil {
		slog.Error("failed to parse jsonpath query", "query", query, "error", err)
		return "", false
	}

	nodes := path.Select(data)
	if len(nodes) == 0 {
		return "", false
	}
	if strVal, ok := nodes[0].(string); ok {
		return strVal, true
	}
	return fmt.Sprintf("%v", nodes[0]), true
}
