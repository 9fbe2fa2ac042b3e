// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/stratum/pkg/expr"
)

func TestScopeQualifiesLogicalIDs(t *testing.T) {
	template := NewTemplate("app-dev")
	scope := template.Scope("orders")

	handle, err := scope.Declare(Resource{
		LogicalID:  "instance",
		Type:       "Database::Instance",
		Properties: map[string]any{"Name": "orders-db"},
	})
	require.NoError(t, err)

	assert.Equal(t, "orders.instance", handle.LogicalID())
	assert.Equal(t, "Database::Instance", handle.Type())
	assert.NotEmpty(t, handle.Ksuid())
	assert.Equal(t, []string{"orders.instance"}, template.ResourceIDs())
}

func TestScopesIsolateConstructs(t *testing.T) {
	template := NewTemplate("app-dev")

	_, err := template.Scope("a").Declare(Resource{LogicalID: "bucket", Type: "Storage::Bucket"})
	require.NoError(t, err)

	// same unqualified id in another construct is fine
	_, err = template.Scope("b").Declare(Resource{LogicalID: "bucket", Type: "Storage::Bucket"})
	require.NoError(t, err)

	// same id within one construct is not
	_, err = template.Scope("a").Declare(Resource{LogicalID: "bucket", Type: "Storage::Bucket"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate resource logical id")
}

func TestDeclareValidation(t *testing.T) {
	template := NewTemplate("app-dev")
	scope := template.Scope("orders")

	_, err := scope.Declare(Resource{Type: "Storage::Bucket"})
	assert.ErrorContains(t, err, "without a logical id")

	_, err = scope.Declare(Resource{LogicalID: "bucket"})
	assert.ErrorContains(t, err, "without a type")

	_, err = scope.Declare(Resource{
		LogicalID: "proxy",
		Type:      "Database::Proxy",
		DependsOn: []string{"instance"},
	})
	assert.ErrorContains(t, err, "undeclared resource")
}

func TestDuplicateOutputRejected(t *testing.T) {
	template := NewTemplate("app-dev")
	scope := template.Scope("orders")

	handle, err := scope.Output("host", expr.Lit("example"))
	require.NoError(t, err)
	assert.Equal(t, "orders.host", handle.Key())

	_, err = scope.Output("host", expr.Lit("other"))
	assert.ErrorContains(t, err, "duplicate output")

	_, err = scope.Output("nil-value", nil)
	assert.ErrorContains(t, err, "has no value")
}

func TestBuildSealsTemplate(t *testing.T) {
	template := NewTemplate("app-dev")
	scope := template.Scope("orders")

	_, err := scope.Declare(Resource{LogicalID: "bucket", Type: "Storage::Bucket"})
	require.NoError(t, err)

	_, err = template.Build()
	require.NoError(t, err)

	_, err = scope.Declare(Resource{LogicalID: "another", Type: "Storage::Bucket"})
	assert.ErrorContains(t, err, "sealed")

	_, err = scope.Output("late", expr.Lit("x"))
	assert.ErrorContains(t, err, "sealed")
}

func TestBuildRendersDocument(t *testing.T) {
	template := NewTemplate("app-dev")
	scope := template.Scope("orders")

	instance, err := scope.Declare(Resource{
		LogicalID: "instance",
		Type:      "Database::Instance",
		Properties: map[string]any{
			"Name":    "orders-db",
			"Storage": 50,
		},
	})
	require.NoError(t, err)

	proxy, err := scope.Declare(Resource{
		LogicalID: "proxy",
		Type:      "Database::Proxy",
		Properties: map[string]any{
			"Target": instance.Attr("Id"),
		},
		DependsOn: []string{"instance"},
	})
	require.NoError(t, err)

	_, err = scope.Output("host", proxy.Attr("Host"))
	require.NoError(t, err)

	doc, err := template.Build()
	require.NoError(t, err)

	stack, ok := doc.Get("Stack")
	require.True(t, ok)
	assert.Equal(t, "app-dev", stack)

	// dots in logical ids are document keys, not nesting
	name, ok := doc.Get(`Resources.orders\.instance.Properties.Name`)
	require.True(t, ok)
	assert.Equal(t, "orders-db", name)

	target, ok := doc.Get(`Resources.orders\.proxy.Properties.Target.$get`)
	require.True(t, ok)
	assert.JSONEq(t, `["orders.instance","Id"]`, target)

	dep, ok := doc.Get(`Resources.orders\.proxy.DependsOn.0`)
	require.True(t, ok)
	assert.Equal(t, "orders.instance", dep)

	host, ok := doc.Get(`Outputs.orders\.host.$get`)
	require.True(t, ok)
	assert.JSONEq(t, `["orders.proxy","Host"]`, host)
}

func TestDocumentQuery(t *testing.T) {
	template := NewTemplate("app-dev")
	scope := template.Scope("uploads")

	_, err := scope.Declare(Resource{
		LogicalID:  "bucket",
		Type:       "Storage::Bucket",
		Properties: map[string]any{"Encryption": "aes256"},
	})
	require.NoError(t, err)

	doc, err := template.Build()
	require.NoError(t, err)

	value, ok := doc.Query(`$.Resources["uploads.bucket"].Properties.Encryption`)
	require.True(t, ok)
	assert.Equal(t, "aes256", value)

	_, ok = doc.Query(`$.Resources["uploads.bucket"].Properties.Missing`)
	assert.False(t, ok)
}

func TestEncodePropertiesHandlesNestedNodes(t *testing.T) {
	encoded, err := EncodeProperties(map[string]any{
		"Plain": "value",
		"Nested": map[string]any{
			"Ref": expr.Ref{LogicalID: "a.b", Attribute: "Id"},
		},
		"List": []any{expr.Lit("x"), 1},
	})
	require.NoError(t, err)

	parsed := string(encoded)
	assert.JSONEq(t, `{
		"Plain": "value",
		"Nested": {"Ref": {"$get": ["a.b", "Id"]}},
		"List": ["x", 1]
	}`, parsed)
}
