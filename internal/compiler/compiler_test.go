// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/platform-engineering-labs/stratum/constructs/all"
	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/environment"
	"github.com/platform-engineering-labs/stratum/pkg/model"
)

func testEnv(stack string) environment.Provider {
	return &environment.Static{
		Stack: stack,
		Net: environment.Network{
			BoundaryID:      "boundary-1",
			PrivateSegments: []string{"segment-a", "segment-b"},
			AppSecurityRule: "app-rule",
		},
	}
}

func mustParse(t *testing.T, yaml string) *model.Definition {
	t.Helper()
	def, err := model.ParseDefinition([]byte(yaml))
	require.NoError(t, err)
	return def
}

func TestCompileFullDefinition(t *testing.T) {
	def := mustParse(t, `
stack: app-dev
constructs:
  orders:
    type: sql-database
    engine: mysql
  jobs:
    type: queue
  uploads:
    type: storage
  site:
    type: static-website
    path: ./dist
  web:
    type: server-side-website
    backendOrigin: app.internal
  github:
    type: webhook
    path: /github
`)

	result, err := Compile(def, testEnv("app-dev"), nil)
	require.NoError(t, err)

	assert.Len(t, result.Constructs, 6)

	// one sub-graph per construct, all ids qualified
	ids := result.ResourceIDs()
	assert.Contains(t, ids, "orders.instance")
	assert.Contains(t, ids, "orders.proxy")
	assert.Contains(t, ids, "jobs.dlq")
	assert.Contains(t, ids, "uploads.bucket")
	assert.Contains(t, ids, "site.distribution")
	assert.Contains(t, ids, "web.assets")
	assert.Contains(t, ids, "github.route")

	resourceType, ok := result.ResourceType("orders.instance")
	require.True(t, ok)
	assert.Equal(t, "Database::Instance", resourceType)

	keys := result.OutputKeys()
	assert.Contains(t, keys, "orders.host")
	assert.Contains(t, keys, "jobs.queueUrl")
	assert.Contains(t, keys, "site.url")

	outputs := result.Outputs()
	assert.Contains(t, outputs, "orders.host")
	assert.Equal(t, "orders.host", outputs["orders.host"].Key())

	// the document carries every construct's resources
	stack, ok := result.Document.Get("Stack")
	require.True(t, ok)
	assert.Equal(t, "app-dev", stack)
}

func TestCompileIsDeterministicAcrossDeclarationOrder(t *testing.T) {
	def := mustParse(t, `
stack: app-dev
constructs:
  b-queue:
    type: queue
  a-queue:
    type: queue
`)

	result, err := Compile(def, testEnv("app-dev"), nil)
	require.NoError(t, err)

	// constructs compile in sorted id order
	assert.Equal(t, []string{
		"a-queue.dlq", "a-queue.queue",
		"b-queue.dlq", "b-queue.queue",
	}, result.ResourceIDs())
}

func TestCompileUnknownConstructType(t *testing.T) {
	def := mustParse(t, `
stack: app-dev
constructs:
  mystery:
    type: quantum-database
`)

	_, err := Compile(def, testEnv("app-dev"), nil)
	require.Error(t, err)

	cfgErr, ok := construct.IsConfigurationError(err)
	require.True(t, ok)
	assert.Equal(t, construct.ErrorCodeUnknownConstructType, cfgErr.Code)
	assert.Equal(t, "mystery", cfgErr.ConstructID)
}

func TestCompileInvalidConfiguration(t *testing.T) {
	def := mustParse(t, `
stack: app-dev
constructs:
  orders:
    type: sql-database
    engine: mysql
    siz: 10
`)

	_, err := Compile(def, testEnv("app-dev"), nil)
	require.Error(t, err)

	cfgErr, ok := construct.IsConfigurationError(err)
	require.True(t, ok)
	assert.Equal(t, construct.ErrorCodeInvalidConstructConfiguration, cfgErr.Code)
	assert.Equal(t, "orders", cfgErr.ConstructID)
	assert.Contains(t, cfgErr.Message, "siz")
}

func TestCompileFailsFast(t *testing.T) {
	def := mustParse(t, `
stack: app-dev
constructs:
  a-bad:
    type: sql-database
    engine: oracle
  z-good:
    type: storage
`)

	result, err := Compile(def, testEnv("app-dev"), nil)
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestCompileRejectsInvalidDefinition(t *testing.T) {
	def := &model.Definition{Stack: "app-dev"}
	_, err := Compile(def, testEnv("app-dev"), nil)
	assert.ErrorContains(t, err, "declares no constructs")
}

func TestResultCommandLookup(t *testing.T) {
	def := mustParse(t, `
stack: app-dev
constructs:
  jobs:
    type: queue
`)

	result, err := Compile(def, testEnv("app-dev"), nil)
	require.NoError(t, err)

	cmd, err := result.Command("jobs", "retry-failed")
	require.NoError(t, err)
	assert.NotNil(t, cmd.Run)

	_, err = result.Command("jobs", "no-such-command")
	assert.ErrorContains(t, err, "no command")

	_, err = result.Command("nope", "retry-failed")
	assert.ErrorContains(t, err, "no construct")
}
