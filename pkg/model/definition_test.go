// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const sampleDefinition = `
stack: app-dev
constructs:
  orders:
    type: sql-database
    engine: mysql
    storage: 50
  uploads:
    type: storage
  jobs:
    type: queue
    fifo: true
`

func TestParseDefinition(t *testing.T) {
	def, err := ParseDefinition([]byte(sampleDefinition))
	require.NoError(t, err)

	assert.Equal(t, "app-dev", def.Stack)
	assert.Equal(t, []string{"jobs", "orders", "uploads"}, def.LogicalIDs())

	orders := def.Constructs["orders"]
	assert.Equal(t, "sql-database", orders.Type)
	// the type discriminator moves out of the config
	assert.False(t, gjson.GetBytes(orders.Config, "type").Exists())
	assert.Equal(t, "mysql", gjson.GetBytes(orders.Config, "engine").String())
	assert.Equal(t, int64(50), gjson.GetBytes(orders.Config, "storage").Int())

	jobs := def.Constructs["jobs"]
	assert.Equal(t, "queue", jobs.Type)
	assert.True(t, gjson.GetBytes(jobs.Config, "fifo").Bool())
}

func TestParseDefinitionErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing stack",
			yaml:    "constructs:\n  a:\n    type: queue\n",
			wantErr: "missing a stack name",
		},
		{
			name:    "invalid stack name",
			yaml:    "stack: App_Dev\nconstructs:\n  a:\n    type: queue\n",
			wantErr: "must match",
		},
		{
			name:    "no constructs",
			yaml:    "stack: app-dev\n",
			wantErr: "declares no constructs",
		},
		{
			name:    "invalid construct id",
			yaml:    "stack: app-dev\nconstructs:\n  Orders:\n    type: queue\n",
			wantErr: "must match",
		},
		{
			name:    "declaration without type",
			yaml:    "stack: app-dev\nconstructs:\n  orders:\n    engine: mysql\n",
			wantErr: "missing a type",
		},
		{
			name:    "not yaml",
			yaml:    "{{{",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinition([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
