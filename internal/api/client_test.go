// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
)

func TestStackOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stacks/app-dev/outputs/orders.host", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		_ = json.NewEncoder(w).Encode(map[string]string{"Value": "proxy.internal"})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	value, err := client.StackOutput(context.Background(), "app-dev", "orders.host")
	require.NoError(t, err)
	assert.Equal(t, "proxy.internal", value)
}

func TestStackOutputNotDeployed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.StackOutput(context.Background(), "app-dev", "orders.host")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the stack deployed?")
}

func TestStackNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stacks/app-dev/network", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"BoundaryID":      "boundary-1",
			"PrivateSegments": []string{"segment-a"},
			"AppSecurityRule": "app-rule",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	network, err := client.StackNetwork(context.Background(), "app-dev")
	require.NoError(t, err)
	assert.Equal(t, "boundary-1", network.BoundaryID)
	assert.Equal(t, []string{"segment-a"}, network.PrivateSegments)
	assert.Equal(t, "app-rule", network.AppSecurityRule)
}

func TestInvoke(t *testing.T) {
	var received construct.Operation
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/stacks/app-dev/operations", r.URL.Path)
		assert.Equal(t, "client-1", r.Header.Get("X-Client-Id"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil).WithClientID("client-1")
	operator := NewOperator(client, "app-dev")

	err := operator.Invoke(context.Background(), construct.Operation{
		Construct: "jobs",
		Action:    "queue.redrive",
		Params:    map[string]string{"queueUrl": "https://queues.example.com/q"},
	})
	require.NoError(t, err)
	assert.Equal(t, "jobs", received.Construct)
	assert.Equal(t, "queue.redrive", received.Action)
}

func TestInvokeFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	err := client.Invoke(context.Background(), "app-dev", construct.Operation{
		Construct: "jobs",
		Action:    "queue.purge-dlq",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestEnvironmentFetchesNetworkOnce(t *testing.T) {
	networkCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/stacks/app-dev/network":
			networkCalls++
			_ = json.NewEncoder(w).Encode(map[string]any{"BoundaryID": "boundary-1"})
		case "/api/v1/stacks/app-dev/outputs/jobs.queueUrl":
			_ = json.NewEncoder(w).Encode(map[string]string{"Value": "https://queues.example.com/q"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	env, err := NewEnvironment(context.Background(), NewClient(server.URL, nil), "app-dev")
	require.NoError(t, err)

	assert.Equal(t, "app-dev", env.StackName())
	assert.Equal(t, "boundary-1", env.Network().BoundaryID)
	assert.Equal(t, "boundary-1", env.Network().BoundaryID)
	assert.Equal(t, 1, networkCalls)

	value, err := env.StackOutput(context.Background(), "jobs.queueUrl")
	require.NoError(t, err)
	assert.Equal(t, "https://queues.example.com/q", value)
}
