// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package api is the client for the orchestrator agent: realized stack
// outputs, stack network descriptions and operational commands.
package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"resty.dev/v3"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/environment"
)

type Client struct {
	endpoint string
	resty    *resty.Client
}

func NewClient(endpoint string, net *http.Client) *Client {
	client := resty.New()
	if net != nil {
		client = resty.NewWithClient(net)
	}

	return &Client{
		endpoint: endpoint,
		resty:    client,
	}
}

// WithClientID attaches a stable client identifier to every request.
func (c *Client) WithClientID(id string) *Client {
	if id != "" {
		c.resty.SetHeader("X-Client-Id", id)
	}
	return c
}

// StackOutput fetches one realized output of a deployed stack. A missing
// output is an error; retry policy, if any, lives in the agent.
func (c *Client) StackOutput(ctx context.Context, stack, key string) (string, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString()).
		Get(fmt.Sprintf("%s/api/v1/stacks/%s/outputs/%s", c.endpoint, stack, key))
	if err != nil {
		return "", err
	}
	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode() == http.StatusNotFound {
		return "", fmt.Errorf("stack %s has no output %q (is the stack deployed?)", stack, key)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var payload struct {
		Value string `json:"Value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return payload.Value, nil
}

// StackNetwork fetches the shared network boundary of a stack.
func (c *Client) StackNetwork(ctx context.Context, stack string) (environment.Network, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString()).
		Get(fmt.Sprintf("%s/api/v1/stacks/%s/network", c.endpoint, stack))
	if err != nil {
		return environment.Network{}, err
	}
	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode() != http.StatusOK {
		return environment.Network{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var network environment.Network
	if err := json.NewDecoder(resp.Body).Decode(&network); err != nil {
		return environment.Network{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return network, nil
}

// Invoke dispatches a construct operation against a deployed stack.
func (c *Client) Invoke(ctx context.Context, stack string, op construct.Operation) error {
	body, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to encode operation: %w", err)
	}

	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString()).
		SetHeader("Content-Type", "application/json").
		SetBody(bytes.NewReader(body)).
		Post(fmt.Sprintf("%s/api/v1/stacks/%s/operations", c.endpoint, stack))
	if err != nil {
		return err
	}
	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
		return fmt.Errorf("operation %s.%s failed with status code %d", op.Construct, op.Action, resp.StatusCode())
	}

	return nil
}
