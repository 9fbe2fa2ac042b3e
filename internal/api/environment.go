// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package api

import (
	"context"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/environment"
)

// Environment is the agent-backed environment provider. The network
// boundary is fetched once per compilation; stack outputs go through the
// agent on every read.
type Environment struct {
	client  *Client
	stack   string
	network environment.Network
}

var _ environment.Provider = &Environment{}

func NewEnvironment(ctx context.Context, client *Client, stack string) (*Environment, error) {
	network, err := client.StackNetwork(ctx, stack)
	if err != nil {
		return nil, err
	}

	return &Environment{
		client:  client,
		stack:   stack,
		network: network,
	}, nil
}

func (e *Environment) StackName() string { return e.stack }

func (e *Environment) Network() environment.Network { return e.network }

func (e *Environment) StackOutput(ctx context.Context, key string) (string, error) {
	return e.client.StackOutput(ctx, e.stack, key)
}

// Operator dispatches construct commands through the agent.
type Operator struct {
	client *Client
	stack  string
}

var _ construct.Operator = &Operator{}

func NewOperator(client *Client, stack string) *Operator {
	return &Operator{client: client, stack: stack}
}

func (o *Operator) Invoke(ctx context.Context, op construct.Operation) error {
	return o.client.Invoke(ctx, o.stack, op)
}
