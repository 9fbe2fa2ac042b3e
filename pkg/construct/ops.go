// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package construct

import (
	"context"
	"errors"
)

// ErrNoOperator is returned by commands invoked in an offline compile,
// where no orchestrator agent is attached.
var ErrNoOperator = errors.New("no operator attached: commands require a running agent")

// Operation is one named action a command dispatches against the
// deployed stack.
type Operation struct {
	Construct string
	Action    string
	Params    map[string]string
}

// Operator executes operations against the deployed stack on behalf of
// construct commands. The agent-backed implementation lives in
// internal/api.
type Operator interface {
	Invoke(ctx context.Context, op Operation) error
}

// Invoke dispatches an operation through the context's operator, if any.
func (c Context) Invoke(ctx context.Context, action string, params map[string]string) error {
	if c.Ops == nil {
		return ErrNoOperator
	}
	return c.Ops.Invoke(ctx, Operation{
		Construct: c.LogicalID,
		Action:    action,
		Params:    params,
	})
}
