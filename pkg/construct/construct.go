// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package construct defines the compilation contract every construct type
// follows: validated configuration in, a provisioned resource sub-graph
// plus typed output, variable and command surfaces out.
package construct

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/platform-engineering-labs/stratum/pkg/environment"
	"github.com/platform-engineering-labs/stratum/pkg/expr"
	"github.com/platform-engineering-labs/stratum/pkg/provision"
)

// Construct is one compiled construct instance. All provisioning happens
// during the factory call; the accessors below are read-only views and
// must return identical values on repeated calls.
type Construct interface {
	Outputs() map[string]Output
	Variables() map[string]Variable
	Commands() map[string]Command
}

// Factory builds a construct from its compilation context and validated
// configuration. Configuration errors found during defaulting are
// reported as ConfigurationError; schema violations never reach here.
type Factory func(ctx Context, cfg json.RawMessage) (Construct, error)

// Context carries everything a construct may read during construction.
// The construct is the sole writer of any state it derives from it.
type Context struct {
	LogicalID string
	Env       environment.Provider
	Engine    provision.Engine

	// Ops is nil during offline compilation; commands then fail with
	// ErrNoOperator when invoked.
	Ops Operator
}

// ResourceName derives the effective resource name: the explicit name if
// configured, otherwise "{stack}-{logicalID}".
func (c Context) ResourceName(configured string) string {
	if configured != "" {
		return configured
	}
	return fmt.Sprintf("%s-%s", c.Env.StackName(), c.LogicalID)
}

// SecretName derives the deterministic secret name for a credential owned
// by this construct.
func (c Context) SecretName(credential string) string {
	return fmt.Sprintf("%s/%s/%s", c.Env.StackName(), c.LogicalID, credential)
}

// Output is a named deferred accessor over a realized stack output.
type Output struct {
	handle *provision.OutputHandle
	env    environment.Provider
}

// NewOutput binds an output handle to the provider that can realize it.
func NewOutput(handle *provision.OutputHandle, env environment.Provider) Output {
	return Output{handle: handle, env: env}
}

// Key is the stack-level output key.
func (o Output) Key() string { return o.handle.Key() }

// Resolve queries the deployed stack for the realized value. Single-shot;
// retry policy belongs to the provider.
func (o Output) Resolve(ctx context.Context) (string, error) {
	return o.env.StackOutput(ctx, o.handle.Key())
}

// Variable is a named value: either plain or a deferred expression the
// engine resolves at deploy time. A variable may also carry an error,
// raised when the accessor is evaluated rather than at construction.
type Variable struct {
	node expr.Node
	err  error
}

func NewVariable(node expr.Node) Variable {
	return Variable{node: node}
}

func StringVariable(value string) Variable {
	return Variable{node: expr.Lit(value)}
}

func ErrVariable(err error) Variable {
	return Variable{err: err}
}

// Value returns the variable's expression. Evaluating a variable that was
// declared invalid returns its configuration error; the failure is scoped
// to this accessor, not the deployment.
func (v Variable) Value() (expr.Node, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.node, nil
}

// Static renders the variable when it contains no deferred references.
func (v Variable) Static() (string, bool) {
	if v.err != nil || v.node == nil || !v.node.Static() {
		return "", false
	}
	rendered, err := expr.Render(v.node, nil)
	if err != nil {
		return "", false
	}
	return rendered, true
}

// Command is a named zero-argument operation a construct contributes to
// the orchestrator's command surface.
type Command struct {
	Doc string
	Run func(ctx context.Context) error
}
