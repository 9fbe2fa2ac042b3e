// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package compiler drives a deployment definition through the construct
// layer: validate each declaration, instantiate its construct and collect
// the provisioned graph into one immutable stack template.
package compiler

import (
	"fmt"
	"log/slog"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/construct/registry"
	"github.com/platform-engineering-labs/stratum/pkg/environment"
	"github.com/platform-engineering-labs/stratum/pkg/model"
	"github.com/platform-engineering-labs/stratum/pkg/provision"
)

// Result is one finished compilation: the sealed template document plus
// the construct instances for output, variable and command access.
type Result struct {
	Definition *model.Definition
	Document   *provision.Document
	Constructs map[string]construct.Construct

	template *provision.Template
}

// Compile runs the single synchronous plan phase. Construction of each
// construct provisions its resources into the shared template; any
// configuration error aborts the whole compilation fail-fast, leaving no
// partial graph behind.
func Compile(def *model.Definition, env environment.Provider, ops construct.Operator) (*Result, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	template := provision.NewTemplate(def.Stack)
	instances := make(map[string]construct.Construct, len(def.Constructs))

	for _, logicalID := range def.LogicalIDs() {
		decl := def.Constructs[logicalID]

		factory, schema, err := registry.Lookup(decl.Type)
		if err != nil {
			if cfgErr, ok := construct.IsConfigurationError(err); ok {
				cfgErr.ConstructID = logicalID
				return nil, cfgErr
			}
			return nil, err
		}

		if err := schema.Validate(decl.Config); err != nil {
			return nil, construct.NewConfigurationError(
				construct.ErrorCodeInvalidConstructConfiguration, logicalID, "%v", err)
		}

		slog.Debug("compiling construct", "construct", logicalID, "type", decl.Type)

		instance, err := factory(construct.Context{
			LogicalID: logicalID,
			Env:       env,
			Engine:    template.Scope(logicalID),
			Ops:       ops,
		}, decl.Config)
		if err != nil {
			return nil, err
		}

		instances[logicalID] = instance
	}

	document, err := template.Build()
	if err != nil {
		return nil, err
	}

	return &Result{
		Definition: def,
		Document:   document,
		Constructs: instances,
		template:   template,
	}, nil
}

// ResourceIDs returns all declared resource logical ids in declaration
// order.
func (r *Result) ResourceIDs() []string {
	return r.template.ResourceIDs()
}

// ResourceType returns the type of a declared resource.
func (r *Result) ResourceType(logicalID string) (string, bool) {
	return r.template.ResourceType(logicalID)
}

// OutputKeys returns all declared stack output keys.
func (r *Result) OutputKeys() []string {
	return r.template.OutputKeys()
}

// Outputs flattens every construct's output surface keyed by
// "{construct}.{name}".
func (r *Result) Outputs() map[string]construct.Output {
	outputs := make(map[string]construct.Output)
	for logicalID, instance := range r.Constructs {
		for name, output := range instance.Outputs() {
			outputs[logicalID+"."+name] = output
		}
	}
	return outputs
}

// Command resolves a construct command by construct id and command name.
func (r *Result) Command(constructID, name string) (construct.Command, error) {
	instance, ok := r.Constructs[constructID]
	if !ok {
		return construct.Command{}, fmt.Errorf("no construct %q in stack %s", constructID, r.Definition.Stack)
	}
	cmd, ok := instance.Commands()[name]
	if !ok {
		return construct.Command{}, fmt.Errorf("construct %q has no command %q", constructID, name)
	}
	return cmd, nil
}
