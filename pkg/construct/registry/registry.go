// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package registry

import (
	"sort"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/model"
)

var registry = &Registry{
	factories:   make(map[string]construct.Factory),
	descriptors: make(map[string]construct.Descriptor),
	schemas:     make(map[string]model.Schema),
}

type Registry struct {
	factories   map[string]construct.Factory
	descriptors map[string]construct.Descriptor
	schemas     map[string]model.Schema
}

// Register registers a construct type with its factory. Populated once at
// process start from construct package init functions; never mutated at
// runtime.
func Register(typeID string, descriptor construct.Descriptor, schema model.Schema, factory construct.Factory) {
	if _, exists := registry.factories[typeID]; !exists {
		registry.factories[typeID] = factory
		registry.descriptors[typeID] = descriptor
		registry.schemas[typeID] = schema
	}
}

// Lookup returns the factory and schema for a construct type. An
// unregistered type is a configuration error surfaced to the user, not a
// crash.
func Lookup(typeID string) (construct.Factory, model.Schema, error) {
	factory, exists := registry.factories[typeID]
	if !exists {
		return nil, model.Schema{}, construct.NewConfigurationError(
			construct.ErrorCodeUnknownConstructType, "",
			"unknown construct type %q (supported: %v)", typeID, supportedTypes())
	}
	return factory, registry.schemas[typeID], nil
}

// HasConstructType checks if a construct type is registered.
func HasConstructType(typeID string) bool {
	_, exists := registry.factories[typeID]
	return exists
}

// SupportedConstructs returns all registered descriptors sorted by type.
func SupportedConstructs() []construct.Descriptor {
	var supported []construct.Descriptor
	for _, descriptor := range registry.descriptors {
		supported = append(supported, descriptor)
	}
	sort.Slice(supported, func(i, j int) bool {
		return supported[i].Type < supported[j].Type
	})
	return supported
}

// SchemaForConstructType returns the schema for a construct type.
func SchemaForConstructType(typeID string) (model.Schema, bool) {
	schema, exists := registry.schemas[typeID]
	return schema, exists
}

func supportedTypes() []string {
	var types []string
	for typeID := range registry.factories {
		types = append(types, typeID)
	}
	sort.Strings(types)
	return types
}
