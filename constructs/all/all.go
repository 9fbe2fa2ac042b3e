// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package all links every construct type into the registry and exposes
// the plugin surface the orchestrator loads.
package all

import (
	"fmt"

	"github.com/masterminds/semver"

	"github.com/platform-engineering-labs/stratum"
	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/construct/registry"
	"github.com/platform-engineering-labs/stratum/pkg/model"

	_ "github.com/platform-engineering-labs/stratum/constructs/database"
	_ "github.com/platform-engineering-labs/stratum/constructs/queue"
	_ "github.com/platform-engineering-labs/stratum/constructs/staticwebsite"
	_ "github.com/platform-engineering-labs/stratum/constructs/storage"
	_ "github.com/platform-engineering-labs/stratum/constructs/webhook"
	_ "github.com/platform-engineering-labs/stratum/constructs/website"
)

type Constructs struct{}

// Plugin maintains the known symbol reference
var Plugin = Constructs{}

func (c Constructs) Name() string {
	return "constructs"
}

func (c Constructs) Version() *semver.Version {
	return semver.MustParse(stratum.Version)
}

func (c Constructs) Namespace() string {
	return "Stratum"
}

func (c Constructs) SupportedConstructs() []construct.Descriptor {
	return registry.SupportedConstructs()
}

func (c Constructs) SchemaForConstructType(typeID string) (model.Schema, error) {
	if schema, ok := registry.SchemaForConstructType(typeID); ok {
		return schema, nil
	}
	return model.Schema{}, fmt.Errorf("no schema found for construct type: %s", typeID)
}
