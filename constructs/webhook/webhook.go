// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package webhook implements the webhook construct: an HTTP endpoint
// publishing incoming events onto an event bus, guarded by a signing
// secret unless explicitly marked insecure.
package webhook

import (
	"context"
	"log/slog"

	"github.com/goccy/go-json"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/construct/registry"
	"github.com/platform-engineering-labs/stratum/pkg/expr"
	"github.com/platform-engineering-labs/stratum/pkg/model"
	"github.com/platform-engineering-labs/stratum/pkg/provision"
)

const TypeID = "webhook"

const signingSecretLength = 32

var Descriptor = construct.Descriptor{
	Type:     TypeID,
	Doc:      "HTTP webhook endpoint publishing onto an event bus",
	Commands: []string{"rotate-secret"},
}

var Schema = model.Schema{
	Fields: map[string]model.Field{
		"path": {
			Type:     model.FieldTypeString,
			Pattern:  `^/[a-zA-Z0-9/_-]*$`,
			Required: true,
			Doc:      "Endpoint path, e.g. /github",
		},
		"method": {
			Type: model.FieldTypeString,
			Enum: []string{"POST", "PUT"},
			Doc:  "Accepted HTTP method, defaults to POST",
		},
		"eventType": {
			Type: model.FieldTypeString,
			Doc:  "Event type stamped onto published events, defaults to the construct id",
		},
		"insecure": {
			Type: model.FieldTypeBoolean,
			Doc:  "Disable signature verification",
		},
	},
}

func init() {
	registry.Register(TypeID, Descriptor, Schema, New)
}

type Config struct {
	Path      string `json:"path"`
	Method    string `json:"method"`
	EventType string `json:"eventType"`
	Insecure  bool   `json:"insecure"`
}

type Webhook struct {
	ctx construct.Context

	bus   *provision.Handle
	route *provision.Handle

	// secretName is empty when the webhook is insecure
	secretName string

	urlOutput construct.Output
}

var _ construct.Construct = &Webhook{}

func New(ctx construct.Context, raw json.RawMessage) (construct.Construct, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, construct.NewConfigurationError(
			construct.ErrorCodeInvalidConstructConfiguration, ctx.LogicalID,
			"failed to decode configuration: %v", err)
	}

	method := cfg.Method
	if method == "" {
		method = "POST"
	}
	eventType := cfg.EventType
	if eventType == "" {
		eventType = ctx.LogicalID
	}

	w := &Webhook{ctx: ctx}

	resourceName := ctx.ResourceName("")

	var err error
	w.bus, err = ctx.Engine.Declare(provision.Resource{
		LogicalID: "bus",
		Type:      "Events::Bus",
		Properties: map[string]any{
			"Name": resourceName,
		},
	})
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}

	routeProps := map[string]any{
		"Path":      cfg.Path,
		"Method":    method,
		"Bus":       w.bus.Attr("Id"),
		"EventType": eventType,
	}
	deps := []string{"bus"}

	if cfg.Insecure {
		slog.Warn("webhook accepts unsigned requests", "construct", ctx.LogicalID)
	} else {
		w.secretName = ctx.SecretName("signing-secret")
		secretSpec := provision.SecretSpec{
			Name:   w.secretName,
			Length: signingSecretLength,
		}
		secret, err := ctx.Engine.Declare(provision.Resource{
			LogicalID:  "signing-secret",
			Type:       provision.ResourceTypeSecret,
			Properties: secretSpec.Properties(),
		})
		if err != nil {
			return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
		}
		routeProps["SigningSecret"] = secret.Attr("Value")
		deps = append(deps, "signing-secret")
	}

	w.route, err = ctx.Engine.Declare(provision.Resource{
		LogicalID:  "route",
		Type:       "Events::Route",
		Properties: routeProps,
		DependsOn:  deps,
	})
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}

	urlHandle, err := ctx.Engine.Output("url", expr.Concat{
		expr.Lit("https://"),
		w.route.Attr("Domain"),
		expr.Lit(cfg.Path),
	})
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}
	w.urlOutput = construct.NewOutput(urlHandle, ctx.Env)

	return w, nil
}

func (w *Webhook) Outputs() map[string]construct.Output {
	return map[string]construct.Output{
		"url": w.urlOutput,
	}
}

func (w *Webhook) Variables() map[string]construct.Variable {
	vars := map[string]construct.Variable{
		"busName":  construct.NewVariable(w.bus.Attr("Name")),
		"endpoint": construct.NewVariable(w.route.Attr("Domain")),
	}
	if w.secretName != "" {
		vars["signingSecret"] = construct.StringVariable(w.secretName)
	}
	return vars
}

func (w *Webhook) Commands() map[string]construct.Command {
	if w.secretName == "" {
		return map[string]construct.Command{}
	}
	return map[string]construct.Command{
		"rotate-secret": {
			Doc: "Replace the signing secret with a newly generated value",
			Run: w.rotateSecret,
		},
	}
}

func (w *Webhook) rotateSecret(ctx context.Context) error {
	value, err := provision.GeneratePassword(signingSecretLength, false)
	if err != nil {
		return err
	}
	return w.ctx.Invoke(ctx, "secret.rotate", map[string]string{
		"secret": w.secretName,
		"value":  value,
	})
}
