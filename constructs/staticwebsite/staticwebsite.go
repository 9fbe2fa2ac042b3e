// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package staticwebsite implements the static-website construct: an
// assets bucket served through a CDN distribution, optionally bound to a
// custom domain.
package staticwebsite

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/construct/registry"
	"github.com/platform-engineering-labs/stratum/pkg/expr"
	"github.com/platform-engineering-labs/stratum/pkg/model"
	"github.com/platform-engineering-labs/stratum/pkg/provision"
)

const TypeID = "static-website"

var Descriptor = construct.Descriptor{
	Type:     TypeID,
	Doc:      "Static website served from a bucket through a CDN",
	Commands: []string{"invalidate-cache"},
}

var Schema = model.Schema{
	Fields: map[string]model.Field{
		"path": {
			Type:      model.FieldTypeString,
			MinLength: 1,
			Required:  true,
			Doc:       "Directory containing the website assets",
		},
		"domain": {
			Type:    model.FieldTypeString,
			Pattern: `^[a-z0-9.-]+$`,
			Doc:     "Custom domain for the distribution",
		},
		"certificate": {
			Type: model.FieldTypeString,
			Doc:  "Certificate reference for the custom domain",
		},
		"errorPage": {
			Type: model.FieldTypeString,
			Doc:  "Page served on 404, defaults to index.html fallback",
		},
	},
}

func init() {
	registry.Register(TypeID, Descriptor, Schema, New)
}

type Config struct {
	Path        string `json:"path"`
	Domain      string `json:"domain"`
	Certificate string `json:"certificate"`
	ErrorPage   string `json:"errorPage"`
}

type Website struct {
	ctx construct.Context
	cfg Config

	bucket       *provision.Handle
	distribution *provision.Handle

	urlOutput   construct.Output
	cnameOutput construct.Output
}

var _ construct.Construct = &Website{}

func New(ctx construct.Context, raw json.RawMessage) (construct.Construct, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, construct.NewConfigurationError(
			construct.ErrorCodeInvalidConstructConfiguration, ctx.LogicalID,
			"failed to decode configuration: %v", err)
	}
	if cfg.Domain == "" && cfg.Certificate != "" {
		return nil, construct.NewConfigurationError(
			construct.ErrorCodeInvalidConstructConfiguration, ctx.LogicalID,
			"certificate requires a domain")
	}

	w := &Website{ctx: ctx, cfg: cfg}

	resourceName := ctx.ResourceName("")

	var err error
	w.bucket, err = ctx.Engine.Declare(provision.Resource{
		LogicalID: "assets",
		Type:      "Storage::Bucket",
		Properties: map[string]any{
			"Name":       resourceName + "-assets",
			"Encryption": "aes256",
			// the distribution is the only reader
			"PublicAccess": false,
		},
	})
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}

	errorPage := cfg.ErrorPage
	if errorPage == "" {
		errorPage = "index.html"
	}

	distProps := map[string]any{
		"Name":            resourceName,
		"Origin":          w.bucket.Attr("Domain"),
		"DefaultRootPage": "index.html",
		"ErrorPage":       errorPage,
		"SecurityHeaders": true,
	}
	if cfg.Domain != "" {
		distProps["Domain"] = cfg.Domain
		if cfg.Certificate != "" {
			distProps["Certificate"] = cfg.Certificate
		}
	}

	w.distribution, err = ctx.Engine.Declare(provision.Resource{
		LogicalID:  "distribution",
		Type:       "Cdn::Distribution",
		Properties: distProps,
		DependsOn:  []string{"assets"},
	})
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}

	if cfg.Domain != "" {
		_, err = ctx.Engine.Declare(provision.Resource{
			LogicalID: "dns-record",
			Type:      "Dns::Record",
			Properties: map[string]any{
				"Name":   cfg.Domain,
				"Type":   "CNAME",
				"Target": w.distribution.Attr("Domain"),
			},
			DependsOn: []string{"distribution"},
		})
		if err != nil {
			return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
		}
	}

	urlHandle, err := ctx.Engine.Output("url", w.urlExpr())
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}
	w.urlOutput = construct.NewOutput(urlHandle, ctx.Env)

	cnameHandle, err := ctx.Engine.Output("cname", w.distribution.Attr("Domain"))
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}
	w.cnameOutput = construct.NewOutput(cnameHandle, ctx.Env)

	return w, nil
}

func (w *Website) urlExpr() expr.Node {
	if w.cfg.Domain != "" {
		return expr.Lit("https://" + w.cfg.Domain)
	}
	return expr.Concat{expr.Lit("https://"), w.distribution.Attr("Domain")}
}

func (w *Website) Outputs() map[string]construct.Output {
	return map[string]construct.Output{
		"url":   w.urlOutput,
		"cname": w.cnameOutput,
	}
}

func (w *Website) Variables() map[string]construct.Variable {
	return map[string]construct.Variable{
		"url":              construct.NewVariable(w.urlExpr()),
		"cname":            construct.NewVariable(w.distribution.Attr("Domain")),
		"assetsBucketName": construct.NewVariable(w.bucket.Attr("Name")),
	}
}

func (w *Website) Commands() map[string]construct.Command {
	return map[string]construct.Command{
		"invalidate-cache": {
			Doc: "Invalidate every cached object on the distribution",
			Run: w.invalidateCache,
		},
	}
}

func (w *Website) invalidateCache(ctx context.Context) error {
	return w.ctx.Invoke(ctx, "cdn.invalidate", map[string]string{
		"distribution": w.distribution.LogicalID(),
		"paths":        "/*",
	})
}
