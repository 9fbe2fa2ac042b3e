// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package storage implements the storage construct: an encrypted object
// bucket with an optional archive lifecycle.
package storage

import (
	"github.com/goccy/go-json"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/construct/registry"
	"github.com/platform-engineering-labs/stratum/pkg/model"
	"github.com/platform-engineering-labs/stratum/pkg/provision"
)

const TypeID = "storage"

const (
	EncryptionAES256 = "aes256"
	EncryptionKMS    = "kms"
)

var Descriptor = construct.Descriptor{
	Type: TypeID,
	Doc:  "Encrypted object storage bucket",
}

var Schema = model.Schema{
	Fields: map[string]model.Field{
		"name": {
			Type:    model.FieldTypeString,
			Pattern: `^[a-z][a-z0-9-]*$`,
			Doc:     "Resource name, defaults to {stack}-{id}",
		},
		"encryption": {
			Type: model.FieldTypeString,
			Enum: []string{EncryptionAES256, EncryptionKMS},
			Doc:  "Server-side encryption mode, defaults to " + EncryptionAES256,
		},
		"archiveAfterDays": {
			Type:    model.FieldTypeInteger,
			Minimum: int64Ptr(1),
			Doc:     "Move objects to cold storage after this many days",
		},
	},
}

func init() {
	registry.Register(TypeID, Descriptor, Schema, New)
}

type Config struct {
	Name             string `json:"name"`
	Encryption       string `json:"encryption"`
	ArchiveAfterDays int    `json:"archiveAfterDays"`
}

type Storage struct {
	bucket *provision.Handle

	nameOutput construct.Output
}

var _ construct.Construct = &Storage{}

func New(ctx construct.Context, raw json.RawMessage) (construct.Construct, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, construct.NewConfigurationError(
			construct.ErrorCodeInvalidConstructConfiguration, ctx.LogicalID,
			"failed to decode configuration: %v", err)
	}

	encryption := cfg.Encryption
	if encryption == "" {
		encryption = EncryptionAES256
	}

	props := map[string]any{
		"Name":       ctx.ResourceName(cfg.Name),
		"Encryption": encryption,
		"Versioning": true,
	}
	if cfg.ArchiveAfterDays > 0 {
		props["Lifecycle"] = map[string]any{
			"ArchiveAfterDays": cfg.ArchiveAfterDays,
		}
	}

	s := &Storage{}

	var err error
	s.bucket, err = ctx.Engine.Declare(provision.Resource{
		LogicalID:  "bucket",
		Type:       "Storage::Bucket",
		Properties: props,
	})
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}

	nameHandle, err := ctx.Engine.Output("bucketName", s.bucket.Attr("Name"))
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}
	s.nameOutput = construct.NewOutput(nameHandle, ctx.Env)

	return s, nil
}

func (s *Storage) Outputs() map[string]construct.Output {
	return map[string]construct.Output{
		"bucketName": s.nameOutput,
	}
}

func (s *Storage) Variables() map[string]construct.Variable {
	return map[string]construct.Variable{
		"bucketName": construct.NewVariable(s.bucket.Attr("Name")),
		"bucketArn":  construct.NewVariable(s.bucket.Attr("Arn")),
	}
}

func (s *Storage) Commands() map[string]construct.Command {
	return map[string]construct.Command{}
}

func int64Ptr(v int64) *int64 {
	return &v
}
