// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package storage

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/environment"
	"github.com/platform-engineering-labs/stratum/pkg/provision"
)

func testContext(stack, logicalID string) (construct.Context, *provision.Template) {
	template := provision.NewTemplate(stack)
	return construct.Context{
		LogicalID: logicalID,
		Env:       &environment.Static{Stack: stack},
		Engine:    template.Scope(logicalID),
	}, template
}

func TestNewDefaultsToAES256(t *testing.T) {
	ctx, template := testContext("app-dev", "uploads")

	s, err := New(ctx, json.RawMessage(`{}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"uploads.bucket"}, template.ResourceIDs())

	doc, err := template.Build()
	require.NoError(t, err)

	name, _ := doc.Get(`Resources.uploads\.bucket.Properties.Name`)
	assert.Equal(t, "app-dev-uploads", name)
	encryption, _ := doc.Get(`Resources.uploads\.bucket.Properties.Encryption`)
	assert.Equal(t, EncryptionAES256, encryption)
	versioning, _ := doc.Get(`Resources.uploads\.bucket.Properties.Versioning`)
	assert.Equal(t, "true", versioning)

	// no lifecycle block unless configured
	_, ok := doc.Get(`Resources.uploads\.bucket.Properties.Lifecycle`)
	assert.False(t, ok)

	assert.Equal(t, "uploads.bucketName", s.Outputs()["bucketName"].Key())
	assert.Contains(t, s.Variables(), "bucketArn")
	assert.Empty(t, s.Commands())
}

func TestNewWithLifecycleAndKMS(t *testing.T) {
	ctx, template := testContext("app-dev", "archive")

	_, err := New(ctx, json.RawMessage(`{"name":"my-archive","encryption":"kms","archiveAfterDays":90}`))
	require.NoError(t, err)

	doc, err := template.Build()
	require.NoError(t, err)

	name, _ := doc.Get(`Resources.archive\.bucket.Properties.Name`)
	assert.Equal(t, "my-archive", name)
	encryption, _ := doc.Get(`Resources.archive\.bucket.Properties.Encryption`)
	assert.Equal(t, EncryptionKMS, encryption)
	archive, _ := doc.Get(`Resources.archive\.bucket.Properties.Lifecycle.ArchiveAfterDays`)
	assert.Equal(t, "90", archive)
}

func TestStorageSchema(t *testing.T) {
	assert.NoError(t, Schema.Validate(json.RawMessage(`{"encryption":"kms"}`)))
	assert.ErrorContains(t, Schema.Validate(json.RawMessage(`{"encryption":"rot13"}`)), "must be one of")
	assert.ErrorContains(t, Schema.Validate(json.RawMessage(`{"archiveAfterDays":0}`)), "at least 1")
	assert.ErrorContains(t, Schema.Validate(json.RawMessage(`{"public":true}`)), "unknown configuration field")
}
