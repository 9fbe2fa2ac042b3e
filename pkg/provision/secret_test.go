// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package provision

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSecretSpecProperties(t *testing.T) {
	spec := SecretSpec{
		Name:             "app-dev/orders/password",
		Length:           32,
		ExcludeSpecial:   true,
		ExcludeAmbiguous: true,
	}

	props := spec.Properties()
	assert.Equal(t, "app-dev/orders/password", props["Name"])

	generate, ok := props["Generate"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 32, generate["Length"])
	assert.Equal(t, true, generate["ExcludeSpecial"])
	assert.Equal(t, true, generate["ExcludeAmbiguous"])
}

func TestGeneratePassword(t *testing.T) {
	password, err := GeneratePassword(32, false)
	require.NoError(t, err)
	assert.Len(t, password, 32)
	for _, c := range password {
		assert.Contains(t, standardChars, string(c))
	}

	_, err = GeneratePassword(7, false)
	assert.ErrorContains(t, err, "greater than 7")
}

func TestGeneratePasswordProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		length := rapid.IntRange(8, 128).Draw(rt, "length")
		useSpecial := rapid.Bool().Draw(rt, "useSpecial")

		password, err := GeneratePassword(length, useSpecial)
		if err != nil {
			rt.Fatalf("GeneratePassword(%d, %v) failed: %v", length, useSpecial, err)
		}
		if len(password) != length {
			rt.Fatalf("expected length %d, got %d", length, len(password))
		}

		alphabet := standardChars
		if useSpecial {
			alphabet += specialChars
		}
		for _, c := range password {
			if !strings.ContainsRune(alphabet, c) {
				rt.Fatalf("character %q not in alphabet", c)
			}
		}
	})
}
