// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package provision

import (
	crand "crypto/rand"
	"fmt"
)

// ResourceTypeSecret is the engine-managed secret resource. The engine
// generates the value at deploy time; the template only carries the
// generation parameters, never the secret itself.
const ResourceTypeSecret = "Secrets::Secret"

// SecretSpec describes a randomly generated credential.
type SecretSpec struct {
	Name             string
	Length           int
	ExcludeSpecial   bool
	ExcludeAmbiguous bool
}

// Properties renders the secret resource properties.
func (s SecretSpec) Properties() map[string]any {
	return map[string]any{
		"Name": s.Name,
		"Generate": map[string]any{
			"Length":           s.Length,
			"ExcludeSpecial":   s.ExcludeSpecial,
			"ExcludeAmbiguous": s.ExcludeAmbiguous,
		},
	}
}

const standardChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const specialChars = "!@#$%^*()_+-"

// GeneratePassword returns a securely generated random password. Used by
// commands that rotate credentials locally; deploy-time secrets are
// generated by the engine from a SecretSpec instead.
func GeneratePassword(length int, useSpecial bool) (string, error) {
	if length <= 7 {
		return "", fmt.Errorf("password length must be greater than 7, got %d", length)
	}

	chars := standardChars
	if useSpecial {
		chars += specialChars
	}

	bytes := make([]byte, length)
	if _, err := crand.Read(bytes); err != nil {
		return "", fmt.Errorf("could not read random bytes: %w", err)
	}
	for i, b := range bytes {
		bytes[i] = chars[b%byte(len(chars))]
	}

	return string(bytes), nil
}
