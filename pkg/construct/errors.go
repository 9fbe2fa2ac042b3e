// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package construct

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable, machine-readable configuration error class.
type ErrorCode string

const (
	ErrorCodeUnknownConstructType          ErrorCode = "UnknownConstructType"
	ErrorCodeDuplicateLogicalID            ErrorCode = "DuplicateLogicalId"
	ErrorCodeInvalidConstructConfiguration ErrorCode = "InvalidConstructConfiguration"
)

// ConfigurationError reports invalid or incomplete user input, either
// from schema validation before construction or from a construct's own
// consistency checks. Always fatal to the operation that raised it and
// never silently defaulted.
type ConfigurationError struct {
	Code        ErrorCode
	ConstructID string
	Message     string
}

func (e *ConfigurationError) Error() string {
	if e.ConstructID == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: construct %q: %s", e.Code, e.ConstructID, e.Message)
}

// NewConfigurationError builds a ConfigurationError naming the offending
// construct.
func NewConfigurationError(code ErrorCode, constructID, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Code:        code,
		ConstructID: constructID,
		Message:     fmt.Sprintf(format, args...),
	}
}

// IsConfigurationError reports whether err is (or wraps) a
// ConfigurationError and returns it.
func IsConfigurationError(err error) (*ConfigurationError, bool) {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}

// ProvisioningError wraps an opaque failure from the provisioning engine.
// It aborts the deployment; no retries happen at this layer.
type ProvisioningError struct {
	ConstructID string
	Err         error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning failed for construct %q: %v", e.ConstructID, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
