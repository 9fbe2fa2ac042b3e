// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package environment defines what a construct may assume about the
// deployment it is compiled into: shared networking, the stack name and
// access to realized stack outputs.
package environment

import (
	"context"
	"fmt"
)

// Network is the shared network boundary constructs place resources into.
// Private segments are outbound-NAT-routed and never publicly reachable.
type Network struct {
	BoundaryID      string
	PrivateSegments []string
	PublicSegments  []string
	AppSecurityRule string
}

// Provider supplies deployment-wide context to constructs. StackOutput is
// the only call that touches the deployed stack; it is a single-shot read
// with no retry policy at this layer.
type Provider interface {
	StackName() string
	Network() Network
	StackOutput(ctx context.Context, key string) (string, error)
}

// Static is a Provider backed by fixed values. Used for offline
// compilation and in tests.
type Static struct {
	Stack   string
	Net     Network
	Outputs map[string]string
}

var _ Provider = &Static{}

func (s *Static) StackName() string { return s.Stack }

func (s *Static) Network() Network { return s.Net }

func (s *Static) StackOutput(_ context.Context, key string) (string, error) {
	value, ok := s.Outputs[key]
	if !ok {
		return "", fmt.Errorf("stack %s has no output %q", s.Stack, key)
	}
	return value, nil
}
