// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"strings"
	"sync"
)

// logCapture collects handler output for assertions. Safe for concurrent
// writes since MultiLevelHandler may be driven from multiple goroutines.
type logCapture struct {
	mu      sync.RWMutex
	entries []string
}

func newLogCapture() *logCapture {
	return &logCapture{}
}

func (c *logCapture) Write(p []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, string(p))
	return len(p), nil
}

// containsAll reports whether every substring appears in some entry.
func (c *logCapture) containsAll(substrs ...string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, substr := range substrs {
		found := false
		for _, entry := range c.entries {
			if strings.Contains(entry, substr) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
