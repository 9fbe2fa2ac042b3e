// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package cmd

import (
	"log/slog"
	"path/filepath"

	"github.com/platform-engineering-labs/stratum/internal/cli/config"
	"github.com/platform-engineering-labs/stratum/internal/logging"
)

// SetupClientLogging routes slog output of the current command to the
// client log file under the data directory. Console logging stays off
// unless a log-level is configured.
func SetupClientLogging() {
	settings, _ := config.Config.Load()

	consoleLevel := logging.NoLoggingLevel
	if level, ok := parseLevel(settings.LogLevel); ok {
		consoleLevel = level
	}

	logging.SetupClientLogging(
		filepath.Join(config.Config.DataDirectory(), "log", "client.log"),
		consoleLevel)
}

// Endpoint resolves the agent endpoint: an explicit flag wins over the
// settings file.
func Endpoint(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	settings, err := config.Config.Load()
	if err != nil {
		return ""
	}

	return settings.Endpoint
}

func parseLevel(level string) (slog.Level, bool) {
	switch level {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}
