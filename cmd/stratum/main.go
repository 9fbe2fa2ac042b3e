// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package main

import (
	"github.com/platform-engineering-labs/stratum/internal/cli"
	"github.com/platform-engineering-labs/stratum/internal/logging"

	_ "github.com/platform-engineering-labs/stratum/constructs/all"
)

func main() {
	logging.SetupInitialLogging()
	cli.Start()
}
