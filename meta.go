// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package stratum

var Version = "0.0.0"

const DocRoot = "https://docs.stratum.platform.engineering/en/latest"
