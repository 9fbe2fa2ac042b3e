// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package construct

// Descriptor is the registry-facing summary of a construct type.
type Descriptor struct {
	// Type is the unique construct type identifier, e.g. "sql-database".
	Type string

	// Doc is a one-line description shown in CLI listings.
	Doc string

	// Commands lists the named operations instances of this type expose.
	Commands []string
}
