// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package constructs

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/stratum/internal/cli/cmd"
	"github.com/platform-engineering-labs/stratum/internal/cli/renderer"
	"github.com/platform-engineering-labs/stratum/pkg/construct/registry"
)

func ConstructsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "constructs",
		Short: "List the available construct types",
		RunE: func(command *cobra.Command, args []string) error {
			table, err := renderer.RenderConstructs(registry.SupportedConstructs())
			if err != nil {
				return fmt.Errorf("error rendering construct catalog: %v", err)
			}

			fmt.Print(table)
			return nil
		},
		Annotations: map[string]string{
			"type":     "Constructs",
			"examples": "{{.Name}} {{.Command}}",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)

	return command
}
