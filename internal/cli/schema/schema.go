// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package schema

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/stratum/internal/cli/cmd"
	"github.com/platform-engineering-labs/stratum/internal/cli/renderer"
	"github.com/platform-engineering-labs/stratum/pkg/construct/registry"
)

func SchemaCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "schema",
		Short: "Show the configuration schema of a construct type",
		RunE: func(command *cobra.Command, args []string) error {
			typeID := command.Flags().Arg(0)
			if typeID == "" {
				return cmd.FlagErrorf("construct type is required")
			}

			schema, ok := registry.SchemaForConstructType(typeID)
			if !ok {
				return fmt.Errorf("unknown construct type %q, run 'stratum constructs' for the catalog", typeID)
			}

			table, err := renderer.RenderSchema(typeID, schema)
			if err != nil {
				return fmt.Errorf("error rendering schema: %v", err)
			}

			fmt.Print(table)
			return nil
		},
		Annotations: map[string]string{
			"type":     "Constructs",
			"examples": "{{.Name}} {{.Command}} sql-database",
			"args":     "<construct type>",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)

	return command
}
