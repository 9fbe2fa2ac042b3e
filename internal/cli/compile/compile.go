// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package compile

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/stratum/internal/api"
	"github.com/platform-engineering-labs/stratum/internal/cli/cmd"
	"github.com/platform-engineering-labs/stratum/internal/cli/config"
	"github.com/platform-engineering-labs/stratum/internal/cli/display"
	"github.com/platform-engineering-labs/stratum/internal/cli/renderer"
	"github.com/platform-engineering-labs/stratum/internal/compiler"
	"github.com/platform-engineering-labs/stratum/internal/util"
	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/environment"
	"github.com/platform-engineering-labs/stratum/pkg/model"
)

type CompileOptions struct {
	DefinitionFile string
	Endpoint       string
	Output         string
	Tree           bool
	Variables      bool
}

func CompileCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "compile",
		Short: "Compile a deployment definition into a stack template",
		RunE: func(command *cobra.Command, args []string) error {
			opts := &CompileOptions{}
			opts.DefinitionFile = command.Flags().Arg(0)
			opts.Endpoint, _ = command.Flags().GetString("endpoint")
			opts.Output, _ = command.Flags().GetString("output")
			opts.Tree, _ = command.Flags().GetBool("tree")
			opts.Variables, _ = command.Flags().GetBool("variables")

			return runCompile(command, opts)
		},
		PreRun: func(command *cobra.Command, args []string) {
			cmd.SetupClientLogging()
		},
		Annotations: map[string]string{
			"type":     "Stack",
			"examples": "{{.Name}} {{.Command}} stack.yml  |  {{.Name}} {{.Command}} --tree stack.yml",
			"args":     "<definition file>",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)

	command.Flags().String("endpoint", "", "Agent endpoint for deployment context. Omit for an offline compile.")
	command.Flags().StringP("output", "o", "", "Write the template to a file instead of stdout")
	command.Flags().Bool("tree", false, "Print the resource graph instead of the template")
	command.Flags().Bool("variables", false, "Print the variable surface alongside the template")

	return command
}

func runCompile(command *cobra.Command, opts *CompileOptions) error {
	if opts.DefinitionFile == "" {
		return cmd.FlagErrorf("definition file is required")
	}

	def, err := model.LoadDefinition(opts.DefinitionFile)
	if err != nil {
		return err
	}

	env, ops, err := deploymentContext(command, def.Stack, opts.Endpoint)
	if err != nil {
		return err
	}

	result, err := compiler.Compile(def, env, ops)
	if err != nil {
		return err
	}

	if opts.Tree {
		tree, err := renderer.RenderResourceTree(result)
		if err != nil {
			return fmt.Errorf("error rendering resource graph: %v", err)
		}
		fmt.Print(tree)
		return nil
	}

	rendered, err := result.Document.Indent()
	if err != nil {
		return err
	}

	if opts.Output != "" {
		path := util.ExpandHomePath(opts.Output)
		if err := util.EnsureFileFolderHierarchy(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, rendered, 0o644); err != nil {
			return fmt.Errorf("error writing template: %v", err)
		}
		display.Success(fmt.Sprintf("Stack template written to %s", path))
	} else {
		fmt.Println(string(rendered))
	}

	if opts.Variables {
		table, err := renderer.RenderVariables(result)
		if err != nil {
			return fmt.Errorf("error rendering variables: %v", err)
		}
		fmt.Print(table)
	}

	return nil
}

// deploymentContext picks the environment the compilation runs against.
// With an endpoint the agent supplies the stack network and realized
// outputs; without one the compile is offline and deferred values stay
// deferred.
func deploymentContext(command *cobra.Command, stack, endpoint string) (environment.Provider, construct.Operator, error) {
	if endpoint == "" {
		return &environment.Static{Stack: stack}, nil, nil
	}

	clientID, _ := config.Config.ClientID()
	client := api.NewClient(endpoint, nil).WithClientID(clientID)
	env, err := api.NewEnvironment(command.Context(), client, stack)
	if err != nil {
		return nil, nil, err
	}

	return env, api.NewOperator(client, stack), nil
}
