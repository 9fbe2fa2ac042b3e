// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package outputs

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/stratum/internal/api"
	"github.com/platform-engineering-labs/stratum/internal/cli/cmd"
	"github.com/platform-engineering-labs/stratum/internal/cli/config"
	"github.com/platform-engineering-labs/stratum/internal/cli/display"
	"github.com/platform-engineering-labs/stratum/internal/compiler"
	"github.com/platform-engineering-labs/stratum/pkg/model"
)

type OutputsOptions struct {
	DefinitionFile string
	Endpoint       string
}

func OutputsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "outputs",
		Short: "Resolve the realized outputs of a deployed stack",
		RunE: func(command *cobra.Command, args []string) error {
			opts := &OutputsOptions{}
			opts.DefinitionFile = command.Flags().Arg(0)
			endpoint, _ := command.Flags().GetString("endpoint")
			opts.Endpoint = cmd.Endpoint(endpoint)

			return runOutputs(command, opts)
		},
		PreRun: func(command *cobra.Command, args []string) {
			cmd.SetupClientLogging()
		},
		Annotations: map[string]string{
			"type":     "Stack",
			"examples": "{{.Name}} {{.Command}} --endpoint http://localhost:4001 stack.yml",
			"args":     "<definition file>",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)

	command.Flags().String("endpoint", "", "Agent endpoint to resolve outputs against. Required unless configured in "+config.ConfigFileName+".")

	return command
}

func runOutputs(command *cobra.Command, opts *OutputsOptions) error {
	if opts.DefinitionFile == "" {
		return cmd.FlagErrorf("definition file is required")
	}
	if opts.Endpoint == "" {
		return cmd.FlagErrorf("the --endpoint flag is required")
	}

	def, err := model.LoadDefinition(opts.DefinitionFile)
	if err != nil {
		return err
	}

	clientID, _ := config.Config.ClientID()
	client := api.NewClient(opts.Endpoint, nil).WithClientID(clientID)
	env, err := api.NewEnvironment(command.Context(), client, def.Stack)
	if err != nil {
		return err
	}

	result, err := compiler.Compile(def, env, api.NewOperator(client, def.Stack))
	if err != nil {
		return err
	}

	outputs := result.Outputs()

	keys := make([]string, 0, len(outputs))
	for key := range outputs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var mu sync.Mutex
	resolved := make(map[string]string, len(outputs))
	failures := make(map[string]error)

	var wg conc.WaitGroup
	for _, key := range keys {
		wg.Go(func() {
			value, err := outputs[key].Resolve(command.Context())

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[key] = err
				return
			}
			resolved[key] = value
		})
	}
	wg.Wait()

	for _, key := range keys {
		if err, failed := failures[key]; failed {
			fmt.Printf("%s  %s\n", display.Green(key), display.Red(err.Error()))
			continue
		}
		fmt.Printf("%s  %s\n", display.Green(key), resolved[key])
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d outputs could not be resolved", len(failures), len(outputs))
	}

	return nil
}
