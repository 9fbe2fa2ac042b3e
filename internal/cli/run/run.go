// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package run

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/stratum/internal/api"
	"github.com/platform-engineering-labs/stratum/internal/cli/cmd"
	"github.com/platform-engineering-labs/stratum/internal/cli/config"
	"github.com/platform-engineering-labs/stratum/internal/cli/display"
	"github.com/platform-engineering-labs/stratum/internal/compiler"
	"github.com/platform-engineering-labs/stratum/pkg/model"
)

type RunOptions struct {
	DefinitionFile string
	Command        string
	Endpoint       string
}

func RunCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "run",
		Short: "Run an operational command of a deployed construct",
		RunE: func(command *cobra.Command, args []string) error {
			opts := &RunOptions{}
			opts.DefinitionFile = command.Flags().Arg(0)
			opts.Command = command.Flags().Arg(1)
			endpoint, _ := command.Flags().GetString("endpoint")
			opts.Endpoint = cmd.Endpoint(endpoint)

			return runRun(command, opts)
		},
		PreRun: func(command *cobra.Command, args []string) {
			cmd.SetupClientLogging()
		},
		Annotations: map[string]string{
			"type":     "Stack",
			"examples": "{{.Name}} {{.Command}} --endpoint http://localhost:4001 stack.yml orders.retry-failed",
			"args":     "<definition file> <construct.command>",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)

	command.Flags().String("endpoint", "", "Agent endpoint the command is dispatched through. Required unless configured in "+config.ConfigFileName+".")

	return command
}

func runRun(command *cobra.Command, opts *RunOptions) error {
	if opts.DefinitionFile == "" {
		return cmd.FlagErrorf("definition file is required")
	}
	if opts.Endpoint == "" {
		return cmd.FlagErrorf("the --endpoint flag is required")
	}

	constructID, commandName, found := strings.Cut(opts.Command, ".")
	if !found || constructID == "" || commandName == "" {
		return cmd.FlagErrorf("command must be given as <construct>.<command>, e.g. orders.retry-failed")
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

	constructCommand, err := result.Command(constructID, commandName)
	if err != nil {
		return err
	}

	if err := constructCommand.Run(command.Context()); err != nil {
		return err
	}

	display.Success(fmt.Sprintf("Command %s dispatched for construct %s in stack %s",
		commandName, constructID, def.Stack))

	return nil
}
