// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/platform-engineering-labs/stratum"
	"github.com/platform-engineering-labs/stratum/internal/cli/cmd"
	"github.com/platform-engineering-labs/stratum/internal/cli/compile"
	"github.com/platform-engineering-labs/stratum/internal/cli/config"
	"github.com/platform-engineering-labs/stratum/internal/cli/constructs"
	"github.com/platform-engineering-labs/stratum/internal/cli/display"
	"github.com/platform-engineering-labs/stratum/internal/cli/outputs"
	"github.com/platform-engineering-labs/stratum/internal/cli/run"
	"github.com/platform-engineering-labs/stratum/internal/cli/schema"
)

func longDescription() string {
	return display.Tool + ": " + display.Green("High-level constructs that compile to cloud resource templates")
}

var rootCmd = &cobra.Command{
	Use:     display.Tool,
	Short:   display.Tool + " CLI",
	Long:    longDescription(),
	Version: stratum.Version,
}

func init() {
	hp := rootCmd.HelpFunc()
	longestFlagName := 0
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		display.PrintBanner()
		hp(cmd, args)
	})

	rootCmd.SetHelpCommand(&cobra.Command{
		Hidden: true,
	})

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cobra.AddTemplateFunc("typeMap", func(cmds []*cobra.Command) map[string][]*cobra.Command {
		m := make(map[string][]*cobra.Command)
		for _, c := range cmds {
			if c.IsAvailableCommand() {
				t := c.Annotations["type"]
				if t == "" {
					t = "Tooling"
				}

				m[t] = append(m[t], c)
			}
		}
		return m
	})

	cobra.AddTemplateFunc("formatExamples", func(examples string, cmd *cobra.Command) string {
		cliName := cmd.Root().Name()
		cmdName := cmd.Name()
		replaced := strings.ReplaceAll(examples, "{{.Name}}", cliName)
		return strings.ReplaceAll(replaced, "{{.Command}}", cmdName)
	})

	cobra.AddTemplateFunc("optionsUsage", func(f *pflag.FlagSet) []string {
		var usage []string

		f.VisitAll(func(flag *pflag.Flag) {
			length := len(flag.Name)
			if flag.Shorthand != "" {
				length += 6
			}

			if length > longestFlagName {
				longestFlagName = length
			}
		})

		longestFlagName += 10

		f.VisitAll(func(flag *pflag.Flag) {
			s := fmt.Sprintf("      --%s ", flag.Name)
			if flag.Shorthand != "" {
				s = fmt.Sprintf("  -%s, --%s ", flag.Shorthand, flag.Name)
			}

			s = fmt.Sprintf("%-*s%s", longestFlagName, s, flag.Usage)
			if flag.DefValue != "" &&
				flag.DefValue != "[]" &&
				flag.Name != "help" &&
				flag.Name != "version" {
				s += display.Grey(fmt.Sprintf(" [default: %q]", flag.DefValue))
			}

			usage = append(usage, s)
		})
		return usage
	})

	rootCmd.SetUsageTemplate(cmd.RootCmdUsageTemplate)

	rootCmd.AddCommand(constructs.ConstructsCmd())
	rootCmd.AddCommand(schema.SchemaCmd())
	rootCmd.AddCommand(compile.CompileCmd())
	rootCmd.AddCommand(outputs.OutputsCmd())
	rootCmd.AddCommand(run.RunCmd())

	rootCmd.PersistentFlags().BoolP("help", "h", false, "Show help for "+rootCmd.Use)
	for _, c := range rootCmd.Commands() {
		c.PersistentFlags().BoolP("help", "h", false, fmt.Sprintf("Show help for %s command", c.Name()))
	}

	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show "+rootCmd.Use+" version information")
	rootCmd.SetVersionTemplate(fmt.Sprintf("stratum version: %s\ngo version: %s\n", stratum.Version, runtime.Version()))
}

func Start() {
	if err := config.Config.EnsureConfigDirectory(); err != nil {
		display.Error(err.Error())
		os.Exit(1)
	}
	if err := config.Config.EnsureDataDirectory(); err != nil {
		display.Error(err.Error())
		os.Exit(1)
	}
	if err := config.Config.EnsureClientID(); err != nil {
		display.Error(err.Error())
		os.Exit(1)
	}

	command, err := rootCmd.ExecuteC()
	if err != nil {
		display.Error(err.Error())

		var flagErr *cmd.FlagError
		if errors.As(err, &flagErr) {
			fmt.Println(command.UsageString())
		}
		os.Exit(1)
	}
}
