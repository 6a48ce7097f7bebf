// Package configcmd implements the config command group.
package configcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/albatross-proto/albatross-data/internal/conf"
	"github.com/albatross-proto/albatross-data/internal/errors"
)

// Command creates the config parent command
func Command(ctx *conf.Context) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
	}

	configCmd.AddCommand(InitCommand(), ShowCommand(ctx))

	return configCmd
}

// InitCommand creates the init subcommand. It runs without loading settings
// so that a broken config file can be replaced.
func InitCommand() *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a config file with default settings",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{conf.AnnotationSkipSettings: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "config.yaml"
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf("%s already exists, use --force to overwrite", path).
					Component("configuration").
					Category(errors.CategoryConfiguration).
					FileContext(path, 0).
					Build()
			}

			if err := conf.SaveYAMLConfig(path, conf.Defaults()); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Created default config file at: %s\n", path)
			return err
		},
	}

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return initCmd
}

// ShowCommand creates the show subcommand
func ShowCommand(ctx *conf.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := conf.MarshalYAML(ctx.Settings)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
