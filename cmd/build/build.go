// Package build implements the build command that produces the species
// colony document and calendar stub.
package build

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/albatross-proto/albatross-data/internal/colony"
	"github.com/albatross-proto/albatross-data/internal/conf"
)

// Command creates the build command
func Command(ctx *conf.Context) *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build species colony data from the raw seabird tracking export",
		Long: `Aggregate the raw seabird tracking export into per species colony summaries
and write them as JSON, together with a calendar stub that has every month set
to "unknown" for each species.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := ctx.Settings.Build
			builder := colony.NewBuilder(colony.Config{
				Source:   settings.Source,
				Output:   settings.Output,
				Calendar: settings.Calendar,
			}, ctx.Module("colony"), ctx.Pipeline())

			result, err := builder.Run(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s\n", result.Output, result.Calendar)
			return err
		},
	}

	// Define flags for the build command
	flags := buildCmd.Flags()
	flags.String("source", conf.DefaultSource, "Raw seabird tracking export (CSV)")
	flags.String("output", conf.DefaultColonyOutput, "Species colony document to write (JSON)")
	flags.String("calendar", conf.DefaultCalendarOutput, "Calendar stub to write (CSV)")
	_ = viper.BindPFlag("build.source", flags.Lookup("source"))
	_ = viper.BindPFlag("build.output", flags.Lookup("output"))
	_ = viper.BindPFlag("build.calendar", flags.Lookup("calendar"))

	return buildCmd
}
