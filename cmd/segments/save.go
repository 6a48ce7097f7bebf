package segments

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/albatross-proto/albatross-data/internal/conf"
	"github.com/albatross-proto/albatross-data/internal/segments"
)

// SaveCommand creates the save subcommand
func SaveCommand(ctx *conf.Context) *cobra.Command {
	saveCmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Validate a JSON array of segments and save it",
		Long: `Read a JSON array of segments from file, or from standard input when no file
is given. Every segment needs numeric start and end with 0 <= start < end <= 1
and an integer box. The array is saved only if every segment is valid.

Exit status is 2 when the file does not exist, 3 when the input is not valid
JSON and 4 when a segment is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}

			saver := segments.NewSaver(ctx.Settings.Segments.Output, ctx.Module("segments"), ctx.Pipeline())
			n, err := saver.Run(cmd.Context(), input, cmd.InOrStdin())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved %d segments to %s\n", n, saver.Output())
			return err
		},
	}

	saveCmd.Flags().String("output", conf.DefaultSegmentsOutput, "Segment store to replace (JSON)")
	_ = viper.BindPFlag("segments.output", saveCmd.Flags().Lookup("output"))

	return saveCmd
}
