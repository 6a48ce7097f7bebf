// Package segments implements the segments command group.
package segments

import (
	"github.com/spf13/cobra"

	"github.com/albatross-proto/albatross-data/internal/conf"
)

// Command creates the segments parent command
func Command(ctx *conf.Context) *cobra.Command {
	segmentsCmd := &cobra.Command{
		Use:   "segments",
		Short: "Validate and store time segment annotations",
	}

	segmentsCmd.AddCommand(SaveCommand(ctx))

	return segmentsCmd
}
