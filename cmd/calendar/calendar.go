// Package calendar implements the calendar command group.
package calendar

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/albatross-proto/albatross-data/internal/calendar"
	"github.com/albatross-proto/albatross-data/internal/conf"
	"github.com/albatross-proto/albatross-data/internal/errors"
	"github.com/albatross-proto/albatross-data/internal/logger"
	"github.com/albatross-proto/albatross-data/internal/observability/metrics"
)

// Command creates the calendar parent command
func Command(ctx *conf.Context) *cobra.Command {
	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Work with the species phenology calendar",
	}

	calendarCmd.AddCommand(CheckCommand(ctx))

	return calendarCmd
}

// CheckCommand creates the check subcommand
func CheckCommand(ctx *conf.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Check a hand-filled calendar for unknown statuses",
		Long: fmt.Sprintf(`Check that every month cell of the calendar holds one of: %v.
The file defaults to build.calendar. Exit status is 4 when problems are found.`, calendar.Statuses),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			path := ctx.Settings.Build.Calendar
			if len(args) == 1 {
				path = args[0]
			}
			log := ctx.Module("calendar").With(logger.String("path", path))

			report, err := calendar.CheckFile(path)
			if err != nil {
				log.Debug("calendar check failed", logger.Error(err))
				return err
			}
			ctx.Pipeline().ObserveDuration(metrics.PipelineCalendarCheck, time.Since(start).Seconds())

			out := cmd.OutOrStdout()
			for _, p := range report.Problems {
				if _, err := fmt.Fprintln(out, p.String()); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(out, "%s: %d species, %s\n", path, report.Rows, report.Summary()); err != nil {
				return err
			}

			if !report.OK() {
				ctx.Pipeline().RecordValidationFailure("calendar_status")
				log.Info("calendar has problems", logger.Int("problems", len(report.Problems)))
				return errors.Newf("%s: %d invalid calendar cells", path, len(report.Problems)).
					Component("calendar").
					Category(errors.CategorySchema).
					FileContext(path, 0).
					Build()
			}
			return nil
		},
	}
}
