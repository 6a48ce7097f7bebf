package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/albatross-proto/albatross-data/cmd/build"
	"github.com/albatross-proto/albatross-data/cmd/calendar"
	"github.com/albatross-proto/albatross-data/cmd/configcmd"
	"github.com/albatross-proto/albatross-data/cmd/segments"
	"github.com/albatross-proto/albatross-data/internal/buildinfo"
	"github.com/albatross-proto/albatross-data/internal/conf"
	"github.com/albatross-proto/albatross-data/internal/logger"
)

// RootCommand creates and returns the root command. ctx is filled in before
// any subcommand runs; the caller sets ctx.Build beforehand and closes ctx
// after Execute returns.
func RootCommand(ctx *conf.Context) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "albatross-data",
		Short: "Prepare and validate datasets for the albatross map",
		Long: `albatross-data builds the species colony document and calendar stub from the
raw seabird tracking export, and validates and stores time segment annotations.`,
		Version:       versionString(ctx),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Set up the global flags for the root command.
	cobra.CheckErr(setupFlags(rootCmd, &configFile))

	rootCmd.AddCommand(
		build.Command(ctx),
		segments.Command(ctx),
		calendar.Command(ctx),
		configcmd.Command(ctx),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, skip := cmd.Annotations[conf.AnnotationSkipSettings]; skip {
			return nil
		}
		return initialize(ctx, configFile, cmd)
	}

	return rootCmd
}

// initialize loads settings and sets up logging and metrics for the run.
func initialize(ctx *conf.Context, configFile string, cmd *cobra.Command) error {
	settings, err := conf.Load(configFile)
	if err != nil {
		return err
	}

	loaded, err := conf.NewContext(settings, cmd.ErrOrStderr(), ctx.Build)
	if err != nil {
		return err
	}
	*ctx = *loaded
	logger.SetGlobal(ctx.Logger)

	ctx.Module("main").Debug("settings loaded",
		logger.String("command", cmd.CommandPath()),
		logger.String("version", versionString(ctx)),
		logger.String("config", viper.ConfigFileUsed()))
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, configFile *string) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(configFile, "config", "", "Config file (default: ./config.yaml, then ~/.config/albatross-data/config.yaml)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("metrics-file", "", "Write Prometheus metrics of this run to a node_exporter textfile")

	if err := viper.BindPFlag("debug", flags.Lookup("debug")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	if err := viper.BindPFlag("metrics.textfile", flags.Lookup("metrics-file")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

// versionString returns the version shown by --version.
func versionString(ctx *conf.Context) string {
	if ctx == nil || ctx.Build == nil {
		return (&buildinfo.Context{}).String()
	}
	return fmt.Sprintf("%s (built %s)", ctx.Build.GetVersion(), ctx.Build.GetBuildDate())
}
