// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"

	"github.com/albatross-proto/albatross-data/internal/logger"
)

// Default file locations, relative to the working directory.
const (
	DefaultSource         = "raw/seabird-data-export.csv"
	DefaultColonyOutput   = "data/species_colonies.json"
	DefaultCalendarOutput = "data/species_calendar.csv"
	DefaultSegmentsOutput = "data/saved_segments.json"
)

// setDefaultConfig sets default values for every configuration key. Every
// key needs a default for environment overrides to reach Unmarshal.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("build.source", DefaultSource)
	v.SetDefault("build.output", DefaultColonyOutput)
	v.SetDefault("build.calendar", DefaultCalendarOutput)

	v.SetDefault("segments.output", DefaultSegmentsOutput)

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("logging.default_level", logger.DefaultLogLevel)
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	v.SetDefault("logging.console.level", logger.DefaultLogLevel)
	v.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	v.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	v.SetDefault("logging.file_output.level", "info")
	v.SetDefault("logging.module_levels", map[string]string{})
}
