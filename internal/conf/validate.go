// conf/validate.go

package conf

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/albatross-proto/albatross-data/internal/errors"
	"github.com/albatross-proto/albatross-data/internal/logger"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return "invalid settings: " + strings.Join(ve.Errors, "; ")
}

var validLogLevels = []string{
	string(logger.LogLevelTrace),
	string(logger.LogLevelDebug),
	string(logger.LogLevelInfo),
	string(logger.LogLevelWarn),
	string(logger.LogLevelError),
}

// ValidateSettings validates the entire Settings struct and reports every
// problem at once. The returned error wraps a ValidationError.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	ve.Errors = append(ve.Errors, validateBuildSettings(&settings.Build)...)

	if settings.Segments.Output == "" {
		ve.Errors = append(ve.Errors, "segments.output must not be empty")
	}

	ve.Errors = append(ve.Errors, validateLoggingSettings(&settings.Logging)...)

	if len(ve.Errors) > 0 {
		return errors.New(ve).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Context("problems", len(ve.Errors)).
			Build()
	}
	return nil
}

// validateBuildSettings checks the colony build paths
func validateBuildSettings(settings *BuildSettings) []string {
	var errs []string

	for key, value := range map[string]string{
		"build.source":   settings.Source,
		"build.output":   settings.Output,
		"build.calendar": settings.Calendar,
	} {
		if value == "" {
			errs = append(errs, key+" must not be empty")
		}
	}

	if settings.Output != "" && filepath.Clean(settings.Output) == filepath.Clean(settings.Calendar) {
		errs = append(errs, "build.output and build.calendar must be different files")
	}
	if settings.Source != "" && filepath.Clean(settings.Source) == filepath.Clean(settings.Output) {
		errs = append(errs, "build.output must not overwrite build.source")
	}

	slices.Sort(errs)
	return errs
}

// validateLoggingSettings checks levels and the timezone
func validateLoggingSettings(settings *logger.LoggingConfig) []string {
	var errs []string

	checkLevel := func(key, level string) {
		if level != "" && !slices.Contains(validLogLevels, level) {
			errs = append(errs, fmt.Sprintf("%s: unknown log level %q", key, level))
		}
	}

	checkLevel("logging.default_level", settings.DefaultLevel)
	if settings.Console != nil {
		checkLevel("logging.console.level", settings.Console.Level)
	}
	if settings.FileOutput != nil {
		checkLevel("logging.file_output.level", settings.FileOutput.Level)
		if settings.FileOutput.Enabled && settings.FileOutput.Path == "" {
			errs = append(errs, "logging.file_output.path must be set when file output is enabled")
		}
	}

	modules := make([]string, 0, len(settings.ModuleLevels))
	for module := range settings.ModuleLevels {
		modules = append(modules, module)
	}
	slices.Sort(modules)
	for _, module := range modules {
		checkLevel("logging.module_levels."+module, settings.ModuleLevels[module])
	}

	switch settings.Timezone {
	case "", "Local":
	default:
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			errs = append(errs, fmt.Sprintf("logging.timezone: %v", err))
		}
	}

	return errs
}
