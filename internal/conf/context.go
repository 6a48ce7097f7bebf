package conf

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/albatross-proto/albatross-data/internal/buildinfo"
	"github.com/albatross-proto/albatross-data/internal/errors"
	"github.com/albatross-proto/albatross-data/internal/logger"
	"github.com/albatross-proto/albatross-data/internal/observability"
	"github.com/albatross-proto/albatross-data/internal/observability/metrics"
)

// AnnotationSkipSettings marks commands that run without loading settings,
// such as writing a fresh config file.
const AnnotationSkipSettings = "albatross/skip-settings"

// Context holds what a command needs once settings are loaded: the settings
// themselves, the central logger and the metrics of this run.
type Context struct {
	Settings *Settings
	Logger   *logger.CentralLogger
	Metrics  *observability.Metrics
	Build    buildinfo.BuildInfo
	RunID    string
}

// NewContext builds the logger and metrics for settings. Console log output
// goes to console, normally stderr.
func NewContext(settings *Settings, console io.Writer, build buildinfo.BuildInfo) (*Context, error) {
	central, err := logger.NewCentralLogger(&settings.Logging, logger.WithConsoleWriter(console))
	if err != nil {
		return nil, configError(fmt.Errorf("failed to initialize logging: %w", err)).Build()
	}

	m, err := observability.NewMetrics(build)
	if err != nil {
		_ = central.Close()
		return nil, errors.New(err).
			Component("configuration").
			Category(errors.CategoryGeneric).
			Build()
	}

	return &Context{
		Settings: settings,
		Logger:   central,
		Metrics:  m,
		Build:    build,
		RunID:    uuid.NewString(),
	}, nil
}

// Module returns a module logger tagged with the run id.
func (c *Context) Module(name string) logger.Logger {
	if c == nil || c.Logger == nil {
		return logger.Global().Module(name)
	}
	return c.Logger.Module(name).With(logger.String("run_id", c.RunID))
}

// Pipeline returns the pipeline metrics, nil before settings are loaded.
// Recording on nil is a no-op.
func (c *Context) Pipeline() *metrics.PipelineMetrics {
	if c == nil || c.Metrics == nil {
		return nil
	}
	return c.Metrics.Pipeline
}

// Close writes the metrics textfile when one is configured and closes the
// log file. It is safe to call on a nil or partially built Context.
func (c *Context) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Settings != nil && c.Settings.Metrics.Textfile != "" && c.Metrics != nil {
		if err := c.Metrics.WriteTextfile(c.Settings.Metrics.Textfile); err != nil {
			errs = append(errs, errors.New(err).
				Component("configuration").
				Category(errors.CategoryFileIO).
				FileContext(c.Settings.Metrics.Textfile, 0).
				Build())
		}
	}
	if err := c.Logger.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
