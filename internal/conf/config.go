// config.go: settings for albatross-data and the functions that load and save them.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/albatross-proto/albatross-data/internal/errors"
	"github.com/albatross-proto/albatross-data/internal/fsutil"
	"github.com/albatross-proto/albatross-data/internal/logger"
)

// EnvPrefix prefixes environment overrides, e.g. ALBATROSS_BUILD_SOURCE.
const EnvPrefix = "ALBATROSS"

// BuildSettings holds the file locations of the colony build.
type BuildSettings struct {
	Source   string `yaml:"source" mapstructure:"source"`     // raw seabird tracking export (CSV)
	Output   string `yaml:"output" mapstructure:"output"`     // species colony document (JSON)
	Calendar string `yaml:"calendar" mapstructure:"calendar"` // calendar stub (CSV)
}

// SegmentsSettings holds the segment store location.
type SegmentsSettings struct {
	Output string `yaml:"output" mapstructure:"output"` // saved segments (JSON)
}

// MetricsSettings controls the Prometheus textfile export.
type MetricsSettings struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"` // empty disables the export
}

// Settings contains all configuration options for albatross-data.
type Settings struct {
	Debug    bool                 `yaml:"debug" mapstructure:"debug"` // true to log at debug level
	Build    BuildSettings        `yaml:"build" mapstructure:"build"`
	Segments SegmentsSettings     `yaml:"segments" mapstructure:"segments"`
	Metrics  MetricsSettings      `yaml:"metrics" mapstructure:"metrics"`
	Logging  logger.LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// Load reads settings from defaults, the config file, ALBATROSS_* environment
// variables and any flags bound to the global viper instance, in increasing
// priority. With configFile empty, config.yaml is looked up in the default
// config paths and may be absent; an explicit configFile must exist.
func Load(configFile string) (*Settings, error) {
	return load(viper.GetViper(), configFile)
}

func load(v *viper.Viper, configFile string) (*Settings, error) {
	if err := initViper(v, configFile); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, configError(fmt.Errorf("error unmarshaling config into struct: %w", err)).Build()
	}

	if settings.Debug {
		settings.Logging.DefaultLevel = string(logger.LogLevelDebug)
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = string(logger.LogLevelDebug)
		}
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// initViper sets defaults, environment binding and reads the config file.
func initViper(v *viper.Viper, configFile string) error {
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		for _, path := range GetDefaultConfigPaths() {
			v.AddConfigPath(path)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaultConfig(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Defaults only; `config init` writes a file.
			return nil
		}
		b := configError(fmt.Errorf("error reading config file: %w", err))
		if configFile != "" {
			b = b.FileContext(configFile, 0)
		}
		return b.Build()
	}

	return nil
}

// Defaults returns the settings used when no config file, environment
// variable or flag overrides anything.
func Defaults() *Settings {
	v := viper.New()
	setDefaultConfig(v)

	settings := &Settings{}
	// Defaults always decode; they are plain literals.
	_ = v.Unmarshal(settings)
	return settings
}

// GetDefaultConfigPaths returns the directories searched for config.yaml, in
// order: the working directory, then $HOME/.config/albatross-data.
func GetDefaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "albatross-data"))
	}
	return paths
}

// FindConfigFile returns the first config.yaml in the default config paths.
func FindConfigFile() (string, error) {
	for _, path := range GetDefaultConfigPaths() {
		configFilePath := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(configFilePath); err == nil {
			return configFilePath, nil
		}
	}

	return "", errors.Newf("config file not found").
		Component("configuration").
		Category(errors.CategoryNotFound).
		Context("operation", "find-config-file").
		Build()
}

// MarshalYAML renders settings as a config file.
func MarshalYAML(settings *Settings) ([]byte, error) {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return nil, configError(fmt.Errorf("error marshaling settings to YAML: %w", err)).Build()
	}
	return data, nil
}

// SaveYAMLConfig writes settings to configPath, replacing any existing file
// atomically. Comments in an existing file are not preserved.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	data, err := MarshalYAML(settings)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(configPath, data)
}

func configError(err error) *errors.ErrorBuilder {
	return errors.New(err).
		Component("configuration").
		Category(errors.CategoryConfiguration)
}
