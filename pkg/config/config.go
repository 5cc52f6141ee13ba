// Package config carries the runtime configuration of the pgm command: how
// datasets are converted, how files are written, and how the process logs.
//
// Configuration is read from a YAML file (a .json file is parsed as JSON
// into the same structure). Values of the form ${VAR_NAME} are replaced
// with the environment variable's value before parsing. Command line flags
// override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FrankKr/power-grid-model/pkg/compression"
	"github.com/FrankKr/power-grid-model/pkg/errors"
	"github.com/FrankKr/power-grid-model/pkg/formats/columnar"
	"github.com/FrankKr/power-grid-model/pkg/json"
	"github.com/FrankKr/power-grid-model/pkg/meta"
)

// Config is the full configuration of the pgm command.
type Config struct {
	Conversion ConversionConfig `yaml:"conversion" json:"conversion"`
	Files      FilesConfig      `yaml:"files" json:"files"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// ConversionConfig controls how datasets are converted.
type ConversionConfig struct {
	// DataType is the dataset type files are read as: input, update,
	// sym_output or asym_output.
	DataType string `yaml:"data_type" json:"data_type"`
	// Indent is the number of spaces per nesting level in JSON output.
	// Zero writes minified output.
	Indent int `yaml:"indent" json:"indent"`
	// Compact keeps every record on a single line in indented JSON output.
	Compact bool `yaml:"compact" json:"compact"`
}

// FilesConfig controls how output files are written.
type FilesConfig struct {
	// Format is the columnar format used when the output path does not
	// pick one: arrow, parquet or avro.
	Format string `yaml:"format" json:"format"`
	// CompressionLevel tunes compressed JSON output: fastest, default,
	// better or best.
	CompressionLevel string `yaml:"compression_level" json:"compression_level"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	// Level is the minimum level that gets logged: debug, info, warn, error.
	Level string `yaml:"level" json:"level"`
	// Encoding is the log output format: json or console.
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development switches the logger to its development behavior.
	Development bool `yaml:"development" json:"development"`
}

// Default returns the documented defaults: input data, two space indent,
// regular formatting, Parquet for columnar output, balanced compression,
// info level console logging.
func Default() *Config {
	return &Config{
		Conversion: ConversionConfig{
			DataType: meta.DataTypeInput,
			Indent:   2,
		},
		Files: FilesConfig{
			Format:           string(columnar.Parquet),
			CompressionLevel: "default",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load reads a configuration file, applies ${VAR_NAME} substitution,
// overlays the values on the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("reading config %s", path))
	}
	data = substituteEnvVars(data)

	cfg := Default()
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "parsing config JSON")
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "parsing config YAML")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "encoding config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("writing config %s", path))
	}
	return nil
}

// Validate checks every field against its allowed values.
func (c *Config) Validate() error {
	switch c.Conversion.DataType {
	case meta.DataTypeInput, meta.DataTypeUpdate, meta.DataTypeSymOutput, meta.DataTypeAsymOutput:
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown data type %q", c.Conversion.DataType)
	}
	if c.Conversion.Indent < 0 {
		return errors.Newf(errors.ErrorTypeConfig, "indent must not be negative, got %d", c.Conversion.Indent)
	}
	if _, err := columnar.ParseFormat(c.Files.Format); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "columnar format")
	}
	if _, err := compression.ParseLevel(c.Files.CompressionLevel); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "compression level")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Encoding {
	case "json", "console":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown log encoding %q", c.Logging.Encoding)
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} placeholders with the values of
// the named environment variables. Unset variables become empty strings.
func substituteEnvVars(data []byte) []byte {
	content := string(data)
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		content = content[:start] + os.Getenv(varName) + content[end+1:]
	}
	return []byte(content)
}
