package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrankKr/power-grid-model/pkg/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
conversion:
  data_type: update
  compact: true
files:
  format: avro
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "update", cfg.Conversion.DataType)
	assert.True(t, cfg.Conversion.Compact)
	assert.Equal(t, "avro", cfg.Files.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields keep their defaults
	assert.Equal(t, 2, cfg.Conversion.Indent)
	assert.Equal(t, "default", cfg.Files.CompressionLevel)
	assert.Equal(t, "console", cfg.Logging.Encoding)
}

func TestLoadJSONConfig(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "conversion": {"data_type": "sym_output", "indent": 4},
  "files": {"compression_level": "best"}
}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sym_output", cfg.Conversion.DataType)
	assert.Equal(t, 4, cfg.Conversion.Indent)
	assert.Equal(t, "best", cfg.Files.CompressionLevel)
	assert.Equal(t, "parquet", cfg.Files.Format)
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("PGM_LOG_LEVEL", "warn")
	path := writeConfig(t, "config.yaml", "logging:\n  level: ${PGM_LOG_LEVEL}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", "conversion: [\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown data type", func(c *Config) { c.Conversion.DataType = "output" }},
		{"negative indent", func(c *Config) { c.Conversion.Indent = -1 }},
		{"unknown format", func(c *Config) { c.Files.Format = "orc" }},
		{"unknown compression level", func(c *Config) { c.Files.CompressionLevel = "ultra" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"unknown log encoding", func(c *Config) { c.Logging.Encoding = "logfmt" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Conversion.DataType = "update"
	cfg.Conversion.Compact = true
	cfg.Files.Format = "arrow"
	cfg.Files.CompressionLevel = "fastest"
	cfg.Logging.Level = "debug"

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
