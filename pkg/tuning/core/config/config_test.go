package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/tunestore/pkg/tuning/core/config"
)

const sampleYAML = `
tunestore:
  system:
    logging:
      level: DEBUG
  infrastructure:
    repository_db_ref: tuning
  observability:
    metrics:
      enabled: false
  adapter:
    database:
      tuning:
        type: sqlite
        database: ${TUNESTORE_TEST_DB_PATH}
        pool:
          max_open_conns: 1
`

type dbSettings struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Pool     struct {
		MaxOpenConns int `yaml:"max_open_conns"`
	} `yaml:"pool"`
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, "UTC", cfg.Tunestore.System.Timezone)
	assert.Equal(t, "INFO", cfg.Tunestore.System.Logging.Level)
	assert.Equal(t, "SILENT", cfg.Tunestore.System.Logging.SQLLevel)
	assert.Equal(t, "metadata", cfg.Tunestore.Infrastructure.RepositoryDBRef)
	assert.True(t, cfg.Tunestore.Observability.Metrics.Enabled)
	assert.False(t, cfg.Tunestore.Observability.Tracing.Enabled)
	assert.NotNil(t, cfg.Tunestore.AdapterConfigs)
}

func TestLoadConfig_YAMLOverDefaults(t *testing.T) {
	t.Setenv("TUNESTORE_TEST_DB_PATH", "/tmp/tuning.db")

	cfg, err := config.LoadConfig("", config.EmbeddedConfig(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Tunestore.System.Logging.Level)
	assert.Equal(t, "UTC", cfg.Tunestore.System.Timezone, "keys absent from YAML keep their default")
	assert.Equal(t, "tuning", cfg.Tunestore.Infrastructure.RepositoryDBRef)
	assert.False(t, cfg.Tunestore.Observability.Metrics.Enabled)

	dbs, ok := cfg.DatabaseConfigs()
	require.True(t, ok)
	var db dbSettings
	require.NoError(t, config.DecodeAdapterConfig(dbs["tuning"], &db))
	assert.Equal(t, "sqlite", db.Type)
	assert.Equal(t, "/tmp/tuning.db", db.Database)
	assert.Equal(t, 1, db.Pool.MaxOpenConns)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TUNESTORE_SYSTEM_LOGGING_LEVEL", "WARN")
	t.Setenv("TUNESTORE_OBSERVABILITY_TRACING_ENABLED", "true")
	t.Setenv("TUNESTORE_ADAPTER_DATABASE_TUNING_HOST", "db.internal")
	t.Setenv("TUNESTORE_ADAPTER_DATABASE_TUNING_PORT", "5432")
	t.Setenv("TUNESTORE_ADAPTER_DATABASE_TUNING_POOL_MAX_OPEN_CONNS", "8")

	cfg, err := config.LoadConfig("", config.EmbeddedConfig(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "WARN", cfg.Tunestore.System.Logging.Level)
	assert.True(t, cfg.Tunestore.Observability.Tracing.Enabled)

	dbs, ok := cfg.DatabaseConfigs()
	require.True(t, ok)
	var db dbSettings
	require.NoError(t, config.DecodeAdapterConfig(dbs["tuning"], &db))
	assert.Equal(t, "db.internal", db.Host)
	assert.Equal(t, 5432, db.Port)
	assert.Equal(t, 8, db.Pool.MaxOpenConns)
	assert.Equal(t, "sqlite", db.Type, "YAML keys not overridden survive")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := config.LoadConfig("", config.EmbeddedConfig("tunestore: [unterminated"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidEnvValue(t *testing.T) {
	t.Setenv("TUNESTORE_OBSERVABILITY_METRICS_ENABLED", "not-a-bool")

	_, err := config.LoadConfig("", config.EmbeddedConfig(sampleYAML))
	assert.Error(t, err)
}
