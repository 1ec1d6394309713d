// Package config provides the configuration structures of the tuning metadata store.
package config

// EmbeddedConfig holds the content of the configuration file, typically passed from main.go.
type EmbeddedConfig []byte

// LogLevel defines a logging level name as written in configuration.
type LogLevel string

const (
	LogLevelDebug  LogLevel = "DEBUG"
	LogLevelInfo   LogLevel = "INFO"
	LogLevelWarn   LogLevel = "WARN"
	LogLevelError  LogLevel = "ERROR"
	LogLevelFatal  LogLevel = "FATAL"
	LogLevelSilent LogLevel = "SILENT"
)

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the store log level (e.g., "INFO", "DEBUG").
	Level string `yaml:"level"`
	// SQLLevel is the level of the GORM statement log. SILENT disables it.
	SQLLevel string `yaml:"sql_level"`
}

// SystemConfig holds system-wide settings.
type SystemConfig struct {
	// Timezone is used only for rendering times in CLI output; stored times are always UTC.
	Timezone string        `yaml:"timezone"`
	Logging  LoggingConfig `yaml:"logging"`
}

// InfrastructureConfig holds logical dependency settings for infrastructure components.
type InfrastructureConfig struct {
	// RepositoryDBRef is the name of the database connection used by the repository (e.g., "metadata").
	RepositoryDBRef string `yaml:"repository_db_ref"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// OTLPConfig holds the OTLP trace exporter settings.
type OTLPConfig struct {
	// Endpoint is host:port of the collector. Empty disables export.
	Endpoint string `yaml:"endpoint"`
	// Protocol is "grpc" or "http".
	Protocol string `yaml:"protocol"`
	Insecure bool   `yaml:"insecure"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool       `yaml:"enabled"`
	ServiceName string     `yaml:"service_name"`
	OTLP        OTLPConfig `yaml:"otlp"`
}

// ObservabilityConfig groups metrics and tracing settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// TunestoreConfig holds all configuration under the "tunestore" top-level key.
type TunestoreConfig struct {
	System         SystemConfig         `yaml:"system"`
	Infrastructure InfrastructureConfig `yaml:"infrastructure"`
	Observability  ObservabilityConfig  `yaml:"observability"`
	// AdapterConfigs holds adapter settings keyed by adapter kind, e.g. adapter.database.<name>.
	AdapterConfigs map[string]interface{} `yaml:"adapter"`
}

// Config is the root structure for the entire application configuration.
type Config struct {
	Tunestore TunestoreConfig `yaml:"tunestore"`
	// EmbeddedConfig holds configuration loaded from an embedded source, not from YAML.
	EmbeddedConfig EmbeddedConfig `yaml:"-"`
}

// NewConfig returns a new instance of Config with default values.
func NewConfig() *Config {
	return &Config{
		Tunestore: TunestoreConfig{
			System: SystemConfig{
				Timezone: "UTC",
				Logging:  LoggingConfig{Level: string(LogLevelInfo), SQLLevel: string(LogLevelSilent)},
			},
			Infrastructure: InfrastructureConfig{
				RepositoryDBRef: "metadata",
			},
			Observability: ObservabilityConfig{
				Metrics: MetricsConfig{Enabled: true, Namespace: "tunestore"},
				Tracing: TracingConfig{ServiceName: "tunestore", OTLP: OTLPConfig{Protocol: "grpc"}},
			},
			AdapterConfigs: map[string]interface{}{},
		},
	}
}

// DatabaseConfigs returns the raw settings under adapter.database, keyed by connection name.
func (c *Config) DatabaseConfigs() (map[string]interface{}, bool) {
	raw, ok := c.Tunestore.AdapterConfigs["database"]
	if !ok {
		return nil, false
	}
	m, ok := raw.(map[string]interface{})
	return m, ok
}
