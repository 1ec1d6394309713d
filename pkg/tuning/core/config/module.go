package config

import "go.uber.org/fx"

// NewLoggingConfigProvider extracts *LoggingConfig from *Config.
func NewLoggingConfigProvider(cfg *Config) *LoggingConfig {
	return &cfg.Tunestore.System.Logging
}

// NewObservabilityConfigProvider extracts *ObservabilityConfig from *Config.
func NewObservabilityConfigProvider(cfg *Config) *ObservabilityConfig {
	return &cfg.Tunestore.Observability
}

// Module provides the configuration and its sub-sections to Fx.
// EmbeddedConfig must be supplied by the application.
var Module = fx.Options(
	fx.Provide(func() EnvironmentExpander { return NewOsEnvironmentExpander() }),
	fx.Provide(NewConfigProvider),
	fx.Provide(NewLoggingConfigProvider),
	fx.Provide(NewObservabilityConfigProvider),
)
