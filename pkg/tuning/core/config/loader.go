package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/tigerroll/tunestore/pkg/tuning/support/util/logger"
)

const (
	moduleName = "config"
	envPrefix  = "TUNESTORE_"
)

// ConfigParams defines the dependencies for NewConfigProvider.
type ConfigParams struct {
	fx.In
	EmbeddedConfig EmbeddedConfig
	EnvFilePath    string              `name:"envFilePath" optional:"true"`
	Expander       EnvironmentExpander `optional:"true"`
}

// loadConfig builds the configuration in layers: defaults from NewConfig, the
// YAML document with placeholders expanded, then TUNESTORE_* environment variables.
func loadConfig(envFilePath string, embeddedConfig EmbeddedConfig, expander EnvironmentExpander) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logger.Warnf(".env file (%s) not found or could not be loaded: %v", envFilePath, err)
		}
	} else if err := godotenv.Load(); err != nil {
		logger.Debugf(".env file not found or could not be loaded: %v", err)
	}

	cfg := NewConfig()

	raw := []byte(embeddedConfig)
	if expander != nil {
		expanded, err := expander.Expand(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to expand environment placeholders: %w", moduleName, err)
		}
		raw = expanded
	}

	// Decoding over the defaults keeps every key the document omits.
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal config: %w", moduleName, err)
	}
	if cfg.Tunestore.AdapterConfigs == nil {
		cfg.Tunestore.AdapterConfigs = map[string]interface{}{}
	}

	if err := loadStructFromEnv(reflect.ValueOf(cfg).Elem(), ""); err != nil {
		return nil, fmt.Errorf("%s: failed to load config from environment variables: %w", moduleName, err)
	}
	loadAdapterConfigsFromEnv(cfg.Tunestore.AdapterConfigs, envPrefix+"ADAPTER_")
	cfg.EmbeddedConfig = embeddedConfig
	return cfg, nil
}

// NewConfigProvider is an Fx provider that loads *Config and applies the log level.
func NewConfigProvider(params ConfigParams) (*Config, error) {
	expander := params.Expander
	if expander == nil {
		expander = NewOsEnvironmentExpander()
	}
	cfg, err := loadConfig(params.EnvFilePath, params.EmbeddedConfig, expander)
	if err != nil {
		return nil, err
	}
	logger.SetLogLevel(cfg.Tunestore.System.Logging.Level)
	logger.Infof("Log level set to: %s", cfg.Tunestore.System.Logging.Level)
	return cfg, nil
}

// LoadConfig loads configuration from YAML bytes and the environment.
func LoadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	return loadConfig(envFilePath, embeddedConfig, NewOsEnvironmentExpander())
}

// DecodeAdapterConfig decodes a raw adapter map into target using its yaml tags.
// String values are converted to the field types, so env-provided values decode as well.
func DecodeAdapterConfig(raw interface{}, target interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// loadStructFromEnv recursively loads configuration values into a struct from
// environment variables named after the yaml tags, e.g. TUNESTORE_SYSTEM_LOGGING_LEVEL.
func loadStructFromEnv(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		yamlTag := strings.Split(fieldType.Tag.Get("yaml"), ",")[0]
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		envVarName := strings.ToUpper(prefix + yamlTag)

		if field.Kind() == reflect.Struct {
			if err := loadStructFromEnv(field, envVarName+"_"); err != nil {
				return err
			}
			continue
		}

		envValue, exists := os.LookupEnv(envVarName)
		if !exists {
			continue
		}
		if err := setField(field, envValue); err != nil {
			return fmt.Errorf("failed to set field '%s' from env var '%s': %w", fieldType.Name, envVarName, err)
		}
	}
	return nil
}

// loadAdapterConfigsFromEnv overrides adapter settings from variables shaped
// <prefix><KIND>_<NAME>_<KEY>, e.g. TUNESTORE_ADAPTER_DATABASE_METADATA_HOST.
// Keys starting with POOL_ are written to the nested pool map.
func loadAdapterConfigsFromEnv(adapters map[string]interface{}, prefix string) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, prefix) {
			continue
		}
		kv := strings.SplitN(strings.TrimPrefix(env, prefix), "=", 2)
		if len(kv) != 2 {
			continue
		}
		parts := strings.SplitN(kv[0], "_", 3)
		if len(parts) != 3 {
			continue
		}
		kind, name, key := strings.ToLower(parts[0]), strings.ToLower(parts[1]), strings.ToLower(parts[2])

		byName := childMap(adapters, kind)
		entry := childMap(byName, name)
		if strings.HasPrefix(key, "pool_") {
			childMap(entry, "pool")[strings.TrimPrefix(key, "pool_")] = kv[1]
			continue
		}
		entry[key] = kv[1]
	}
}

// childMap returns m[key] as a map, creating it when absent.
func childMap(m map[string]interface{}, key string) map[string]interface{} {
	if child, ok := m[key].(map[string]interface{}); ok {
		return child
	}
	child := make(map[string]interface{})
	m[key] = child
	return child
}

// setField sets a string, integer, float or bool field from its textual value.
func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)
	case reflect.Float64, reflect.Float32:
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolValue)
	}
	return nil
}
