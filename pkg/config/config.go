package config

import (
	"fmt"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Debug   bool          `yaml:"debug" json:"debug" env:"REPLAY_DEBUG" default:"false"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" json:"host" env:"SERVER_HOST" default:"0.0.0.0"`
	Port            string        `yaml:"port" json:"port" env:"SERVER_PORT" default:"8000"`
	// ReadTimeout and WriteTimeout bound the whole request and response; 0 leaves
	// upload and download duration unbounded.
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" json:"read_header_timeout" env:"SERVER_READ_HEADER_TIMEOUT" default:"10s"`
	ReadTimeout       time.Duration `yaml:"read_timeout" json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"0s"`
	WriteTimeout      time.Duration `yaml:"write_timeout" json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"0s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" json:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// StorageConfig holds replay directory configuration
type StorageConfig struct {
	Path   string `yaml:"path" json:"path" env:"STORAGE_PATH" default:"received_replays"`
	Suffix string `yaml:"suffix" json:"suffix" env:"STORAGE_SUFFIX" default:".osr"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level          string   `yaml:"level" json:"level" env:"LOG_LEVEL" default:"info"`
	Format         string   `yaml:"format" json:"format" env:"LOG_FORMAT" default:"text"` // json, text
	RequestLogging bool     `yaml:"request_logging" json:"request_logging" env:"LOG_REQUESTS" default:"true"`
	SkipPaths      []string `yaml:"skip_paths" json:"skip_paths" env:"LOG_SKIP_PATHS" default:"[/health]"`
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// EffectiveLogLevel returns the configured level, forced to debug in debug mode
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.Logging.Level
}

// ConfigManager manages configuration loading and validation
type ConfigManager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
	overrides  []func(*Config)
	watchers   []func(*Config)
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		watchers: make([]func(*Config), 0),
	}
}

// Override registers a function applied after file and environment on every
// load. Command-line flags use this so they survive reloads.
func (cm *ConfigManager) Override(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.overrides = append(cm.overrides, fn)
}

// Load loads configuration from file and environment variables.
// An empty path or a missing file leaves the defaults in place.
func (cm *ConfigManager) Load(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := loadFromFile(config, configPath); err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	cm.mu.RLock()
	overrides := cm.overrides
	cm.mu.RUnlock()
	for _, override := range overrides {
		override(config)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	cm.mu.Lock()
	cm.configPath = configPath
	cm.config = config
	cm.mu.Unlock()

	return config, nil
}

// Reload reloads the configuration and notifies watchers
func (cm *ConfigManager) Reload() error {
	cm.mu.RLock()
	configPath := cm.configPath
	cm.mu.RUnlock()

	if configPath == "" {
		return fmt.Errorf("no config path set")
	}

	config, err := cm.Load(configPath)
	if err != nil {
		return err
	}

	cm.mu.RLock()
	watchers := cm.watchers
	cm.mu.RUnlock()
	for _, watcher := range watchers {
		watcher(config)
	}

	return nil
}

// Watch adds a configuration change watcher
func (cm *ConfigManager) Watch(watcher func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.watchers = append(cm.watchers, watcher)
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigPath returns the file the configuration was loaded from
func (cm *ConfigManager) ConfigPath() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.configPath
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, config)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(config *Config) error {
	return setEnvVars(reflect.ValueOf(config).Elem())
}

// setEnvVars recursively sets environment variables on struct fields
func setEnvVars(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			if field.Kind() == reflect.Struct {
				if err := setEnvVars(field); err != nil {
					return err
				}
			}
			continue
		}

		envValue, ok := os.LookupEnv(envTag)
		if !ok || envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %s from %s: %w", fieldType.Name, envTag, err)
		}
	}

	return nil
}

// setFieldValue sets a field value from an environment variable string
func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(duration))
		} else {
			intValue, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(intValue)
		}
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			boolValue = value == "yes" || value == "on"
		}
		field.SetBool(boolValue)
	case reflect.Slice:
		// Comma-separated values for string slices
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type())
		}
		values := strings.Split(value, ",")
		for i, v := range values {
			values[i] = strings.TrimSpace(v)
		}
		field.Set(reflect.ValueOf(values))
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate validates the configuration
func Validate(config *Config) error {
	port, err := strconv.Atoi(config.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("server port %q is not a valid port", config.Server.Port)
	}

	if config.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}
	if config.Storage.Suffix == "" {
		return fmt.Errorf("storage suffix is required")
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", config.Logging.Format)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8000",
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Storage: StorageConfig{
			Path:   "received_replays",
			Suffix: ".osr",
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "text",
			RequestLogging: true,
			SkipPaths:      []string{"/health"},
		},
		Debug: false,
	}
}
