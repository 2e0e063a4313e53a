package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfigManager_Load(t *testing.T) {
	tests := []struct {
		name          string
		configFile    string
		envVars       map[string]string
		expectedError bool
		validate      func(*testing.T, *Config)
	}{
		{
			name: "Default config",
			validate: func(t *testing.T, config *Config) {
				assert.Equal(t, "0.0.0.0", config.Server.Host)
				assert.Equal(t, "8000", config.Server.Port)
				assert.Equal(t, "received_replays", config.Storage.Path)
				assert.Equal(t, ".osr", config.Storage.Suffix)
				assert.False(t, config.Debug)
				assert.Zero(t, config.Server.ReadTimeout)
				assert.Zero(t, config.Server.WriteTimeout)
				assert.Equal(t, 10*time.Second, config.Server.ReadHeaderTimeout)
			},
		},
		{
			name: "File config",
			configFile: `
server:
  port: "9090"
storage:
  path: "/data/replays"
logging:
  format: json
debug: true
`,
			validate: func(t *testing.T, config *Config) {
				assert.Equal(t, "9090", config.Server.Port)
				assert.Equal(t, "/data/replays", config.Storage.Path)
				assert.Equal(t, "json", config.Logging.Format)
				assert.True(t, config.Debug)
				// Untouched sections keep their defaults
				assert.Equal(t, 10*time.Second, config.Server.ReadHeaderTimeout)
			},
		},
		{
			name: "Environment override",
			configFile: `
server:
  port: "9090"
`,
			envVars: map[string]string{
				"SERVER_PORT":         "8081",
				"STORAGE_PATH":        "/tmp/replays",
				"LOG_LEVEL":           "debug",
				"LOG_SKIP_PATHS":      "/health, /list",
				"SERVER_READ_TIMEOUT": "5s",
				"REPLAY_DEBUG":        "true",
			},
			validate: func(t *testing.T, config *Config) {
				assert.Equal(t, "8081", config.Server.Port)
				assert.Equal(t, "/tmp/replays", config.Storage.Path)
				assert.Equal(t, "debug", config.Logging.Level)
				assert.Equal(t, []string{"/health", "/list"}, config.Logging.SkipPaths)
				assert.Equal(t, 5*time.Second, config.Server.ReadTimeout)
				assert.True(t, config.Debug)
			},
		},
		{
			name:          "Invalid port",
			envVars:       map[string]string{"SERVER_PORT": "not-a-port"},
			expectedError: true,
		},
		{
			name:          "Invalid log level",
			configFile:    "logging:\n  level: verbose\n",
			expectedError: true,
		},
		{
			name:          "Malformed YAML",
			configFile:    "server: [unterminated",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := NewConfigManager()

			var path string
			if tt.configFile != "" {
				path = writeConfigFile(t, tt.configFile)
			}

			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			config, err := cm.Load(path)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, config)
			assert.Same(t, config, cm.GetConfig())
			if tt.validate != nil {
				tt.validate(t, config)
			}
		})
	}
}

func TestConfigManager_MissingFileUsesDefaults(t *testing.T) {
	cm := NewConfigManager()

	config, err := cm.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, config.Server.Port)
}

func TestConfigManager_OverridesWinAndSurviveReload(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: \"9090\"\n")
	t.Setenv("SERVER_HOST", "10.0.0.1")

	cm := NewConfigManager()
	cm.Override(func(c *Config) {
		c.Server.Host = "127.0.0.1"
		c.Debug = true
	})

	config, err := cm.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, "127.0.0.1:9090", config.Address())
	assert.Equal(t, "debug", config.EffectiveLogLevel())

	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9191\"\n"), 0644))

	var notified *Config
	cm.Watch(func(c *Config) { notified = c })
	require.NoError(t, cm.Reload())

	require.NotNil(t, notified)
	assert.Equal(t, "9191", notified.Server.Port)
	assert.Equal(t, "127.0.0.1", notified.Server.Host)
	assert.True(t, notified.Debug)
}

func TestConfigManager_ReloadWithoutPath(t *testing.T) {
	cm := NewConfigManager()
	_, err := cm.Load("")
	require.NoError(t, err)

	assert.Error(t, cm.Reload())
}

func TestValidate(t *testing.T) {
	config := DefaultConfig()
	assert.NoError(t, Validate(config))

	config.Storage.Path = ""
	assert.Error(t, Validate(config))

	config = DefaultConfig()
	config.Storage.Suffix = ""
	assert.Error(t, Validate(config))

	config = DefaultConfig()
	config.Server.Port = "70000"
	assert.Error(t, Validate(config))

	config = DefaultConfig()
	config.Logging.Format = "xml"
	assert.Error(t, Validate(config))
}

type nopLogger struct{}

func (nopLogger) Info(msg string, fields ...interface{})  {}
func (nopLogger) Error(msg string, fields ...interface{}) {}

func TestConfigWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeConfigFile(t, "logging:\n  level: info\n")

	cm := NewConfigManager()
	_, err := cm.Load(path)
	require.NoError(t, err)

	var mu sync.Mutex
	var level string
	cm.Watch(func(c *Config) {
		mu.Lock()
		defer mu.Unlock()
		level = c.Logging.Level
	})

	watcher, err := NewConfigWatcher(cm, nopLogger{})
	require.NoError(t, err)
	watcher.SetDebounceTime(20 * time.Millisecond)
	require.NoError(t, watcher.AddWatchPath(path))
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return level == "debug"
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "debug", cm.GetConfig().Logging.Level)
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	path := writeConfigFile(t, "debug: false\n")

	watcher, err := NewConfigWatcher(NewConfigManager(), nopLogger{})
	require.NoError(t, err)
	defer watcher.Stop()
	require.NoError(t, watcher.AddWatchPath(path))

	assert.True(t, watcher.isWatchedFile(path))
	assert.False(t, watcher.isWatchedFile(filepath.Join(filepath.Dir(path), "other.yaml")))
}

func TestConfigWatcher_StartWithoutPaths(t *testing.T) {
	watcher, err := NewConfigWatcher(NewConfigManager(), nopLogger{})
	require.NoError(t, err)
	defer watcher.Stop()

	assert.Error(t, watcher.Start())
}
