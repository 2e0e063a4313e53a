package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/zots0127/replay-exchange/internal/infrastructure/repository"
	"github.com/zots0127/replay-exchange/pkg/config"
	"github.com/zots0127/replay-exchange/pkg/middleware"
)

func main() {
	var (
		configFile = flag.String("config", os.Getenv("CONFIG_PATH"), "Configuration file path")
		host       = flag.String("host", "0.0.0.0", "Host to bind to")
		port       = flag.Int("port", 8000, "Port to bind to")
		debug      = flag.Bool("debug", false, "Enable debug mode")
	)
	flag.Parse()

	// Flags given on the command line beat the config file and environment
	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	configManager := config.NewConfigManager()
	configManager.Override(func(c *config.Config) {
		if explicit["host"] {
			c.Server.Host = *host
		}
		if explicit["port"] {
			c.Server.Port = strconv.Itoa(*port)
		}
		if explicit["debug"] {
			c.Debug = *debug
		}
	})

	cfg, err := configManager.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := middleware.NewSlogLogger(os.Stdout, cfg.Logging.Format, cfg.EffectiveLogLevel())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	// net/http server errors go through the standard log package, which now feeds slog
	slog.SetDefault(logger.Slog())

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := repository.NewDirectoryStore(cfg.Storage.Path)
	if err != nil {
		logger.Error("Failed to create replay directory", "path", cfg.Storage.Path, "error", err)
		os.Exit(1)
	}

	if watcher := watchConfig(configManager, logger); watcher != nil {
		defer watcher.Stop()
	}

	server := newHTTPServer(cfg, newRouter(cfg, store, logger))

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting OSU Replay Server",
			"address", cfg.Address(),
			"storage", store.Path(),
			"debug", cfg.Debug,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("Shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

// watchConfig reloads the config file on change and applies the new log
// level. Listener and storage settings only take effect on restart.
func watchConfig(configManager *config.ConfigManager, logger *middleware.SlogLogger) *config.ConfigWatcher {
	path := configManager.ConfigPath()
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	current := configManager.GetConfig()
	configManager.Watch(func(c *config.Config) {
		if err := logger.SetLevel(c.EffectiveLogLevel()); err != nil {
			logger.Error("Invalid log level in reloaded config", "error", err)
		}
		if c.Address() != current.Address() || c.Storage.Path != current.Storage.Path {
			logger.Warn("Listener and storage changes require a restart",
				"address", c.Address(),
				"storage", c.Storage.Path,
			)
		}
	})

	watcher, err := config.NewConfigWatcher(configManager, logger)
	if err != nil {
		logger.Error("Config hot reload disabled", "error", err)
		return nil
	}
	if err := watcher.AddWatchPath(path); err != nil {
		logger.Error("Config hot reload disabled", "error", err)
		watcher.Stop()
		return nil
	}
	if err := watcher.Start(); err != nil {
		logger.Error("Config hot reload disabled", "error", err)
		watcher.Stop()
		return nil
	}

	return watcher
}
