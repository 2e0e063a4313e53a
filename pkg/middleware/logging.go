package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggingConfig holds logging middleware configuration
type LoggingConfig struct {
	Enabled     bool     `json:"enabled"`
	SkipPaths   []string `json:"skip_paths"`
	SkipMethods []string `json:"skip_methods"`
}

// DefaultLoggingConfig returns default logging configuration
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Enabled:     true,
		SkipPaths:   []string{"/health"},
		SkipMethods: []string{"OPTIONS", "HEAD"},
	}
}

// Logging provides request logging middleware
type Logging struct {
	config *LoggingConfig
	logger Logger
}

// NewLogging creates a new logging middleware
func NewLogging(config *LoggingConfig, logger Logger) *Logging {
	if config == nil {
		config = DefaultLoggingConfig()
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &Logging{
		config: config,
		logger: logger,
	}
}

// Middleware returns the Gin logging middleware
func (l *Logging) Middleware() gin.HandlerFunc {
	if !l.config.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if l.shouldSkipPath(c.Request.URL.Path) || l.shouldSkipMethod(c.Request.Method) {
			c.Next()
			return
		}

		startTime := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(startTime)
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"duration_ms", duration.Milliseconds(),
			"client_ip", GetClientIP(c),
			"user_agent", c.GetHeader("User-Agent"),
			"request_id", GetRequestID(c),
			"response_size", c.Writer.Size(),
		}

		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			l.logger.Error("HTTP Request", fields...)
		case status >= 400:
			l.logger.Warn("HTTP Request", fields...)
		default:
			l.logger.Info("HTTP Request", fields...)
		}
	}
}

// shouldSkipPath checks if the path should be skipped
func (l *Logging) shouldSkipPath(path string) bool {
	for _, skipPath := range l.config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}

// shouldSkipMethod checks if the method should be skipped
func (l *Logging) shouldSkipMethod(method string) bool {
	for _, skipMethod := range l.config.SkipMethods {
		if method == skipMethod {
			return true
		}
	}
	return false
}
