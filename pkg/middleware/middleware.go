package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Config defines middleware configuration
type Config struct {
	// Logging configuration
	EnableLogging bool     `json:"enable_logging"`
	SkipPaths     []string `json:"skip_paths"`

	// Security configuration
	EnableSecurity  bool   `json:"enable_security"`
	FrameOptions    string `json:"frame_options"`
	ContentSecurity string `json:"content_security"`
	ReferrerPolicy  string `json:"referrer_policy"`
}

// DefaultConfig returns default middleware configuration
func DefaultConfig() *Config {
	return &Config{
		EnableLogging: true,
		SkipPaths:     []string{"/health"},

		EnableSecurity:  true,
		FrameOptions:    "DENY",
		ContentSecurity: "default-src 'self'",
		ReferrerPolicy:  "strict-origin-when-cross-origin",
	}
}

// MiddlewareChain holds all middleware instances
type MiddlewareChain struct {
	config *Config
	logger Logger
}

// NewMiddlewareChain creates a new middleware chain
func NewMiddlewareChain(config *Config, logger Logger) *MiddlewareChain {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &MiddlewareChain{
		config: config,
		logger: logger,
	}
}

// Apply applies all configured middleware to the Gin engine.
// Recovery goes first so panics in later middleware still produce a JSON 500.
func (m *MiddlewareChain) Apply(r *gin.Engine) {
	r.Use(m.ErrorHandler())
	r.Use(RequestID())

	if m.config.EnableSecurity {
		r.Use(m.Security())
	}

	if m.config.EnableLogging {
		r.Use(m.Logging())
	}
}

// GetConfig returns the middleware configuration
func (m *MiddlewareChain) GetConfig() *Config {
	return m.config
}

// Logger interface for middleware logging
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Info(msg string, fields ...interface{})  {}
func (NopLogger) Error(msg string, fields ...interface{}) {}
func (NopLogger) Debug(msg string, fields ...interface{}) {}
func (NopLogger) Warn(msg string, fields ...interface{})  {}

// GetClientIP extracts real client IP from request
func GetClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		// Take the first IP if multiple are listed
		if commaIdx := strings.Index(xff, ","); commaIdx != -1 {
			return strings.TrimSpace(xff[:commaIdx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		return xri
	}

	return c.ClientIP()
}

// GetRequestID returns the request ID for c, generating one on first use
func GetRequestID(c *gin.Context) string {
	if reqID, exists := c.Get("request_id"); exists {
		if id, ok := reqID.(string); ok {
			return id
		}
	}

	if reqID := c.GetHeader("X-Request-ID"); reqID != "" {
		c.Set("request_id", reqID)
		return reqID
	}

	reqID := uuid.New().String()
	c.Set("request_id", reqID)
	return reqID
}
