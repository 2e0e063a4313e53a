package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Security returns a middleware that sets the configured security headers
func (m *MiddlewareChain) Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		if m.config.FrameOptions != "" {
			c.Header("X-Frame-Options", m.config.FrameOptions)
		}
		if m.config.ContentSecurity != "" {
			c.Header("Content-Security-Policy", m.config.ContentSecurity)
		}
		if m.config.ReferrerPolicy != "" {
			c.Header("Referrer-Policy", m.config.ReferrerPolicy)
		}
		c.Next()
	}
}

// Logging returns the request logging middleware
func (m *MiddlewareChain) Logging() gin.HandlerFunc {
	config := DefaultLoggingConfig()
	config.Enabled = m.config.EnableLogging
	config.SkipPaths = m.config.SkipPaths

	return NewLogging(config, m.logger).Middleware()
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := GetRequestID(c)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorHandler recovers from panics and answers with a JSON 500
func (m *MiddlewareChain) ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		m.logger.Error("Request Panic",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", fmt.Sprintf("%v", recovered),
			"client_ip", GetClientIP(c),
			"request_id", GetRequestID(c),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal Server Error",
			"request_id": GetRequestID(c),
		})
	})
}
