package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures log calls for assertions
type recordingLogger struct {
	entries []logEntry
}

type logEntry struct {
	level  string
	msg    string
	fields []interface{}
}

func (r *recordingLogger) record(level, msg string, fields []interface{}) {
	r.entries = append(r.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (r *recordingLogger) Info(msg string, fields ...interface{})  { r.record("info", msg, fields) }
func (r *recordingLogger) Error(msg string, fields ...interface{}) { r.record("error", msg, fields) }
func (r *recordingLogger) Debug(msg string, fields ...interface{}) { r.record("debug", msg, fields) }
func (r *recordingLogger) Warn(msg string, fields ...interface{})  { r.record("warn", msg, fields) }

func newTestRouter(config *Config, logger Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewMiddlewareChain(config, logger).Apply(router)
	return router
}

// TestMiddlewareConfig tests middleware configuration
func TestMiddlewareConfig(t *testing.T) {
	config := DefaultConfig()

	assert.True(t, config.EnableLogging)
	assert.True(t, config.EnableSecurity)
	assert.Equal(t, "DENY", config.FrameOptions)
	assert.Contains(t, config.SkipPaths, "/health")

	chain := NewMiddlewareChain(nil, nil)
	assert.NotNil(t, chain.GetConfig())
}

// TestSecurityMiddleware tests security headers
func TestSecurityMiddleware(t *testing.T) {
	router := newTestRouter(DefaultConfig(), nil)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
}

// TestRequestID tests request ID propagation and generation
func TestRequestID(t *testing.T) {
	router := newTestRouter(DefaultConfig(), nil)
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("Generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		id := w.Header().Get("X-Request-ID")
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("Propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "client-supplied")
		router.ServeHTTP(w, req)

		assert.Equal(t, "client-supplied", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "client-supplied", w.Body.String())
	})
}

// TestLoggingMiddleware tests request logging
func TestLoggingMiddleware(t *testing.T) {
	logger := &recordingLogger{}
	router := newTestRouter(DefaultConfig(), logger)
	router.GET("/list", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"replays": []string{}})
	})
	router.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/list", "/missing", "/health"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)
	}

	require.Len(t, logger.entries, 2)
	assert.Equal(t, "info", logger.entries[0].level)
	assert.Equal(t, "HTTP Request", logger.entries[0].msg)
	assert.Contains(t, logger.entries[0].fields, "/list")
	assert.Equal(t, "warn", logger.entries[1].level)
	assert.Contains(t, logger.entries[1].fields, http.StatusNotFound)
}

// TestErrorHandler tests panic recovery
func TestErrorHandler(t *testing.T) {
	logger := &recordingLogger{}
	router := newTestRouter(DefaultConfig(), logger)
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body["error"])
	assert.NotEmpty(t, body["request_id"])

	var sawPanic bool
	for _, e := range logger.entries {
		if e.msg == "Request Panic" {
			sawPanic = true
		}
	}
	assert.True(t, sawPanic)
}

// TestSlogLogger tests the slog-backed logger
func TestSlogLogger(t *testing.T) {
	t.Run("JSONFormat", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewSlogLogger(&buf, "json", "info")
		require.NoError(t, err)

		logger.Info("Received replay", "filename", "a.osr")

		var record map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "Received replay", record["msg"])
		assert.Equal(t, "a.osr", record["filename"])
	})

	t.Run("LevelChange", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewSlogLogger(&buf, "text", "info")
		require.NoError(t, err)

		logger.Debug("hidden")
		assert.Empty(t, buf.String())

		require.NoError(t, logger.SetLevel("debug"))
		assert.Equal(t, slog.LevelDebug, logger.Level())
		logger.Debug("shown")
		assert.True(t, strings.Contains(buf.String(), "shown"))
	})

	t.Run("SharesLevelWithSlog", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewSlogLogger(&buf, "text", "warn")
		require.NoError(t, err)

		logger.Slog().Info("hidden")
		assert.Empty(t, buf.String())

		require.NoError(t, logger.SetLevel("info"))
		logger.Slog().Info("Server exited")
		assert.Contains(t, buf.String(), "Server exited")
	})

	t.Run("InvalidSettings", func(t *testing.T) {
		_, err := NewSlogLogger(&bytes.Buffer{}, "xml", "info")
		assert.Error(t, err)

		_, err = NewSlogLogger(&bytes.Buffer{}, "json", "verbose")
		assert.Error(t, err)
	})
}
