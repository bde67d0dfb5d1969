package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTraceIDContext(t *testing.T) {
	t.Run("adds provided trace ID to context", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "test-trace-123")
		assert.Equal(t, "test-trace-123", GetTraceID(ctx))
	})

	t.Run("generates new trace ID when empty string provided", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "")

		traceID := GetTraceID(ctx)
		assert.NotEmpty(t, traceID)
		// Verify it's a valid UUID format (36 characters with hyphens)
		assert.Len(t, traceID, 36)
	})

	t.Run("can override trace ID in child context", func(t *testing.T) {
		ctx1 := WithTraceID(context.Background(), "trace-1")
		ctx2 := WithTraceID(ctx1, "trace-2")

		assert.Equal(t, "trace-2", GetTraceID(ctx2))
		assert.Equal(t, "trace-1", GetTraceID(ctx1))
	})
}

func TestGetTraceID(t *testing.T) {
	t.Run("returns empty string when no trace ID in context", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
	})

	t.Run("returns empty string when trace ID is wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), TraceIDKey, 12345)
		assert.Empty(t, GetTraceID(ctx))
	})
}

func TestNewTraceID(t *testing.T) {
	ids := make(map[string]bool)
	for range 100 {
		id := NewTraceID()
		assert.Len(t, id, 36)
		assert.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	l, err := NewDevelopmentLogger()
	require.NoError(t, err)

	r := gin.New()
	r.Use(AccessLog(l))

	var seenTraceID string
	r.GET("/ping", func(c *gin.Context) {
		seenTraceID = GetTraceID(c.Request.Context())
		c.String(http.StatusOK, "pong")
	})

	t.Run("generates a trace ID when none provided", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, seenTraceID)
		assert.Equal(t, seenTraceID, w.Header().Get("X-Trace-ID"))
	})

	t.Run("honors an incoming X-Trace-ID header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Trace-ID", "upstream-trace-42")
		r.ServeHTTP(w, req)

		assert.Equal(t, "upstream-trace-42", seenTraceID)
		assert.Equal(t, "upstream-trace-42", w.Header().Get("X-Trace-ID"))
	})
}
