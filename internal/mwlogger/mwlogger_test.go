package mwlogger

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/ginext"
)

func TestNewMWLogger_RequestID(t *testing.T) {
	engine := ginext.New(gin.TestMode)
	engine.GET("/ping", func(c *ginext.Context) {
		c.String(http.StatusTeapot, "pong")
	})
	h := NewMWLogger(engine)

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		require.Equal(t, http.StatusTeapot, w.Code)
		require.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	})

	t.Run("generates id when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		require.Equal(t, "pong", w.Body.String())
		require.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Str("request_id", "abc").Logger()

	ctx := WithLogger(context.Background(), logger)
	l := LoggerFromContext(ctx)
	l.Info().Msg("hello")

	require.Contains(t, buf.String(), `"request_id":"abc"`)
	require.Contains(t, buf.String(), `"message":"hello"`)

	fallback := LoggerFromContext(context.Background())
	require.NotNil(t, &fallback)
}
