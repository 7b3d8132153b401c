package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	engine := gin.New()
	engine.Use(RequestLogger(NewWithWriter(&buf, "info", true)))
	engine.GET("/bookings", func(c *gin.Context) {
		c.Set("user_id", "u-1")
		_ = c.Error(errors.New("slot gone"))
		c.Status(http.StatusConflict)
	})

	t.Run("propagates incoming request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
		entries := logEntries(t, &buf)
		require.Len(t, entries, 2)
		assert.Equal(t, "HTTP Request", entries[0]["msg"])
		assert.Equal(t, "req-42", entries[0]["request_id"])
		assert.Equal(t, "u-1", entries[0]["user_id"])
		assert.Equal(t, float64(http.StatusConflict), entries[0]["status"])
		assert.Equal(t, "HTTP Error", entries[1]["msg"])
		assert.Equal(t, "slot gone", entries[1]["error"])
		assert.Equal(t, "req-42", entries[1]["request_id"])
	})

	t.Run("generates id when missing", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		entries := logEntries(t, &buf)
		require.NotEmpty(t, entries)
		assert.Equal(t, id, entries[0]["request_id"])
	})
}
