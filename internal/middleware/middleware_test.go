package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"chat_service/internal/models"
	"chat_service/pkg/log"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func TestTrustedIdentity(t *testing.T) {
	r := newEngine(TrustedIdentity())

	var got models.Identity
	var found bool
	r.GET("/me", func(c *gin.Context) {
		got, found = GetIdentity(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderUsername, " alice ")
	req.Header.Set(HeaderRole, "CLIENT")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, found)
	assert.Equal(t, models.Identity{Username: "alice", Role: "CLIENT"}, got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.False(t, found)
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS())
	called := false
	r.POST("/x", func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r := newEngine(TrustedIdentity(), RequestLogger(logger))

	r.GET("/ping", func(c *gin.Context) {
		l := log.Ctx(c.Request.Context())
		l.Info().Msg("handled")
		c.Status(http.StatusOK)
	})

	t.Run("generates request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderUsername, "bob")
		r.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get(headerRequestID))
		assert.Contains(t, buf.String(), `"message":"handled"`)
		assert.Contains(t, buf.String(), w.Header().Get(headerRequestID))
		assert.Contains(t, buf.String(), `"username":"bob"`)
		assert.Contains(t, buf.String(), `"status":200`)
	})

	t.Run("keeps incoming request id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(headerRequestID, "req-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(headerRequestID))
		assert.Contains(t, buf.String(), "req-123")
	})
}

func TestRequestLoggerKeepsSubMillisecondLatency(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(RequestLogger(zerolog.New(&buf)))
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fast", nil))

	var entry map[string]interface{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	latency, ok := entry[log.FieldLatency].(float64)
	assert.True(t, ok)
	assert.Greater(t, latency, 0.0)
	assert.Less(t, latency, 1000.0)
}
