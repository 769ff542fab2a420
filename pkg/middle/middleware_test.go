package middle

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yumyai/methmmdb/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func corsOpts(origins ...string) CORSOptions {
	return CORSOptions{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	}
}

func preflight(origin, method string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/search", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", method)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	return req
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	h := CORSMiddleware(corsOpts("*"))(okHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, preflight("http://browser.example", "POST"))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://browser.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "POST", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "content-type", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rr.Body.String())
}

func TestCORSMiddleware_DisallowedPreflight(t *testing.T) {
	h := CORSMiddleware(corsOpts("http://allowed.example"))(okHandler())

	tests := []struct {
		name   string
		origin string
		method string
	}{
		{name: "origin", origin: "http://evil.example", method: "POST"},
		{name: "method", origin: "http://allowed.example", method: "DELETE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, preflight(tt.origin, tt.method))

			assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Empty(t, rr.Header().Get("Access-Control-Allow-Methods"))
			assert.NotEqual(t, "ok", rr.Body.String())
		})
	}
}

func TestCORSMiddleware_DisallowedOrigin(t *testing.T) {
	h := CORSMiddleware(corsOpts("http://allowed.example"))(okHandler())

	simple := httptest.NewRequest(http.MethodGet, "/health", nil)
	simple.Header.Set("Origin", "http://evil.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, simple)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_SimpleAllowed(t *testing.T) {
	h := CORSMiddleware(corsOpts("http://allowed.example"))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://allowed.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "http://allowed.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rr.Header().Values("Vary"), "Origin")
	assert.Equal(t, "ok", rr.Body.String())

	noOrigin := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, noOrigin)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_WildcardWithoutCredentials(t *testing.T) {
	opts := corsOpts("*")
	opts.AllowCredentials = false
	h := CORSMiddleware(opts)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://any.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestIDMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	var seen string
	h := RequestIDMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(RequestIDKey).(string)
		logger.FromContext(r.Context()).Info("handling")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, strings.HasPrefix(seen, "req-"))
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, seen, logs.All()[0].ContextMap()["request_id"])
}

func TestLoggingMiddleware_RecoversPanic(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}), RequestIDMiddleware(zap.NewNop()), LoggingMiddleware(zap.NewNop()))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "An unexpected error occurred")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
