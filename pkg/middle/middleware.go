package middle

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	zap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/methmmdb/logger"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
)

// Chain applies middlewares so that the first one listed runs first.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// responseWriter is a minimal wrapper for http.ResponseWriter that allows the
// written HTTP status code to be captured for logging.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) Status() int {
	return rw.status
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriter) Write(body []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(body)
}

// LoggingMiddleware logs the incoming HTTP request & its duration, and turns
// a panic into a 500.
func LoggingMiddleware(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			defer func() {
				if err := recover(); err != nil {
					base.Error("Unhandled exception",
						zap.Any("panic", err),
						zap.String("stack", string(debug.Stack())),
					)
					if !wrapped.wroteHeader {
						wrapped.Header().Set("Content-Type", "application/json")
						wrapped.WriteHeader(http.StatusInternalServerError)
						fmt.Fprint(wrapped, `{"detail":"An unexpected error occurred. Please try again later."}`)
					}
				}

				duration := time.Since(start)
				base.Debug("Request completed",
					zap.String("method", r.Method),
					zap.String("path", r.URL.EscapedPath()),
					zap.Int("status", wrapped.Status()),
					zap.Duration("duration", duration),
					zap.String("client_ip", r.RemoteAddr),
					zap.String("user_agent", r.UserAgent()),
					zap.String("request_id", w.Header().Get("X-Request-ID")),
					zap.Object("headers", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
						for k, v := range r.Header {
							enc.AddString(k, fmt.Sprintf("%v", v))
						}
						return nil
					})),
				)

				// Log slow requests
				if duration > 1*time.Second {
					base.Warn("Slow request",
						zap.String("method", r.Method),
						zap.String("path", r.URL.EscapedPath()),
						zap.Duration("duration", duration),
					)
				}
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request and stores a
// logger carrying it in the request context (see logger.FromContext).
func RequestIDMiddleware(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := generateRequestID()
			w.Header().Set("X-Request-ID", requestID)

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			ctx = logger.NewContext(ctx, base.With(zap.String("request_id", requestID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func generateRequestID() string {
	return "req-" + uuid.New().String()
}

// CORSOptions mirrors the service's cross-origin policy.
type CORSOptions struct {
	AllowedOrigins   []string // "*" allows any origin
	AllowedMethods   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// CORSMiddleware applies opts through rs/cors. Any request header is allowed.
// Browsers refuse "*" on credentialed responses, so an allow-all policy with
// credentials echoes the request origin instead.
func CORSMiddleware(opts CORSOptions) func(http.Handler) http.Handler {
	o := cors.Options{
		AllowedMethods:   opts.AllowedMethods,
		AllowedHeaders:   []string{"*"},
		AllowCredentials: opts.AllowCredentials,
		MaxAge:           int(opts.MaxAge.Seconds()),
	}
	if opts.AllowCredentials && slices.Contains(opts.AllowedOrigins, "*") {
		o.AllowOriginFunc = func(string) bool { return true }
	} else {
		o.AllowedOrigins = opts.AllowedOrigins
	}
	return cors.New(o).Handler
}
