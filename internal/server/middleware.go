package server

import (
	"context"
	"net/http"
	"slices"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"
	goamiddleware "goa.design/goa/v3/middleware"

	"j2systems/internal/config"
)

const requestIDHeader = "X-Request-ID"

// securityHeaders adds security headers to responses
func securityHeaders(debug bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			// Remove server identification
			h.Set("Server", "")

			// HSTS (only in production with HTTPS)
			if !debug && r.TLS != nil {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// corsHandler configures CORS from cfg. Credentials are only allowed for an
// explicit origin list.
func corsHandler(cfg config.CORSConfig) func(http.Handler) http.Handler {
	opts := []handlers.CORSOption{
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods(cfg.AllowedMethods),
		handlers.AllowedHeaders(cfg.AllowedHeaders),
		handlers.ExposedHeaders([]string{requestIDHeader}),
		handlers.MaxAge(cfg.MaxAge),
	}
	if !slices.Contains(cfg.AllowedOrigins, "*") {
		opts = append(opts, handlers.AllowCredentials())
	}
	return handlers.CORS(opts...)
}

// requestLogging logs every request with its outcome and echoes the request id
func requestLogging(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := requestID(r.Context())
			if reqID != "" {
				w.Header().Set(requestIDHeader, reqID)
			}

			// Skip logging for probes to reduce noise
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			m := httpsnoop.CaptureMetrics(next, w, r)
			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", m.Code,
				"duration", m.Duration,
				"bytes", m.Written,
				"remote_addr", r.RemoteAddr,
				"request_id", reqID,
			}
			switch {
			case m.Code >= http.StatusInternalServerError:
				log.Errorw("Request completed", fields...)
			case m.Code >= http.StatusBadRequest:
				log.Warnw("Request completed", fields...)
			default:
				log.Infow("Request completed", fields...)
			}
		})
	}
}

// requestID returns the id assigned by the request id middleware
func requestID(ctx context.Context) string {
	id, _ := ctx.Value(goamiddleware.RequestIDKey).(string)
	return id
}
