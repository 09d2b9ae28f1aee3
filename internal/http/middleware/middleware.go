// Package middleware provides request-scoped logging, request ids, and HTTP
// metrics for the API surface.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/courtside/franchise-sim/internal/logging"
	"github.com/courtside/franchise-sim/internal/metrics"
)

type contextKey string

const requestIDKey contextKey = "requestId"

// RequestIDHeader is the inbound/outbound request id header.
const RequestIDHeader = "X-Request-ID"

var requestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// LoggingMiddleware attaches a request id and request-scoped logger to the
// context, logs request completion, and records HTTP metrics.
func LoggingMiddleware(logger *slog.Logger, recorder *metrics.Recorder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := sanitizeRequestID(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = generateRequestID()
		}
		w.Header().Set(RequestIDHeader, requestID)

		reqLogger := logger
		if reqLogger != nil {
			reqLogger = reqLogger.With(
				logging.FieldRequestID, requestID,
				logging.FieldMethod, r.Method,
				logging.FieldPath, r.URL.Path,
			)
		}
		ctx := logging.WithLogger(r.Context(), reqLogger)
		ctx = context.WithValue(ctx, requestIDKey, requestID)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(ctx))

		duration := time.Since(start)
		logging.Info(reqLogger, "request completed",
			slog.Int(logging.FieldStatusCode, rw.status),
			slog.Int64(logging.FieldDurationMS, duration.Milliseconds()),
		)
		if recorder != nil {
			recorder.RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), rw.status, duration)
		}
	})
}

// RequestIDFromContext returns the request id placed by LoggingMiddleware.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func sanitizeRequestID(raw string) string {
	if requestIDPattern.MatchString(raw) {
		return raw
	}
	return ""
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// normalizePath collapses per-game paths so metric labels stay bounded.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/games/") {
		rest := strings.TrimPrefix(path, "/games/")
		if rest == "" {
			return "/games"
		}
		if rest == "simulate" {
			return "/games/simulate"
		}
		if strings.HasSuffix(rest, "/quarter") {
			return "/games/:id/quarter"
		}
		return "/games/:id"
	}
	return path
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}
