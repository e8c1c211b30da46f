package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"finance-manager/internal/logging"
	"finance-manager/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request id across services.
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware assigns a request id, attaches a request scoped logger to the
// context and records access logs and prometheus metrics.
func Middleware(service string, logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		reqLogger := logger.With().Str(logging.REQUEST, id).Logger()
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		ctx = reqLogger.WithContext(ctx)
		req := r.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		route := req.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(service, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(service, route).Observe(elapsed.Seconds())

		reqLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str(logging.ROUTE, route).
			Int("status", rec.status).
			Dur("duration", elapsed).
			Msg("request")
	})
}
