package middleware

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"lead-relay/logger"
)

// RequestLogger assigns the request ID (the caller's X-Request-ID or a new UUID),
// exposes it through chi's middleware.GetReqID and the response header, and
// emits one structured log line per request.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get(chimw.RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			r = r.WithContext(context.WithValue(r.Context(), chimw.RequestIDKey, reqID))
			w.Header().Set(chimw.RequestIDHeader, reqID)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"request_id", reqID,
				"remote_ip", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if status >= http.StatusInternalServerError {
				log.Error("request completed", args...)
				return
			}
			log.Info("request completed", args...)
		})
	}
}
