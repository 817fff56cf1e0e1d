package logging

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestInterceptor provides request lifecycle logging for HTTP handlers
type RequestInterceptor struct {
	logger *slog.Logger
}

// NewRequestInterceptor creates a new request interceptor with the specified logger
func NewRequestInterceptor(logger *slog.Logger) *RequestInterceptor {
	return &RequestInterceptor{
		logger: logger,
	}
}

// HTTPMiddleware wraps an http.Handler with request logging and request-id
// propagation.
func (r *RequestInterceptor) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := NewRequestContext(req.Context(), req.Method+" "+req.URL.Path)
		requestID := GetRequestID(ctx)
		w.Header().Set("X-Request-ID", requestID)

		startTime := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, req.WithContext(ctx))

		r.logger.InfoContext(ctx, "HTTP request completed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("request_id", requestID),
			slog.Int("status", wrapped.statusCode),
			slog.Duration("duration", time.Since(startTime)),
		)
	})
}

// responseWriter captures the status code written by the handler
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.headerWritten = true
	}
	return rw.ResponseWriter.Write(b)
}
