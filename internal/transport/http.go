package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/JamesPrial/relation-graph-core/pkg/config"
	"github.com/JamesPrial/relation-graph-core/pkg/errors"
	"github.com/JamesPrial/relation-graph-core/pkg/logging"
)

// HTTPTransport serves JSON-RPC requests over HTTP
type HTTPTransport struct {
	config      *config.Settings
	server      *http.Server
	handler     RequestHandler
	logger      *slog.Logger
	interceptor *logging.RequestInterceptor
}

// NewHTTPTransport creates a new HTTP transport
func NewHTTPTransport(cfg *config.Settings) *HTTPTransport {
	logger := logging.GetGlobalLogger("transport.http")
	return &HTTPTransport{
		config:      cfg,
		logger:      logger,
		interceptor: logging.NewRequestInterceptor(logger),
	}
}

// Start begins listening for HTTP requests. It blocks until the context is
// cancelled or the server fails.
func (t *HTTPTransport) Start(ctx context.Context, handler RequestHandler) error {
	t.handler = handler

	mux := http.NewServeMux()
	mux.HandleFunc("/rpc", t.handleRPC)
	mux.HandleFunc("/health", t.handleHealth)

	var httpHandler http.Handler = mux
	httpHandler = t.interceptor.HTTPMiddleware(httpHandler)
	if t.config.HTTP.EnableCORS {
		httpHandler = t.corsMiddleware(httpHandler)
	}

	addr := fmt.Sprintf("%s:%d", t.config.HTTP.Host, t.config.HTTPPort)
	t.server = &http.Server{
		Addr:         addr,
		Handler:      httpHandler,
		ReadTimeout:  time.Duration(t.config.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(t.config.HTTP.WriteTimeout) * time.Second,
	}

	t.logger.InfoContext(ctx, "HTTP server starting",
		slog.String("address", addr),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.logger.ErrorContext(ctx, "HTTP server error",
				slog.String("error", err.Error()),
			)
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		t.logger.InfoContext(ctx, "HTTP transport context cancelled")
		return t.Stop(context.Background())
	case err := <-errChan:
		return err
	}
}

// Stop gracefully shuts down the HTTP server
func (t *HTTPTransport) Stop(ctx context.Context) error {
	t.logger.InfoContext(ctx, "HTTP transport stopping")

	if t.server == nil {
		return nil
	}
	err := t.server.Shutdown(ctx)
	if err != nil {
		t.logger.ErrorContext(ctx, "Error during HTTP server shutdown",
			slog.String("error", err.Error()),
		)
	}
	return err
}

// Name returns the name of the transport
func (t *HTTPTransport) Name() string {
	return "http"
}

// handleRPC handles JSON-RPC requests
func (t *HTTPTransport) handleRPC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		t.logger.WarnContext(ctx, "Invalid HTTP method for RPC",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		respErr := CreateFallbackErrorResponse(nil, "Method not allowed")
		t.sendJSONResponse(w, respErr, http.StatusMethodNotAllowed)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != "application/json" && contentType != "application/json-rpc" {
		t.logger.WarnContext(ctx, "Invalid content type for RPC",
			slog.String("content_type", contentType),
		)
		respErr := CreateFallbackErrorResponse(nil, "Content-Type must be application/json or application/json-rpc")
		t.sendJSONResponse(w, respErr, http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 10*1024*1024)) // 10MB limit
	if err != nil {
		t.logger.ErrorContext(ctx, "Failed to read request body",
			slog.String("error", err.Error()),
		)
		respErr := CreateFallbackErrorResponse(nil, "Failed to read request body")
		t.sendJSONResponse(w, respErr, http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.logger.WarnContext(ctx, "Failed to parse JSON-RPC request",
			slog.String("error", err.Error()),
		)
		// JSON-RPC parse errors still return HTTP 200
		t.sendJSONResponse(w, NewParseError(), http.StatusOK)
		return
	}

	startTime := time.Now()
	resp := t.handler(ctx, &req)
	duration := time.Since(startTime)

	if resp.Error != nil {
		t.logger.WarnContext(ctx, "JSON-RPC request completed with error",
			slog.String("method", req.Method),
			slog.Any("id", req.ID),
			slog.Duration("duration", duration),
			slog.String("error", resp.Error.Message),
		)
	} else {
		t.logger.InfoContext(ctx, "JSON-RPC request completed",
			slog.String("method", req.Method),
			slog.Any("id", req.ID),
			slog.Duration("duration", duration),
		)
	}

	t.sendJSONResponse(w, resp, statusCodeFor(resp))
}

// statusCodeFor picks the HTTP status for a completed JSON-RPC response.
// Application-level errors stay HTTP 200; only transport-level failures
// surface as HTTP errors.
func statusCodeFor(resp *JSONRPCResponse) int {
	if resp.Error == nil {
		return http.StatusOK
	}
	dataMap, ok := resp.Error.Data.(map[string]interface{})
	if !ok {
		return http.StatusOK
	}
	errorCode, ok := dataMap["error_code"].(string)
	if !ok {
		return http.StatusOK
	}
	return ToHTTPStatusCode(&errors.AppError{Code: errors.ErrorCode(errorCode)})
}

// handleHealth handles health check requests
func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"transport": "http",
		"timestamp": time.Now().Unix(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// corsMiddleware adds CORS headers to responses
func (t *HTTPTransport) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (t *HTTPTransport) sendJSONResponse(w http.ResponseWriter, resp *JSONRPCResponse, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.logger.Error("Failed to encode response",
			slog.String("error", err.Error()),
		)
	}
}
