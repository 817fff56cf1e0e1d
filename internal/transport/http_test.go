package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JamesPrial/relation-graph-core/pkg/config"
	"github.com/JamesPrial/relation-graph-core/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport() *HTTPTransport {
	cfg := &config.Settings{
		HTTPPort: 8080,
		HTTP: config.HTTPSettings{
			Host:         "localhost",
			ReadTimeout:  30,
			WriteTimeout: 30,
			EnableCORS:   true,
		},
	}

	tr := NewHTTPTransport(cfg)
	tr.handler = func(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
		if req.Method == "test/echo" {
			return NewResult(req.ID, map[string]interface{}{"echo": req.Params})
		}
		return NewMethodNotFoundError(req.ID, req.Method)
	}
	return tr
}

func postRPC(t *testing.T, tr *HTTPTransport, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	tr.handleRPC(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) JSONRPCResponse {
	t.Helper()
	var resp JSONRPCResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestHandleRPC_ValidRequest(t *testing.T) {
	tr := newTestTransport()

	body, err := json.Marshal(&JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "test/echo",
		Params:  map[string]interface{}{"message": "hello"},
	})
	require.NoError(t, err)

	rr := postRPC(t, tr, body)
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := decodeResponse(t, rr)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Result)
}

func TestHandleRPC_InvalidJSON(t *testing.T) {
	tr := newTestTransport()

	rr := postRPC(t, tr, []byte("not json"))

	// Parse errors still respond with HTTP 200 and a JSON-RPC error body
	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeResponse(t, rr)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ParseError, resp.Error.Code)
}

func TestHandleRPC_MethodNotFound(t *testing.T) {
	tr := newTestTransport()

	body, err := json.Marshal(&JSONRPCRequest{JSONRPC: "2.0", ID: 1, Method: "nope"})
	require.NoError(t, err)

	rr := postRPC(t, tr, body)
	resp := decodeResponse(t, rr)
	require.NotNil(t, resp.Error)
	assert.Equal(t, MethodNotFound, resp.Error.Code)
}

func TestHandleRPC_RejectsGet(t *testing.T) {
	tr := newTestTransport()

	req := httptest.NewRequest(http.MethodGet, "/rpc", nil)
	rr := httptest.NewRecorder()
	tr.handleRPC(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleRPC_RejectsWrongContentType(t *testing.T) {
	tr := newTestTransport()

	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "text/plain")

	rr := httptest.NewRecorder()
	tr.handleRPC(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleHealth(t *testing.T) {
	tr := newTestTransport()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	tr.handleHealth(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
}

func TestCORSMiddleware(t *testing.T) {
	tr := newTestTransport()

	handler := tr.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Preflight short-circuits
	req := httptest.NewRequest(http.MethodOptions, "/rpc", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusCodeFor(t *testing.T) {
	ok := NewResult(1, "fine")
	assert.Equal(t, http.StatusOK, statusCodeFor(ok))

	// Application-level errors keep HTTP 200; the JSON-RPC body carries
	// the error
	appErr := ToJSONRPCResponse(1, errors.ValidationRequired("entity"))
	assert.Equal(t, http.StatusOK, statusCodeFor(appErr))

	sysErr := ToJSONRPCResponse(1, errors.New(errors.ErrCodeConfiguration, "bad config"))
	assert.Equal(t, http.StatusInternalServerError, statusCodeFor(sysErr))
}
