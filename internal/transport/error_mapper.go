package transport

import (
	"fmt"
	"net/http"

	"github.com/JamesPrial/relation-graph-core/pkg/errors"
)

// ToJSONRPCError maps internal AppError codes to JSON-RPC error codes
func ToJSONRPCError(err error) *JSONRPCError {
	if err == nil {
		return nil
	}

	code := errors.GetCode(err)
	message := errors.GetMessage(err)

	var jsonRPCCode int
	switch code {
	// Transport layer errors
	case errors.ErrCodeTransportMethodNotFound:
		jsonRPCCode = MethodNotFound
	case errors.ErrCodeTransportInvalidParams:
		jsonRPCCode = InvalidParams
	case errors.ErrCodeTransportInvalidJSON, errors.ErrCodeTransportMarshal, errors.ErrCodeTransportUnmarshal:
		jsonRPCCode = ParseError

	// Validation errors - map to Invalid params
	case errors.ErrCodeValidationRequired, errors.ErrCodeValidationInvalid, errors.ErrCodeValidationType:
		jsonRPCCode = InvalidParams

	// System errors - map to Internal error
	case errors.ErrCodeInternal, errors.ErrCodeContextCanceled,
		errors.ErrCodeResourceExhausted, errors.ErrCodeConfiguration:
		jsonRPCCode = InternalError

	// Application errors - custom range -32000 to -32099
	case errors.ErrCodeQueryFiltersMissing, errors.ErrCodeQueryInvalid:
		jsonRPCCode = -32001 // Application: Bad Query
	case errors.ErrCodeStorageNotFound:
		jsonRPCCode = -32002 // Application: Not Found
	case errors.ErrCodeStorageConstraint:
		jsonRPCCode = -32003 // Application: Conflict
	case errors.ErrCodeStorageTimeout, errors.ErrCodeStorageConnection,
		errors.ErrCodeStorageTransaction, errors.ErrCodeStorageInitialization:
		jsonRPCCode = InternalError
	default:
		jsonRPCCode = -32000 // Generic custom error
	}

	return &JSONRPCError{
		Code:    jsonRPCCode,
		Message: message,
		Data:    map[string]interface{}{"error_code": string(code)},
	}
}

// ToJSONRPCResponse creates a complete JSONRPCResponse for an error
func ToJSONRPCResponse(id interface{}, err error) *JSONRPCResponse {
	if err == nil {
		return &JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      id,
			Result:  map[string]interface{}{"success": true},
		}
	}

	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   ToJSONRPCError(err),
	}
}

// ToHTTPStatusCode maps error codes to appropriate HTTP status codes.
// Transport-level errors (parsing, malformed requests) return HTTP error
// codes; application-level errors return HTTP 200 with the JSON-RPC error
// in the body.
func ToHTTPStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	code := errors.GetCode(err)

	switch code {
	case errors.ErrCodeTransportInvalidJSON, errors.ErrCodeTransportMarshal, errors.ErrCodeTransportUnmarshal:
		return http.StatusBadRequest
	case errors.ErrCodeResourceExhausted:
		return http.StatusTooManyRequests
	case errors.ErrCodeConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

// CreateFallbackErrorResponse creates a safe fallback error response for critical failures
func CreateFallbackErrorResponse(id interface{}, message string) *JSONRPCResponse {
	if message == "" {
		message = "An unexpected error occurred"
	}

	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    InternalError,
			Message: message,
			Data:    map[string]interface{}{"error_code": "FALLBACK_ERROR"},
		},
	}
}

// LoggableError returns the full error details for logging, including the
// internal error the client never sees
func LoggableError(err error) error {
	if err == nil {
		return nil
	}

	internal := errors.GetInternal(err)
	if internal != nil {
		return fmt.Errorf("error_code=%s message=%s internal=%v",
			errors.GetCode(err), errors.GetMessage(err), internal)
	}

	return fmt.Errorf("error_code=%s message=%s",
		errors.GetCode(err), errors.GetMessage(err))
}
