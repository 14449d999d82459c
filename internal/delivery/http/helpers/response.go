// Package helpers writes the JSON envelope shared by the REST routes next to /graphql.
package helpers

import (
	"encoding/json"
	"net/http"

	"conferenceplanner/internal/delivery/http/middleware"
)

// Error codes of the envelope.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnavailable   = "unavailable"
	ErrCodeInternalError = "internal_error"
)

// APIError is the error object of the envelope. RequestID matches the
// X-Request-ID response header so a report can be traced to its log line.
// swagger:model APIError
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// APIResponse is the envelope: exactly one of Data and Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess writes statusCode and an envelope carrying data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, APIResponse{Data: data})
}

// WriteJSONError writes statusCode and an envelope carrying the error code,
// message and the request id of r.
func WriteJSONError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	writeJSON(w, statusCode, APIResponse{Error: &APIError{
		Code:      code,
		Message:   message,
		RequestID: middleware.RequestID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, statusCode int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
