package handlers

import (
	"encoding/json"
	"net/http"
)

const contentTypeJSON = "application/json"

// APIError is the body of every non-2xx catalog response. Error is a stable
// machine-readable code such as "not_found" or "invalid_element_id".
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorResponse writes an APIError with the given status.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	return WriteJSON(w, statusCode, APIError{Error: errorCode, Message: message})
}

// WriteJSON encodes data as the response body. The returned error is the
// encoding error; the status line has already been sent by then.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// NoContent answers a successful delete.
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusNoContent)
}
