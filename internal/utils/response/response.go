// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here, together with
// the one place that decides which error kind maps to which status code.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/validation"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the envelope every endpoint returns.
//
// Success:
//
//	{ "status": "ok", "message": "Students retrieved successfully",
//	  "data": [ ... ], "count": 2 }
//
// Error:
//
//	{ "status": "error", "error": "Validation failed",
//	  "details": ["field email must be a valid email address"] }
//
// Keys that do not apply are omitted.
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status             string   `json:"status"` // "ok" or "error"
	Message            string   `json:"message,omitempty"`
	Data               any      `json:"data,omitempty"`
	Count              *int     `json:"count,omitempty"`
	EnrollmentsRemoved *int     `json:"enrollmentsRemoved,omitempty"`
	Error              string   `json:"error,omitempty"`
	Details            []string `json:"details,omitempty"`
}

// Status string constants: use these instead of raw string literals so
// a typo is caught by the compiler rather than silently sending "eroor".
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK wraps a single record.
func OK(message string, data any) Response {
	return Response{Status: StatusOK, Message: message, Data: data}
}

// List wraps a collection and reports its length. items must be a
// non-nil slice so it encodes as [] rather than null.
func List[T any](message string, items []T) Response {
	n := len(items)
	return Response{Status: StatusOK, Message: message, Data: items, Count: &n}
}

// Deleted wraps a removed record with the number of enrollments that were
// cascaded away with it.
func Deleted(message string, data any, enrollmentsRemoved int) Response {
	return Response{Status: StatusOK, Message: message, Data: data, EnrollmentsRemoved: &enrollmentsRemoved}
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError turns the validator's per-field sentences into a 400 body.
func ValidationError(err *validation.Error) Response {
	return Response{
		Status:  StatusError,
		Error:   "Validation failed",
		Details: err.Details,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// FromError maps an error from the core to an HTTP status and body:
//
//	*validation.Error  → 400 Bad Request
//	storage.ErrNotFound → 404 Not Found
//	storage.ErrConflict → 409 Conflict
//	anything else       → 500 Internal Server Error
// ─────────────────────────────────────────────────────────────────────────────
func FromError(err error) (int, Response) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ValidationError(verr)
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, GeneralError(err)
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, GeneralError(err)
	default:
		return http.StatusInternalServerError, GeneralError(err)
	}
}

// WriteError is FromError followed by WriteJSON.
func WriteError(w http.ResponseWriter, err error) {
	status, body := FromError(err)
	WriteJSON(w, status, body)
}
