// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler sends JSON back to the client. Rather than repeating the
// same three lines (set header, set status, encode JSON) in every handler,
// they are centralised here. The terminal client decodes the same envelope
// when a request fails.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aanand-mishra/students-roster/internal/validation"
)

// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a student, a list...).
// Error responses always look like:
//
//	{ "status": "error", "error": "name is required" }
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Status string constants.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() -> WriteHeader() -> body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// Message builds an error Response from a plain message.
func Message(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

// ValidationError converts field errors into a single human-readable
// Response, e.g.
//
//	{ "status": "error", "error": "name is required, email must be a valid email address" }
func ValidationError(errs []validation.FieldError) Response {
	return Response{
		Status: StatusError,
		Error:  validation.Messages(errs),
	}
}
