// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Two error shapes exist side by side:
//
//   - Roster outcomes the API contract reports in the payload, such as
//     {"error": "Student not found"} or {"message": "No match found"}.
//     Build those with Error and Message.
//
//   - Request or server failures (bad JSON, missing fields, storage
//     failures), reported as Response: {"status": "error", "error": "..."}.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the envelope returned for request and server failures.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Error builds a {"error": msg} payload.
func Error(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// Message builds a {"message": msg} payload.
func Message(msg string) map[string]string {
	return map[string]string{"message": msg}
}

// GeneralError wraps any Go error into the standard Response shape.
//
//	response.WriteJSON(w, http.StatusInternalServerError,
//	    response.GeneralError(err))
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError converts validator.FieldError values into a single
// human-readable Response, e.g.
//
//	{ "status": "error", "error": "field name is required" }
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}
