// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses may carry any JSON shape (a student, a list, an id).
// Error responses always look like:
//
//	{ "status": "error", "error": "student not found" }
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aanand-mishra/student-records/internal/storage"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes data JSON-encoded with the given HTTP status code.
// Header() → WriteHeader() → body, in that order: headers are locked once
// the status line is written.
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

// StorageStatus picks the HTTP status for an error returned by storage.
//
//	ErrNotFound       → 404
//	*ConnectionError  → 503
//	anything else     → 500
func StorageStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case storage.IsConnection(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// StorageError writes err with the status StorageStatus picks for it.
func StorageError(w http.ResponseWriter, err error) {
	WriteJSON(w, StorageStatus(err), GeneralError(err))
}
