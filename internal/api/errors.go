// internal/api/errors.go
//
// JSON error envelope shared by the users API and its client:
//
//	{"error":{"code":"duplicate_email","message":"…","details":[{"field":"email","message":"…"}]}}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes.
const (
	CodeBadRequest         = "bad_request"
	CodeValidation         = "validation_failed"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInternal           = "internal"
)

// Detail is one field-level problem.
type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a non-2xx answer from the API.
type Error struct {
	Status  int      `json:"-"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []Detail `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Envelope wraps an Error on the wire.
type Envelope struct {
	Error *Error `json:"error"`
}

// IsCode reports whether err is an *Error carrying code.
func IsCode(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}

// WriteError writes e as a JSON envelope.
func WriteError(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(Envelope{Error: e})
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeError(status int, body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		return &Error{Status: status, Code: CodeInternal, Message: http.StatusText(status)}
	}
	env.Error.Status = status
	return env.Error
}
