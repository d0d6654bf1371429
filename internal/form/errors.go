// internal/form/errors.go
//
// GoBarber – Forms subsystem: violations and the field-error mapper.
//
// Context
//   A Violation is one failed constraint.  ValidationError carries the ordered
//   list and satisfies error so callers can tell user input problems apart
//   from system failures with errors.As.  ToFieldErrors folds the list into
//   one display message per field.  The FIRST message for a field wins; later
//   ones are dropped, which keeps the result independent of how many rules a
//   field breaks.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"strings"
)

// Violation is a single constraint failure on one field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError wraps the violations of a failed Validate.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "form validation failed: " + strings.Join(parts, ", ")
}

// IsValidationError reports whether err came from a failed Validate.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// FieldErrors maps field name to one display message.
type FieldErrors map[string]string

// ToFieldErrors keeps the first message per field.  Empty input yields an
// empty, non-nil map.
func ToFieldErrors(vs []Violation) FieldErrors {
	out := make(FieldErrors, len(vs))
	for _, v := range vs {
		if _, seen := out[v.Field]; seen {
			continue
		}
		out[v.Field] = v.Message
	}
	return out
}
