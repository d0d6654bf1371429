// internal/form/schema.go
//
// GoBarber – Forms subsystem: field schema.
//
// Context
//   A Schema describes the expected shape of one submission.  Each Field owns
//   an ordered list of Constraints.  Only three kinds exist: required, minimum
//   length, and e-mail shape.  Schemas are values; once built they are never
//   mutated, so a single Schema may back any number of concurrent attempts.
//
// Notes
//   •  Required treats whitespace-only input as empty.
//   •  Email skips empty input so a blank field reports only "required".
//   •  MinLength counts runes and does NOT skip empty input.
//
//------------------------------------------------------------------------------

package form

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Payload maps field name to raw submitted value.
type Payload map[string]string

// Get returns the value for name, or "" when the key is absent.
func (p Payload) Get(name string) string { return p[name] }

// Constraint checks one rule against a raw value.  ok is false when the rule
// fails; Message is reported in that case.
type Constraint interface {
	Check(value string) (ok bool)
	Message() string
}

// Field is a named input plus its constraints, evaluated in order.
type Field struct {
	Name        string
	Constraints []Constraint
}

// Schema is the ordered list of fields for one form.
type Schema struct {
	Fields []Field
}

// NewSchema copies fields so later changes by the caller do not leak in.
func NewSchema(fields ...Field) Schema {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{Name: f.Name, Constraints: append([]Constraint(nil), f.Constraints...)}
	}
	return Schema{Fields: out}
}

// FieldNames returns field names in schema order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// -----------------------------------------------------------------------------
// Constraints
// -----------------------------------------------------------------------------

type required struct{ msg string }

// Required fails on empty or whitespace-only input.
func Required(msg string) Constraint { return required{msg: msg} }

func (c required) Check(v string) bool { return strings.TrimSpace(v) != "" }
func (c required) Message() string     { return c.msg }

type minLength struct {
	n   int
	msg string
}

// MinLength fails when v has fewer than n characters.
func MinLength(n int, msg string) Constraint { return minLength{n: n, msg: msg} }

func (c minLength) Check(v string) bool { return utf8.RuneCountInString(v) >= c.n }
func (c minLength) Message() string     { return c.msg }

type email struct{ msg string }

// Email fails when a non-empty v is not shaped like an e-mail address.
func Email(msg string) Constraint { return email{msg: msg} }

// shape is shared; validator.Validate is safe for concurrent use.
var shape = validator.New()

func (c email) Check(v string) bool {
	if v == "" {
		return true
	}
	return shape.Var(v, "email") == nil
}
func (c email) Message() string { return c.msg }
