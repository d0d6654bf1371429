// internal/form/validate_test.go
//
// Unit-tests for Validate and ToFieldErrors.
//
// Run: go test ./internal/form -v

package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signInSchema() Schema {
	return NewSchema(
		Field{Name: "email", Constraints: []Constraint{
			Required("e-mail is a must"),
			Email("enter a valid e-mail"),
		}},
		Field{Name: "password", Constraints: []Constraint{
			Required("password is a must"),
		}},
	)
}

func signUpSchema() Schema {
	return NewSchema(
		Field{Name: "name", Constraints: []Constraint{Required("name is a must")}},
		Field{Name: "email", Constraints: []Constraint{
			Required("e-mail is a must"),
			Email("enter a valid e-mail"),
		}},
		Field{Name: "password", Constraints: []Constraint{
			MinLength(6, "password must be at least 6 chars long"),
		}},
	)
}

func violationsOf(t *testing.T, err error) []Violation {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Violations
}

func TestValidate_RequiredFieldsEmpty(t *testing.T) {
	for _, p := range []Payload{
		{"email": "", "password": ""},
		{},
		{"email": "   ", "password": "\t"},
	} {
		vs := violationsOf(t, Validate(p, signInSchema()))
		fields := map[string]bool{}
		for _, v := range vs {
			fields[v.Field] = true
		}
		assert.True(t, fields["email"], "payload %v", p)
		assert.True(t, fields["password"], "payload %v", p)
	}
}

func TestValidate_EmailShape(t *testing.T) {
	vs := violationsOf(t, Validate(Payload{"email": "not-an-email", "password": "x"}, signInSchema()))
	assert.Equal(t, []Violation{{Field: "email", Message: "enter a valid e-mail"}}, vs)

	assert.NoError(t, Validate(Payload{"email": "user@example.com", "password": "x"}, signInSchema()))
}

func TestValidate_EmptyEmailReportsRequiredOnly(t *testing.T) {
	vs := violationsOf(t, Validate(Payload{"email": "", "password": "x"}, signInSchema()))
	assert.Equal(t, []Violation{{Field: "email", Message: "e-mail is a must"}}, vs)
}

func TestValidate_PasswordMinLengthBoundary(t *testing.T) {
	base := Payload{"name": "Jo", "email": "jo@x.com"}

	short := Payload{"name": base["name"], "email": base["email"], "password": "12345"}
	vs := violationsOf(t, Validate(short, signUpSchema()))
	require.Len(t, vs, 1)
	assert.Equal(t, "password", vs[0].Field)

	exact := Payload{"name": base["name"], "email": base["email"], "password": "123456"}
	assert.NoError(t, Validate(exact, signUpSchema()))

	// Runes, not bytes.
	runes := Payload{"name": base["name"], "email": base["email"], "password": "ççççç"}
	assert.Error(t, Validate(runes, signUpSchema()))
}

func TestValidate_CollectsAcrossFieldsInOrder(t *testing.T) {
	vs := violationsOf(t, Validate(Payload{}, signUpSchema()))
	assert.Equal(t, []Violation{
		{Field: "name", Message: "name is a must"},
		{Field: "email", Message: "e-mail is a must"},
		{Field: "password", Message: "password must be at least 6 chars long"},
	}, vs)
}

func TestValidate_ExtraKeysIgnored(t *testing.T) {
	p := Payload{"email": "a@b.com", "password": "secret", "remember": "on"}
	assert.NoError(t, Validate(p, signInSchema()))
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(Payload{}, signInSchema())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.True(t, strings.HasPrefix(err.Error(), "form validation failed: email: e-mail is a must"))
}

func TestToFieldErrors_FirstWins(t *testing.T) {
	vs := []Violation{
		{Field: "email", Message: "first"},
		{Field: "password", Message: "pw"},
		{Field: "email", Message: "second"},
	}
	got := ToFieldErrors(vs)
	assert.Equal(t, FieldErrors{"email": "first", "password": "pw"}, got)

	// Idempotent.
	assert.Equal(t, got, ToFieldErrors(vs))
}

func TestToFieldErrors_Empty(t *testing.T) {
	got := ToFieldErrors(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPayloadFrom(t *testing.T) {
	posted := map[string]string{"email": "a@b.com", "csrf_token": "x"}
	p := PayloadFrom(func(k string) string { return posted[k] }, signInSchema())
	assert.Equal(t, Payload{"email": "a@b.com", "password": ""}, p)
}
