// internal/form/definition_test.go
//
// Unit-tests for the YAML loader and the HTML renderer.
//
// Run: go test ./internal/form -v

package form

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signupYAML = `
id: test/signup
title: Sign up
submit: Register
fields:
  - name: name
    placeholder: name
    rules:
      - { rule: required, message: name is a must }
  - name: email
    type: email
    placeholder: e-mail
    rules:
      - { rule: required, message: e-mail is a must }
      - { rule: email, message: enter a valid e-mail }
  - name: password
    type: password
    placeholder: password
    rules:
      - { rule: minlength, value: 6, message: password must be at least 6 chars long }
`

func TestParseFormDef_SchemaMatchesRules(t *testing.T) {
	fd, err := ParseFormDef([]byte(signupYAML), "signup.yaml")
	require.NoError(t, err)

	assert.Equal(t, "text", fd.Fields[0].Type, "type defaults to text")
	s := fd.Schema()
	assert.Equal(t, []string{"name", "email", "password"}, s.FieldNames())

	vs := violationsOf(t, Validate(Payload{"name": "Jo", "email": "jo@x.com", "password": "123"}, s))
	assert.Equal(t, []Violation{{Field: "password", Message: "password must be at least 6 chars long"}}, vs)
}

func TestParseFormDef_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing id":     "fields: [{name: a}]",
		"no fields":      "id: x",
		"duplicate name": "id: x\nfields: [{name: a}, {name: a}]",
		"bad type":       "id: x\nfields: [{name: a, type: range}]",
		"unknown rule":   "id: x\nfields: [{name: a, rules: [{rule: regex, message: m}]}]",
		"no message":     "id: x\nfields: [{name: a, rules: [{rule: required}]}]",
		"zero minlength": "id: x\nfields: [{name: a, rules: [{rule: minlength, message: m}]}]",
		"bad yaml":       "id: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFormDef([]byte(doc), name)
			assert.Error(t, err)
		})
	}
}

func TestRegisterFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/signup.yaml": {Data: []byte(signupYAML)},
		"forms/readme.txt":  {Data: []byte("ignored")},
	}
	defs, err := RegisterFS(fsys, "forms")
	require.NoError(t, err)
	require.Len(t, defs, 1)

	fd, ok := GetFormDef("test/signup")
	require.True(t, ok)
	assert.Equal(t, "Register", fd.Submit)

	_, err = RegisterFS(fsys, "missing")
	assert.Error(t, err)
}

func TestRenderForm(t *testing.T) {
	fd, err := ParseFormDef([]byte(signupYAML), "signup.yaml")
	require.NoError(t, err)

	out, err := RenderForm(fd, RenderOptions{
		CSRFToken: "tok",
		Prefill:   map[string]string{"name": `<Jo>`, "password": "secret"},
		Errors:    FieldErrors{"password": "password must be at least 6 chars long"},
	})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `value="&lt;Jo&gt;"`)
	assert.NotContains(t, html, "secret", "passwords are never prefilled")
	assert.Contains(t, html, `<input type="hidden" name="csrf_token" value="tok">`)
	assert.Contains(t, html, `<span id="err-password" class="error" aria-live="polite">password must be at least 6 chars long</span>`)
	assert.Contains(t, html, `<span id="err-email" class="error" aria-live="polite"></span>`)
	assert.Contains(t, html, `<button type="submit">Register</button>`)
	assert.Equal(t, 1, strings.Count(html, "aria-invalid"))
}
