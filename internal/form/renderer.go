// internal/form/renderer.go
//
// GoBarber – Forms subsystem: HTML renderer.
//
// Context
//   Converts a FormDef into plain, accessible HTML.  Each field is wrapped in
//   <div class="form-field"> and followed by an error span that holds the
//   field's current message, if any.  The caller supplies the CSRF token so
//   the same value can key duplicate-submit coalescing.  The result is
//   template.HTML so the surrounding layout does not double-escape it.
//
// Notes
//   •  Password fields are never prefilled.
//   •  No HTML5 constraint attributes are emitted.  Server-side validation is
//      the single source of truth, and the browser must not pre-empt it.
//   •  Each input gets id="fld-{name}" and a data-invalid hook when in error.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
)

// RenderOptions bundles per-render state.
type RenderOptions struct {
	Action    string            // form action URL; "" posts back to the page
	CSRFToken string            // hidden csrf_token value
	Prefill   map[string]string // previously entered values
	Errors    FieldErrors       // one message per field, may be nil
}

// RenderForm returns the markup for fd.
func RenderForm(fd *FormDef, opts RenderOptions) (template.HTML, error) {
	if fd == nil {
		return "", fmt.Errorf("RenderForm: nil form definition")
	}

	var buf bytes.Buffer
	buf.WriteString(`<form class="gobarber-form" method="post" novalidate`)
	if opts.Action != "" {
		buf.WriteString(` action="` + html.EscapeString(opts.Action) + `"`)
	}
	buf.WriteString(`>` + "\n")
	if fd.Title != "" {
		buf.WriteString(`<h1>` + html.EscapeString(fd.Title) + `</h1>` + "\n")
	}

	for i := range fd.Fields {
		if err := writeField(&buf, &fd.Fields[i], opts); err != nil {
			return "", err
		}
	}

	buf.WriteString(`<input type="hidden" name="csrf_token" value="` + html.EscapeString(opts.CSRFToken) + `">` + "\n")

	label := fd.Submit
	if label == "" {
		label = "Submit"
	}
	buf.WriteString(`<button type="submit">` + html.EscapeString(label) + `</button>` + "\n")
	buf.WriteString(`</form>`)
	return template.HTML(buf.String()), nil
}

// writeField emits one input with its error span.
func writeField(buf *bytes.Buffer, f *FieldDef, opts RenderOptions) error {
	switch f.Type {
	case "text", "email", "password":
	default:
		return fmt.Errorf("writeField: unsupported field type %q in form field %s", f.Type, f.Name)
	}

	name := html.EscapeString(f.Name)
	msg := opts.Errors[f.Name]

	buf.WriteString(`<div class="form-field">` + "\n")
	if f.Label != "" {
		buf.WriteString(`<label for="fld-` + name + `">` + html.EscapeString(f.Label) + `</label>` + "\n")
	}

	buf.WriteString(`<input id="fld-` + name + `" name="` + name + `" type="` + f.Type + `"`)
	if f.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if f.Label == "" && f.Placeholder != "" {
		buf.WriteString(` aria-label="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if val := opts.Prefill[f.Name]; val != "" && f.Type != "password" {
		buf.WriteString(` value="` + html.EscapeString(val) + `"`)
	}
	if msg != "" {
		buf.WriteString(` data-invalid aria-invalid="true" aria-describedby="err-` + name + `"`)
	}
	buf.WriteString(`>` + "\n")

	buf.WriteString(`<span id="err-` + name + `" class="error" aria-live="polite">` + html.EscapeString(msg) + `</span>` + "\n")
	buf.WriteString(`</div>` + "\n")
	return nil
}
