// internal/form/definition.go
//
// GoBarber – Forms subsystem: YAML definition loader.
//
// Context
//   Each form is declared in a YAML file next to the component that serves
//   it (components/<comp>/forms/*.yaml).  The file names the form, lists its
//   fields in display order, and attaches an ordered rule list to each field.
//   Definitions are parsed once at start-up, checked for structural mistakes,
//   and kept in an in-memory registry keyed by ID.  Handlers build their
//   Schema from the registered definition, so the messages users see live in
//   one place.
//
// Workflow
//   •  Structs mirror the YAML: FormDef → FieldDef → RuleDef.
//   •  ParseFormDef decodes one document and validates it.
//   •  RegisterFS loads every "*.yaml" in a directory of an fs.FS.
//   •  GetFormDef offers read-only access by ID.
//   •  FormDef.Schema converts the rules into Constraints.
//
// Example
//
//	id: auth/signin
//	title: Please, login
//	submit: Enter
//	fields:
//	  - name: email
//	    type: email
//	    placeholder: e-mail
//	    rules:
//	      - { rule: required, message: e-mail is a must }
//	      - { rule: email, message: enter a valid e-mail }
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef is one form definition.
type FormDef struct {
	ID     string     `yaml:"id"`     // Component-scoped identifier, e.g. "auth/signup".
	Title  string     `yaml:"title"`  // Heading shown above the fields.
	Submit string     `yaml:"submit"` // Submit button label.
	Fields []FieldDef `yaml:"fields"` // Display order is validation order.
}

// FieldDef describes one input.
type FieldDef struct {
	Name        string    `yaml:"name"`
	Label       string    `yaml:"label"` // optional; falls back to Placeholder for aria-label
	Type        string    `yaml:"type"` // text, email, password
	Placeholder string    `yaml:"placeholder"`
	Rules       []RuleDef `yaml:"rules"`
}

// RuleDef is one constraint.  Value is only read by minlength.
type RuleDef struct {
	Rule    string `yaml:"rule"` // required, minlength, email
	Value   int    `yaml:"value"`
	Message string `yaml:"message"`
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*FormDef)
)

// GetFormDef returns a registered definition.  ok is false for unknown IDs.
func GetFormDef(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// Register adds or replaces fd.  fd must already be valid.
func Register(fd *FormDef) {
	registryMu.Lock()
	registry[fd.ID] = fd
	registryMu.Unlock()
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// ParseFormDef decodes and validates one YAML document.  source is used in
// error messages only.
func ParseFormDef(raw []byte, source string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse form %s: %w", source, err)
	}
	if err := validateFormDef(&fd, source); err != nil {
		return nil, err
	}
	return &fd, nil
}

// RegisterFS parses and registers every "*.yaml" directly under dir.  It
// fails on the first bad file so mistakes surface at start-up.
func RegisterFS(fsys fs.FS, dir string) ([]*FormDef, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("register forms: no definitions under %q", dir)
	}

	out := make([]*FormDef, 0, len(matches))
	for _, p := range matches {
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read form %s: %w", p, err)
		}
		fd, err := ParseFormDef(raw, p)
		if err != nil {
			return nil, err
		}
		Register(fd)
		out = append(out, fd)
	}
	return out, nil
}

// Schema converts the definition into an immutable Schema.
func (fd *FormDef) Schema() Schema {
	fields := make([]Field, 0, len(fd.Fields))
	for _, f := range fd.Fields {
		cs := make([]Constraint, 0, len(f.Rules))
		for _, r := range f.Rules {
			cs = append(cs, r.constraint())
		}
		fields = append(fields, Field{Name: f.Name, Constraints: cs})
	}
	return NewSchema(fields...)
}

func (r RuleDef) constraint() Constraint {
	switch r.Rule {
	case "required":
		return Required(r.Message)
	case "minlength":
		return MinLength(r.Value, r.Message)
	default: // "email"; validateFormDef rejects anything else.
		return Email(r.Message)
	}
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

var errNoFields = errors.New("must declare at least one field")

func validateFormDef(fd *FormDef, source string) error {
	if fd.ID == "" {
		return fmt.Errorf("form %s: missing required 'id'", source)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form %s: %w", source, errNoFields)
	}

	seen := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("form %s: field %d missing 'name'", source, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", source, f.Name)
		}
		seen[f.Name] = struct{}{}

		switch f.Type {
		case "":
			f.Type = "text"
		case "text", "email", "password":
		default:
			return fmt.Errorf("form %s: field '%s' has unsupported type '%s'", source, f.Name, f.Type)
		}

		for _, r := range f.Rules {
			if r.Message == "" {
				return fmt.Errorf("form %s: field '%s' rule '%s' missing 'message'", source, f.Name, r.Rule)
			}
			switch r.Rule {
			case "required", "email":
			case "minlength":
				if r.Value <= 0 {
					return fmt.Errorf("form %s: field '%s' minlength must be positive", source, f.Name)
				}
			default:
				return fmt.Errorf("form %s: field '%s' unknown rule '%s'", source, f.Name, r.Rule)
			}
		}
	}
	return nil
}
