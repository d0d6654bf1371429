// internal/form/validate.go
//
// GoBarber – Forms subsystem: validation.
//
// Context
//   Validate runs a Schema against a Payload and collects EVERY violation
//   across every field and constraint.  It has no side effects and reports
//   failure through its error result, never by panicking.  Callers that need
//   per-field messages pass the violations to ToFieldErrors (errors.go).
//
//------------------------------------------------------------------------------

package form

// Validate returns nil when p satisfies s, or a *ValidationError holding the
// ordered violations otherwise.  Absent keys are checked as "".
func Validate(p Payload, s Schema) error {
	var vs []Violation
	for _, f := range s.Fields {
		val := p.Get(f.Name)
		for _, c := range f.Constraints {
			if !c.Check(val) {
				vs = append(vs, Violation{Field: f.Name, Message: c.Message()})
			}
		}
	}
	if len(vs) == 0 {
		return nil
	}
	return &ValidationError{Violations: vs}
}

// PayloadFrom picks the schema's fields out of posted values.  Extra keys are
// dropped; missing keys map to "".
func PayloadFrom(get func(string) string, s Schema) Payload {
	p := make(Payload, len(s.Fields))
	for _, f := range s.Fields {
		p[f.Name] = get(f.Name)
	}
	return p
}
