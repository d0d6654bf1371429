// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, so the binary never runs with
// partial, malformed, or missing configuration.
//
// Errors are flattened to one line per field using the koanf key names, so
// an operator sees `security.jwt_secret: min` rather than a Go struct path.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = func() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}()

//
// public API
//

// validateStruct returns nil or one error listing every failing field.
func validateStruct(c *Config) error {
	err := v.Struct(c)
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	parts := make([]string, 0, len(ves))
	for _, fe := range ves {
		// Namespace is "Config.security.jwt_secret"; drop the root.
		_, ns, _ := strings.Cut(fe.Namespace(), ".")
		parts = append(parts, fmt.Sprintf("%s: %s", ns, fe.Tag()))
	}
	return fmt.Errorf("config invalid: %s", strings.Join(parts, ", "))
}
