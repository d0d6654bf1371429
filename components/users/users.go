// components/users/users.go
//
// GoBarber users API component.
//
// Context
//   This is the backend the sign-in and sign-up screens talk to through
//   internal/api.  It exposes two JSON endpoints:
//
//      POST /api/users     create an account            → 201 {id,name,email}
//      POST /api/sessions  exchange credentials for JWT → 200 {token,user}
//
//   Errors use the envelope in internal/api/errors.go.
//
// Workflow
//   •  Request bodies are validated with go-playground/validator tags.
//   •  Names are stripped of markup with bluemonday's strict policy.
//   •  E-mails are trimmed and lower-cased before storage and lookup.
//   •  Passwords are hashed with bcrypt; bcrypt ignores bytes past 72, so
//      longer passwords are rejected up front.
//
//------------------------------------------------------------------------------

package users

import (
	"errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/yanizio/gobarber/internal/component"
	store "github.com/yanizio/gobarber/internal/users"
	"github.com/yanizio/gobarber/internal/token"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves the users API.
type Component struct {
	users    *store.Store
	tokens   *token.Issuer
	validate *validator.Validate
	strip    *bluemonday.Policy
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "users" }

// Migrations returns the users table schema.
func (c *Component) Migrations() []string { return store.Schema }

// Init wires the store and token issuer.
func (c *Component) Init(env component.Env) error {
	if env.DB == nil || env.Tokens == nil {
		return errors.New("users component: DB and Tokens are required")
	}
	c.users = store.NewStore(env.DB)
	c.tokens = env.Tokens
	c.validate = newValidator()
	c.strip = bluemonday.StrictPolicy()
	return nil
}

// Routes builds and returns the router mounted at “/”.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		api.Post("/users", c.handleCreateUser)
		api.Post("/sessions", c.handleCreateSession)
	})
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }
