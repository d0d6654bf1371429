// components/auth/auth.go
//
// GoBarber authentication component – sign-in and sign-up screens.
//
// Context
//   Serves the two public screens plus the signed-in landing page:
//
//      GET  /          sign-in form          POST /        submit it
//      GET  /signup    sign-up form          POST /signup  submit it
//      GET  /dashboard greeting (signed in)  POST /logout  clear the session
//
//   Form definitions live in forms/*.yaml and page templates in
//   templates/*.html; both are embedded.  The screens never touch the
//   database.  They reach the users API through a Backend (internal/api).
//
//------------------------------------------------------------------------------

package auth

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/gobarber/internal/api"
	authctx "github.com/yanizio/gobarber/internal/auth"
	"github.com/yanizio/gobarber/internal/component"
	"github.com/yanizio/gobarber/internal/form"
	"github.com/yanizio/gobarber/internal/session"
	"github.com/yanizio/gobarber/internal/view"
)

//go:embed forms/*.yaml
var formsFS embed.FS

//go:embed templates/*.html
var templatesFS embed.FS

// Form IDs as declared in forms/*.yaml.
const (
	signInID = "auth/signin"
	signUpID = "auth/signup"
)

// Backend is the users API as seen by the screens.  *api.Client satisfies
// it.
type Backend interface {
	session.Authenticator
	RegisterUser(ctx context.Context, u api.NewUser) (api.User, error)
}

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the sign-in and sign-up flows.
type Component struct {
	backend    Backend
	csrf       *form.CSRF
	views      *view.Engine
	sessionTTL time.Duration
	timeout    time.Duration // upper bound for one submit attempt

	signIn *form.FormDef
	signUp *form.FormDef

	inflight form.Instances
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Migrations returns nil – auth owns no schema; users does.
func (c *Component) Migrations() []string { return nil }

// Init loads forms and templates and wires the backend.
func (c *Component) Init(env component.Env) error {
	if env.API == nil || env.CSRF == nil || env.Tokens == nil {
		return errors.New("auth component: API, CSRF, and Tokens are required")
	}
	timeout := 30 * time.Second
	if env.Config != nil && env.Config.API.Timeout > 0 {
		timeout = env.Config.API.Timeout * time.Duration(env.Config.API.RetryMax+1)
	}
	return c.setup(env.API, env.CSRF, env.Tokens.TTL(), timeout)
}

func (c *Component) setup(b Backend, csrf *form.CSRF, ttl, timeout time.Duration) error {
	if _, err := form.RegisterFS(formsFS, "forms"); err != nil {
		return err
	}
	var ok bool
	if c.signIn, ok = form.GetFormDef(signInID); !ok {
		return errors.New("auth component: missing form " + signInID)
	}
	if c.signUp, ok = form.GetFormDef(signUpID); !ok {
		return errors.New("auth component: missing form " + signUpID)
	}

	views, err := view.New(templatesFS, "templates")
	if err != nil {
		return err
	}

	c.backend, c.csrf, c.views = b, csrf, views
	c.sessionTTL, c.timeout = ttl, timeout
	return nil
}

// Routes builds and returns the router mounted at “/”.  internal/auth's
// Middleware must run earlier in the chain.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(guest chi.Router) {
		guest.Use(authctx.RedirectSignedIn(session.DashboardRoute))
		guest.Get("/", c.handleSignInGET)
		guest.Post("/", c.handleSignInPOST)
		guest.Get("/signup", c.handleSignUpGET)
		guest.Post("/signup", c.handleSignUpPOST)
	})

	r.With(authctx.RequireUser("/")).Get(session.DashboardRoute, c.handleDashboard)
	r.Post("/logout", c.handleLogout)
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }
