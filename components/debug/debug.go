// components/debug/debug.go
//
// Diagnostics component that echoes what the middleware chain learned about
// the current request: client IP, parsed user-agent, geo, and the signed-in
// user.  Only mounted when log.level is debug.
package debug

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yanizio/gobarber/internal/api"
	authctx "github.com/yanizio/gobarber/internal/auth"
	"github.com/yanizio/gobarber/internal/component"
	"github.com/yanizio/gobarber/internal/requestinfo"
)

// Path is the exact route served when enabled.
const Path = "/debug/request"

var _ component.Component = (*Component)(nil)

// Component serves Path.
type Component struct {
	enabled bool
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "debug" }

// Migrations returns nil.
func (c *Component) Migrations() []string { return nil }

// Init enables the endpoint for debug-level deployments.
func (c *Component) Init(env component.Env) error {
	c.enabled = env.Config != nil && env.Config.Log.Level == "debug"
	return nil
}

// Routes returns an empty router unless enabled.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	if c.enabled {
		r.Get(Path, handler)
	}
	return r
}

type user struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type report struct {
	RequestID string            `json:"request_id,omitempty"`
	Route     string            `json:"route"`
	Query     string            `json:"query,omitempty"`
	UA        string            `json:"ua"`
	Info      *requestinfo.Info `json:"info"`
	User      *user             `json:"user,omitempty"`
}

// handler writes a JSON blob with selected context fields.
func handler(w http.ResponseWriter, r *http.Request) {
	out := report{
		RequestID: chimw.GetReqID(r.Context()),
		Route:     r.URL.Path,
		Query:     r.URL.RawQuery,
		UA:        r.UserAgent(),
		Info:      requestinfo.FromContext(r.Context()),
	}
	if u, ok := authctx.UserFrom(r.Context()); ok {
		out.User = &user{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	api.WriteJSON(w, http.StatusOK, out)
}

// Register component at program start.
func init() { component.Register(&Component{}) }
