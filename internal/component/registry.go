// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web mounts every
// component's Routes() at “/” after calling Init() with the shared Env, and
// `web migrate` applies every component's Migrations().

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/gobarber/internal/api"
	"github.com/yanizio/gobarber/internal/config"
	"github.com/yanizio/gobarber/internal/form"
	"github.com/yanizio/gobarber/internal/token"
)

// Env exposes process-wide resources to Components during Init.  Fields may
// be nil in tests that do not need them.
type Env struct {
	Config *config.Config
	DB     *sqlx.DB
	Tokens *token.Issuer
	API    *api.Client
	CSRF   *form.CSRF
}

// Component contract.
//
// Migrations() may return nil if the component has no schema.  Routes()
// should mount BOTH page and API endpoints, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/", c.signInGET)
//	r.Route("/api", func(api chi.Router) { ... })
//	return r
type Component interface {
	Name() string
	Init(Env) error
	Routes() chi.Router
	Migrations() []string
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name, so mount and
// migration order is stable.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
