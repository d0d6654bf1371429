// cmd/web/app.go
//
// Process wiring shared by serve and migrate.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/gobarber/internal/api"
	authctx "github.com/yanizio/gobarber/internal/auth"
	"github.com/yanizio/gobarber/internal/component"
	"github.com/yanizio/gobarber/internal/config"
	"github.com/yanizio/gobarber/internal/database"
	"github.com/yanizio/gobarber/internal/form"
	"github.com/yanizio/gobarber/internal/logger"
	"github.com/yanizio/gobarber/internal/middleware"
	"github.com/yanizio/gobarber/internal/requestinfo"
	"github.com/yanizio/gobarber/internal/token"
	"github.com/yanizio/gobarber/internal/vault"
)

type app struct {
	cfg *config.Config
	env component.Env
	geo *requestinfo.Geo
}

func bootstrap(ctx context.Context, root string) (*app, error) {
	//
	// Config (Vault only when referenced).
	//
	opts := config.Options{Root: root}
	if config.NeedsVault(root) {
		vc, err := vault.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("vault: %w", err)
		}
		opts.Secrets = vc
	}
	cfg, err := config.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.New(cfg.Log.Dir, cfg.Log.Level, runningInTTY()); err != nil {
		return nil, fmt.Errorf("start logger: %w", err)
	}

	//
	// Shared services.
	//
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	tokens, err := token.NewIssuer([]byte(cfg.Security.JWTSecret), cfg.Security.SessionTTL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	key := []byte(cfg.Security.CSRFKey)
	if len(key) == 0 {
		if key, err = form.RandomKey(); err != nil {
			_ = db.Close()
			return nil, err
		}
		zap.S().Warnw("security.csrf_key unset; using a per-process key, open forms expire on restart")
	}
	csrf, err := form.NewCSRF(key)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	geo, err := requestinfo.OpenGeo(cfg.GeoIP.CityDB)
	if err != nil {
		// Geo enrichment is optional; log and carry on without it.
		zap.S().Warnw("geoip disabled", "err", err)
		geo = nil
	}

	a := &app{
		cfg: cfg,
		geo: geo,
		env: component.Env{
			Config: cfg,
			DB:     db,
			Tokens: tokens,
			API: api.New(cfg.API.BaseURL, api.Options{
				Timeout:  cfg.API.Timeout,
				RetryMax: cfg.API.RetryMax,
			}),
			CSRF: csrf,
		},
	}

	for _, c := range component.All() {
		if err := c.Init(a.env); err != nil {
			a.Close()
			return nil, fmt.Errorf("init component %s: %w", c.Name(), err)
		}
		zap.S().Infow("component ready", "component", c.Name())
	}
	return a, nil
}

// router assembles the middleware chain and every component's routes.
func (a *app) router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		middleware.Logger,
		chimw.Recoverer,
		middleware.ForceHTTPS(a.cfg.HTTP.ForceHTTPS),
		middleware.Security,
		requestinfo.Enrich(a.geo),
		authctx.Middleware(a.env.Tokens),
	)
	r.Handle("/metrics", promhttp.Handler())

	// Components all mount at “/”; chi allows one mount per pattern, so
	// their routes are copied onto the root router instead.
	for _, c := range component.All() {
		err := chi.Walk(c.Routes(), func(method, route string, h http.Handler, mws ...func(http.Handler) http.Handler) error {
			r.With(mws...).Method(method, route, h)
			return nil
		})
		if err != nil {
			zap.S().Fatalw("mount component", "component", c.Name(), "err", err)
		}
	}
	return r
}

func (a *app) Close() {
	if err := a.geo.Close(); err != nil {
		zap.S().Warnw("close geoip", "err", err)
	}
	if a.env.DB != nil {
		_ = a.env.DB.Close()
	}
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
