// cmd/web/main.go
//
// GoBarber – HTTP entry point.
//
// Commands
// --------
//
//	web [serve]   run the HTTP server (default)
//	web migrate   apply every component's schema and exit
//
// Request life-cycle
// ------------------
//
//  1. Console logger for the pre-config window.
//
//  2. Load conf/global.yaml + GOBARBER_* env overrides.  Dial Vault only when
//     a value references it.
//
//  3. Start daily rotating logger (tees to console when running in a TTY).
//
//  4. Open the DB, build the token issuer, CSRF signer, users API client, and
//     optional GeoIP reader, then Init every registered component.
//
//  5. Build the chi router: request ID → access log → recover → HTTPS →
//     security headers → request info → signed-in user → component routes.
//     /metrics exposes Prometheus counters.
//
//  6. Serve until SIGINT/SIGTERM, then drain.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/gobarber/internal/component"
	"github.com/yanizio/gobarber/internal/database"
	"github.com/yanizio/gobarber/internal/logger"
	"github.com/yanizio/gobarber/internal/server"

	_ "github.com/yanizio/gobarber/components/auth"  // sign-in / sign-up screens
	_ "github.com/yanizio/gobarber/components/debug" // request diagnostics (debug level only)
	_ "github.com/yanizio/gobarber/components/users" // users API
)

func main() {
	restore := logger.Bootstrap()
	defer restore()

	if err := newRootCmd().Execute(); err != nil {
		zap.S().Errorw("command failed", "err", err)
		_ = zap.L().Sync()
		os.Exit(1)
	}
	_ = zap.L().Sync()
}

func newRootCmd() *cobra.Command {
	var root string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the GoBarber web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), root)
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply component schemas and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), root)
		},
	}

	cmd := &cobra.Command{
		Use:           "web",
		Short:         "GoBarber sign-in and sign-up service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	cmd.PersistentFlags().StringVar(&root, "root", "", "project root holding conf/ (default: discovered)")
	cmd.AddCommand(serve, migrate)
	return cmd
}

//
// ── serve ───────────────────────────────────────────────────────────────
//

func runServe(parent context.Context, root string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, root)
	if err != nil {
		return err
	}
	defer a.Close()

	// Dev convenience: sqlite databases start empty.
	if a.cfg.Database.Driver == "sqlite" {
		if err := migrateAll(ctx, a); err != nil {
			return err
		}
	}

	srv := server.New(a.cfg.HTTP.ListenAddr, a.router())
	return server.Run(ctx, srv)
}

//
// ── migrate ─────────────────────────────────────────────────────────────
//

func runMigrate(ctx context.Context, root string) error {
	a, err := bootstrap(ctx, root)
	if err != nil {
		return err
	}
	defer a.Close()
	return migrateAll(ctx, a)
}

func migrateAll(ctx context.Context, a *app) error {
	for _, c := range component.All() {
		stmts := c.Migrations()
		if len(stmts) == 0 {
			continue
		}
		if err := database.Migrate(ctx, a.env.DB, stmts); err != nil {
			return err
		}
		zap.S().Infow("component migrated", "component", c.Name(), "statements", len(stmts))
	}
	return nil
}
