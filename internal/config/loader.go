// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `GOBARBER_`, where `__` maps to “.”
     (e.g., `GOBARBER_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, every string value that starts with `vault:` is replaced by
the secret it names.  The tree is then unmarshalled into strongly-typed
structs, validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  • DEBUG spans – root discovery, YAML read, env overlay.
  • ERROR spans – YAML parse, env overlay, secret lookup, unmarshal, and
    validation failures.
  • INFO  span  – final “config loaded” with key highlights.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`, so
    `go run ./cmd/web` works from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/gobarber/internal/vault"
)

const envPrefix = "GOBARBER_"

var current atomic.Pointer[Config]

// SecretResolver turns a `vault:` reference into its value.  *vault.Client
// satisfies it.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Options tunes Load.  The zero value discovers the root and rejects Vault
// references.
type Options struct {
	Root    string
	Secrets SecretResolver
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves GOBARBER_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to the executable's parent when the
// binary lives in <root>/bin.
func rootDir() string {
	if r := os.Getenv("GOBARBER_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

// NeedsVault reports whether the merged config under root references Vault.
// cmd/web uses it to decide whether to dial Vault at all.
func NeedsVault(root string) bool {
	if root == "" {
		root = rootDir()
	}
	k, err := merged(root)
	if err != nil {
		return false
	}
	for _, key := range k.Keys() {
		if vault.IsRef(k.String(key)) {
			return true
		}
	}
	return false
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, validates, and caches Config.
func Load(ctx context.Context, opts Options) (*Config, error) {
	root := opts.Root
	if root == "" {
		root = rootDir()
	}
	zap.S().Debugw("config root resolved", "root", root)

	k, err := merged(root)
	if err != nil {
		return nil, err
	}

	if err := resolveSecrets(ctx, k, opts.Secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	applyDefaults(&cfg)
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"db_driver", cfg.Database.Driver,
		"api_base_url", cfg.API.BaseURL,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// merged loads the three layers into one koanf tree.
func merged(root string) (*koanf.Koanf, error) {
	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: GOBARBER_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}
	return k, nil
}

// resolveSecrets swaps every `vault:` value for its secret.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, r SecretResolver) error {
	for _, key := range k.Keys() {
		ref := k.String(key)
		if !vault.IsRef(ref) {
			continue
		}
		if r == nil {
			return fmt.Errorf("config %s: vault reference but no Vault client", key)
		}
		val, err := r.Resolve(ctx, ref)
		if err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
		if err := k.Set(key, val); err != nil {
			return err
		}
		zap.S().Debugw("config secret resolved", "key", key)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.API.Timeout == 0 {
		c.API.Timeout = 10 * time.Second
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	if !filepath.IsAbs(c.Log.Dir) {
		c.Log.Dir = filepath.Join(c.Paths.Root, c.Log.Dir)
	}
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the last loaded Config, or nil before the first Load.
func Get() *Config { return current.Load() }
