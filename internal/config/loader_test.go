// internal/config/loader_test.go
//
// Unit-tests for the layered loader.
//
// Context
// -------
// Each test writes a throw-away `conf/global.yaml` under t.TempDir() and
// calls Load with that root, so the developer's own config never leaks in.
//
// Run: go test ./internal/config -v

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
http:
  listen_addr: ":8080"
database:
  driver: sqlite
  dsn: "file::memory:?cache=shared"
api:
  base_url: "http://127.0.0.1:8080/api"
  retry_max: 2
security:
  jwt_secret: "%s"
  session_ttl: 24h
log:
  level: info
`

func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	return root
}

type fakeSecrets map[string]string

func (f fakeSecrets) Resolve(_ context.Context, ref string) (string, error) {
	if v, ok := f[ref]; ok {
		return v, nil
	}
	return "", errors.New("no such secret")
}

const secret32 = "0123456789abcdef0123456789abcdef"

func TestLoad_YAMLAndDefaults(t *testing.T) {
	root := writeRoot(t, fmtYAML(secret32))

	cfg, err := Load(context.Background(), Options{Root: root})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Security.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, filepath.Join(root, "logs"), cfg.Log.Dir)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	root := writeRoot(t, fmtYAML(secret32))
	t.Setenv("GOBARBER_HTTP__LISTEN_ADDR", ":9090")

	cfg, err := Load(context.Background(), Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.ListenAddr)
}

func TestLoad_VaultReferences(t *testing.T) {
	root := writeRoot(t, fmtYAML("vault:kv/gobarber#jwt_secret"))

	_, err := Load(context.Background(), Options{Root: root})
	assert.Error(t, err, "vault reference without a resolver")
	assert.True(t, NeedsVault(root))

	cfg, err := Load(context.Background(), Options{
		Root:    root,
		Secrets: fakeSecrets{"vault:kv/gobarber#jwt_secret": secret32},
	})
	require.NoError(t, err)
	assert.Equal(t, secret32, cfg.Security.JWTSecret)
}

func TestLoad_ValidationNamesKoanfKeys(t *testing.T) {
	root := writeRoot(t, fmtYAML("short"))

	_, err := Load(context.Background(), Options{Root: root})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security.jwt_secret: min")
}

func fmtYAML(jwt string) string {
	return fmt.Sprintf(baseYAML, jwt)
}
