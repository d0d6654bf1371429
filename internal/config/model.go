// internal/config/model.go
//
// Typed configuration model for GoBarber.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `GOBARBER_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database selects the SQL driver backing the users API.  sqlite is meant
// for development and tests; production runs on MySQL or MariaDB.
type Database struct {
	Driver string `koanf:"driver" validate:"required,oneof=mysql sqlite"`
	DSN    string `koanf:"dsn"    validate:"required"`
}

//
// API section
//

// API points the screens' session and registration collaborators at the
// users backend.  By default this is the same process.
type API struct {
	BaseURL  string        `koanf:"base_url"  validate:"required,url"`
	Timeout  time.Duration `koanf:"timeout"   validate:"gte=0"`
	RetryMax int           `koanf:"retry_max" validate:"gte=0,lte=10"`
}

//
// Security section
//

// Security holds signing secrets.  An empty CSRFKey makes the server
// generate a per-process key, which is fine for development only.
type Security struct {
	CSRFKey    string        `koanf:"csrf_key"    validate:"omitempty,min=32"`
	JWTSecret  string        `koanf:"jwt_secret"  validate:"required,min=32"`
	SessionTTL time.Duration `koanf:"session_ttl" validate:"required"`
}

//
// GeoIP section
//

// GeoIP optionally points at a MaxMind City database used to enrich request
// logs.  Empty disables geo lookups.
type GeoIP struct {
	CityDB string `koanf:"city_db"`
}

//
// Log section
//

// Log configures the zap file sink.  A relative Dir is resolved against
// Paths.Root.
type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // GOBARBER_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	API      API      `koanf:"api"`
	Security Security `koanf:"security"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
