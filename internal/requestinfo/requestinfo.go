//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight per-request metadata (user-agent fingerprint, client IP,
//  best-effort geolocation, and timestamp).  Sign-in and sign-up attempts
//  are logged with these fields so failed logins can be traced to a client
//  without storing anything in the database.  The struct is inert and safe
//  to log or JSON-encode.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	surfer "github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Info is stored on the request context by Enrich.
type Info struct {
	IP          net.IP
	CountryISO  string // empty without a GeoIP database
	City        string
	Browser     string // "Chrome", "Firefox", …
	Version     string // "125.0.6422"
	OS          string
	Device      string // Desktop, Mobile, Tablet, or Other
	IsBot       bool
	PrimaryLang string // first Accept-Language tag
	Timestamp   time.Time
}

// LogFields flattens i into zap key/value pairs.  A nil Info yields nil.
func (i *Info) LogFields() []any {
	if i == nil {
		return nil
	}
	return []any{
		"ip", i.IP.String(),
		"country", i.CountryISO,
		"browser", i.Browser,
		"device", i.Device,
		"bot", i.IsBot,
	}
}

//
//  -----------------------------
//  Geo lookups
//  -----------------------------
//

// Geo wraps a MaxMind City reader.  A nil *Geo is valid and finds nothing.
type Geo struct {
	r *geoip2.Reader
}

// OpenGeo opens a GeoLite2/GeoIP2 City database.  An empty path returns a
// nil *Geo and no error.
func OpenGeo(path string) (*Geo, error) {
	if path == "" {
		return nil, nil
	}
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("requestinfo: open geoip db: %w", err)
	}
	return &Geo{r: r}, nil
}

// Close releases the database.
func (g *Geo) Close() error {
	if g == nil {
		return nil
	}
	return g.r.Close()
}

func (g *Geo) lookup(ip net.IP) (country, city string) {
	if g == nil || ip == nil {
		return "", ""
	}
	rec, err := g.r.City(ip)
	if err != nil {
		return "", ""
	}
	return rec.Country.IsoCode, rec.City.Names["en"]
}

//
//  -----------------------------
//  Context helpers
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the Info stored by Enrich, or nil.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

// WithInfo stores i on ctx.
func WithInfo(ctx context.Context, i *Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, i)
}

//
//  -----------------------------
//  UA helpers
//  -----------------------------
//

// parseUA fills the UA fields of info.
func parseUA(info *Info, raw, acceptLang string) {
	ua := surfer.Parse(raw)

	info.Browser = strings.TrimPrefix(ua.Browser.Name.String(), "Browser")
	info.Version = versionToString(ua.Browser.Version)
	info.OS = strings.TrimPrefix(ua.OS.Name.String(), "OS")
	info.IsBot = ua.IsBot()
	info.PrimaryLang = primaryLang(acceptLang)

	switch ua.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
}

// versionToString trims trailing zeros: 17.0.0 → "17", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	switch {
	case v.Major == 0 && v.Minor == 0 && v.Patch == 0:
		return ""
	case v.Patch != 0:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	case v.Minor != 0:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(v.Major)
}

// primaryLang extracts the first language subtag before any ";q=" rule.
func primaryLang(al string) string {
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ToLower(strings.TrimSpace(tag))
}
