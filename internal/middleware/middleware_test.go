// internal/middleware/middleware_test.go
//
// Run: go test ./internal/middleware -v

package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestForceHTTPS(t *testing.T) {
	h := ForceHTTPS(true)(ok)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://gobarber.example/signup?x=1", nil))
	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "https://gobarber.example/signup?x=1", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://localhost:8080/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	r := httptest.NewRequest(http.MethodGet, "http://gobarber.example/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusTeapot, w.Code)

	w = httptest.NewRecorder()
	ForceHTTPS(false)(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://gobarber.example/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	Security(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "no HSTS over plain HTTP")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.TLS = &tls.ConnectionState{}
	w = httptest.NewRecorder()
	Security(ok).ServeHTTP(w, r)
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestLogger_PassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	Logger(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
