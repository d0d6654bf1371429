// internal/session/session.go
//
// GoBarber – browser sessions.
//
// Context
//   A signed-in browser carries the JWT issued by POST /api/sessions in an
//   HttpOnly cookie named "gobarber_session".  This file owns the cookie;
//   internal/auth reads it back and verifies the signature on each request.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
	"time"
)

// CookieName is the session cookie.
const CookieName = "gobarber_session"

// LoginUser stores token in the session cookie for ttl.
func LoginUser(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS when served over HTTPS
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// LogoutUser clears the session cookie.
func LogoutUser(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// CurrentToken returns the raw token stored in the session, if any.
//
// ok == false when the cookie is missing or empty.
func CurrentToken(r *http.Request) (token string, ok bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
