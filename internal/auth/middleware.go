// internal/auth/middleware.go
//
// Session-cookie middleware.
//
// Context
// -------
// Middleware runs on every page request.  When the session cookie holds a
// valid token the user is attached to the context; a bad or expired token is
// cleared and the request continues anonymously.  RequireUser guards pages
// that make no sense without a user and redirects to the sign-in screen.

package auth

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/gobarber/internal/session"
	"github.com/yanizio/gobarber/internal/token"
)

// Middleware attaches the signed-in user, if any.
func Middleware(iss *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := session.CurrentToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			c, err := iss.Parse(raw)
			if err != nil {
				zap.S().Debugw("session token rejected", "err", err)
				session.LogoutUser(w, r)
				next.ServeHTTP(w, r)
				return
			}
			u := User{ID: c.Subject, Name: c.Name, Email: c.Email}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireUser redirects anonymous requests to loginPath.
func RequireUser(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFrom(r.Context()); !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectSignedIn sends signed-in users away from pages meant for guests,
// such as the sign-in and sign-up screens.
func RedirectSignedIn(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFrom(r.Context()); ok && r.Method == http.MethodGet {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
