// internal/auth/context.go
//
// Signed-in user carried on the request context.
//
// Usage
// -----
//     // Middleware attaches the user after verifying the session cookie.
//     ctx = auth.WithUser(ctx, auth.User{ID: id, Name: name})
//
//     // Handlers read it back.
//     u, ok := auth.UserFrom(ctx)
//
// Notes
// -----
// • The user is passed explicitly through context.  There is no process-wide
//   "current user".
// • Oxford commas, two spaces after periods.

package auth

import "context"

// User is the identity recovered from a session token.
type User struct {
	ID    string
	Name  string
	Email string
}

// userKey is unexported to avoid context-key collisions.
type userKey struct{}

// WithUser returns a new context carrying u.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom extracts the user from ctx.  ok is false when no user is set.
func UserFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey{}).(User)
	return u, ok
}
