// internal/session/starter.go
//
// GoBarber – session collaborator for the sign-in screen.
//
// Context
//   The sign-in form hands valid credentials to CreateSession and moves on;
//   from the form's point of view the call is fire-and-forget.  Starter owns
//   the rest.  On success it keeps the issued token for the handler to put
//   in the cookie and navigates to the dashboard.  On failure it raises an
//   error notice.  Field errors are never touched from here.
//
// Notes
//   •  A Starter serves exactly one sign-in attempt.
//   •  When ctx is cancelled by the time the backend answers, nothing is
//      reported.  A deadline is reported as Unavailable.
//
//------------------------------------------------------------------------------

package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/gobarber/internal/api"
	"github.com/yanizio/gobarber/internal/form"
	"github.com/yanizio/gobarber/internal/message"
	"github.com/yanizio/gobarber/internal/metrics"
)

// DashboardRoute is where a fresh session lands.
const DashboardRoute = "/dashboard"

// Authenticator exchanges credentials for a session.  *api.Client satisfies
// it.
type Authenticator interface {
	CreateSession(ctx context.Context, email, password string) (api.Session, error)
}

// Failure notices.
var (
	InvalidCredentials = message.Error("authentication failed", "check your e-mail and password and try again.")
	Unavailable        = message.Error("authentication failed", "an error occurred while signing in, please try again.")
)

// Starter is the session collaborator for one attempt.
type Starter struct {
	auth   Authenticator
	notify form.Notifier
	nav    form.Navigator

	mu      sync.Mutex
	session *api.Session
}

// NewStarter wires a Starter.
func NewStarter(a Authenticator, n form.Notifier, nav form.Navigator) *Starter {
	return &Starter{auth: a, notify: n, nav: nav}
}

// CreateSession signs the user in.  It reports through the Notifier and
// Navigator and returns nothing.
func (s *Starter) CreateSession(ctx context.Context, email, password string) {
	sess, err := s.auth.CreateSession(ctx, email, password)
	if errors.Is(ctx.Err(), context.Canceled) {
		return
	}
	if err != nil {
		if api.IsCode(err, api.CodeInvalidCredentials) {
			metrics.SessionsCreated.WithLabelValues("rejected").Inc()
			s.notify.Notify(InvalidCredentials)
			return
		}
		metrics.SessionsCreated.WithLabelValues("error").Inc()
		zap.S().Warnw("create session failed", "email", email, "err", err)
		s.notify.Notify(Unavailable)
		return
	}

	s.mu.Lock()
	s.session = &sess
	s.mu.Unlock()

	metrics.SessionsCreated.WithLabelValues("ok").Inc()
	zap.S().Infow("session created", "user_id", sess.User.ID)
	s.nav.Navigate(DashboardRoute)
}

// Session returns the session created by this attempt, if any.
func (s *Starter) Session() (api.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return api.Session{}, false
	}
	return *s.session, true
}
