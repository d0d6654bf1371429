// components/auth/signin.go
//
// Sign-in attempt.
//
// Context
//   The action hands the credentials to the session collaborator and
//   returns.  Whether the backend accepted them is the collaborator's
//   business: it navigates to the dashboard or raises its own notice.  The
//   controller's failure notice therefore only fires when the action itself
//   breaks.

package auth

import (
	"context"

	"github.com/yanizio/gobarber/internal/form"
	"github.com/yanizio/gobarber/internal/session"
)

// SessionCreator is the session collaborator.  *session.Starter satisfies
// it.
type SessionCreator interface {
	CreateSession(ctx context.Context, email, password string)
}

// SignInAction returns the post-validation action for the sign-in form.
func SignInAction(s SessionCreator) form.Action {
	return func(ctx context.Context, p form.Payload) error {
		s.CreateSession(ctx, p.Get("email"), p.Get("password"))
		return nil
	}
}

// attempt is the shareable result of one form submission.
type attempt struct {
	Outcome form.Outcome
	View    form.View
	Payload form.Payload
	Token   string // set when a session was created
}

func (c *Component) signInAttempt(ctx context.Context, p form.Payload) attempt {
	rec := form.NewRecorder()
	starter := session.NewStarter(c.backend, rec, rec)

	ctl, err := form.NewController(form.Config{
		ID:       signInID,
		Schema:   c.signIn.Schema(),
		Action:   SignInAction(starter),
		Display:  rec,
		Notifier: rec,
		Failure:  session.Unavailable,
	})
	if err != nil {
		panic(err) // static wiring; cannot fail at runtime
	}

	out := ctl.Submit(ctx, p)
	res := attempt{Outcome: out, View: rec.Snapshot(), Payload: p}
	if s, ok := starter.Session(); ok {
		res.Token = s.Token
	}
	return res
}
