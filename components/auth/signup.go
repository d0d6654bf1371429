// components/auth/signup.go
//
// Sign-up attempt.
//
// Context
//   Valid input is posted to the users API.  Success lands on the sign-in
//   screen with a welcome notice; any rejection (duplicate e-mail, backend
//   down) raises one generic error notice and leaves field errors alone.

package auth

import (
	"context"

	"github.com/yanizio/gobarber/internal/api"
	"github.com/yanizio/gobarber/internal/form"
	"github.com/yanizio/gobarber/internal/message"
)

// Sign-up notices.
var (
	SignUpSuccess = message.Success("user successfully registered", "welcome to GoBarber!")
	SignUpFailure = message.Error("sign-up failed", "an error occurred during registration, please try again.")
)

// Registrar is the registration collaborator.
type Registrar interface {
	RegisterUser(ctx context.Context, p form.Payload) error
}

// RegistrarFunc adapts a function to Registrar.
type RegistrarFunc func(ctx context.Context, p form.Payload) error

// RegisterUser calls f.
func (f RegistrarFunc) RegisterUser(ctx context.Context, p form.Payload) error { return f(ctx, p) }

// APIRegistrar posts the payload to the users API as {name,email,password}.
func APIRegistrar(b Backend) Registrar {
	return RegistrarFunc(func(ctx context.Context, p form.Payload) error {
		_, err := b.RegisterUser(ctx, api.NewUser{
			Name:     p.Get("name"),
			Email:    p.Get("email"),
			Password: p.Get("password"),
		})
		return err
	})
}

// SignUpAction returns the post-validation action for the sign-up form.
func SignUpAction(r Registrar) form.Action {
	return r.RegisterUser
}

func (c *Component) signUpAttempt(ctx context.Context, p form.Payload) attempt {
	rec := form.NewRecorder()

	ctl, err := form.NewController(form.Config{
		ID:           signUpID,
		Schema:       c.signUp.Schema(),
		Action:       SignUpAction(APIRegistrar(c.backend)),
		Display:      rec,
		Notifier:     rec,
		Navigator:    rec,
		SuccessRoute: "/",
		Success:      &SignUpSuccess,
		Failure:      SignUpFailure,
	})
	if err != nil {
		panic(err) // static wiring; cannot fail at runtime
	}

	out := ctl.Submit(ctx, p)
	return attempt{Outcome: out, View: rec.Snapshot(), Payload: p}
}
