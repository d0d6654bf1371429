// internal/form/submit_test.go
//
// Unit-tests for the submission Controller.
//
// Context
// -------
// Each test wires a Controller to a Recorder (display, notifier, and
// navigator in one) and a stub Action, then asserts the outcome and what the
// collaborators saw.  The four end-to-end sign-in / sign-up flows are covered
// here against inline schemas and again in components/auth against the YAML
// definitions.
//
// Run: go test ./internal/form -v

package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/gobarber/internal/message"
)

// callLog records Action invocations.
type callLog struct {
	mu    sync.Mutex
	calls []Payload
}

func (c *callLog) action(err error) Action {
	return func(_ context.Context, p Payload) error {
		c.mu.Lock()
		c.calls = append(c.calls, p)
		c.mu.Unlock()
		return err
	}
}

func (c *callLog) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

var (
	signupSuccess = message.Success("user successfully registered", "welcome to GoBarber!")
	signupFailure = message.Error("sign-up failed", "an error occurred during registration, please try again.")
)

func newController(t *testing.T, cfg Config) (*Controller, *Recorder) {
	t.Helper()
	rec := NewRecorder()
	cfg.Display, cfg.Notifier = rec, rec
	if cfg.SuccessRoute != "" {
		cfg.Navigator = rec
	}
	c, err := NewController(cfg)
	require.NoError(t, err)
	return c, rec
}

func TestSubmit_SignInValid(t *testing.T) {
	var log callLog
	c, rec := newController(t, Config{ID: "test/signin", Schema: signInSchema(), Action: log.action(nil)})

	p := Payload{"email": "a@b.com", "password": "secret"}
	out := c.Submit(context.Background(), p)

	assert.Equal(t, OutcomeSucceeded, out)
	require.Equal(t, 1, log.count())
	assert.Equal(t, p, log.calls[0])

	v := rec.Snapshot()
	assert.Empty(t, v.Errors)
	assert.Empty(t, v.Notices)
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmit_SignInEmpty(t *testing.T) {
	var log callLog
	c, rec := newController(t, Config{ID: "test/signin", Schema: signInSchema(), Action: log.action(nil)})

	out := c.Submit(context.Background(), Payload{"email": "", "password": ""})

	assert.Equal(t, OutcomeInvalid, out)
	assert.Zero(t, log.count())
	assert.Equal(t, FieldErrors{
		"email":    "e-mail is a must",
		"password": "password is a must",
	}, rec.Snapshot().Errors)
}

func TestSubmit_SignUpShortPassword(t *testing.T) {
	var log callLog
	c, rec := newController(t, Config{
		ID: "test/signup", Schema: signUpSchema(), Action: log.action(nil),
		SuccessRoute: "/", Success: &signupSuccess, Failure: signupFailure,
	})

	out := c.Submit(context.Background(), Payload{"name": "Jo", "email": "jo@x.com", "password": "123"})

	assert.Equal(t, OutcomeInvalid, out)
	assert.Zero(t, log.count())
	v := rec.Snapshot()
	assert.Equal(t, FieldErrors{"password": "password must be at least 6 chars long"}, v.Errors)
	assert.Empty(t, v.Redirect)
	assert.Empty(t, v.Notices)
}

func TestSubmit_SignUpBackendRejects(t *testing.T) {
	var log callLog
	c, rec := newController(t, Config{
		ID: "test/signup", Schema: signUpSchema(), Action: log.action(errors.New("503")),
		SuccessRoute: "/", Success: &signupSuccess, Failure: signupFailure,
	})

	out := c.Submit(context.Background(), Payload{"name": "Jo", "email": "jo@x.com", "password": "123456"})

	assert.Equal(t, OutcomeActionFailed, out)
	assert.Equal(t, 1, log.count())
	v := rec.Snapshot()
	require.Len(t, v.Notices, 1)
	assert.Equal(t, message.TypeError, v.Notices[0].Type)
	assert.Empty(t, v.Errors)
	assert.Empty(t, v.Redirect)
}

func TestSubmit_SignUpSuccessNavigatesThenNotifies(t *testing.T) {
	var log callLog
	c, rec := newController(t, Config{
		ID: "test/signup", Schema: signUpSchema(), Action: log.action(nil),
		SuccessRoute: "/", Success: &signupSuccess, Failure: signupFailure,
	})

	out := c.Submit(context.Background(), Payload{"name": "Jo", "email": "jo@x.com", "password": "123456"})

	assert.Equal(t, OutcomeSucceeded, out)
	v := rec.Snapshot()
	assert.Equal(t, "/", v.Redirect)
	assert.Equal(t, []message.Notice{signupSuccess}, v.Notices)
}

func TestSubmit_ClearsPreviousErrors(t *testing.T) {
	var log callLog
	c, rec := newController(t, Config{ID: "test/signin", Schema: signInSchema(), Action: log.action(nil)})

	c.Submit(context.Background(), Payload{})
	require.NotEmpty(t, rec.Snapshot().Errors)

	c.Submit(context.Background(), Payload{"email": "a@b.com", "password": "secret"})
	assert.Empty(t, rec.Snapshot().Errors)

	// A second invalid attempt replaces rather than merges.
	c.Submit(context.Background(), Payload{"email": "bad", "password": "x"})
	assert.Equal(t, FieldErrors{"email": "enter a valid e-mail"}, rec.Snapshot().Errors)
}

func TestSubmit_BusyWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	action := func(context.Context, Payload) error {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return nil
	}
	c, _ := newController(t, Config{ID: "test/busy", Schema: signInSchema(), Action: action})
	p := Payload{"email": "a@b.com", "password": "secret"}

	done := make(chan Outcome)
	go func() { done <- c.Submit(context.Background(), p) }()

	<-started
	assert.Equal(t, StateSucceeded, c.State())
	assert.Equal(t, OutcomeBusy, c.Submit(context.Background(), p))

	close(release)
	assert.Equal(t, OutcomeSucceeded, <-done)
	assert.Equal(t, 1, calls)
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmit_ActionPanicIsFailure(t *testing.T) {
	action := func(context.Context, Payload) error { panic("boom") }
	c, rec := newController(t, Config{
		ID: "test/panic", Schema: signUpSchema(), Action: action, Failure: signupFailure,
	})

	out := c.Submit(context.Background(), Payload{"name": "Jo", "email": "jo@x.com", "password": "123456"})

	assert.Equal(t, OutcomeActionFailed, out)
	assert.Equal(t, []message.Notice{signupFailure}, rec.Snapshot().Notices)
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmit_AbandonedTouchesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	action := func(context.Context, Payload) error {
		cancel()
		return errors.New("request aborted")
	}
	c, rec := newController(t, Config{
		ID: "test/abandon", Schema: signUpSchema(), Action: action,
		SuccessRoute: "/", Success: &signupSuccess, Failure: signupFailure,
	})

	out := c.Submit(ctx, Payload{"name": "Jo", "email": "jo@x.com", "password": "123456"})

	assert.Equal(t, OutcomeAbandoned, out)
	v := rec.Snapshot()
	assert.Empty(t, v.Notices)
	assert.Empty(t, v.Redirect)
	assert.Empty(t, v.Errors)
}

func TestNewController_Rejects(t *testing.T) {
	rec := NewRecorder()
	noop := func(context.Context, Payload) error { return nil }

	_, err := NewController(Config{Display: rec, Notifier: rec})
	assert.Error(t, err)
	_, err = NewController(Config{Action: noop, Notifier: rec})
	assert.Error(t, err)
	_, err = NewController(Config{Action: noop, Display: rec})
	assert.Error(t, err)
	_, err = NewController(Config{Action: noop, Display: rec, Notifier: rec, SuccessRoute: "/"})
	assert.Error(t, err)
}

func TestOutcomeAndStateStrings(t *testing.T) {
	assert.Equal(t, "action_failed", OutcomeActionFailed.String())
	assert.Equal(t, "abandoned", OutcomeAbandoned.String())
	assert.Equal(t, "validating", StateValidating.String())
}

func TestSubmit_DeadlineIsActionFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	action := func(ctx context.Context, _ Payload) error {
		<-ctx.Done()
		return ctx.Err()
	}
	c, rec := newController(t, Config{
		ID: "test/deadline", Schema: signUpSchema(), Action: action,
		SuccessRoute: "/", Success: &signupSuccess, Failure: signupFailure,
	})

	out := c.Submit(ctx, Payload{"name": "Jo", "email": "jo@x.com", "password": "123456"})

	assert.Equal(t, OutcomeActionFailed, out)
	v := rec.Snapshot()
	assert.Equal(t, []message.Notice{signupFailure}, v.Notices)
	assert.Empty(t, v.Redirect)
	assert.Empty(t, v.Errors)
}
