// internal/form/submit.go
//
// GoBarber – Forms subsystem: submission controller.
//
// Context
//   A Controller drives one form through a submit attempt:
//
//      Idle → Validating → Succeeded | Failed → Idle
//
//   On submit it clears the displayed field errors, validates the payload,
//   and then does exactly one of two things.  Valid input runs the Action
//   (and, on success, navigation plus an optional success notice).  Invalid
//   input hands a FieldErrors map to the Display and never runs the Action.
//   A failing Action is reported through the Notifier only; it never touches
//   field errors and never navigates.
//
// Workflow
//   •  Submit while an attempt is in flight returns OutcomeBusy and does
//      nothing else.
//   •  Panics inside the Action are recovered and treated as failures.
//   •  When ctx is cancelled by the time the Action settles, the attempt is
//      OutcomeAbandoned and no collaborator is touched afterwards.  An
//      expired deadline is not abandonment; the Action's error decides.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/gobarber/internal/message"
	"github.com/yanizio/gobarber/internal/metrics"
)

// -----------------------------------------------------------------------------
// Collaborators
// -----------------------------------------------------------------------------

// Action is the side-effecting call made after successful validation.
type Action func(ctx context.Context, p Payload) error

// Display shows per-field errors.  SetFieldErrors replaces, never merges.
type Display interface {
	SetFieldErrors(FieldErrors)
}

// Notifier shows a global notice.  Fire-and-forget.
type Notifier interface {
	Notify(message.Notice)
}

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(route string)
}

// -----------------------------------------------------------------------------
// States and outcomes
// -----------------------------------------------------------------------------

// State is the controller's position in the submit cycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome summarises one Submit call.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeInvalid
	OutcomeActionFailed
	OutcomeBusy
	OutcomeAbandoned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeActionFailed:
		return "action_failed"
	case OutcomeBusy:
		return "busy"
	case OutcomeAbandoned:
		return "abandoned"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// -----------------------------------------------------------------------------
// Controller
// -----------------------------------------------------------------------------

// Config wires a Controller.  Navigator, SuccessRoute, and Success are
// optional.
type Config struct {
	ID           string // metrics and log label, e.g. "auth/signup"
	Schema       Schema
	Action       Action
	Display      Display
	Notifier     Notifier
	Navigator    Navigator
	SuccessRoute string          // navigated to after the Action succeeds
	Success      *message.Notice // notified after SuccessRoute
	Failure      message.Notice  // notified when the Action fails
}

// Controller is safe for concurrent use; at most one attempt runs at a time.
type Controller struct {
	cfg Config

	mu    sync.Mutex
	state State
}

// NewController validates cfg and returns an idle Controller.
func NewController(cfg Config) (*Controller, error) {
	switch {
	case cfg.Action == nil:
		return nil, errors.New("form controller: nil Action")
	case cfg.Display == nil:
		return nil, errors.New("form controller: nil Display")
	case cfg.Notifier == nil:
		return nil, errors.New("form controller: nil Notifier")
	case cfg.SuccessRoute != "" && cfg.Navigator == nil:
		return nil, errors.New("form controller: SuccessRoute set without Navigator")
	}
	return &Controller{cfg: cfg}, nil
}

// State reports the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs one attempt for p.  It never returns an error; every failure is
// reported through the collaborators and summarised by the Outcome.
func (c *Controller) Submit(ctx context.Context, p Payload) Outcome {
	if !c.begin() {
		c.record(OutcomeBusy)
		return OutcomeBusy
	}
	defer c.transition(StateIdle)

	c.cfg.Display.SetFieldErrors(FieldErrors{})

	if err := Validate(p, c.cfg.Schema); err != nil {
		c.transition(StateFailed)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			// Validate only reports ValidationError; anything else is a bug.
			zap.S().Errorw("form validate", "form", c.cfg.ID, "err", err)
			c.cfg.Notifier.Notify(c.cfg.Failure)
			return c.record(OutcomeActionFailed)
		}
		c.cfg.Display.SetFieldErrors(ToFieldErrors(ve.Violations))
		return c.record(OutcomeInvalid)
	}

	c.transition(StateSucceeded)

	start := time.Now()
	err := c.run(ctx, p)
	metrics.FormActionDuration.WithLabelValues(c.cfg.ID).Observe(time.Since(start).Seconds())

	// Only a cancelled caller is gone.  A deadline is a slow backend and
	// falls through to the action's own error.
	if errors.Is(ctx.Err(), context.Canceled) {
		zap.S().Infow("form submission abandoned", "form", c.cfg.ID, "err", ctx.Err())
		return c.record(OutcomeAbandoned)
	}
	if err != nil {
		zap.S().Warnw("form action failed", "form", c.cfg.ID, "err", err)
		c.cfg.Notifier.Notify(c.cfg.Failure)
		return c.record(OutcomeActionFailed)
	}

	if c.cfg.SuccessRoute != "" {
		c.cfg.Navigator.Navigate(c.cfg.SuccessRoute)
	}
	if c.cfg.Success != nil {
		c.cfg.Notifier.Notify(*c.cfg.Success)
	}
	return c.record(OutcomeSucceeded)
}

// run calls the Action, converting a panic into an error.
func (c *Controller) run(ctx context.Context, p Payload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("form action panic: %v", r)
		}
	}()
	return c.cfg.Action(ctx, p)
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return false
	}
	c.state = StateValidating
	return true
}

func (c *Controller) transition(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) record(o Outcome) Outcome {
	metrics.FormSubmissions.WithLabelValues(c.cfg.ID, o.String()).Inc()
	return o
}
