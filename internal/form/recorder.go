// internal/form/recorder.go
//
// GoBarber – Forms subsystem: request-scoped view state.
//
// Context
//   Server-rendered screens cannot push updates to a live page, so each POST
//   collects what the controller wanted to show in a Recorder and renders or
//   redirects once the attempt is over.  Recorder satisfies Display,
//   Notifier, and Navigator.
//
//------------------------------------------------------------------------------

package form

import (
	"sync"

	"github.com/yanizio/gobarber/internal/message"
)

// Compile-time assertions.
var (
	_ Display   = (*Recorder)(nil)
	_ Notifier  = (*Recorder)(nil)
	_ Navigator = (*Recorder)(nil)
)

// Recorder accumulates display, notice, and navigation requests.
type Recorder struct {
	mu       sync.Mutex
	errors   FieldErrors
	notices  []message.Notice
	redirect string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{errors: FieldErrors{}} }

// SetFieldErrors replaces the current map with a copy of fe.
func (r *Recorder) SetFieldErrors(fe FieldErrors) {
	cp := make(FieldErrors, len(fe))
	for k, v := range fe {
		cp[k] = v
	}
	r.mu.Lock()
	r.errors = cp
	r.mu.Unlock()
}

// Notify appends n.
func (r *Recorder) Notify(n message.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

// Navigate records the target route; the last call wins.
func (r *Recorder) Navigate(route string) {
	r.mu.Lock()
	r.redirect = route
	r.mu.Unlock()
}

// View is an immutable snapshot of a Recorder.
type View struct {
	Errors   FieldErrors
	Notices  []message.Notice
	Redirect string
}

// Snapshot copies the recorded state.
func (r *Recorder) Snapshot() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	fe := make(FieldErrors, len(r.errors))
	for k, v := range r.errors {
		fe[k] = v
	}
	return View{
		Errors:   fe,
		Notices:  append([]message.Notice(nil), r.notices...),
		Redirect: r.redirect,
	}
}
