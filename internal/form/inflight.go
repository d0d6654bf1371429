// internal/form/inflight.go
//
// GoBarber – Forms subsystem: duplicate-submit coalescing.
//
// Context
//   Each rendered form carries a CSRF token that also identifies the form
//   instance.  A double-click sends two POSTs with the same token.  Instances
//   funnels them through singleflight so the attempt runs once and every
//   duplicate receives the same result.  Once the attempt finishes the key is
//   free again, so a later, deliberate resubmit runs normally.
//
//------------------------------------------------------------------------------

package form

import (
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Instances coalesces concurrent attempts per form-instance key.  Zero value
// is ready to use.
type Instances struct {
	g       singleflight.Group
	waiting atomic.Int64
}

// Waiting reports how many callers are inside Do across all keys.
func (in *Instances) Waiting() int { return int(in.waiting.Load()) }

// Do runs fn once per in-flight key.  shared is true when the result was
// also delivered to another caller.
func Do[T any](in *Instances, key string, fn func() T) (res T, shared bool) {
	in.waiting.Add(1)
	defer in.waiting.Add(-1)
	v, _, shared := in.g.Do(key, func() (any, error) {
		return fn(), nil
	})
	return v.(T), shared
}
