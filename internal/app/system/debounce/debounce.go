// Package debounce delays a rapidly changing value until it has been
// stable for a quiet period. The live search box feeds every keystroke
// into a Value; only the settled value reaches the backend fetch, so a
// burst of typing costs one request instead of one per key.
package debounce

import (
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DefaultQuiet is the quiet period used when none is given.
const DefaultQuiet = 500 * time.Millisecond

// Value debounces updates to a single value of type T.
// Set restarts the quiet period; once it elapses with no further Set, the
// latest value is published to the callback and becomes Latest.
// All methods are safe for concurrent use.
type Value[T any] struct {
	mu        sync.Mutex
	pending   T
	settled   T
	debounced func(func())
	onSettle  func(T)
}

// New creates a Value with the given quiet period. quiet <= 0 uses
// DefaultQuiet. onSettle may be nil.
func New[T any](quiet time.Duration, onSettle func(T)) *Value[T] {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Value[T]{
		debounced: debounce.New(quiet),
		onSettle:  onSettle,
	}
}

// Set records v as the pending value and restarts the quiet period.
func (d *Value[T]) Set(v T) {
	d.mu.Lock()
	d.pending = v
	d.mu.Unlock()

	d.debounced(func() {
		d.mu.Lock()
		d.settled = d.pending
		v := d.settled
		cb := d.onSettle
		d.mu.Unlock()
		if cb != nil {
			cb(v)
		}
	})
}

// Latest returns the most recently settled value. It lags Set by the quiet
// period; it never reflects a value still inside the window.
func (d *Value[T]) Latest() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}
