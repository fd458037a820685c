// Package debounce provides an explicit cancellable-timer abstraction for
// coalescing bursts of work, replacing the ad hoc timers the dashboard used
// for search-as-you-type and post-mutation refreshes.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs a function after a quiet period. Each Schedule call rearms
// the timer, so only the last call of a burst fires. Safe for concurrent use.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New creates a Debouncer with the given quiet period.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arms the debouncer to run fn after the quiet period, cancelling any
// previously scheduled function. fn runs on its own goroutine.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Cancel drops any pending function without tearing the debouncer down.
// Returns true when a pending function was cancelled before it fired.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}

	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Stop cancels any pending function and rejects further Schedule calls. Used
// when the owning component is torn down mid-flight so a late fire cannot
// write into superseded state.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.stopped = true
}
