package selection

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const DefaultDebounce = 300 * time.Millisecond

// Debouncer holds at most one pending command. Submitting replaces the
// pending one and restarts the wait; only the last command of a burst runs.
type Debouncer struct {
	clock clockwork.Clock
	wait  time.Duration

	mu    sync.Mutex
	gen   uint64
	timer clockwork.Timer
}

func NewDebouncer(clock clockwork.Clock, wait time.Duration) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Debouncer{clock: clock, wait: wait}
}

// Submit schedules fn after the wait, cancelling any pending command.
func (d *Debouncer) Submit(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.mu.Lock()
		// A timer that fired while being replaced is stale.
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending command, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a command is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
