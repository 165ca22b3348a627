package widget

import (
	"context"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
)

// Refresher performs the initial load of a Host and, when an interval is
// set, reloads it on a fixed schedule. Failed loads are not retried early;
// the next tick or an explicit reload starts a fresh cycle.
type Refresher struct {
	host     *Host
	clock    clockwork.Clock
	interval time.Duration
	timeout  time.Duration
}

func NewRefresher(host *Host, clock clockwork.Clock, interval, timeout time.Duration) *Refresher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Refresher{
		host:     host,
		clock:    clock,
		interval: interval,
		timeout:  timeout,
	}
}

// Run blocks until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	r.load(ctx)

	if r.interval <= 0 {
		<-ctx.Done()
		log.Println("refresher: shutting down")
		return
	}

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("refresher: shutting down")
			return
		case <-ticker.Chan():
			r.load(ctx)
		}
	}
}

func (r *Refresher) load(ctx context.Context) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	if err := r.host.Load(ctx); err != nil {
		log.Printf("refresher: load: %v", err)
	}
}
