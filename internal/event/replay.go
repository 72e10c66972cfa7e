package event

import (
	"context"
	"sync"
	"sync/atomic"
)

// replayer delivers historical records to late subscribers outside the
// subscribing call's stack frame. Each SubscribeWithReplay schedules one
// delivery goroutine, so sticky values for a name arrive in publish order
// while different subscribers replay independently.
type replayer struct {
	wg     sync.WaitGroup
	closed atomic.Bool

	replayed   *atomic.Uint64
	suppressed *atomic.Uint64
}

func newReplayer(replayed, suppressed *atomic.Uint64) *replayer {
	return &replayer{replayed: replayed, suppressed: suppressed}
}

// schedule queues the records for deferred delivery to the listener.
// Delivery re-checks the listener's state and filter per record: an
// unsubscribe that races ahead of the scheduled replay suppresses it.
func (r *replayer) schedule(l *listener, records []record) {
	if r.closed.Load() || len(records) == 0 {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for _, rec := range records {
			if !l.isActive() || !l.wants(rec.name, rec.values) {
				r.suppressed.Add(1)
				continue
			}
			l.cb(rec.name, rec.values)
			r.replayed.Add(1)
		}
	}()
}

// flush waits for every scheduled replay to finish or the context to end.
func (r *replayer) flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting new replays and drains pending ones.
func (r *replayer) close(ctx context.Context) error {
	r.closed.Store(true)
	return r.flush(ctx)
}
