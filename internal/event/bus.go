package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dshills/bindstorm/internal/event/pattern"
)

// Bus is the in-process event bus. Create one with New; independent buses
// share no state, so tests can run several side by side.
type Bus struct {
	mu        sync.RWMutex
	listeners []*listener
	history   *history
	replays   *replayer

	closed atomic.Bool

	published  atomic.Uint64
	delivered  atomic.Uint64
	replayed   atomic.Uint64
	suppressed atomic.Uint64
}

// New creates an empty bus.
func New() *Bus {
	b := &Bus{
		history: newHistory(),
	}
	b.replays = newReplayer(&b.replayed, &b.suppressed)
	return b
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*listener)

// WithFilter narrows delivery to events whose values contain every filter
// key with a strictly equal value. Missing keys or mismatched values
// silently suppress delivery.
func WithFilter(filter Values) SubscribeOption {
	return func(l *listener) {
		l.filter = filter
	}
}

// Subscribe registers a listener for events accepted by the matcher.
// Listeners are notified in registration order.
func (b *Bus) Subscribe(m pattern.Matcher, cb Callback, opts ...SubscribeOption) (*Subscription, error) {
	l, err := b.add(m, cb, opts)
	if err != nil {
		return nil, err
	}
	return &Subscription{bus: b, l: l}, nil
}

// SubscribeWithReplay behaves as Subscribe and additionally replays
// history to the new listener: for an exact matcher the last ordinary
// value and the full sticky log for that name, for a wildcard matcher the
// same across every known matching name. Replayed deliveries are deferred;
// this call always returns before the first one fires, and no other
// listener sees them.
func (b *Bus) SubscribeWithReplay(m pattern.Matcher, cb Callback, opts ...SubscribeOption) (*Subscription, error) {
	b.mu.Lock()
	l, err := b.addLocked(m, cb, opts)
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	records := b.history.replayFor(m)
	b.mu.Unlock()

	b.replays.schedule(l, records)
	return &Subscription{bus: b, l: l}, nil
}

func (b *Bus) add(m pattern.Matcher, cb Callback, opts []SubscribeOption) (*listener, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addLocked(m, cb, opts)
}

func (b *Bus) addLocked(m pattern.Matcher, cb Callback, opts []SubscribeOption) (*listener, error) {
	if b.closed.Load() {
		return nil, ErrBusClosed
	}
	if cb == nil {
		return nil, ErrNilCallback
	}
	if m.IsZero() {
		return nil, ErrInvalidMatcher
	}

	l := newListener(m, cb, nil)
	for _, opt := range opts {
		opt(l)
	}
	b.listeners = append(b.listeners, l)
	return l, nil
}

// Unsubscribe removes every listener whose matcher has the same string
// form as m and whose callback is the identical function previously
// registered. The loose string-form comparison lets an equivalent-text
// pattern remove a pattern listener even when it is not the same Matcher
// value. Unsubscribing a never-registered listener is a no-op.
func (b *Bus) Unsubscribe(m pattern.Matcher, cb Callback) {
	ptr := callbackPointer(cb)
	if ptr == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.listeners[:0]
	for _, l := range b.listeners {
		if l.matcher.String() == m.String() && l.cbPtr == ptr {
			l.cancel()
			continue
		}
		kept = append(kept, l)
	}
	b.listeners = kept
}

// remove drops a single listener, identified by the subscription handle.
func (b *Bus) remove(l *listener) {
	l.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, el := range b.listeners {
		if el == l {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers values synchronously to every matching listener, in
// registration order. Only the most recent values per name stay
// retrievable for replay; earlier ones are overwritten.
func (b *Bus) Publish(name string, values Values) {
	b.publish(name, values, false)
}

// PublishSticky delivers values like Publish but appends them to the
// name's sticky log, so every sticky value stays replayable in publish
// order.
func (b *Bus) PublishSticky(name string, values Values) {
	b.publish(name, values, true)
}

func (b *Bus) publish(name string, values Values, sticky bool) {
	if name == "" || b.closed.Load() {
		return
	}
	if values == nil {
		values = Values{}
	}

	b.mu.Lock()
	b.history.store(name, values, sticky)
	// Stable snapshot: listeners subscribing or unsubscribing during this
	// dispatch pass do not disturb it.
	snapshot := make([]*listener, len(b.listeners))
	copy(snapshot, b.listeners)
	b.mu.Unlock()

	b.published.Add(1)

	for _, l := range snapshot {
		if !l.wants(name, values) {
			continue
		}
		l.cb(name, values)
		b.delivered.Add(1)
	}

	if name == InstanceRemoved {
		b.collectOwned(values[KeyInstance])
	}
}

// RemoveInstance publishes InstanceRemoved for the given owner, which
// discards every listener whose lifetime is bound to it.
func (b *Bus) RemoveInstance(owner any) {
	b.Publish(InstanceRemoved, Values{KeyInstance: owner})
}

// collectOwned drops listeners whose lifetime owner matches the retired
// instance. Runs after delivery so the owned listeners still observe the
// InstanceRemoved event itself.
func (b *Bus) collectOwned(owner any) {
	if owner == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.listeners[:0]
	for _, l := range b.listeners {
		if l.owner != nil && strictEqual(l.owner, owner) {
			l.cancel()
			continue
		}
		kept = append(kept, l)
	}
	b.listeners = kept
}

// Flush waits for every pending deferred replay to be delivered or the
// context to end. Mainly a test and shutdown aid.
func (b *Bus) Flush(ctx context.Context) error {
	return b.replays.flush(ctx)
}

// Close stops the bus: further publishes and subscriptions are rejected
// and pending replays are drained.
func (b *Bus) Close(ctx context.Context) error {
	if b.closed.Swap(true) {
		return ErrBusClosed
	}
	return b.replays.close(ctx)
}

// Stats returns current bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.listeners)
	b.mu.RUnlock()

	return Stats{
		Published:        b.published.Load(),
		Delivered:        b.delivered.Load(),
		Replayed:         b.replayed.Load(),
		ReplaySuppressed: b.suppressed.Load(),
		ActiveListeners:  active,
	}
}
