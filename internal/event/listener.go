package event

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/bindstorm/internal/event/pattern"
)

// listenerState tracks whether a listener may still receive events.
type listenerState int32

const (
	listenerActive listenerState = iota
	listenerCancelled
)

// listener is a registered callback with its matcher and optional filter.
// Listeners live in the bus's ordered list; insertion order is delivery
// order.
type listener struct {
	id      string
	matcher pattern.Matcher
	filter  Values
	cb      Callback
	cbPtr   uintptr
	state   atomic.Int32

	// owner is the lifetime tag set by BindLifetime. Guarded by the bus
	// mutex; read during instance-removed garbage collection.
	owner any
}

func newListener(m pattern.Matcher, cb Callback, filter Values) *listener {
	return &listener{
		id:      uuid.NewString(),
		matcher: m,
		filter:  filter,
		cb:      cb,
		cbPtr:   callbackPointer(cb),
	}
}

func (l *listener) isActive() bool {
	return listenerState(l.state.Load()) == listenerActive
}

func (l *listener) cancel() {
	l.state.Store(int32(listenerCancelled))
}

// wants reports whether the listener's matcher and filter both accept the
// event. Filter semantics: every filter key must be present in the event
// values and strictly equal; a mismatch is silent non-delivery, never an
// error.
func (l *listener) wants(name string, values Values) bool {
	if !l.matcher.Matches(name) {
		return false
	}
	for key, want := range l.filter {
		got, ok := values[key]
		if !ok || !strictEqual(got, want) {
			return false
		}
	}
	return true
}

// Subscription is the handle returned by Subscribe. It unsubscribes the
// listener and can bind the listener's lifetime to an owner instance.
type Subscription struct {
	bus *Bus
	l   *listener
}

// ID returns the unique listener identifier.
func (s *Subscription) ID() string {
	return s.l.id
}

// Matcher returns the matcher the listener registered with.
func (s *Subscription) Matcher() pattern.Matcher {
	return s.l.matcher
}

// IsActive reports whether the listener can still receive events.
func (s *Subscription) IsActive() bool {
	return s.l.isActive()
}

// Unsubscribe removes the listener. Pending deferred replays for the
// listener are suppressed even when already scheduled. Unsubscribing twice
// is a no-op.
func (s *Subscription) Unsubscribe() {
	s.bus.remove(s.l)
}

// BindLifetime tags the listener with an owner instance. When the bus
// publishes InstanceRemoved for that instance the listener is discarded.
// Returns the subscription for chaining.
func (s *Subscription) BindLifetime(owner any) *Subscription {
	s.bus.mu.Lock()
	s.l.owner = owner
	s.bus.mu.Unlock()
	return s
}
