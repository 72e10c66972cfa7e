package event

import "reflect"

// Values is the payload mapping carried by an event.
type Values map[string]any

// Callback receives a delivered event. Name is the published event name,
// which may be narrower than the matcher the listener registered with.
type Callback func(name string, values Values)

// Reserved event names consumed or produced by the core.
const (
	// BehavioursApplied is published after each completed binding pass.
	BehavioursApplied = "behaviours-applied"

	// InstanceRemoved triggers garbage collection of listeners whose
	// lifetime is bound to the removed instance.
	InstanceRemoved = "instance-removed"

	// KeyInstance is the values key carrying the retired instance in an
	// InstanceRemoved event.
	KeyInstance = "instance"
)

// Stats contains bus counters.
type Stats struct {
	// Published is the total number of publish calls.
	Published uint64

	// Delivered is the number of live deliveries to listeners.
	Delivered uint64

	// Replayed is the number of historical deliveries to late subscribers.
	Replayed uint64

	// ReplaySuppressed counts replays skipped because the listener was
	// unsubscribed or filtered before the deferred delivery ran.
	ReplaySuppressed uint64

	// ActiveListeners is the current number of registered listeners.
	ActiveListeners int
}

// callbackPointer returns the identity of a callback function, used to
// match callbacks on unsubscription. Two distinct closures never share a
// pointer; the same function value always does.
func callbackPointer(cb Callback) uintptr {
	if cb == nil {
		return 0
	}
	return reflect.ValueOf(cb).Pointer()
}

// strictEqual compares two values the way a filter does: equal types,
// equal comparable values. Values of uncomparable types never match.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
