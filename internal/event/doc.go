// Package event provides the in-process publish/subscribe bus used by
// behaviour handlers to communicate without direct coupling.
//
// # Overview
//
// A Bus keeps an ordered registry of listeners and a history of published
// values. Listeners register against a matcher (an exact event name or a
// wildcard pattern, see the pattern package), optionally narrowed by a
// value filter. Delivery is synchronous and follows registration order.
//
// # Sticky events and replay
//
// Ordinary events retain only their most recent values: publishing
// "cart.changed" twice leaves a single retrievable record. Sticky events
// accumulate: every published value is kept, in order. A late subscriber
// can ask for history with SubscribeWithReplay, which delivers the last
// ordinary value and the full sticky log for every matched name. Replay is
// deferred to a separate goroutine so the subscribing call always returns
// before the first replayed delivery fires.
//
// # Listener lifetime
//
// Subscribe returns a Subscription handle. Calling BindLifetime ties the
// listener to an owner instance: publishing the reserved
// "instance-removed" event for that owner discards the listener, so
// long-lived subscriptions cannot leak past the object that created them.
//
// # Reserved event names
//
//   - "behaviours-applied": published by the binding engine after each
//     completed binding pass.
//   - "instance-removed": consumed by the bus to garbage-collect owned
//     listeners. The retired instance travels under the "instance" key.
//
// # Concurrency
//
// The bus tolerates re-entrant use: a callback may publish, subscribe, or
// unsubscribe during delivery. Dispatch iterates a snapshot of the listener
// list, so an unsubscribe during a pass does not disturb deliveries already
// scheduled in that pass.
package event
