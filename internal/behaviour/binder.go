// Package behaviour implements the binding engine that connects marked
// DOM elements to registered handler constructors.
//
// A binding pass scans a subtree for marker-bearing elements, then works
// each element independently: the bare prefix token is stripped first,
// after which the first remaining keyed marker is resolved, its handler
// invoked, and the marker stripped, until no keyed marker remains. Each
// keyed marker therefore triggers its handler exactly once, even when a
// handler mutates the element's other attributes, and a completed pass
// leaves no marker token behind.
package behaviour

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/bindstorm/internal/dom"
	"github.com/dshills/bindstorm/internal/event"
	"github.com/dshills/bindstorm/internal/handler"
	"github.com/dshills/bindstorm/internal/logging"
	"github.com/dshills/bindstorm/internal/marker"
	"github.com/dshills/bindstorm/internal/options"
)

// Binder binds declaratively marked elements to their handlers.
type Binder struct {
	bus      *event.Bus
	registry *handler.Registry
	scanner  *marker.Scanner
	logger   *logging.Logger

	// pending tracks deferred handler invocations in flight.
	pending sync.WaitGroup
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the binder's logger.
func WithLogger(l *logging.Logger) Option {
	return func(b *Binder) {
		b.logger = l
	}
}

// New creates a binder over the given bus, registry, and scanner.
func New(bus *event.Bus, registry *handler.Registry, scanner *marker.Scanner, opts ...Option) *Binder {
	b := &Binder{
		bus:      bus,
		registry: registry,
		scanner:  scanner,
		logger:   logging.Null,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Apply runs one binding pass over the subtree rooted at root. The scan is
// a single snapshot; marker removal during the pass does not disturb it.
// After every element is processed, BehavioursApplied is published on the
// bus. The first synchronous handler failure aborts the pass and
// propagates; deferred handler failures are logged instead.
func (b *Binder) Apply(ctx context.Context, root *dom.Element) error {
	elements := b.scanner.Scan(root)
	b.logger.Debug("binding pass over %d marked elements", len(elements))

	for _, el := range elements {
		if err := b.bindElement(ctx, el); err != nil {
			return err
		}
	}

	b.bus.Publish(event.BehavioursApplied, nil)
	return nil
}

// bindElement strips the bare prefix token, then repeatedly invokes and
// strips the first keyed marker until none remain.
func (b *Binder) bindElement(ctx context.Context, el *dom.Element) error {
	b.scanner.StripBare(el)

	for {
		key, ok := b.scanner.FirstKey(el)
		if !ok {
			return nil
		}
		if err := b.invoke(ctx, el, key); err != nil {
			return fmt.Errorf("binding %q on %s: %w", key, el, err)
		}
		b.scanner.Strip(el, key)
	}
}

// invoke resolves options and the handler factory for one keyed marker.
// Unknown keys fall back to the configured module loader; the load
// completes the bind step through a continuation without holding up the
// rest of the pass.
func (b *Binder) invoke(ctx context.Context, el *dom.Element, key string) error {
	opts, err := b.resolveOptions(el, key)
	if err != nil {
		return err
	}

	factory, err := b.registry.Resolve(key)
	if err == nil {
		return factory(el, opts)
	}

	if errors.Is(err, handler.ErrUnresolved) && b.registry.HasLoader() {
		b.invokeDeferred(ctx, el, key, opts)
		return nil
	}

	return err
}

// invokeDeferred completes a bind step once the module loader fulfills.
// This path is best-effort: failures are reported, never propagated, so a
// broken module cannot crash the binder or affect other elements.
func (b *Binder) invokeDeferred(ctx context.Context, el *dom.Element, key string, opts options.Values) {
	log := b.logger.WithField("key", key)
	b.pending.Add(1)
	b.registry.ResolveDeferred(ctx, key, func(factory handler.Factory, err error) {
		defer b.pending.Done()
		if err != nil {
			log.Error("deferred handler resolution failed: %v", err)
			return
		}
		if err := factory(el, opts); err != nil {
			log.Error("deferred handler construction failed: %v", err)
		}
	})
}

// resolveOptions reads the element's annotation string and parses it.
// A handler-specific data-<key> attribute (slashes in the key becoming
// dashes) wins over the generic data attribute; with neither present the
// handler is constructed without options.
func (b *Binder) resolveOptions(el *dom.Element, key string) (options.Values, error) {
	attr := "data-" + strings.ReplaceAll(key, "/", "-")
	raw := ""
	switch {
	case el.HasAttribute(attr):
		raw = el.GetAttribute(attr)
	case el.HasAttribute("data"):
		raw = el.GetAttribute("data")
	default:
		return nil, nil
	}
	return options.Parse(raw)
}

// Wait blocks until every deferred handler invocation in flight has
// completed or the context ends.
func (b *Binder) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
