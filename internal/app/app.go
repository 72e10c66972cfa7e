// Package app wires the bindstorm components together: configuration,
// logging, the event bus, the handler registry, and the binding engine.
package app

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/dshills/bindstorm/internal/behaviour"
	"github.com/dshills/bindstorm/internal/config"
	"github.com/dshills/bindstorm/internal/dom"
	"github.com/dshills/bindstorm/internal/event"
	"github.com/dshills/bindstorm/internal/handler"
	"github.com/dshills/bindstorm/internal/jsmod"
	"github.com/dshills/bindstorm/internal/logging"
	"github.com/dshills/bindstorm/internal/luamod"
	"github.com/dshills/bindstorm/internal/marker"
)

// ErrAlreadyReady is returned when Ready is called a second time.
var ErrAlreadyReady = errors.New("document ready already handled")

// Options configures application construction.
type Options struct {
	// ConfigPath is the TOML configuration file. Optional.
	ConfigPath string

	// LogOutput overrides the log destination. Defaults to stderr.
	LogOutput io.Writer
}

// App is the assembled application.
type App struct {
	cfg      config.Config
	logger   *logging.Logger
	bus      *event.Bus
	registry *handler.Registry
	scanner  *marker.Scanner
	binder   *behaviour.Binder
	watcher  *config.Watcher

	ready atomic.Bool
}

// New loads configuration and assembles the application.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	if opts.LogOutput != nil {
		logCfg.Output = opts.LogOutput
	}
	logger := logging.New(logCfg)

	scanner := marker.NewScanner()
	scanner.SetPrefix(cfg.MarkerPrefix)

	var registryOpts []handler.Option
	if cfg.ModuleDir != "" {
		var loader handler.Loader
		switch cfg.ModuleKind {
		case config.KindJS:
			loader = jsmod.NewLoader(cfg.ModuleDir)
		default:
			loader = luamod.NewLoader(cfg.ModuleDir)
		}
		registryOpts = append(registryOpts, handler.WithLoader(loader))
	}
	registry := handler.NewRegistry(registryOpts...)

	bus := event.New()
	binder := behaviour.New(bus, registry, scanner,
		behaviour.WithLogger(logger.WithComponent("behaviour")))

	a := &App{
		cfg:      cfg,
		logger:   logger,
		bus:      bus,
		registry: registry,
		scanner:  scanner,
		binder:   binder,
	}

	if cfg.Watch && opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath, a.applyConfig, func(err error) {
			logger.Warn("config reload failed: %v", err)
		})
		if err != nil {
			return nil, err
		}
		a.watcher = w
	}

	return a, nil
}

// applyConfig applies a live-reloaded configuration. Only the marker
// prefix and log level take effect at runtime; loader changes need a
// restart.
func (a *App) applyConfig(cfg config.Config) {
	a.logger.Info("configuration reloaded")
	a.logger.SetLevel(logging.ParseLevel(cfg.LogLevel))
	a.scanner.SetPrefix(cfg.MarkerPrefix)
}

// Bus returns the event bus.
func (a *App) Bus() *event.Bus {
	return a.bus
}

// Registry returns the handler registry.
func (a *App) Registry() *handler.Registry {
	return a.registry
}

// Scanner returns the marker scanner.
func (a *App) Scanner() *marker.Scanner {
	return a.scanner
}

// Logger returns the application logger.
func (a *App) Logger() *logging.Logger {
	return a.logger
}

// RegisterHandler registers a handler factory for a key. Callable before
// or after binding runs; registering an existing key overwrites it.
func (a *App) RegisterHandler(key string, f handler.Factory) {
	a.registry.Register(key, f)
}

// Ready handles document ready: it runs one binding pass over the
// document root, exactly once for the application's lifetime. A second
// call returns ErrAlreadyReady.
func (a *App) Ready(ctx context.Context, doc *dom.Document) error {
	if !a.ready.CompareAndSwap(false, true) {
		return ErrAlreadyReady
	}
	root := doc.Root()
	if root == nil {
		return nil
	}
	return a.binder.Apply(ctx, root)
}

// Apply runs an additional binding pass over a subtree, for content
// attached after document ready.
func (a *App) Apply(ctx context.Context, root *dom.Element) error {
	return a.binder.Apply(ctx, root)
}

// Shutdown drains deferred work and closes the application.
func (a *App) Shutdown(ctx context.Context) error {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if err := a.binder.Wait(ctx); err != nil {
		return err
	}
	return a.bus.Close(ctx)
}
