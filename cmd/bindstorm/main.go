// Package main is the bindstorm command line entry point. It parses an
// HTML document, binds behaviour handlers loaded from a module directory,
// and writes the transformed document to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dshills/bindstorm/internal/app"
	"github.com/dshills/bindstorm/internal/dom"
	"github.com/dshills/bindstorm/internal/event"
	"github.com/dshills/bindstorm/internal/event/pattern"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "", "path to TOML configuration file")
		moduleDir   = flag.String("modules", "", "handler module directory (overrides config)")
		moduleKind  = flag.String("loader", "", "module loader kind: lua or js (overrides config)")
		prefix      = flag.String("prefix", "", "marker class prefix (overrides config)")
		logLevel    = flag.String("log-level", "", "log level: debug, info, warn, error")
		showEvents  = flag.Bool("events", false, "log every bus event")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("bindstorm %s (%s)\n", version, commit)
		return 0
	}

	// Flag overrides ride on the environment so config.Load sees them.
	setEnvFlag("BINDSTORM_MODULE_DIR", *moduleDir)
	setEnvFlag("BINDSTORM_MODULE_KIND", *moduleKind)
	setEnvFlag("BINDSTORM_MARKER_PREFIX", *prefix)
	setEnvFlag("BINDSTORM_LOG_LEVEL", *logLevel)

	application, err := app.New(app.Options{ConfigPath: *configPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	input := os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		input = f
	}

	doc, err := dom.Parse(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: parsing document: %v\n", err)
		return 1
	}

	if *showEvents {
		logger := application.Logger().WithComponent("bus")
		_, err := application.Bus().Subscribe(pattern.Wildcard("**"),
			func(name string, values event.Values) {
				logger.Info("event %s %v", name, values)
			})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	ctx := context.Background()
	if err := application.Ready(ctx, doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: binding failed: %v\n", err)
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: shutdown: %v\n", err)
		return 1
	}

	if err := doc.Render(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: rendering document: %v\n", err)
		return 1
	}
	return 0
}

func setEnvFlag(key, value string) {
	if value != "" {
		os.Setenv(key, value)
	}
}
