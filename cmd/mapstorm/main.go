// Package main is the entry point for the mapstorm viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mapstorm/mapstorm/internal/app"
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
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure bindings are released and files closed on all exit paths.
	defer application.Shutdown()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "mapstorm.toml", "path to the configuration file")
	flag.StringVar(&opts.ScriptPath, "script", "", "path to a Lua handler script (overrides config)")
	flag.IntVar(&opts.Verbosity, "v", 0, "log verbosity (0=warn, 1=info, 2=debug, 3=trace)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("mapstorm %s (%s)\n", version, commit)
		os.Exit(0)
	}

	opts.Version = version
	return opts
}
