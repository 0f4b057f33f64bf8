// Package main is the entry point for globenav.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/dshills/globenav/internal/app"
	"github.com/dshills/globenav/internal/renderer/backend"
	"github.com/dshills/globenav/internal/replay"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	opts       app.Options
	replayPath string
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	// Replay output goes to stdout, so the log can use stderr. The
	// interactive HUD owns the terminal and logs only to [log] file.
	if f.replayPath != "" {
		f.opts.LogOutput = os.Stderr
	} else {
		f.opts.Watch = true
	}

	application, err := app.New(f.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if f.replayPath != "" {
		return runReplay(ctx, application, f.replayPath)
	}
	return runInteractive(ctx, application)
}

func runInteractive(ctx context.Context, application *app.Application) int {
	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.Run(ctx, term); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runReplay(ctx context.Context, application *app.Application, path string) int {
	sc, err := replay.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	rep, err := application.Replay(ctx, sc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing report: %v\n", err)
		return 1
	}
	enc.Close()

	if !rep.Passed() {
		return 2
	}
	return 0
}

func parseFlags() flags {
	var f flags
	var showVersion bool

	flag.StringVar(&f.opts.ConfigPath, "config", os.Getenv("GLOBENAV_CONFIG"), "Path to configuration file (TOML or YAML)")
	flag.StringVar(&f.opts.ConfigPath, "c", os.Getenv("GLOBENAV_CONFIG"), "Path to configuration file (shorthand)")
	flag.StringVar(&f.replayPath, "replay", "", "Run a scenario file and print the report")
	flag.BoolVar(&f.opts.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&f.opts.Debug, "d", false, "Enable debug logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "globenav - keyboard and mouse navigation for a virtual globe\n\n")
		fmt.Fprintf(os.Stderr, "Usage: globenav [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  globenav                           Navigate in the terminal\n")
		fmt.Fprintf(os.Stderr, "  globenav -config globenav.toml     Use a settings file\n")
		fmt.Fprintf(os.Stderr, "  globenav -replay pan.yaml          Replay a scenario\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("globenav %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}
	return f
}
