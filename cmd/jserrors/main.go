// Package main provides jserrors, a command that opens a page in Chromium
// with the JSErrorCollector extension loaded and reports the JavaScript
// errors it collects.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/jserrorcollector/pkg/config"
	"github.com/entrhq/jserrorcollector/pkg/logging"
)

const version = "0.7.0"

// Flags holds the command line options
type Flags struct {
	ConfigPath   string
	URL          string
	Interval     time.Duration
	Duration     time.Duration
	Headless     bool
	Format       string
	ArtifactsDir string
	Verbosity    string
	ExtractOnly  bool
	ShowVersion  bool

	// set records which flags were given explicitly
	set map[string]bool
}

func main() {
	flags := parseFlags(os.Args[1:])

	if flags.ShowVersion {
		fmt.Printf("jserrors v%s\n", version)
		return
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger, logErr := logging.NewLogger("jserrors")
	defer logger.Close()
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", logErr)
	}

	if flags.ExtractOnly {
		path, err := newExtractor(cfg, logger).Extract()
		if err != nil {
			log.Fatalf("Extraction failed: %v", err)
		}
		fmt.Println(path)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nStopping...")
		cancel()
	}()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		if errors.Is(err, errJavaScriptErrors) {
			os.Exit(1)
		}
		cancel()
		log.Fatalf("Watch failed: %v", err)
	}
}

// parseFlags parses command line flags
func parseFlags(args []string) *Flags {
	flags := &Flags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("jserrors", flag.ExitOnError)

	fs.StringVar(&flags.ConfigPath, "config", "", "Path to a YAML configuration file")
	fs.StringVar(&flags.URL, "url", "", "Page to open")
	fs.DurationVar(&flags.Interval, "interval", 0, "Time between reads (default 1s)")
	fs.DurationVar(&flags.Duration, "duration", 0, "How long to watch; 0 reads once after load (default 10s)")
	fs.BoolVar(&flags.Headless, "headless", true, "Run the browser without a window")
	fs.StringVar(&flags.Format, "format", "", "Output format: text or json (default text)")
	fs.StringVar(&flags.ArtifactsDir, "artifacts", "", "Write errors.json and summary.md to this directory")
	fs.StringVar(&flags.Verbosity, "verbosity", "", "Log verbosity: quiet, normal, verbose, debug")
	fs.BoolVar(&flags.ExtractOnly, "extract-only", false, "Extract the extension archive, print its path and exit")
	fs.BoolVar(&flags.ShowVersion, "version", false, "Show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "jserrors - report JavaScript errors raised by a page\n\n")
		fmt.Fprintf(os.Stderr, "Usage: jserrors [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  jserrors -url http://localhost:3000\n")
		fmt.Fprintf(os.Stderr, "  jserrors -url http://localhost:3000 -duration 1m -interval 500ms -format json\n")
		fmt.Fprintf(os.Stderr, "  jserrors -config jserrors.yaml -artifacts out/\n")
		fmt.Fprintf(os.Stderr, "  jserrors -extract-only\n")
	}

	_ = fs.Parse(args)
	fs.Visit(func(f *flag.Flag) {
		flags.set[f.Name] = true
	})
	return flags
}

// loadConfig reads the config file (if any) and applies flag overrides.
// Extract-only runs need no page, so they skip validation.
func loadConfig(flags *Flags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.ConfigPath != "" {
		loaded, err := config.Load(flags.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.set["url"] {
		cfg.URL = flags.URL
	}
	if flags.set["interval"] {
		cfg.Interval = flags.Interval
	}
	if flags.set["duration"] {
		cfg.Duration = flags.Duration
	}
	if flags.set["headless"] {
		cfg.Headless = flags.Headless
	}
	if flags.set["format"] {
		cfg.Format = config.OutputFormat(flags.Format)
	}
	if flags.set["artifacts"] {
		cfg.Artifacts.Enabled = flags.ArtifactsDir != ""
		cfg.Artifacts.OutputDir = flags.ArtifactsDir
	}
	if flags.set["verbosity"] {
		cfg.Logging.Verbosity = flags.Verbosity
	}

	if flags.ExtractOnly {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
