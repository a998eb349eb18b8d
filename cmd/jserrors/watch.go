package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/entrhq/jserrorcollector/pkg/browser"
	"github.com/entrhq/jserrorcollector/pkg/config"
	"github.com/entrhq/jserrorcollector/pkg/extension"
	"github.com/entrhq/jserrorcollector/pkg/jserror"
	"github.com/entrhq/jserrorcollector/pkg/logging"
	"github.com/entrhq/jserrorcollector/pkg/report"
)

// errJavaScriptErrors is returned when errors were collected and the run is
// configured to fail on them.
var errJavaScriptErrors = errors.New("javascript errors collected")

// run opens the page, polls the collector and reports what it finds.
func run(ctx context.Context, cfg *config.Config, logger *logging.Logger, out io.Writer) error {
	level, err := logging.ParseVerbosity(cfg.Logging.Verbosity)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	workDir, err := os.MkdirTemp("", "jserrors-*")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	profile := browser.NewProfile(workDir)
	if err := installExtension(cfg, profile, logger); err != nil {
		return err
	}

	manager := browser.NewSessionManager(browser.WithLogger(logger.With("browser")))
	if err := manager.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := manager.Shutdown(); err != nil {
			logger.Warnf("shutdown: %v", err)
		}
	}()

	session, err := manager.StartSession("watch", browser.SessionOptions{
		Headless: cfg.Headless,
		Viewport: &browser.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		Timeout:  float64(cfg.Timeout.Milliseconds()),
		Profile:  profile,
	})
	if err != nil {
		return err
	}

	filter, err := jserror.NewFilter(cfg.Ignore.Sources, cfg.Ignore.Messages)
	if err != nil {
		return err
	}
	reader := jserror.NewReader(session,
		jserror.WithFilter(filter),
		jserror.WithLogger(logger.With("reader")),
	)

	summary := report.NewSummary(cfg.URL)
	watchErr := watch(ctx, cfg, session, reader, summary, newPrinter(out, cfg.Format))
	summary.Finish(watchErr)

	if cfg.Artifacts.Enabled {
		if err := report.NewArtifactWriter(cfg.Artifacts.OutputDir).WriteAll(summary); err != nil {
			logger.Errorf("failed to write artifacts: %v", err)
			if watchErr == nil {
				watchErr = err
			}
		}
	}

	if watchErr != nil {
		return watchErr
	}
	if cfg.FailOnErrors && len(summary.Errors) > 0 {
		return errJavaScriptErrors
	}
	return nil
}

func installExtension(cfg *config.Config, profile *browser.Profile, logger *logging.Logger) error {
	if cfg.ExtensionDir != "" {
		logger.Infof("loading extension from %s", cfg.ExtensionDir)
		return extension.InstallFromDir(profile, cfg.ExtensionDir) //nolint:staticcheck // explicit directory requested
	}

	return newExtractor(cfg, logger).Install(profile)
}

// newExtractor extracts into cfg.TempDir when set.
func newExtractor(cfg *config.Config, logger *logging.Logger) *extension.Extractor {
	opts := []extension.Option{extension.WithLogger(logger.With("extractor"))}
	if cfg.TempDir != "" {
		opts = append(opts, extension.WithDir(cfg.TempDir))
	}
	return extension.NewExtractor(opts...)
}

// navigator is the part of a session the watch loop drives.
type navigator interface {
	Navigate(url string, opts browser.NavigateOptions) error
}

// errorSource is what the watch loop reads from.
type errorSource interface {
	Read() ([]jserror.Record, error)
	Installed() (bool, error)
}

// watch navigates and then reads every interval until the duration elapses
// or ctx is cancelled. A final read always runs so nothing queued is lost.
func watch(ctx context.Context, cfg *config.Config, nav navigator, src errorSource, summary *report.Summary, p *printer) error {
	if err := nav.Navigate(cfg.URL, browser.NavigateOptions{WaitUntil: "load"}); err != nil {
		return err
	}

	installed, err := src.Installed()
	if err != nil {
		return err
	}
	summary.Installed = installed
	if !installed {
		p.Warn("collector not found on the page; is the extension loaded?")
	}

	poll := func() error {
		records, err := src.Read()
		if err != nil {
			return err
		}
		summary.Add(records)
		return p.Print(records)
	}

	if cfg.Duration <= 0 {
		return poll()
	}

	deadline := time.NewTimer(cfg.Duration)
	defer deadline.Stop()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return poll()
		case <-deadline.C:
			return poll()
		case <-ticker.C:
			if err := poll(); err != nil {
				return err
			}
		}
	}
}
