package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// UpdateLastUsed updates the last-used timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsedAt = time.Now()
}

// LastUsedAt returns when the session was last driven.
func (s *Session) LastUsedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsedAt
}

// CurrentURL returns the URL of the page after the last navigation.
func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentURL
}

func (s *Session) setCurrentURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentURL = url
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.Goto(url, playwrightOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.setCurrentURL(s.Page.URL())
	return nil
}

// Reload reloads the current page.
func (s *Session) Reload() error {
	s.UpdateLastUsed()

	if _, err := s.Page.Reload(); err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}

	s.setCurrentURL(s.Page.URL())
	return nil
}

// ExecuteScript runs a WebDriver-style script body (ending in a return
// statement) in the current page. args are visible to the script as
// arguments[0..n]. Session satisfies jserror.ScriptExecutor.
func (s *Session) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	s.UpdateLastUsed()

	if args == nil {
		args = []interface{}{}
	}
	return s.Page.Evaluate(wrapScript(script), args)
}

// wrapScript turns a function body into an arrow function taking the
// argument list.
func wrapScript(script string) string {
	return "(args) => (function () {\n" + script + "\n}).apply(null, args)"
}
