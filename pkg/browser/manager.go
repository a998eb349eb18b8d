package browser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/entrhq/jserrorcollector/pkg/logging"
	"github.com/playwright-community/playwright-go"
)

// SessionManager owns the Playwright driver and all active sessions.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	playwright  *playwright.Playwright
	maxSessions int
	idleTimeout time.Duration
	initialized bool
	logger      *logging.Logger
}

// ManagerOption configures a SessionManager.
type ManagerOption func(*SessionManager)

// WithLogger sets the logger for session lifecycle events.
func WithLogger(logger *logging.Logger) ManagerOption {
	return func(m *SessionManager) {
		m.logger = logger
	}
}

// NewSessionManager creates a new session manager.
func NewSessionManager(opts ...ManagerOption) *SessionManager {
	m := &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
		idleTimeout: time.Duration(DefaultIdleTimeout) * time.Second,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize installs (if needed) and starts the Playwright driver with
// Chromium. It must be called before creating any sessions.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	m.logger.Infof("playwright driver started")
	return nil
}

// StartSession launches a browser with the session's profile and opens a page.
func (m *SessionManager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}
	if len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}
	if !m.initialized {
		return nil, fmt.Errorf("session manager not initialized")
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	userDataDir := opts.UserDataDir
	ownsUserDataDir := false
	if userDataDir == "" {
		dir, err := os.MkdirTemp("", "jserrors-profile-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create user data directory: %w", err)
		}
		userDataDir = dir
		ownsUserDataDir = true
	}

	var extensions []string
	if opts.Profile != nil {
		extensions = opts.Profile.Extensions()
	}

	launchOpts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(opts.Headless),
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	}
	if opts.Profile != nil {
		launchOpts.Args = opts.Profile.Args()
	}
	if len(extensions) > 0 && opts.Headless {
		// The headless shell cannot load extensions; the full build can.
		launchOpts.Channel = playwright.String("chromium")
	}

	context, err := m.playwright.Chromium.LaunchPersistentContext(userDataDir, launchOpts)
	if err != nil {
		if ownsUserDataDir {
			os.RemoveAll(userDataDir)
		}
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	// Persistent contexts open with a blank page
	var page playwright.Page
	if pages := context.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = context.NewPage()
		if err != nil {
			context.Close()
			if ownsUserDataDir {
				os.RemoveAll(userDataDir)
			}
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}
	page.SetDefaultTimeout(opts.Timeout)

	now := time.Now()
	session := &Session{
		Name:            name,
		Context:         context,
		Page:            page,
		Headless:        opts.Headless,
		UserDataDir:     userDataDir,
		Extensions:      extensions,
		CreatedAt:       now,
		ownsUserDataDir: ownsUserDataDir,
		lastUsedAt:      now,
		currentURL:      page.URL(),
	}

	m.sessions[name] = session
	m.logger.Infof("started session %q (headless=%t, extensions=%d)", name, opts.Headless, len(extensions))
	return session, nil
}

// closeSession releases the session's browser and profile directory.
func (m *SessionManager) closeSession(session *Session) error {
	var errs []error
	if err := session.Context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	if session.ownsUserDataDir {
		if err := os.RemoveAll(session.UserDataDir); err != nil {
			errs = append(errs, fmt.Errorf("remove user data dir: %w", err))
		}
	}
	m.logger.Debugf("closed session %q", session.Name)
	return errors.Join(errs...)
}

// CloseSession closes and removes a browser session.
func (m *SessionManager) CloseSession(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[name]
	if !exists {
		return fmt.Errorf("session %q not found", name)
	}

	delete(m.sessions, name)
	if err := m.closeSession(session); err != nil {
		m.logger.Warnf("errors closing session %q: %v", name, err)
	}
	return nil
}

// GetSession retrieves an active session by name.
func (m *SessionManager) GetSession(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[name]
	if !exists {
		return nil, fmt.Errorf("session %q not found", name)
	}
	return session, nil
}

// ListSessions returns information about all active sessions.
func (m *SessionManager) ListSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, SessionInfo{
			Name:       session.Name,
			CurrentURL: session.CurrentURL(),
			Headless:   session.Headless,
			Extensions: len(session.Extensions),
			CreatedAt:  session.CreatedAt,
			LastUsedAt: session.LastUsedAt(),
		})
	}
	return infos
}

// HasSessions returns true if there are any active sessions.
func (m *SessionManager) HasSessions() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) > 0
}

// CloseAll closes all active sessions.
func (m *SessionManager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeAllLocked()
}

func (m *SessionManager) closeAllLocked() error {
	var errs []error
	for name, session := range m.sessions {
		if err := m.closeSession(session); err != nil {
			errs = append(errs, fmt.Errorf("session %q: %w", name, err))
		}
		delete(m.sessions, name)
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %w", errors.Join(errs...))
	}
	return nil
}

// Shutdown closes all sessions and stops Playwright.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	closeErr := m.closeAllLocked()

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
		m.logger.Infof("playwright driver stopped")
	}
	return closeErr
}

// CleanupIdleSessions closes sessions that have been idle for longer than the timeout.
func (m *SessionManager) CleanupIdleSessions() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var errs []error
	for name, session := range m.sessions {
		if now.Sub(session.LastUsedAt()) <= m.idleTimeout {
			continue
		}
		if err := m.closeSession(session); err != nil {
			errs = append(errs, fmt.Errorf("session %q: %w", name, err))
		}
		delete(m.sessions, name)
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during cleanup: %w", errors.Join(errs...))
	}
	return nil
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *SessionManager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = max
}

// SetIdleTimeout sets the idle timeout duration.
func (m *SessionManager) SetIdleTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTimeout = timeout
}
