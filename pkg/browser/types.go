package browser

import (
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session represents an active browser session with its associated resources.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Context is the persistent browser context
	Context playwright.BrowserContext

	// Page is the current active page
	Page playwright.Page

	// Headless indicates if the browser is running in headless mode
	Headless bool

	// UserDataDir is the profile directory backing the context
	UserDataDir string

	// Extensions lists the unpacked extension directories loaded at launch
	Extensions []string

	CreatedAt time.Time

	ownsUserDataDir bool

	// mu guards lastUsedAt and currentURL
	mu         sync.Mutex
	lastUsedAt time.Time
	currentURL string
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64

	// Profile supplies the extensions to load; nil launches without any
	Profile *Profile

	// UserDataDir reuses an existing profile directory. When empty a
	// temporary directory is created and removed on close.
	UserDataDir string
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful
	// Valid values: "load", "domcontentloaded", "networkidle", "commit"
	WaitUntil string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

// SessionInfo contains metadata about a browser session.
type SessionInfo struct {
	Name       string
	CurrentURL string
	Headless   bool
	Extensions int
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// Default values for sessions and profiles
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 5
	DefaultIdleTimeout    = 300 // 5 minutes in seconds
	DefaultMaxExtensions  = 8
)
