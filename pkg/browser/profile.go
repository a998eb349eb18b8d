package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/entrhq/jserrorcollector/pkg/extension"
)

// ErrTooManyExtensions is returned when a profile is full.
var ErrTooManyExtensions = errors.New("extension limit reached")

// Profile collects the extensions a session loads at launch.
// Archive files are unpacked under the profile's work directory because
// Chromium loads unpacked extensions only.
type Profile struct {
	mu            sync.Mutex
	workDir       string
	extensions    []string
	maxExtensions int
}

// NewProfile creates a profile that unpacks archives under workDir.
func NewProfile(workDir string) *Profile {
	return &Profile{
		workDir:       workDir,
		maxExtensions: DefaultMaxExtensions,
	}
}

// SetMaxExtensions sets how many extensions the profile accepts.
func (p *Profile) SetMaxExtensions(max int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maxExtensions = max
}

// AddExtension registers an extension directory or archive (.xpi, .zip).
// Adding the same extension twice is a no-op.
func (p *Profile) AddExtension(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve extension path %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("extension not found: %w", err)
	}

	dir := abs
	if !info.IsDir() {
		dir = filepath.Join(p.workDir, "extensions", strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)))
	}
	for _, existing := range p.extensions {
		if existing == dir {
			return nil
		}
	}
	if len(p.extensions) >= p.maxExtensions {
		return fmt.Errorf("%w (%d)", ErrTooManyExtensions, p.maxExtensions)
	}

	if !info.IsDir() {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clear %s: %w", dir, err)
		}
		if err := extension.Unpack(abs, dir); err != nil {
			return err
		}
	}

	p.extensions = append(p.extensions, dir)
	return nil
}

// Extensions returns the unpacked extension directories in insertion order.
func (p *Profile) Extensions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.extensions))
	copy(out, p.extensions)
	return out
}

// Args returns the Chromium flags that load the profile's extensions.
func (p *Profile) Args() []string {
	exts := p.Extensions()
	if len(exts) == 0 {
		return nil
	}
	list := strings.Join(exts, ",")
	return []string{
		"--disable-extensions-except=" + list,
		"--load-extension=" + list,
	}
}
