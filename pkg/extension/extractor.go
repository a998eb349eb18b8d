package extension

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/entrhq/jserrorcollector/pkg/logging"
)

// ErrEmptyArchive means the binary was built without the extension archive.
var ErrEmptyArchive = errors.New("embedded extension archive is empty")

// ExtractError reports a file-system failure while extracting the archive.
type ExtractError struct {
	Path string
	Op   string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Extractor owns the on-disk copy of the extension archive.
type Extractor struct {
	mu     sync.Mutex
	dir    string
	data   []byte
	logger *logging.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDir extracts into dir instead of the system temp directory.
func WithDir(dir string) Option {
	return func(e *Extractor) {
		e.dir = dir
	}
}

// WithArchive replaces the embedded archive bytes.
func WithArchive(data []byte) Option {
	return func(e *Extractor) {
		e.data = data
	}
}

// WithLogger sets the logger used for extraction diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an extractor for the embedded archive.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		dir:    os.TempDir(),
		data:   archive,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns where the archive is (or will be) extracted. It does no I/O.
func (e *Extractor) Path() string {
	path := filepath.Join(e.dir, Filename)
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Extract makes sure the file at Path matches the archive and returns the path.
func (e *Extractor) Extract() (string, error) {
	path := e.Path()
	if _, err := e.extract(path); err != nil {
		return "", err
	}
	return path, nil
}

// extract reports whether the file had to be written.
func (e *Extractor) extract(path string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.data) == 0 {
		return false, ErrEmptyArchive
	}

	same, err := sameContent(path, e.data)
	if err != nil {
		return false, &ExtractError{Path: path, Op: "read", Err: err}
	}
	if same {
		e.logger.Debugf("extension already extracted at %s", path)
		return false, nil
	}

	if err := writeFile(path, e.data); err != nil {
		return false, err
	}
	e.logger.Infof("extracted extension to %s (%d bytes)", path, len(e.data))
	return true, nil
}

func sameContent(path string, data []byte) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !info.Mode().IsRegular() || info.Size() != int64(len(data)) {
		return false, nil
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Equal(existing, data), nil
}

// writeFile writes through a temp file in the same directory and renames it
// over path, so readers never see a partial archive.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &ExtractError{Path: dir, Op: "create directory", Err: err}
	}

	tmp, err := os.CreateTemp(dir, Filename+".*.tmp")
	if err != nil {
		return &ExtractError{Path: path, Op: "create temp file for", Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &ExtractError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &ExtractError{Path: path, Op: "write", Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return &ExtractError{Path: path, Op: "chmod", Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &ExtractError{Path: path, Op: "rename temp file to", Err: err}
	}
	return nil
}
