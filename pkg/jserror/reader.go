package jserror

import (
	"fmt"

	"github.com/entrhq/jserrorcollector/pkg/logging"
)

const (
	// PumpScript drains the page collector. It returns an empty list when the
	// collector is not present.
	PumpScript = "return window.JSErrorCollector_errors ? window.JSErrorCollector_errors.pump() : []"

	// ProbeScript reports whether the page collector is present.
	ProbeScript = "return !!window.JSErrorCollector_errors"
)

// ScriptExecutor runs a script body in the current page and returns its
// structured result. The script is a function body ending in a return
// statement; arrays come back as []interface{} and objects as
// map[string]interface{}.
//
// The method set matches the WebDriver "execute script" command, so most
// WebDriver clients satisfy it directly.
type ScriptExecutor interface {
	ExecuteScript(script string, args []interface{}) (interface{}, error)
}

// ReadErrors drains the errors collected since the previous read, in
// collection order. A malformed entry fails the whole read.
func ReadErrors(exec ScriptExecutor) ([]Record, error) {
	return NewReader(exec).Read()
}

// Reader drains the collector of one automation session.
type Reader struct {
	exec   ScriptExecutor
	filter *Filter
	logger *logging.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger sets the logger used for read diagnostics.
func WithLogger(logger *logging.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = logger
	}
}

// WithFilter drops records matched by f from every read.
func WithFilter(f *Filter) ReaderOption {
	return func(r *Reader) {
		r.filter = f
	}
}

// NewReader creates a reader for the given session.
func NewReader(exec ScriptExecutor, opts ...ReaderOption) *Reader {
	r := &Reader{
		exec:   exec,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read drains the collector and returns the decoded records that pass the
// filter. The returned slice is never nil on success.
func (r *Reader) Read() ([]Record, error) {
	result, err := r.exec.ExecuteScript(PumpScript, nil)
	if err != nil {
		r.logger.Errorf("pump script failed: %v", err)
		return nil, &ScriptError{Script: PumpScript, Err: err}
	}

	entries, err := asList(result)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(entries))
	dropped := 0
	for i, entry := range entries {
		raw, ok := entry.(map[string]interface{})
		if !ok {
			return nil, &ParseError{
				Index: i,
				Field: "entry",
				Err:   fmt.Errorf("%w: want object, got %T", ErrInvalidField, entry),
			}
		}

		rec, err := decodeEntry(raw, i)
		if err != nil {
			r.logger.Warnf("discarding read: %v", err)
			return nil, err
		}

		if r.filter.Match(rec) {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	r.logger.Debugf("drained %d error(s), %d ignored", len(entries), dropped)
	return records, nil
}

// Installed reports whether the page exposes the collector. A false result
// with a nil error means the extension is not active in the current page.
func (r *Reader) Installed() (bool, error) {
	result, err := r.exec.ExecuteScript(ProbeScript, nil)
	if err != nil {
		return false, &ScriptError{Script: ProbeScript, Err: err}
	}

	present, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: probe returned %T", ErrUnexpectedResult, result)
	}
	return present, nil
}

func asList(result interface{}) ([]interface{}, error) {
	switch v := result.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		return v, nil
	case []map[string]interface{}:
		list := make([]interface{}, len(v))
		for i := range v {
			list[i] = v[i]
		}
		return list, nil
	default:
		return nil, fmt.Errorf("%w: want list, got %T", ErrUnexpectedResult, result)
	}
}
