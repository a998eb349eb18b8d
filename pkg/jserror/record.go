package jserror

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// Record is one JavaScript error reported by the collector.
// Records are immutable values.
type Record struct {
	message string
	source  string
	line    int
}

// New creates a record from its three parts.
func New(message, source string, line int) Record {
	return Record{message: message, source: source, line: line}
}

// Message returns the error text.
func (r Record) Message() string { return r.message }

// Source returns the script or document the error came from.
func (r Record) Source() string { return r.source }

// Line returns the line number reported by the browser.
func (r Record) Line() int { return r.line }

// String formats the record as "message [source:line]".
func (r Record) String() string {
	return fmt.Sprintf("%s [%s:%d]", r.message, r.source, r.line)
}

// Key returns the identity of the record, suitable as a map key.
func (r Record) Key() string {
	return r.String()
}

// Equal reports whether both records have the same formatted form.
func (r Record) Equal(other Record) bool {
	return r.String() == other.String()
}

// Hash returns a 64-bit FNV-1a hash of the formatted form.
func (r Record) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(r.String()))
	return h.Sum64()
}

// wireRecord uses the keys the collector script emits.
type wireRecord struct {
	ErrorMessage string `json:"errorMessage"`
	SourceName   string `json:"sourceName"`
	LineNumber   int    `json:"lineNumber"`
}

// MarshalJSON encodes the record with the collector's keys.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRecord{
		ErrorMessage: r.message,
		SourceName:   r.source,
		LineNumber:   r.line,
	})
}

// UnmarshalJSON decodes a collector entry with the same rules as FromMap.
// A JSON null leaves the record unchanged.
func (r *Record) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode error record: %w", err)
	}

	rec, err := FromMap(raw)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// Dedupe returns the records with repeats removed, keeping first occurrences.
func Dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Key()]; ok {
			continue
		}
		seen[rec.Key()] = struct{}{}
		out = append(out, rec)
	}
	return out
}
