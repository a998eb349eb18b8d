package report

import (
	"time"

	"github.com/entrhq/jserrorcollector/pkg/jserror"
)

// Summary describes one watch run.
type Summary struct {
	URL       string           `json:"url"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	Duration  string           `json:"duration"`
	Polls     int              `json:"polls"`
	Installed bool             `json:"collector_installed"`
	Errors    []jserror.Record `json:"errors"`
	Failure   string           `json:"failure,omitempty"`
}

// NewSummary starts a summary for url.
func NewSummary(url string) *Summary {
	return &Summary{
		URL:       url,
		StartTime: time.Now(),
		Errors:    []jserror.Record{},
	}
}

// Add appends the records from one poll.
func (s *Summary) Add(records []jserror.Record) {
	s.Polls++
	s.Errors = append(s.Errors, records...)
}

// Finish stamps the end of the run.
func (s *Summary) Finish(err error) {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime).Round(time.Millisecond).String()
	if err != nil {
		s.Failure = err.Error()
	}
}

// Unique returns the distinct errors seen, in first-seen order, with counts.
func (s *Summary) Unique() ([]jserror.Record, map[string]int) {
	counts := make(map[string]int, len(s.Errors))
	for _, rec := range s.Errors {
		counts[rec.Key()]++
	}
	return jserror.Dedupe(s.Errors), counts
}
