// Package store persists extraction runs: the pattern that was applied and
// the per-candidate results it produced.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/unformat/pkg/unformat"
)

// Store persists extraction runs.
// Implementations must be safe for concurrent use.
type Store interface {
	// CreateRun registers a new run.
	// Returns ErrRunExists if a run with the same ID exists.
	CreateRun(run Run) error

	// Append adds records to a run. Sequence numbers are assigned in
	// order, continuing from the last stored record.
	// Returns ErrNotFound if the run doesn't exist.
	Append(runID string, records ...Record) error

	// Records returns a run's records ordered by sequence.
	// Returns ErrNotFound if the run doesn't exist.
	Records(runID string) ([]Record, error)

	// Run returns a run with its record and failure counts filled in.
	// Returns ErrNotFound if the run doesn't exist.
	Run(runID string) (Run, error)

	// Runs returns every run in creation order.
	Runs() ([]Run, error)

	// DeleteRun removes a run and its records.
	// Returns nil if the run doesn't exist.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Run describes one application of a pattern to a batch of candidates.
type Run struct {
	ID         string
	Pattern    string
	Discipline string
	Names      []string
	Formats    []string
	CreatedAt  time.Time

	// Records and Failures are computed on read.
	Records  int
	Failures int
}

// Record is the outcome for one candidate.
type Record struct {
	RunID    string
	Sequence int
	Input    string
	// Values holds the captures; nil when the candidate did not match.
	Values []string
	// Error is the match error text; empty on success.
	Error string
}

// OK reports whether the candidate matched.
func (r Record) OK() bool {
	return r.Error == ""
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a run doesn't exist.
	ErrNotFound = errors.New("run not found")

	// ErrRunExists indicates a run ID is already taken.
	ErrRunExists = errors.New("run already exists")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store closed")
)

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// NewRun describes a run of p with a fresh ID.
func NewRun(p unformat.Unformatter) Run {
	return Run{
		ID:         NewRunID(),
		Pattern:    p.Template(),
		Discipline: p.Discipline().String(),
		Names:      p.Identifiers(),
		Formats:    p.Formats(),
		CreatedAt:  time.Now().UTC(),
	}
}

// RecordsFromOutcomes converts batch outcomes into records. candidates and
// outcomes must be parallel, as returned by UnformatEach.
func RecordsFromOutcomes(candidates []string, outcomes []unformat.Outcome) []Record {
	records := make([]Record, len(outcomes))
	for i, o := range outcomes {
		records[i].Input = candidates[i]
		if o.Err != nil {
			records[i].Error = o.Err.Error()
			continue
		}
		records[i].Values = o.Values.Slice()
	}
	return records
}
