package store

import (
	"slices"
	"sync"
)

// MemoryStore is an in-memory run store for testing and one-shot CLI use.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	runs    map[string]Run
	records map[string][]Record
	closed  bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[string]Run),
		records: make(map[string][]Record),
	}
}

// CreateRun implements Store.
func (m *MemoryStore) CreateRun(run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if _, ok := m.runs[run.ID]; ok {
		return ErrRunExists
	}

	run.Names = slices.Clone(run.Names)
	run.Formats = slices.Clone(run.Formats)
	run.Records, run.Failures = 0, 0
	m.runs[run.ID] = run
	m.order = append(m.order, run.ID)
	return nil
}

// Append implements Store.
func (m *MemoryStore) Append(runID string, records ...Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if _, ok := m.runs[runID]; !ok {
		return ErrNotFound
	}

	seq := len(m.records[runID])
	for _, r := range records {
		seq++
		r.RunID = runID
		r.Sequence = seq
		r.Values = slices.Clone(r.Values)
		m.records[runID] = append(m.records[runID], r)
	}
	return nil
}

// Records implements Store.
func (m *MemoryStore) Records(runID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	if _, ok := m.runs[runID]; !ok {
		return nil, ErrNotFound
	}

	stored := m.records[runID]
	out := make([]Record, len(stored))
	for i, r := range stored {
		r.Values = slices.Clone(r.Values)
		out[i] = r
	}
	return out, nil
}

// Run implements Store.
func (m *MemoryStore) Run(runID string) (Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Run{}, ErrStoreClosed
	}
	run, ok := m.runs[runID]
	if !ok {
		return Run{}, ErrNotFound
	}
	return m.summarize(run), nil
}

// Runs implements Store.
func (m *MemoryStore) Runs() ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	runs := make([]Run, 0, len(m.order))
	for _, id := range m.order {
		runs = append(runs, m.summarize(m.runs[id]))
	}
	return runs, nil
}

// summarize copies run and fills in its counts. Callers hold m.mu.
func (m *MemoryStore) summarize(run Run) Run {
	run.Names = slices.Clone(run.Names)
	run.Formats = slices.Clone(run.Formats)
	for _, r := range m.records[run.ID] {
		run.Records++
		if !r.OK() {
			run.Failures++
		}
	}
	return run
}

// DeleteRun implements Store.
func (m *MemoryStore) DeleteRun(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if _, ok := m.runs[runID]; !ok {
		return nil
	}
	delete(m.runs, runID)
	delete(m.records, runID)
	m.order = slices.DeleteFunc(m.order, func(id string) bool { return id == runID })
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.runs = nil
	m.records = nil
	m.order = nil
	return nil
}

// Len returns the total number of records across all runs.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, records := range m.records {
		count += len(records)
	}
	return count
}
