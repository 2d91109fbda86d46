package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/unformat/pkg/unformat"
	"github.com/randalmurphal/unformat/pkg/unformat/store"
)

// storeFactory creates a store instance for testing.
type storeFactory func(t *testing.T) store.Store

func testRun(id string) store.Run {
	return store.Run{
		ID:         id,
		Pattern:    "{month}_{day:int}",
		Discipline: "named",
		Names:      []string{"month", "day"},
		Formats:    []string{"", "int"},
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC),
	}
}

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	t.Run(name+"/CreateRun_and_Run", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		want := testRun("run-1")
		require.NoError(t, s.CreateRun(want))

		got, err := s.Run("run-1")
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Pattern, got.Pattern)
		assert.Equal(t, want.Discipline, got.Discipline)
		assert.Equal(t, want.Names, got.Names)
		assert.Equal(t, want.Formats, got.Formats)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		assert.Zero(t, got.Records)
		assert.Zero(t, got.Failures)
	})

	t.Run(name+"/CreateRun_Duplicate", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.CreateRun(testRun("run-1")))
		assert.ErrorIs(t, s.CreateRun(testRun("run-1")), store.ErrRunExists)
	})

	t.Run(name+"/Run_NotFound", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		_, err := s.Run("missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.Records("missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.Append("missing", store.Record{Input: "x"}), store.ErrNotFound)
	})

	t.Run(name+"/Append_and_Records", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.CreateRun(testRun("run-1")))

		records, err := s.Records("run-1")
		require.NoError(t, err)
		assert.Empty(t, records)

		require.NoError(t, s.Append("run-1",
			store.Record{Input: "Jan_1", Values: []string{"Jan", "1"}},
			store.Record{Input: "bad", Error: "no match"},
		))
		require.NoError(t, s.Append("run-1",
			store.Record{Input: "Feb_2", Values: []string{"Feb", "2"}},
		))

		records, err = s.Records("run-1")
		require.NoError(t, err)
		require.Len(t, records, 3)

		for i, r := range records {
			assert.Equal(t, "run-1", r.RunID)
			assert.Equal(t, i+1, r.Sequence)
		}
		assert.Equal(t, []string{"Jan", "1"}, records[0].Values)
		assert.True(t, records[0].OK())
		assert.Nil(t, records[1].Values)
		assert.Equal(t, "no match", records[1].Error)
		assert.False(t, records[1].OK())
		assert.Equal(t, "Feb_2", records[2].Input)

		run, err := s.Run("run-1")
		require.NoError(t, err)
		assert.Equal(t, 3, run.Records)
		assert.Equal(t, 1, run.Failures)
	})

	t.Run(name+"/Append_Isolated_Runs", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.CreateRun(testRun("a")))
		require.NoError(t, s.CreateRun(testRun("b")))
		require.NoError(t, s.Append("a", store.Record{Input: "1"}))
		require.NoError(t, s.Append("b", store.Record{Input: "2"}, store.Record{Input: "3"}))

		ra, err := s.Records("a")
		require.NoError(t, err)
		rb, err := s.Records("b")
		require.NoError(t, err)
		assert.Len(t, ra, 1)
		assert.Len(t, rb, 2)
		assert.Equal(t, 1, rb[0].Sequence)
	})

	t.Run(name+"/Runs_Ordered", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		runs, err := s.Runs()
		require.NoError(t, err)
		assert.Empty(t, runs)

		for _, id := range []string{"c", "a", "b"} {
			require.NoError(t, s.CreateRun(testRun(id)))
		}
		require.NoError(t, s.Append("a", store.Record{Input: "x", Error: "e"}))

		runs, err = s.Runs()
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "c", runs[0].ID)
		assert.Equal(t, "a", runs[1].ID)
		assert.Equal(t, "b", runs[2].ID)
		assert.Equal(t, 1, runs[1].Failures)
	})

	t.Run(name+"/DeleteRun", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.CreateRun(testRun("run-1")))
		require.NoError(t, s.Append("run-1", store.Record{Input: "x"}))
		require.NoError(t, s.DeleteRun("run-1"))

		_, err := s.Run("run-1")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.Records("run-1")
		assert.ErrorIs(t, err, store.ErrNotFound)

		// Deleting again is fine, and the ID can be reused.
		require.NoError(t, s.DeleteRun("run-1"))
		require.NoError(t, s.CreateRun(testRun("run-1")))
		records, err := s.Records("run-1")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.CreateRun(testRun("run-1")))
		require.NoError(t, s.Close())

		assert.ErrorIs(t, s.CreateRun(testRun("run-2")), store.ErrStoreClosed)
		assert.ErrorIs(t, s.Append("run-1"), store.ErrStoreClosed)
		_, err := s.Records("run-1")
		assert.ErrorIs(t, err, store.ErrStoreClosed)
		_, err = s.Run("run-1")
		assert.ErrorIs(t, err, store.ErrStoreClosed)
		_, err = s.Runs()
		assert.ErrorIs(t, err, store.ErrStoreClosed)
		assert.ErrorIs(t, s.DeleteRun("run-1"), store.ErrStoreClosed)
	})
}

// TestMemoryStore runs contract tests against MemoryStore.
func TestMemoryStore(t *testing.T) {
	factory := func(t *testing.T) store.Store {
		return store.NewMemoryStore()
	}
	storeContractTest(t, "MemoryStore", factory)
}

// TestSQLiteStore runs contract tests against SQLiteStore.
func TestSQLiteStore(t *testing.T) {
	factory := func(t *testing.T) store.Store {
		s, err := store.NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return s
	}
	storeContractTest(t, "SQLiteStore", factory)
}

func TestNewRunID(t *testing.T) {
	a, b := store.NewRunID(), store.NewRunID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestNewRun(t *testing.T) {
	p, err := unformat.Compile("{level}: {msg:str}")
	require.NoError(t, err)

	run := store.NewRun(p)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "{level}: {msg:str}", run.Pattern)
	assert.Equal(t, "named", run.Discipline)
	assert.Equal(t, []string{"level", "msg"}, run.Names)
	assert.Equal(t, []string{"", "str"}, run.Formats)
	assert.WithinDuration(t, time.Now(), run.CreatedAt, time.Minute)
}

func TestRecordsFromOutcomes(t *testing.T) {
	p, err := unformat.CompilePositional("{}={}")
	require.NoError(t, err)

	candidates := []string{"a=1", "oops"}
	records := store.RecordsFromOutcomes(candidates, p.UnformatEach(candidates))
	require.Len(t, records, 2)

	assert.Equal(t, "a=1", records[0].Input)
	assert.Equal(t, []string{"a", "1"}, records[0].Values)
	assert.True(t, records[0].OK())

	assert.Equal(t, "oops", records[1].Input)
	assert.Nil(t, records[1].Values)
	assert.False(t, records[1].OK())

	_, matchErr := p.Unformat("oops")
	assert.True(t, errors.Is(matchErr, unformat.ErrNoMatch))
	assert.Equal(t, matchErr.Error(), records[1].Error)
}
