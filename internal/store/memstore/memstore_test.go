package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduleright/internal/store"
)

func TestInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("assignsFirstRev", func(t *testing.T) {
		s := New()

		res, err := s.Insert(ctx, "doc-1", map[string]any{"type": "org"})

		require.NoError(t, err)
		assert.Equal(t, "1", res.Rev)
	})

	t.Run("conflictOnDuplicateID", func(t *testing.T) {
		s := New()

		_, err := s.Insert(ctx, "doc-1", map[string]any{"type": "org"})
		require.NoError(t, err)

		_, err = s.Insert(ctx, "doc-1", map[string]any{"type": "org"})
		assert.ErrorIs(t, err, store.ErrConflict)
	})
}

func TestPut(t *testing.T) {
	ctx := context.Background()

	t.Run("conditionalUpdateBumpsRev", func(t *testing.T) {
		s := New()

		res, err := s.Insert(ctx, "doc-1", map[string]any{"n": 1})
		require.NoError(t, err)

		res, err = s.Put(ctx, "doc-1", res.Rev, map[string]any{"n": 2})
		require.NoError(t, err)
		assert.Equal(t, "2", res.Rev)
	})

	t.Run("staleRevConflicts", func(t *testing.T) {
		s := New()

		res, err := s.Insert(ctx, "doc-1", map[string]any{"n": 1})
		require.NoError(t, err)

		_, err = s.Put(ctx, "doc-1", res.Rev, map[string]any{"n": 2})
		require.NoError(t, err)

		_, err = s.Put(ctx, "doc-1", res.Rev, map[string]any{"n": 3})
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("missingDocNotFound", func(t *testing.T) {
		s := New()

		_, err := s.Put(ctx, "ghost", "1", map[string]any{})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("emptyRevUpserts", func(t *testing.T) {
		s := New()

		res, err := s.Put(ctx, "doc-1", "", map[string]any{"n": 1})
		require.NoError(t, err)
		assert.Equal(t, "1", res.Rev)

		res, err = s.Put(ctx, "doc-1", "", map[string]any{"n": 2})
		require.NoError(t, err)
		assert.Equal(t, "2", res.Rev)
	})

	t.Run("onlyOneConcurrentWriterWins", func(t *testing.T) {
		s := New()

		res, err := s.Insert(ctx, "doc-1", map[string]any{"n": 0})
		require.NoError(t, err)

		var wg sync.WaitGroup

		errs := make([]error, 2)

		for i := range errs {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, errs[i] = s.Put(ctx, "doc-1", res.Rev, map[string]any{"n": i + 1})
			}()
		}

		wg.Wait()

		conflicts := 0
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, store.ErrConflict)

				conflicts++
			}
		}

		assert.Equal(t, 1, conflicts)
	})
}

func TestFind(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) store.Store {
		t.Helper()

		s := New()

		docs := map[string]map[string]any{
			"slot-1": {"type": "slot", "site_id": "site-1", "start_time": "2026-09-01T09:00:00Z", "capacity": 5},
			"slot-2": {"type": "slot", "site_id": "site-1", "start_time": "2026-09-01T10:00:00Z", "capacity": 3},
			"slot-3": {"type": "slot", "site_id": "site-2", "start_time": "2026-09-01T09:00:00Z", "capacity": 1},
			"bk-1":   {"type": "booking", "site_id": "site-1", "status": "confirmed"},
		}

		for id, body := range docs {
			_, err := s.Insert(ctx, id, body)
			require.NoError(t, err)
		}

		return s
	}

	t.Run("equalitySelector", func(t *testing.T) {
		s := seed(t)

		docs, err := s.Find(ctx, store.Query{
			Selector: store.Selector{"type": "slot", "site_id": "site-1"},
		})

		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("rangeOverTimeStrings", func(t *testing.T) {
		s := seed(t)

		docs, err := s.Find(ctx, store.Query{
			Selector: store.Selector{
				"type":       "slot",
				"start_time": store.Gte("2026-09-01T09:30:00Z"),
			},
		})

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "slot-2", docs[0].ID)
	})

	t.Run("numericComparison", func(t *testing.T) {
		s := seed(t)

		docs, err := s.Find(ctx, store.Query{
			Selector: store.Selector{"type": "slot", "capacity": store.Gte(3)},
		})

		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("sortLimitSkip", func(t *testing.T) {
		s := seed(t)

		docs, err := s.Find(ctx, store.Query{
			Selector: store.Selector{"type": "slot"},
			Sort:     []store.Sort{{Field: "start_time"}},
			Limit:    2,
			Skip:     1,
		})

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "2026-09-01T10:00:00Z", mustField(t, docs[1], "start_time"))
	})

	t.Run("countMatchesFind", func(t *testing.T) {
		s := seed(t)

		count, err := s.Count(ctx, store.Selector{"type": "slot"})

		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}

func mustField(t *testing.T, doc store.Document, field string) any {
	t.Helper()

	fields := map[string]any{}
	require.NoError(t, doc.Unmarshal(&fields))

	return fields[field]
}
