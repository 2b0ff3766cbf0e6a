package sqldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduleright/internal/store"
)

func TestBuildWhere(t *testing.T) {
	t.Run("emptySelector", func(t *testing.T) {
		where, args, err := buildWhere(store.Selector{})

		require.NoError(t, err)
		assert.Equal(t, "", where)
		assert.Empty(t, args)
	})

	t.Run("equalityOnIndexedColumns", func(t *testing.T) {
		where, args, err := buildWhere(store.Selector{
			"type":   "booking",
			"org_id": "org-1",
		})

		require.NoError(t, err)
		assert.Equal(t, " WHERE org_id = ? AND doc_type = ?", where)
		assert.Equal(t, []any{"org-1", "booking"}, args)
	})

	t.Run("rangeOperators", func(t *testing.T) {
		where, args, err := buildWhere(store.Selector{
			"start_time": store.Between("2026-09-01T00:00:00Z", "2026-09-30T23:59:59Z"),
		})

		require.NoError(t, err)
		assert.Equal(t, " WHERE start_time >= ? AND start_time <= ?", where)
		assert.Equal(t, []any{"2026-09-01T00:00:00Z", "2026-09-30T23:59:59Z"}, args)
	})

	t.Run("notEqual", func(t *testing.T) {
		where, args, err := buildWhere(store.Selector{
			"status": store.Ne("cancelled"),
		})

		require.NoError(t, err)
		assert.Equal(t, " WHERE status != ?", where)
		assert.Equal(t, []any{"cancelled"}, args)
	})

	t.Run("inList", func(t *testing.T) {
		where, args, err := buildWhere(store.Selector{
			"status": store.In("confirmed", "attended"),
		})

		require.NoError(t, err)
		assert.Equal(t, " WHERE status IN (?, ?)", where)
		assert.Equal(t, []any{"confirmed", "attended"}, args)
	})

	t.Run("emptyInMatchesNothing", func(t *testing.T) {
		where, _, err := buildWhere(store.Selector{
			"status": store.In(),
		})

		require.NoError(t, err)
		assert.Equal(t, " WHERE 1 = 0", where)
	})

	t.Run("unindexedFieldFallsBackToJSONExtract", func(t *testing.T) {
		where, args, err := buildWhere(store.Selector{
			"capacity": store.Gte(float64(5)),
		})

		require.NoError(t, err)
		assert.Equal(t, " WHERE JSON_UNQUOTE(JSON_EXTRACT(body, '$.capacity')) >= ?", where)
		assert.Equal(t, []any{float64(5)}, args)
	})

	t.Run("rejectsUnsafeFieldName", func(t *testing.T) {
		_, _, err := buildWhere(store.Selector{
			"cap'; DROP TABLE documents; --": "x",
		})

		assert.Error(t, err)
	})

	t.Run("deterministicFieldOrder", func(t *testing.T) {
		selector := store.Selector{
			"type":    "slot",
			"site_id": "site-1",
			"org_id":  "org-1",
		}

		first, _, err := buildWhere(selector)
		require.NoError(t, err)

		for range 10 {
			again, _, err := buildWhere(selector)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}

func TestBuildOrder(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		ordering, err := buildOrder(nil)

		require.NoError(t, err)
		assert.Equal(t, "", ordering)
	})

	t.Run("ascendingAndDescending", func(t *testing.T) {
		ordering, err := buildOrder([]store.Sort{
			{Field: "start_time"},
			{Field: "created_at", Descending: true},
		})

		require.NoError(t, err)
		assert.Equal(t, " ORDER BY start_time ASC, JSON_UNQUOTE(JSON_EXTRACT(body, '$.created_at')) DESC", ordering)
	})
}

func TestBuildPagination(t *testing.T) {
	t.Run("limitOnly", func(t *testing.T) {
		clause, args := buildPagination(store.Query{Limit: 20}, nil)

		assert.Equal(t, " LIMIT ?", clause)
		assert.Equal(t, []any{20}, args)
	})

	t.Run("limitAndSkip", func(t *testing.T) {
		clause, args := buildPagination(store.Query{Limit: 20, Skip: 40}, []any{"org-1"})

		assert.Equal(t, " LIMIT ? OFFSET ?", clause)
		assert.Equal(t, []any{"org-1", 20, 40}, args)
	})
}

func TestMarshalBody(t *testing.T) {
	t.Run("extractsIndexColumns", func(t *testing.T) {
		raw, index, err := marshalBody("bk-1", map[string]any{
			"type":         "booking",
			"org_id":       "org-1",
			"client_email": "vol@example.org",
			"status":       "confirmed",
		})

		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"booking","org_id":"org-1","client_email":"vol@example.org","status":"confirmed"}`, string(raw))
		assert.Equal(t, "booking", index.Type)
		assert.Equal(t, "vol@example.org", index.email())
		assert.Equal(t, "confirmed", index.Status)
	})

	t.Run("directEmailWinsOverClientEmail", func(t *testing.T) {
		_, index, err := marshalBody("usr-1", map[string]any{
			"type":  "user",
			"email": "staff@example.org",
		})

		require.NoError(t, err)
		assert.Equal(t, "staff@example.org", index.email())
	})
}
