package couchstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	kivik "github.com/go-kivik/kivik/v4"
	"github.com/rs/zerolog/log"

	"scheduleright/infras/otel"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
)

const (
	// Mango find defaults to 25 results; queries without an explicit limit
	// should still see every matching document.
	defaultFindLimit = 1000

	upsertAttempts = 3
)

// mangoIndexes are created on startup so sorted finds do not fall back to
// full database scans.
var mangoIndexes = []struct {
	name   string
	fields []string
}{
	{name: "idx-type-name", fields: []string{"type", "name"}},
	{name: "idx-type-org", fields: []string{"type", "org_id"}},
	{name: "idx-type-site", fields: []string{"type", "site_id"}},
	{name: "idx-type-start", fields: []string{"type", "site_id", "start_time"}},
	{name: "idx-type-token", fields: []string{"type", "token"}},
	{name: "idx-type-timestamp", fields: []string{"type", "timestamp"}},
	{name: "idx-type-email", fields: []string{"type", "email"}},
}

type couchStore struct {
	db   *kivik.DB
	otel otel.Otel
}

// New wraps a CouchDB database handle with the document store contract.
// Selector queries map directly onto Mango find.
func New(db *kivik.DB, otl otel.Otel) store.Store {
	ctx := context.Background()

	for _, idx := range mangoIndexes {
		err := db.CreateIndex(ctx, "", idx.name, map[string]any{"fields": idx.fields})
		if err != nil {
			log.Warn().Err(err).Str("index", idx.name).Msg("Failed to create Mango index")
		}
	}

	return &couchStore{
		db:   db,
		otel: otl,
	}
}

func (c *couchStore) Find(ctx context.Context, query store.Query) (docs []store.Document, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".couch.Find")
	defer scope.End()
	defer scope.TraceIfError(err)

	rs := c.db.Find(ctx, c.buildFind(query))
	defer rs.Close()

	for rs.Next() {
		var body json.RawMessage
		if err = rs.ScanDoc(&body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		id, err := rs.ID()
		if err != nil {
			return nil, fmt.Errorf("failed to read document id: %w", err)
		}

		rev, err := rs.Rev()
		if err != nil {
			return nil, fmt.Errorf("failed to read document rev: %w", err)
		}

		docs = append(docs, store.Document{ID: id, Rev: rev, Body: body})
	}

	if err = rs.Err(); err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}

	return docs, nil
}

func (c *couchStore) Count(ctx context.Context, selector store.Selector) (count int, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".couch.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := map[string]any{
		"selector": selector.Mango(),
		"fields":   []string{"_id"},
		"limit":    defaultFindLimit,
	}

	rs := c.db.Find(ctx, query)
	defer rs.Close()

	for rs.Next() {
		count++
	}

	if err = rs.Err(); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}

func (c *couchStore) Get(ctx context.Context, id string) (doc store.Document, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".couch.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	row := c.db.Get(ctx, id)

	var body json.RawMessage
	if err = row.ScanDoc(&body); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return doc, store.ErrNotFound
		}

		return doc, fmt.Errorf("failed to get document %s: %w", id, err)
	}

	rev, err := row.Rev()
	if err != nil {
		return doc, fmt.Errorf("failed to read document rev: %w", err)
	}

	return store.Document{ID: id, Rev: rev, Body: body}, nil
}

func (c *couchStore) Insert(ctx context.Context, id string, body any) (res store.Result, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".couch.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	doc, err := c.toDoc(id, "", body)
	if err != nil {
		return res, err
	}

	rev, err := c.db.Put(ctx, id, doc)
	if err != nil {
		if kivik.HTTPStatus(err) == http.StatusConflict {
			return res, store.ErrConflict
		}

		return res, fmt.Errorf("failed to insert document %s: %w", id, err)
	}

	return store.Result{ID: id, Rev: rev}, nil
}

func (c *couchStore) Put(ctx context.Context, id, rev string, body any) (res store.Result, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".couch.Put")
	defer scope.End()
	defer scope.TraceIfError(err)

	if rev != "" {
		return c.put(ctx, id, rev, body)
	}

	// Unconditional replace: pick up the current revision and retry the
	// handful of times a concurrent writer may bump it underneath us.
	for range upsertAttempts {
		current, err := c.Get(ctx, id)
		currentRev := ""

		switch {
		case err == nil:
			currentRev = current.Rev
		case err == store.ErrNotFound:
		default:
			return res, err
		}

		res, err = c.put(ctx, id, currentRev, body)
		if err == store.ErrConflict {
			continue
		}

		return res, err
	}

	return res, store.ErrConflict
}

func (c *couchStore) put(ctx context.Context, id, rev string, body any) (res store.Result, err error) {
	doc, err := c.toDoc(id, rev, body)
	if err != nil {
		return res, err
	}

	newRev, err := c.db.Put(ctx, id, doc)
	if err != nil {
		switch kivik.HTTPStatus(err) {
		case http.StatusConflict:
			return res, store.ErrConflict
		case http.StatusNotFound:
			return res, store.ErrNotFound
		}

		return res, fmt.Errorf("failed to put document %s: %w", id, err)
	}

	return store.Result{ID: id, Rev: newRev}, nil
}

func (c *couchStore) Info(ctx context.Context) (info store.Info, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".couch.Info")
	defer scope.End()
	defer scope.TraceIfError(err)

	stats, err := c.db.Stats(ctx)
	if err != nil {
		return info, fmt.Errorf("failed to read database stats: %w", err)
	}

	return store.Info{
		Backend:  "couch",
		Name:     stats.Name,
		DocCount: stats.DocCount,
	}, nil
}

func (c *couchStore) buildFind(query store.Query) map[string]any {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultFindLimit
	}

	find := map[string]any{
		"selector": query.Selector.Mango(),
		"limit":    limit,
	}

	if query.Skip > 0 {
		find["skip"] = query.Skip
	}

	if len(query.Sort) > 0 {
		sorts := make([]map[string]string, 0, len(query.Sort))

		for _, sort := range query.Sort {
			dir := "asc"
			if sort.Descending {
				dir = "desc"
			}

			sorts = append(sorts, map[string]string{sort.Field: dir})
		}

		find["sort"] = sorts
	}

	return find
}

// toDoc rebuilds the body as a generic document so the CouchDB control fields
// can be injected without the models knowing about them.
func (c *couchStore) toDoc(id, rev string, body any) (map[string]any, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document %s: %w", id, err)
	}

	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to rebuild document %s: %w", id, err)
	}

	doc["_id"] = id

	if rev != "" {
		doc["_rev"] = rev
	} else {
		delete(doc, "_rev")
	}

	return doc, nil
}
