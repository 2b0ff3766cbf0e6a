package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a document id does not exist in the store.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when a rev-checked write lost against a concurrent update.
	ErrConflict = errors.New("document update conflict")
)

// Document is a stored JSON document together with its revision.
type Document struct {
	ID   string
	Rev  string
	Body json.RawMessage
}

// Unmarshal decodes the document body into the given destination.
func (d Document) Unmarshal(dest any) error {
	if err := json.Unmarshal(d.Body, dest); err != nil {
		return fmt.Errorf("failed to unmarshal document %s: %w", d.ID, err)
	}

	return nil
}

// Result reports the outcome of a write.
type Result struct {
	ID  string
	Rev string
}

// Info describes the backing database.
type Info struct {
	Backend  string
	Name     string
	DocCount int64
}

// Store is the uniform document store contract shared by the CouchDB backend,
// the relational (table-as-document) fallback and the in-memory test backend.
//
// Put with a rev performs a conditional replace: it fails with ErrConflict when
// the stored revision no longer matches, which is what the capacity accounting
// relies on. Put with an empty rev replaces unconditionally (upsert).
type Store interface {
	Find(ctx context.Context, query Query) ([]Document, error)
	Count(ctx context.Context, selector Selector) (int, error)
	Get(ctx context.Context, id string) (Document, error)
	Insert(ctx context.Context, id string, body any) (Result, error)
	Put(ctx context.Context, id, rev string, body any) (Result, error)
	Info(ctx context.Context) (Info, error)
}
