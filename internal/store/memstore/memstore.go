// Package memstore keeps documents in process memory. It backs the "memory"
// store driver and carries the same rev semantics as the persistent backends,
// which makes it the store of choice in tests.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"scheduleright/internal/store"
)

type entry struct {
	rev  int64
	body []byte
}

type memStore struct {
	mu   sync.RWMutex
	docs map[string]entry
}

func New() store.Store {
	return &memStore{
		docs: make(map[string]entry),
	}
}

func (s *memStore) Find(_ context.Context, query store.Query) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]store.Document, 0)

	for id, e := range s.docs {
		fields := map[string]any{}
		if err := json.Unmarshal(e.body, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}

		ok, err := matches(fields, query.Selector)
		if err != nil {
			return nil, err
		}

		if ok {
			matched = append(matched, store.Document{
				ID:   id,
				Rev:  strconv.FormatInt(e.rev, 10),
				Body: append(json.RawMessage(nil), e.body...),
			})
		}
	}

	if err := sortDocs(matched, query.Sort); err != nil {
		return nil, err
	}

	if query.Skip > 0 {
		if query.Skip >= len(matched) {
			matched = matched[:0]
		} else {
			matched = matched[query.Skip:]
		}
	}

	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}

	return matched, nil
}

func (s *memStore) Count(ctx context.Context, selector store.Selector) (int, error) {
	docs, err := s.Find(ctx, store.Query{Selector: selector})
	if err != nil {
		return 0, err
	}

	return len(docs), nil
}

func (s *memStore) Get(_ context.Context, id string) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.docs[id]
	if !ok {
		return store.Document{}, store.ErrNotFound
	}

	return store.Document{
		ID:   id,
		Rev:  strconv.FormatInt(e.rev, 10),
		Body: append(json.RawMessage(nil), e.body...),
	}, nil
}

func (s *memStore) Insert(_ context.Context, id string, body any) (store.Result, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return store.Result{}, fmt.Errorf("failed to marshal document %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; exists {
		return store.Result{}, store.ErrConflict
	}

	s.docs[id] = entry{rev: 1, body: raw}

	return store.Result{ID: id, Rev: "1"}, nil
}

func (s *memStore) Put(_ context.Context, id, rev string, body any) (store.Result, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return store.Result{}, fmt.Errorf("failed to marshal document %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.docs[id]

	if rev == "" {
		next := int64(1)
		if exists {
			next = current.rev + 1
		}

		s.docs[id] = entry{rev: next, body: raw}

		return store.Result{ID: id, Rev: strconv.FormatInt(next, 10)}, nil
	}

	if !exists {
		return store.Result{}, store.ErrNotFound
	}

	revNum, err := strconv.ParseInt(rev, 10, 64)
	if err != nil {
		return store.Result{}, fmt.Errorf("invalid document rev %q: %w", rev, err)
	}

	if current.rev != revNum {
		return store.Result{}, store.ErrConflict
	}

	s.docs[id] = entry{rev: revNum + 1, body: raw}

	return store.Result{ID: id, Rev: strconv.FormatInt(revNum+1, 10)}, nil
}

func (s *memStore) Info(_ context.Context) (store.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return store.Info{
		Backend:  "memory",
		Name:     "memory",
		DocCount: int64(len(s.docs)),
	}, nil
}

func matches(fields map[string]any, selector store.Selector) (bool, error) {
	for field, value := range selector {
		actual := fields[field]

		for _, cond := range asConds(value) {
			ok, err := evaluate(actual, cond)
			if err != nil {
				return false, err
			}

			if !ok {
				return false, nil
			}
		}
	}

	return true, nil
}

func asConds(value any) store.Conds {
	switch v := value.(type) {
	case store.Cond:
		return store.Conds{v}
	case store.Conds:
		return v
	default:
		return store.Conds{{Op: store.OpEq, Value: v}}
	}
}

func evaluate(actual any, cond store.Cond) (bool, error) {
	switch cond.Op {
	case store.OpEq:
		return equal(actual, cond.Value), nil
	case store.OpNe:
		return !equal(actual, cond.Value), nil
	case store.OpGte:
		cmp, err := compare(actual, cond.Value)

		return err == nil && cmp >= 0, nil
	case store.OpLte:
		cmp, err := compare(actual, cond.Value)

		return err == nil && cmp <= 0, nil
	case store.OpIn:
		values, ok := cond.Value.([]any)
		if !ok {
			return false, fmt.Errorf("$in requires a list of values")
		}

		for _, v := range values {
			if equal(actual, v) {
				return true, nil
			}
		}

		return false, nil
	default:
		return false, fmt.Errorf("unsupported selector operator: %s", cond.Op)
	}
}

// equal compares through the JSON number representation so int selector
// values match float64 decoded fields.
func equal(actual, expected any) bool {
	an, aok := asNumber(actual)
	en, eok := asNumber(expected)

	if aok && eok {
		return an == en
	}

	return actual == expected
}

func compare(actual, expected any) (int, error) {
	if an, ok := asNumber(actual); ok {
		en, ok := asNumber(expected)
		if !ok {
			return 0, fmt.Errorf("cannot compare number with %T", expected)
		}

		switch {
		case an < en:
			return -1, nil
		case an > en:
			return 1, nil
		default:
			return 0, nil
		}
	}

	as, aok := actual.(string)
	es, eok := expected.(string)

	if aok && eok {
		switch {
		case as < es:
			return -1, nil
		case as > es:
			return 1, nil
		default:
			return 0, nil
		}
	}

	return 0, fmt.Errorf("cannot compare %T with %T", actual, expected)
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func sortDocs(docs []store.Document, sorts []store.Sort) error {
	if len(sorts) == 0 {
		// Deterministic order for paging even without an explicit sort.
		sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

		return nil
	}

	type keyed struct {
		doc    store.Document
		fields map[string]any
	}

	items := make([]keyed, len(docs))

	for i, doc := range docs {
		fields := map[string]any{}
		if err := json.Unmarshal(doc.Body, &fields); err != nil {
			return fmt.Errorf("failed to decode document %s: %w", doc.ID, err)
		}

		items[i] = keyed{doc: doc, fields: fields}
	}

	sort.SliceStable(items, func(i, j int) bool {
		for _, s := range sorts {
			cmp, err := compare(items[i].fields[s.Field], items[j].fields[s.Field])
			if err != nil || cmp == 0 {
				continue
			}

			if s.Descending {
				return cmp > 0
			}

			return cmp < 0
		}

		return items[i].doc.ID < items[j].doc.ID
	})

	for i, item := range items {
		docs[i] = item.doc
	}

	return nil
}
