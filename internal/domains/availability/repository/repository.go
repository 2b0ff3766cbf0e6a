package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/availability/model"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
)

type Slot interface {
	Insert(ctx context.Context, slot model.Slot) error
	Get(ctx context.Context, id string) (model.Slot, error)
	GetAllBySite(ctx context.Context, params gDto.QueryParams, siteID string) ([]model.Slot, error)
	GetByDateRange(ctx context.Context, siteID string, from, to time.Time) ([]model.Slot, error)
	CountBySite(ctx context.Context, siteID string) (int, error)
	Update(ctx context.Context, slot model.Slot) error
}

type repositoryImpl struct {
	store store.Store
	otel  otel.Otel
}

func New(docStore store.Store, otl otel.Otel) Slot {
	return &repositoryImpl{
		store: docStore,
		otel:  otl,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, slot model.Slot) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	slot.Type = model.DocType

	if _, err = r.store.Insert(ctx, slot.ID, slot); err != nil {
		return fmt.Errorf("failed to insert slot: %w", err)
	}

	return nil
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (slot model.Slot, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	doc, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return slot, err
		}

		return slot, fmt.Errorf("failed to get slot %s: %w", id, err)
	}

	if err = doc.Unmarshal(&slot); err != nil {
		return slot, fmt.Errorf("failed to decode slot %s: %w", id, err)
	}

	if slot.Type != model.DocType {
		return model.Slot{}, store.ErrNotFound
	}

	slot.Rev = doc.Rev

	return slot, nil
}

func (r *repositoryImpl) GetAllBySite(ctx context.Context, params gDto.QueryParams, siteID string) (slots []model.Slot, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.GetAllBySite")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := store.Query{
		Selector: store.Selector{"type": model.DocType, "site_id": siteID},
		Sort:     []store.Sort{{Field: model.FieldStartTime}},
	}
	query.Limit, query.Skip = params.LimitSkip()

	return r.find(ctx, query)
}

func (r *repositoryImpl) GetByDateRange(ctx context.Context, siteID string, from, to time.Time) (slots []model.Slot, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.GetByDateRange")
	defer scope.End()
	defer scope.TraceIfError(err)

	// RFC3339 UTC strings order the same way the instants do.
	query := store.Query{
		Selector: store.Selector{
			"type":               model.DocType,
			"site_id":            siteID,
			model.FieldStartTime: store.Between(from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339)),
		},
		Sort: []store.Sort{{Field: model.FieldStartTime}},
	}

	return r.find(ctx, query)
}

func (r *repositoryImpl) CountBySite(ctx context.Context, siteID string) (count int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.CountBySite")
	defer scope.End()
	defer scope.TraceIfError(err)

	count, err = r.store.Count(ctx, store.Selector{"type": model.DocType, "site_id": siteID})
	if err != nil {
		return 0, fmt.Errorf("failed to count slots: %w", err)
	}

	return count, nil
}

// Update replaces the slot at its current rev. A concurrent writer surfaces
// as store.ErrConflict, which booking reservation retries on.
func (r *repositoryImpl) Update(ctx context.Context, slot model.Slot) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	slot.Type = model.DocType

	if _, err = r.store.Put(ctx, slot.ID, slot.Rev, slot); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrConflict) {
			return err
		}

		return fmt.Errorf("failed to update slot %s: %w", slot.ID, err)
	}

	return nil
}

func (r *repositoryImpl) find(ctx context.Context, query store.Query) ([]model.Slot, error) {
	docs, err := r.store.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find slots: %w", err)
	}

	slots := make([]model.Slot, len(docs))
	for i, doc := range docs {
		if err = doc.Unmarshal(&slots[i]); err != nil {
			return nil, fmt.Errorf("failed to decode slot %s: %w", doc.ID, err)
		}

		slots[i].Rev = doc.Rev
	}

	return slots, nil
}
