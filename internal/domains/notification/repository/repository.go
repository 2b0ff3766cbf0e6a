package repository

import (
	"context"
	"errors"
	"fmt"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/notification/model"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
)

type Preference interface {
	GetByUser(ctx context.Context, userID string) (model.Preference, error)
	Upsert(ctx context.Context, pref model.Preference) error
}

type repositoryImpl struct {
	store store.Store
	otel  otel.Otel
}

func New(docStore store.Store, otl otel.Otel) Preference {
	return &repositoryImpl{
		store: docStore,
		otel:  otl,
	}
}

func (r *repositoryImpl) GetByUser(ctx context.Context, userID string) (pref model.Preference, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.GetByUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	doc, err := r.store.Get(ctx, model.DocID(userID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return pref, err
		}

		return pref, fmt.Errorf("failed to get notification preference for user %s: %w", userID, err)
	}

	if err = doc.Unmarshal(&pref); err != nil {
		return pref, fmt.Errorf("failed to decode notification preference %s: %w", doc.ID, err)
	}

	pref.Rev = doc.Rev

	return pref, nil
}

func (r *repositoryImpl) Upsert(ctx context.Context, pref model.Preference) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.Upsert")
	defer scope.End()
	defer scope.TraceIfError(err)

	pref.ID = model.DocID(pref.UserID)
	pref.Type = model.DocType

	if _, err = r.store.Put(ctx, pref.ID, pref.Rev, pref); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return err
		}

		return fmt.Errorf("failed to upsert notification preference %s: %w", pref.ID, err)
	}

	return nil
}
