package repository

import (
	"context"
	"fmt"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/audit/model"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
)

type Audit interface {
	Insert(ctx context.Context, entry model.Entry) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Entry, error)
	Count(ctx context.Context, filter model.Filter) (int, error)
}

type repositoryImpl struct {
	store store.Store
	otel  otel.Otel
}

func New(docStore store.Store, otl otel.Otel) Audit {
	return &repositoryImpl{
		store: docStore,
		otel:  otl,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, entry model.Entry) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".audit.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	entry.Type = model.DocType

	if _, err = r.store.Insert(ctx, entry.ID, entry); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) (entries []model.Entry, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".audit.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := store.Query{
		Selector: filter.Selector(),
		Sort:     []store.Sort{{Field: model.FieldTimestamp, Descending: true}},
	}

	query.Limit, query.Skip = params.LimitSkip()

	docs, err := r.store.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit entries: %w", err)
	}

	entries = make([]model.Entry, len(docs))
	for i, doc := range docs {
		if err = doc.Unmarshal(&entries[i]); err != nil {
			return nil, fmt.Errorf("failed to decode audit entry %s: %w", doc.ID, err)
		}
	}

	return entries, nil
}

func (r *repositoryImpl) Count(ctx context.Context, filter model.Filter) (count int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".audit.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	count, err = r.store.Count(ctx, filter.Selector())
	if err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	return count, nil
}
