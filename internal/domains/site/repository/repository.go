package repository

import (
	"context"
	"errors"
	"fmt"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/site/model"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
)

type Site interface {
	Insert(ctx context.Context, site model.Site) error
	Get(ctx context.Context, id string) (model.Site, error)
	GetAllByOrg(ctx context.Context, params gDto.QueryParams, orgID string) ([]model.Site, error)
	CountByOrg(ctx context.Context, orgID string) (int, error)
	Update(ctx context.Context, site model.Site) error
}

type repositoryImpl struct {
	store store.Store
	otel  otel.Otel
}

func New(docStore store.Store, otl otel.Otel) Site {
	return &repositoryImpl{
		store: docStore,
		otel:  otl,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, site model.Site) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".site.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	site.Type = model.DocType

	if _, err = r.store.Insert(ctx, site.ID, site); err != nil {
		return fmt.Errorf("failed to insert site: %w", err)
	}

	return nil
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (site model.Site, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".site.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	doc, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return site, err
		}

		return site, fmt.Errorf("failed to get site %s: %w", id, err)
	}

	if err = doc.Unmarshal(&site); err != nil {
		return site, fmt.Errorf("failed to decode site %s: %w", id, err)
	}

	if site.Type != model.DocType {
		return model.Site{}, store.ErrNotFound
	}

	site.Rev = doc.Rev

	return site, nil
}

func (r *repositoryImpl) GetAllByOrg(ctx context.Context, params gDto.QueryParams, orgID string) (sites []model.Site, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".site.GetAllByOrg")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := store.Query{
		Selector: store.Selector{"type": model.DocType, "org_id": orgID},
		Sort:     []store.Sort{{Field: "name"}},
	}
	query.Limit, query.Skip = params.LimitSkip()

	docs, err := r.store.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find sites: %w", err)
	}

	sites = make([]model.Site, len(docs))
	for i, doc := range docs {
		if err = doc.Unmarshal(&sites[i]); err != nil {
			return nil, fmt.Errorf("failed to decode site %s: %w", doc.ID, err)
		}

		sites[i].Rev = doc.Rev
	}

	return sites, nil
}

func (r *repositoryImpl) CountByOrg(ctx context.Context, orgID string) (count int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".site.CountByOrg")
	defer scope.End()
	defer scope.TraceIfError(err)

	count, err = r.store.Count(ctx, store.Selector{"type": model.DocType, "org_id": orgID})
	if err != nil {
		return 0, fmt.Errorf("failed to count sites: %w", err)
	}

	return count, nil
}

func (r *repositoryImpl) Update(ctx context.Context, site model.Site) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".site.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	site.Type = model.DocType

	if _, err = r.store.Put(ctx, site.ID, site.Rev, site); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrConflict) {
			return err
		}

		return fmt.Errorf("failed to update site %s: %w", site.ID, err)
	}

	return nil
}
