package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/organization/model"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
)

type Organization interface {
	Insert(ctx context.Context, org model.Organization) error
	Get(ctx context.Context, id string) (model.Organization, error)
	GetAll(ctx context.Context, params gDto.QueryParams) ([]model.Organization, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, org model.Organization) error
}

type repositoryImpl struct {
	store store.Store
	otel  otel.Otel
}

func New(docStore store.Store, otl otel.Otel) Organization {
	return &repositoryImpl{
		store: docStore,
		otel:  otl,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, org model.Organization) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".organization.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	org.Type = model.DocType

	if _, err = r.store.Insert(ctx, org.ID, org); err != nil {
		return fmt.Errorf("failed to insert organization: %w", err)
	}

	return nil
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (org model.Organization, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".organization.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	doc, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return org, err
		}

		return org, fmt.Errorf("failed to get organization %s: %w", id, err)
	}

	if err = doc.Unmarshal(&org); err != nil {
		return org, fmt.Errorf("failed to decode organization %s: %w", id, err)
	}

	if org.Type != model.DocType {
		return model.Organization{}, store.ErrNotFound
	}

	org.Rev = doc.Rev

	return org, nil
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams) (orgs []model.Organization, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".organization.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := store.Query{
		Selector: store.Selector{"type": model.DocType},
		Sort:     []store.Sort{{Field: "name"}},
	}
	query.Limit, query.Skip = params.LimitSkip()

	docs, err := r.store.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find organizations: %w", err)
	}

	orgs = make([]model.Organization, len(docs))
	for i, doc := range docs {
		if err = doc.Unmarshal(&orgs[i]); err != nil {
			return nil, fmt.Errorf("failed to decode organization %s: %w", doc.ID, err)
		}

		orgs[i].Rev = doc.Rev
	}

	return orgs, nil
}

func (r *repositoryImpl) Count(ctx context.Context) (count int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".organization.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	count, err = r.store.Count(ctx, store.Selector{"type": model.DocType})
	if err != nil {
		return 0, fmt.Errorf("failed to count organizations: %w", err)
	}

	return count, nil
}

func (r *repositoryImpl) Update(ctx context.Context, org model.Organization) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".organization.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	org.Type = model.DocType

	if _, err = r.store.Put(ctx, org.ID, org.Rev, org); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrConflict) {
			return err
		}

		return fmt.Errorf("failed to update organization %s: %w", org.ID, err)
	}

	return nil
}
