package repository

import (
	"context"
	"errors"
	"fmt"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/embed/model"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
)

type Embed interface {
	Insert(ctx context.Context, embed model.EmbedConfig) error
	Get(ctx context.Context, id string) (model.EmbedConfig, error)
	GetByToken(ctx context.Context, token string) (model.EmbedConfig, error)
	GetAllByOrg(ctx context.Context, params gDto.QueryParams, orgID string) ([]model.EmbedConfig, error)
	CountByOrg(ctx context.Context, orgID string) (int, error)
	Update(ctx context.Context, embed model.EmbedConfig) error
}

type repositoryImpl struct {
	store store.Store
	otel  otel.Otel
}

func New(docStore store.Store, otl otel.Otel) Embed {
	return &repositoryImpl{
		store: docStore,
		otel:  otl,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, embed model.EmbedConfig) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".embed.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	embed.Type = model.DocType

	if _, err = r.store.Insert(ctx, embed.ID, embed); err != nil {
		return fmt.Errorf("failed to insert embed config: %w", err)
	}

	return nil
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (embed model.EmbedConfig, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".embed.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	doc, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return embed, err
		}

		return embed, fmt.Errorf("failed to get embed config %s: %w", id, err)
	}

	if err = doc.Unmarshal(&embed); err != nil {
		return embed, fmt.Errorf("failed to decode embed config %s: %w", id, err)
	}

	if embed.Type != model.DocType {
		return model.EmbedConfig{}, store.ErrNotFound
	}

	embed.Rev = doc.Rev

	return embed, nil
}

func (r *repositoryImpl) GetByToken(ctx context.Context, token string) (embed model.EmbedConfig, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".embed.GetByToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	docs, err := r.store.Find(ctx, store.Query{
		Selector: store.Selector{"type": model.DocType, "token": token},
		Limit:    1,
	})
	if err != nil {
		return embed, fmt.Errorf("failed to find embed config by token: %w", err)
	}

	if len(docs) == 0 {
		return embed, store.ErrNotFound
	}

	if err = docs[0].Unmarshal(&embed); err != nil {
		return embed, fmt.Errorf("failed to decode embed config %s: %w", docs[0].ID, err)
	}

	embed.Rev = docs[0].Rev

	return embed, nil
}

func (r *repositoryImpl) GetAllByOrg(ctx context.Context, params gDto.QueryParams, orgID string) (embeds []model.EmbedConfig, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".embed.GetAllByOrg")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := store.Query{
		Selector: store.Selector{"type": model.DocType, "org_id": orgID},
		Sort:     []store.Sort{{Field: constant.FieldCreatedAt, Descending: true}},
	}
	query.Limit, query.Skip = params.LimitSkip()

	docs, err := r.store.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find embed configs: %w", err)
	}

	embeds = make([]model.EmbedConfig, len(docs))
	for i, doc := range docs {
		if err = doc.Unmarshal(&embeds[i]); err != nil {
			return nil, fmt.Errorf("failed to decode embed config %s: %w", doc.ID, err)
		}

		embeds[i].Rev = doc.Rev
	}

	return embeds, nil
}

func (r *repositoryImpl) CountByOrg(ctx context.Context, orgID string) (count int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".embed.CountByOrg")
	defer scope.End()
	defer scope.TraceIfError(err)

	count, err = r.store.Count(ctx, store.Selector{"type": model.DocType, "org_id": orgID})
	if err != nil {
		return 0, fmt.Errorf("failed to count embed configs: %w", err)
	}

	return count, nil
}

func (r *repositoryImpl) Update(ctx context.Context, embed model.EmbedConfig) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".embed.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	embed.Type = model.DocType

	if _, err = r.store.Put(ctx, embed.ID, embed.Rev, embed); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrConflict) {
			return err
		}

		return fmt.Errorf("failed to update embed config %s: %w", embed.ID, err)
	}

	return nil
}
