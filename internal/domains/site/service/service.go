package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"scheduleright/config"
	"scheduleright/infras/otel"
	auditService "scheduleright/internal/domains/audit/service"
	orgRepository "scheduleright/internal/domains/organization/repository"
	"scheduleright/internal/domains/site/model"
	"scheduleright/internal/domains/site/model/dto"
	"scheduleright/internal/domains/site/repository"
	"scheduleright/internal/store"
	"scheduleright/shared"
	"scheduleright/shared/cache"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
	"scheduleright/shared/failure"
)

const (
	cacheGetSite    = "site:get"
	cacheGetAllSite = "site:gets"
)

type Site interface {
	Create(ctx context.Context, req dto.CreateSiteRequest, orgID string) (dto.SiteResponse, error)
	GetAllByOrg(ctx context.Context, params gDto.QueryParams, orgID string) (dto.GetSitesResponse, error)
	Get(ctx context.Context, id string) (dto.SiteResponse, error)
	Update(ctx context.Context, req dto.UpdateSiteRequest, id string) (dto.SiteResponse, error)
}

type serviceImpl struct {
	repo    repository.Site
	orgRepo orgRepository.Organization
	audit   auditService.Audit
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo repository.Site, orgRepo orgRepository.Organization, audit auditService.Audit, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Site {
	return &serviceImpl{
		repo:    repo,
		orgRepo: orgRepo,
		audit:   audit,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateSiteRequest, orgID string) (res dto.SiteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".site.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	org, err := s.orgRepo.Get(ctx, orgID)
	if errors.Is(err, store.ErrNotFound) {
		return res, failure.NotFound("organization not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to check organization existence")

		return res, fmt.Errorf("failed to check organization existence: %w", err)
	}

	if org.Archived() {
		return res, failure.BadRequestFromString("organization is archived") // nolint:wrapcheck
	}

	site := req.ToModel(orgID, org.Settings.Timezone, user)

	if err = s.repo.Insert(ctx, site); err != nil {
		log.Error().Err(err).Msg("failed to insert site")

		return res, fmt.Errorf("failed to insert site: %w", err)
	}

	s.audit.Record(ctx, constant.AuditActionCreate, model.DocType, site.ID, map[string]any{"name": site.Name})

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllSite)
	}()

	res.FromModel(site)

	return res, nil
}

func (s *serviceImpl) GetAllByOrg(ctx context.Context, params gDto.QueryParams, orgID string) (res dto.GetSitesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".site.GetAllByOrg")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllSite, params, orgID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for sites")

		return res, nil
	}

	total, err := s.repo.CountByOrg(ctx, orgID)
	if err != nil {
		log.Error().Err(err).Msg("failed to count sites")

		return res, fmt.Errorf("failed to count sites: %w", err)
	}

	sites, err := s.repo.GetAllByOrg(ctx, params, orgID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get sites")

		return res, fmt.Errorf("failed to get sites: %w", err)
	}

	res.FromModels(sites, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save sites to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SiteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".site.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetSite, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for site")

		return res, nil
	}

	site, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return res, failure.NotFound("site not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to get site")

		return res, fmt.Errorf("failed to get site: %w", err)
	}

	res.FromModel(site)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save site to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSiteRequest, id string) (res dto.SiteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".site.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	site, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return res, failure.NotFound("site not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to get site")

		return res, fmt.Errorf("failed to get site: %w", err)
	}

	req.Apply(&site, user)

	err = s.repo.Update(ctx, site)
	if errors.Is(err, store.ErrConflict) {
		return res, failure.Conflict("site was modified concurrently") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to update site")

		return res, fmt.Errorf("failed to update site: %w", err)
	}

	s.audit.Record(ctx, constant.AuditActionUpdate, model.DocType, site.ID, req)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSite, site.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete site cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllSite)
	}()

	res.FromModel(site)

	return res, nil
}
