package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"scheduleright/config"
	"scheduleright/infras/otel"
	auditService "scheduleright/internal/domains/audit/service"
	"scheduleright/internal/domains/organization/model"
	"scheduleright/internal/domains/organization/model/dto"
	"scheduleright/internal/domains/organization/repository"
	"scheduleright/internal/store"
	"scheduleright/shared"
	"scheduleright/shared/cache"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
	"scheduleright/shared/failure"
	"scheduleright/shared/timezone"
)

const (
	cacheGetOrganization    = "organization:get"
	cacheGetAllOrganization = "organization:gets"
	cacheCountOrganization  = "organization:count"
)

type Organization interface {
	Create(ctx context.Context, req dto.CreateOrganizationRequest) (dto.OrganizationResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams) (dto.GetOrganizationsResponse, error)
	Get(ctx context.Context, id string) (dto.OrganizationResponse, error)
	Update(ctx context.Context, req dto.UpdateOrganizationRequest, id string) (dto.OrganizationResponse, error)
	Archive(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Organization
	audit auditService.Audit
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Organization, audit auditService.Audit, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Organization {
	return &serviceImpl{
		repo:  repo,
		audit: audit,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateOrganizationRequest) (res dto.OrganizationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".organization.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	org := req.ToModel(user)

	if err = s.repo.Insert(ctx, org); err != nil {
		log.Error().Err(err).Msg("failed to insert organization")

		return res, fmt.Errorf("failed to insert organization: %w", err)
	}

	s.audit.Record(ctx, constant.AuditActionCreate, model.DocType, org.ID, map[string]any{"name": org.Name})

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllOrganization)
		shared.InvalidateCaches(c, s.cache, cacheCountOrganization)
	}()

	res.FromModel(org)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams) (res dto.GetOrganizationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".organization.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllOrganization, params, nil)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for organizations")

		return res, nil
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count organizations")

		return res, fmt.Errorf("failed to count organizations: %w", err)
	}

	orgs, err := s.repo.GetAll(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to get organizations")

		return res, fmt.Errorf("failed to get organizations: %w", err)
	}

	res.FromModels(orgs, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save organizations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.OrganizationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".organization.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetOrganization, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for organization")

		return res, nil
	}

	org, err := s.getModel(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(org)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save organization to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateOrganizationRequest, id string) (res dto.OrganizationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".organization.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	org, err := s.getModel(ctx, id)
	if err != nil {
		return res, err
	}

	req.Apply(&org, user)

	if err = s.update(ctx, org); err != nil {
		return res, err
	}

	s.audit.Record(ctx, constant.AuditActionUpdate, model.DocType, org.ID, req)

	res.FromModel(org)

	return res, nil
}

func (s *serviceImpl) Archive(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".organization.Archive")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	org, err := s.getModel(ctx, id)
	if err != nil {
		return err
	}

	if org.Archived() {
		return nil
	}

	org.Status = model.StatusArchived
	org.Touch(timezone.Now().UTC(), user)

	if err = s.update(ctx, org); err != nil {
		return err
	}

	s.audit.Record(ctx, constant.AuditActionArchive, model.DocType, org.ID, nil)

	return nil
}

func (s *serviceImpl) getModel(ctx context.Context, id string) (model.Organization, error) {
	org, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return org, failure.NotFound("organization not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to get organization")

		return org, fmt.Errorf("failed to get organization: %w", err)
	}

	return org, nil
}

func (s *serviceImpl) update(ctx context.Context, org model.Organization) error {
	err := s.repo.Update(ctx, org)
	if errors.Is(err, store.ErrConflict) {
		return failure.Conflict("organization was modified concurrently") // nolint:wrapcheck
	}

	if errors.Is(err, store.ErrNotFound) {
		return failure.NotFound("organization not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to update organization")

		return fmt.Errorf("failed to update organization: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetOrganization, org.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete organization cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllOrganization)
	}()

	return nil
}
