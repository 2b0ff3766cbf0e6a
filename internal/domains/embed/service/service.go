package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"scheduleright/config"
	"scheduleright/infras/otel"
	auditService "scheduleright/internal/domains/audit/service"
	slotDto "scheduleright/internal/domains/availability/model/dto"
	availabilityService "scheduleright/internal/domains/availability/service"
	"scheduleright/internal/domains/embed/model"
	"scheduleright/internal/domains/embed/model/dto"
	"scheduleright/internal/domains/embed/repository"
	siteRepository "scheduleright/internal/domains/site/repository"
	"scheduleright/internal/store"
	"scheduleright/shared"
	"scheduleright/shared/cache"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
	"scheduleright/shared/failure"
	"scheduleright/shared/timezone"
)

const (
	cacheGetAllEmbed = "embed:gets"
)

type Embed interface {
	Create(ctx context.Context, req dto.CreateEmbedConfigRequest) (dto.EmbedConfigResponse, error)
	GetAllByOrg(ctx context.Context, params gDto.QueryParams, orgID string) (dto.GetEmbedConfigsResponse, error)
	Archive(ctx context.Context, id string) (dto.EmbedConfigResponse, error)
	GetPublicSlots(ctx context.Context, token, origin string, from, to time.Time) (slotDto.GetSlotsResponse, error)
}

type serviceImpl struct {
	repo         repository.Embed
	siteRepo     siteRepository.Site
	availability availabilityService.Availability
	audit        auditService.Audit
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Embed, siteRepo siteRepository.Site, availability availabilityService.Availability, audit auditService.Audit, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Embed {
	return &serviceImpl{
		repo:         repo,
		siteRepo:     siteRepo,
		availability: availability,
		audit:        audit,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateEmbedConfigRequest) (res dto.EmbedConfigResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".embed.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	site, err := s.siteRepo.Get(ctx, req.SiteID)
	if errors.Is(err, store.ErrNotFound) {
		return res, failure.NotFound("site not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to check site existence")

		return res, fmt.Errorf("failed to check site existence: %w", err)
	}

	embed := req.ToModel(site.OrgID, user)

	if err = s.repo.Insert(ctx, embed); err != nil {
		log.Error().Err(err).Msg("failed to insert embed config")

		return res, fmt.Errorf("failed to insert embed config: %w", err)
	}

	s.audit.Record(ctx, constant.AuditActionCreate, model.DocType, embed.ID, map[string]any{"site_id": embed.SiteID})

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllEmbed)
	}()

	res.FromModel(embed)

	return res, nil
}

func (s *serviceImpl) GetAllByOrg(ctx context.Context, params gDto.QueryParams, orgID string) (res dto.GetEmbedConfigsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".embed.GetAllByOrg")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllEmbed, params, orgID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for embed configs")

		return res, nil
	}

	total, err := s.repo.CountByOrg(ctx, orgID)
	if err != nil {
		log.Error().Err(err).Msg("failed to count embed configs")

		return res, fmt.Errorf("failed to count embed configs: %w", err)
	}

	embeds, err := s.repo.GetAllByOrg(ctx, params, orgID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get embed configs")

		return res, fmt.Errorf("failed to get embed configs: %w", err)
	}

	res.FromModels(embeds, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save embed configs to cache")
		}
	}()

	return res, nil
}

// Archive retires an embed config. Archiving an already archived config is a
// no-op that returns the archived state.
func (s *serviceImpl) Archive(ctx context.Context, id string) (res dto.EmbedConfigResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".embed.Archive")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	embed, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return res, failure.NotFound("embed config not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to get embed config")

		return res, fmt.Errorf("failed to get embed config: %w", err)
	}

	if embed.Archived() {
		res.FromModel(embed)

		return res, nil
	}

	embed.Status = model.StatusArchived
	embed.Touch(timezone.Now().UTC(), user)

	err = s.repo.Update(ctx, embed)
	if errors.Is(err, store.ErrConflict) {
		return res, failure.Conflict("embed config was modified concurrently") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to archive embed config")

		return res, fmt.Errorf("failed to archive embed config: %w", err)
	}

	s.audit.Record(ctx, constant.AuditActionArchive, model.DocType, embed.ID, nil)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllEmbed)
	}()

	res.FromModel(embed)

	return res, nil
}

// GetPublicSlots serves the widget: it resolves the token, enforces the
// origin allow list and lists the available slots of the configured site.
func (s *serviceImpl) GetPublicSlots(ctx context.Context, token, origin string, from, to time.Time) (res slotDto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".embed.GetPublicSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	embed, err := s.repo.GetByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return res, failure.NotFound("embed config not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to resolve embed token")

		return res, fmt.Errorf("failed to resolve embed token: %w", err)
	}

	if embed.Archived() {
		return res, failure.NotFound("embed config not found") // nolint:wrapcheck
	}

	if !embed.OriginAllowed(origin) {
		return res, failure.Forbidden("origin is not allowed for this embed") // nolint:wrapcheck
	}

	return s.availability.GetAvailableSlots(ctx, embed.SiteID, from, to)
}
