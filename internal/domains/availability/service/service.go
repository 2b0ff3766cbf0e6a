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
	"scheduleright/internal/domains/availability/model"
	"scheduleright/internal/domains/availability/model/dto"
	"scheduleright/internal/domains/availability/repository"
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
	cacheGetAllSlot = "slot:gets"
)

type Availability interface {
	CreateSlots(ctx context.Context, req dto.CreateSlotRequest, siteID string) (dto.GetSlotsResponse, error)
	GetSlotsForSite(ctx context.Context, params gDto.QueryParams, siteID string) (dto.GetSlotsResponse, error)
	GetAvailableSlots(ctx context.Context, siteID string, from, to time.Time) (dto.GetSlotsResponse, error)
	DeactivateSlot(ctx context.Context, slotID string) error
}

type serviceImpl struct {
	repo     repository.Slot
	siteRepo siteRepository.Site
	audit    auditService.Audit
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Slot, siteRepo siteRepository.Site, audit auditService.Audit, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &serviceImpl{
		repo:     repo,
		siteRepo: siteRepo,
		audit:    audit,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) CreateSlots(ctx context.Context, req dto.CreateSlotRequest, siteID string) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.CreateSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !req.EndTime.After(req.StartTime) {
		return res, failure.BadRequestFromString("end_time must be after start_time") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	site, err := s.siteRepo.Get(ctx, siteID)
	if errors.Is(err, store.ErrNotFound) {
		return res, failure.NotFound("site not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to check site existence")

		return res, fmt.Errorf("failed to check site existence: %w", err)
	}

	slots := req.ToModels(site.ID, site.OrgID, user)
	if len(slots) == 0 {
		return res, failure.BadRequestFromString("window is too short for the requested duration") // nolint:wrapcheck
	}

	for _, slot := range slots {
		if err = s.repo.Insert(ctx, slot); err != nil {
			log.Error().Err(err).Str("slotID", slot.ID).Msg("failed to insert slot")

			return res, fmt.Errorf("failed to insert slot: %w", err)
		}

		s.audit.Record(ctx, constant.AuditActionCreate, model.DocType, slot.ID, map[string]any{
			"site_id":    slot.SiteID,
			"start_time": slot.StartTime,
			"capacity":   slot.Capacity,
		})
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllSlot)
	}()

	res.FromModels(slots, len(slots), 0)

	return res, nil
}

func (s *serviceImpl) GetSlotsForSite(ctx context.Context, params gDto.QueryParams, siteID string) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.GetSlotsForSite")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllSlot, params, siteID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slots")

		return res, nil
	}

	total, err := s.repo.CountBySite(ctx, siteID)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots")

		return res, fmt.Errorf("failed to count slots: %w", err)
	}

	slots, err := s.repo.GetAllBySite(ctx, params, siteID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get slots")

		return res, fmt.Errorf("failed to get slots: %w", err)
	}

	res.FromModels(slots, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save slots to cache")
		}
	}()

	return res, nil
}

// GetAvailableSlots lists the slots in the window that can still take a
// booking. It reads through the store rather than the cache so the
// current_bookings counters are authoritative.
func (s *serviceImpl) GetAvailableSlots(ctx context.Context, siteID string, from, to time.Time) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.GetAvailableSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !to.After(from) {
		return res, failure.BadRequestFromString("end_date must be after start_date") // nolint:wrapcheck
	}

	slots, err := s.repo.GetByDateRange(ctx, siteID, from, to)
	if err != nil {
		log.Error().Err(err).Msg("failed to get slots for range")

		return res, fmt.Errorf("failed to get slots for range: %w", err)
	}

	available := make([]model.Slot, 0, len(slots))
	for _, slot := range slots {
		if slot.Available() {
			available = append(available, slot)
		}
	}

	res.FromModels(available, len(available), 0)

	return res, nil
}

func (s *serviceImpl) DeactivateSlot(ctx context.Context, slotID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.DeactivateSlot")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	slot, err := s.repo.Get(ctx, slotID)
	if errors.Is(err, store.ErrNotFound) {
		return failure.NotFoundWithCode(failure.CodeSlotNotFound, "slot not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to get slot")

		return fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.Status == model.StatusDeactivated {
		return nil
	}

	slot.Status = model.StatusDeactivated
	slot.Touch(timezone.Now().UTC(), user)

	err = s.repo.Update(ctx, slot)
	if errors.Is(err, store.ErrConflict) {
		return failure.Conflict("slot was modified concurrently") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to deactivate slot")

		return fmt.Errorf("failed to deactivate slot: %w", err)
	}

	s.audit.Record(ctx, constant.AuditActionDeactivate, model.DocType, slot.ID, nil)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllSlot)
	}()

	return nil
}
