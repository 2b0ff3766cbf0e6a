package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"scheduleright/config"
	"scheduleright/infras/otel"
	auditService "scheduleright/internal/domains/audit/service"
	slotModel "scheduleright/internal/domains/availability/model"
	slotRepository "scheduleright/internal/domains/availability/repository"
	"scheduleright/internal/domains/booking/model"
	"scheduleright/internal/domains/booking/model/dto"
	"scheduleright/internal/domains/booking/repository"
	"scheduleright/internal/reminder"
	"scheduleright/internal/store"
	"scheduleright/shared"
	"scheduleright/shared/cache"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
	"scheduleright/shared/failure"
	"scheduleright/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"

	defaultCapacityRetries = 5
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, id, status string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	slotRepo   slotRepository.Slot
	audit      auditService.Audit
	dispatcher reminder.Dispatcher
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(repo repository.Booking, slotRepo slotRepository.Slot, audit auditService.Audit, dispatcher reminder.Dispatcher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:       repo,
		slotRepo:   slotRepo,
		audit:      audit,
		dispatcher: dispatcher,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

// Create books a slot for a client. The slot counter is reserved first
// through a rev-checked update, so two racing requests on the last opening
// cannot both succeed; the booking document is only written once the
// reservation holds.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	slot, err := s.reserveSlot(ctx, req.SlotID, req.SiteID)
	if err != nil {
		return res, err
	}

	booking := req.ToModel(slot.OrgID, user)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to insert booking")

		s.releaseSlot(ctx, req.SlotID)

		return res, fmt.Errorf("failed to insert booking: %w", err)
	}

	s.audit.Record(ctx, constant.AuditActionCreate, model.DocType, booking.ID, map[string]any{
		"slot_id": booking.SlotID,
		"site_id": booking.SiteID,
	})

	s.publishCreated(ctx, booking, slot)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	}()

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id, status string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if !model.CanTransition(booking.Status, status) {
		return res, failure.BadRequestFromString(fmt.Sprintf("cannot transition booking from %s to %s", booking.Status, status)) // nolint:wrapcheck
	}

	previous := booking.Status
	booking.Status = status
	booking.Touch(timezone.Now().UTC(), user)

	err = s.repo.Update(ctx, booking)
	if errors.Is(err, store.ErrConflict) {
		return res, failure.Conflict("booking was modified concurrently") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return res, fmt.Errorf("failed to update booking status: %w", err)
	}

	// Cancelling frees the seat so another client can take it.
	if status == model.StatusCancelled {
		s.releaseSlot(ctx, booking.SlotID)
	}

	s.audit.Record(ctx, constant.AuditActionStatus, model.DocType, booking.ID, map[string]any{
		"from": previous,
		"to":   status,
	})

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	}()

	res.FromModel(booking)

	return res, nil
}

// reserveSlot increments the slot counter at the rev it was read at,
// retrying a bounded number of times when another writer got there first.
// The availability check always runs against the freshly read document, so
// the capacity invariant holds no matter how the race interleaves.
func (s *serviceImpl) reserveSlot(ctx context.Context, slotID, siteID string) (slot slotModel.Slot, err error) {
	retries := s.cfg.App.Booking.MaxCapacityRetries
	if retries <= 0 {
		retries = defaultCapacityRetries
	}

	for attempt := 0; attempt < retries; attempt++ {
		slot, err = s.slotRepo.Get(ctx, slotID)
		if errors.Is(err, store.ErrNotFound) {
			return slot, failure.NotFoundWithCode(failure.CodeSlotNotFound, "slot not found") // nolint:wrapcheck
		}

		if err != nil {
			log.Error().Err(err).Msg("failed to get slot for reservation")

			return slot, fmt.Errorf("failed to get slot for reservation: %w", err)
		}

		if slot.SiteID != siteID {
			return slot, failure.BadRequestFromString("slot does not belong to the requested site") // nolint:wrapcheck
		}

		if !slot.Available() {
			return slot, failure.ConflictWithCode(failure.CodeSlotUnavailable, "slot is no longer available") // nolint:wrapcheck
		}

		slot.CurrentBookings++

		err = s.slotRepo.Update(ctx, slot)
		if err == nil {
			return slot, nil
		}

		if !errors.Is(err, store.ErrConflict) {
			log.Error().Err(err).Msg("failed to reserve slot")

			return slot, fmt.Errorf("failed to reserve slot: %w", err)
		}
	}

	return slot, failure.ConflictWithCode(failure.CodeSlotUnavailable, "slot is no longer available") // nolint:wrapcheck
}

// releaseSlot decrements the slot counter with the same retry discipline.
// The counter never drops below zero. Release failures are logged only:
// the booking state change already happened and must not be rolled back.
func (s *serviceImpl) releaseSlot(ctx context.Context, slotID string) {
	retries := s.cfg.App.Booking.MaxCapacityRetries
	if retries <= 0 {
		retries = defaultCapacityRetries
	}

	for attempt := 0; attempt < retries; attempt++ {
		slot, err := s.slotRepo.Get(ctx, slotID)
		if err != nil {
			log.Error().Err(err).Str("slotID", slotID).Msg("failed to get slot for release")

			return
		}

		if slot.CurrentBookings == 0 {
			return
		}

		slot.CurrentBookings--

		err = s.slotRepo.Update(ctx, slot)
		if err == nil {
			return
		}

		if !errors.Is(err, store.ErrConflict) {
			log.Error().Err(err).Str("slotID", slotID).Msg("failed to release slot")

			return
		}
	}

	log.Error().Str("slotID", slotID).Msg("gave up releasing slot after repeated conflicts")
}

// publishCreated emits the reminder event. Publishing is best effort: the
// booking stands even when the broker is down.
func (s *serviceImpl) publishCreated(ctx context.Context, booking model.Booking, slot slotModel.Slot) {
	event := reminder.BookingCreatedEvent{
		BookingID:   booking.ID,
		OrgID:       booking.OrgID,
		SiteID:      booking.SiteID,
		SlotID:      booking.SlotID,
		ClientName:  booking.ClientName,
		ClientEmail: booking.ClientEmail,
		ClientPhone: booking.ClientPhone,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		CreatedAt:   booking.CreatedAt,
	}

	if err := s.dispatcher.PublishBookingCreated(ctx, event); err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to publish booking created event")
	}
}
