package site

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"scheduleright/infras/otel"
	slotDto "scheduleright/internal/domains/availability/model/dto"
	availabilityService "scheduleright/internal/domains/availability/service"
	"scheduleright/internal/domains/site/model/dto"
	"scheduleright/internal/domains/site/service"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
	"scheduleright/shared/failure"
	"scheduleright/shared/validator"
	"scheduleright/transport/http/response"
)

// DefaultAvailabilityWindowDays bounds the available-slot listing when the
// request gives no date range.
const DefaultAvailabilityWindowDays = 14

type Handler struct {
	service      service.Site
	availability availabilityService.Availability
	otel         otel.Otel
}

func New(service service.Site, availability availabilityService.Availability, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		availability: availability,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/sites", func(routerGroup chi.Router) {
		routerGroup.Get("/{siteID}", handler.GetSiteByID)
		routerGroup.Patch("/{siteID}", handler.UpdateSite)
		routerGroup.Post("/{siteID}/availability", handler.CreateSlots)
		routerGroup.Get("/{siteID}/availability", handler.GetSlots)
		routerGroup.Get("/{siteID}/availability/available", handler.GetAvailableSlots)
		routerGroup.Delete("/{siteID}/availability/{slotID}", handler.DeactivateSlot)
	})
}

// GetSiteByID retrieves a site.
// @Summary Get a site by ID
// @Description Retrieve a site by its unique identifier.
// @Tags Site
// @Accept json
// @Produce json
// @Param siteID path string true "Site ID"
// @Success 200 {object} response.Data[dto.SiteResponse] "Site details"
// @Failure 404 {object} response.Error
// @Router /v1/sites/{siteID} [get]
// @Security BearerAuth
func (handler *Handler) GetSiteByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSiteByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamSiteID)

	site, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get site by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Site retrieved successfully")

	response.WithJSON(w, http.StatusOK, site)
}

// UpdateSite updates a site.
// @Summary Update a site
// @Description Update the name, address or timezone of a site.
// @Tags Site
// @Accept json
// @Produce json
// @Param siteID path string true "Site ID"
// @Param request body dto.UpdateSiteRequest true "Update Site Request"
// @Success 200 {object} response.Data[dto.SiteResponse] "Updated site"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/sites/{siteID} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSite(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSite")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamSiteID)

	req := dto.UpdateSiteRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update site")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Site updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// CreateSlots creates availability slots for a site.
// @Summary Create availability slots
// @Description Create one or more availability slots, optionally carved by duration and repeated by recurrence.
// @Tags Availability
// @Accept json
// @Produce json
// @Param siteID path string true "Site ID"
// @Param request body slotDto.CreateSlotRequest true "Create Slot Request"
// @Success 201 {object} response.Data[slotDto.GetSlotsResponse] "Created slots"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/sites/{siteID}/availability [post]
// @Security BearerAuth
func (handler *Handler) CreateSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSlots")
	defer scope.End()

	siteID := chi.URLParam(r, constant.RequestParamSiteID)

	req := slotDto.CreateSlotRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.availability.CreateSlots(ctx, req, siteID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create availability slots")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Availability slots created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetSlots lists all slots of a site.
// @Summary Get availability slots
// @Description Retrieve all availability slots of a site, including full and deactivated ones.
// @Tags Availability
// @Accept json
// @Produce json
// @Param siteID path string true "Site ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[slotDto.GetSlotsResponse] "List of slots"
// @Failure 500 {object} response.Error
// @Router /v1/sites/{siteID}/availability [get]
// @Security BearerAuth
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	siteID := chi.URLParam(r, constant.RequestParamSiteID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	slots, err := handler.availability.GetSlotsForSite(ctx, queryParams, siteID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// GetAvailableSlots lists bookable slots of a site in a date window.
// @Summary Get available slots
// @Description Retrieve the slots that can still take a booking within the given date range.
// @Tags Availability
// @Accept json
// @Produce json
// @Param siteID path string true "Site ID"
// @Param startDate query string false "Window start (RFC3339)"
// @Param endDate query string false "Window end (RFC3339)"
// @Success 200 {object} response.Data[slotDto.GetSlotsResponse] "List of available slots"
// @Failure 400 {object} response.Error
// @Router /v1/sites/{siteID}/availability/available [get]
func (handler *Handler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableSlots")
	defer scope.End()

	siteID := chi.URLParam(r, constant.RequestParamSiteID)

	from, to, err := ParseDateWindow(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse date window")

		response.WithError(w, err)

		return
	}

	slots, err := handler.availability.GetAvailableSlots(ctx, siteID, from, to)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get available slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Available slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// DeactivateSlot soft-deletes a slot.
// @Summary Deactivate a slot
// @Description Deactivate an availability slot so it can take no further bookings. Existing bookings are untouched.
// @Tags Availability
// @Accept json
// @Produce json
// @Param siteID path string true "Site ID"
// @Param slotID path string true "Slot ID"
// @Success 200 {object} response.Message "Slot deactivated successfully"
// @Failure 404 {object} response.Error
// @Router /v1/sites/{siteID}/availability/{slotID} [delete]
// @Security BearerAuth
func (handler *Handler) DeactivateSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeactivateSlot")
	defer scope.End()

	slotID := chi.URLParam(r, constant.RequestParamSlotID)

	if err := handler.availability.DeactivateSlot(ctx, slotID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to deactivate slot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Slot deactivated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Slot deactivated successfully")
}

// ParseDateWindow reads the startDate/endDate query parameters, defaulting to
// the next two weeks when absent.
func ParseDateWindow(r *http.Request) (from, to time.Time, err error) {
	now := time.Now().UTC()
	from = now
	to = now.Add(DefaultAvailabilityWindowDays * 24 * time.Hour)

	if raw := r.URL.Query().Get(constant.RequestParamStartDate); raw != "" {
		from, err = time.Parse(constant.DateFormat, raw)
		if err != nil {
			return from, to, failure.BadRequestFromString("startDate must be RFC3339") // nolint:wrapcheck
		}
	}

	if raw := r.URL.Query().Get(constant.RequestParamEndDate); raw != "" {
		to, err = time.Parse(constant.DateFormat, raw)
		if err != nil {
			return from, to, failure.BadRequestFromString("endDate must be RFC3339") // nolint:wrapcheck
		}
	}

	return from, to, nil
}
