package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/notification/model/dto"
	"scheduleright/internal/domains/notification/service"
	"scheduleright/shared/constant"
	"scheduleright/shared/failure"
	"scheduleright/shared/validator"
	"scheduleright/transport/http/response"
)

type Handler struct {
	service service.Notification
	otel    otel.Otel
}

func New(service service.Notification, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/notifications", func(routerGroup chi.Router) {
		routerGroup.Get("/preferences", handler.GetPreferences)
		routerGroup.Put("/preferences", handler.UpdatePreferences)
	})
}

// GetPreferences returns the caller's notification preferences.
// @Summary Get notification preferences
// @Description Retrieve the authenticated user's notification preferences, defaults included.
// @Tags Notification
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.PreferenceResponse] "Notification preferences"
// @Failure 401 {object} response.Error
// @Router /v1/notifications/preferences [get]
// @Security BearerAuth
func (handler *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPreferences")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	res, err := handler.service.GetPreference(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get notification preferences")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Notification preferences retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// UpdatePreferences updates the caller's notification preferences.
// @Summary Update notification preferences
// @Description Update the authenticated user's notification preferences. Absent fields keep their current value.
// @Tags Notification
// @Accept json
// @Produce json
// @Param request body dto.UpdatePreferenceRequest true "Update Preference Request"
// @Success 200 {object} response.Data[dto.PreferenceResponse] "Updated preferences"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/notifications/preferences [put]
// @Security BearerAuth
func (handler *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePreferences")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	req := dto.UpdatePreferenceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdatePreference(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update notification preferences")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Notification preferences updated successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, res)
}
