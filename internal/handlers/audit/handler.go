package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/audit/model"
	"scheduleright/internal/domains/audit/service"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
	"scheduleright/transport/http/response"
)

type Handler struct {
	service service.Audit
	otel    otel.Otel
}

func New(service service.Audit, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/audit", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetEntries)
		routerGroup.Get("/{resourceType}/{resourceID}", handler.GetResourceTrail)
	})
}

// GetEntries lists audit entries.
// @Summary Get audit entries
// @Description Retrieve audit log entries with optional filtering, newest first.
// @Tags Audit
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param action query string false "Filter by action"
// @Param user_id query string false "Filter by actor"
// @Param resource_type query string false "Filter by resource type"
// @Success 200 {object} response.Data[dto.GetEntriesResponse] "List of audit entries"
// @Failure 500 {object} response.Error
// @Router /v1/audit [get]
// @Security BearerAuth
func (handler *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEntries")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := model.Filter{
		Action:       query.Get("action"),
		UserID:       query.Get("user_id"),
		ResourceType: query.Get("resource_type"),
	}

	if orgID, ok := ctx.Value(constant.ContextKeyOrgID).(string); ok {
		filter.OrgID = orgID
	}

	entries, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get audit entries")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Audit entries retrieved successfully")

	response.WithJSON(w, http.StatusOK, entries)
}

// GetResourceTrail lists the audit trail of one resource.
// @Summary Get a resource audit trail
// @Description Retrieve every audit entry recorded for the given resource, newest first.
// @Tags Audit
// @Accept json
// @Produce json
// @Param resourceType path string true "Resource type"
// @Param resourceID path string true "Resource ID"
// @Success 200 {object} response.Data[dto.GetEntriesResponse] "Audit trail"
// @Failure 500 {object} response.Error
// @Router /v1/audit/{resourceType}/{resourceID} [get]
// @Security BearerAuth
func (handler *Handler) GetResourceTrail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetResourceTrail")
	defer scope.End()

	resourceType := chi.URLParam(r, constant.RequestParamResourceType)
	resourceID := chi.URLParam(r, constant.RequestParamResourceID)

	entries, err := handler.service.GetResourceTrail(ctx, resourceType, resourceID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get resource audit trail")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Resource audit trail retrieved successfully")

	response.WithJSON(w, http.StatusOK, entries)
}
