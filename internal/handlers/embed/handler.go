package embed

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/embed/model/dto"
	"scheduleright/internal/domains/embed/service"
	"scheduleright/internal/handlers/site"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
	"scheduleright/shared/validator"
	"scheduleright/transport/http/response"
)

type Handler struct {
	service service.Embed
	otel    otel.Otel
}

func New(service service.Embed, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/embeds", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateEmbed)
		routerGroup.Get("/", handler.GetEmbeds)
		routerGroup.Post("/{id}/archive", handler.ArchiveEmbed)
	})
}

// PublicRouter mounts the unauthenticated widget endpoint.
func (handler *Handler) PublicRouter(router chi.Router) {
	router.Get("/embed/{token}/slots", handler.GetEmbedSlots)
}

// CreateEmbed creates an embed configuration for a site.
// @Summary Create an embed config
// @Description Create an embeddable booking widget configuration with a fresh public token.
// @Tags Embed
// @Accept json
// @Produce json
// @Param request body dto.CreateEmbedConfigRequest true "Create Embed Config Request"
// @Success 201 {object} response.Data[dto.EmbedConfigResponse] "Embed config created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/embeds [post]
// @Security BearerAuth
func (handler *Handler) CreateEmbed(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateEmbed")
	defer scope.End()

	req := dto.CreateEmbedConfigRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create embed config")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Embed config created successfully")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetEmbeds lists the embed configs of the caller's organization.
// @Summary Get embed configs
// @Description Retrieve the embed configurations belonging to the caller's organization.
// @Tags Embed
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetEmbedConfigsResponse] "List of embed configs"
// @Failure 500 {object} response.Error
// @Router /v1/embeds [get]
// @Security BearerAuth
func (handler *Handler) GetEmbeds(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEmbeds")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	orgID, _ := ctx.Value(constant.ContextKeyOrgID).(string)

	embeds, err := handler.service.GetAllByOrg(ctx, queryParams, orgID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get embed configs")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Embed configs retrieved successfully")

	response.WithJSON(w, http.StatusOK, embeds)
}

// ArchiveEmbed archives an embed config.
// @Summary Archive an embed config
// @Description Archive an embed config. Archiving an already archived config is a no-op.
// @Tags Embed
// @Accept json
// @Produce json
// @Param id path string true "Embed Config ID"
// @Success 200 {object} response.Data[dto.EmbedConfigResponse] "Archived embed config"
// @Failure 404 {object} response.Error
// @Router /v1/embeds/{id}/archive [post]
// @Security BearerAuth
func (handler *Handler) ArchiveEmbed(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ArchiveEmbed")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Archive(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to archive embed config")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Embed config archived successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// GetEmbedSlots serves the available slots for an embed token.
// @Summary Get widget slots
// @Description Retrieve the available slots for the site behind the embed token. The Origin header is checked against the allow list.
// @Tags Embed
// @Accept json
// @Produce json
// @Param token path string true "Embed token"
// @Param startDate query string false "Window start (RFC3339)"
// @Param endDate query string false "Window end (RFC3339)"
// @Success 200 {object} response.Data[slotDto.GetSlotsResponse] "List of available slots"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /public/embed/{token}/slots [get]
func (handler *Handler) GetEmbedSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEmbedSlots")
	defer scope.End()

	token := chi.URLParam(r, constant.RequestParamToken)
	origin := r.Header.Get(constant.RequestHeaderOrigin)

	from, to, err := site.ParseDateWindow(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse date window")

		response.WithError(w, err)

		return
	}

	slots, err := handler.service.GetPublicSlots(ctx, token, origin, from, to)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get embed slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Embed slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}
