package organization

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/organization/model/dto"
	"scheduleright/internal/domains/organization/service"
	siteDto "scheduleright/internal/domains/site/model/dto"
	siteService "scheduleright/internal/domains/site/service"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
	"scheduleright/shared/validator"
	"scheduleright/transport/http/response"
)

type Handler struct {
	service     service.Organization
	siteService siteService.Site
	otel        otel.Otel
}

func New(service service.Organization, siteService siteService.Site, otel otel.Otel) Handler {
	return Handler{
		service:     service,
		siteService: siteService,
		otel:        otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/organizations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateOrganization)
		routerGroup.Get("/", handler.GetOrganizations)
		routerGroup.Get("/{orgID}", handler.GetOrganizationByID)
		routerGroup.Patch("/{orgID}", handler.UpdateOrganization)
		routerGroup.Delete("/{orgID}", handler.ArchiveOrganization)
		routerGroup.Post("/{orgID}/sites", handler.CreateSite)
		routerGroup.Get("/{orgID}/sites", handler.GetSites)
	})
}

// CreateOrganization handles the creation of a new organization.
// @Summary Create a new organization
// @Description Create a new tenant organization.
// @Tags Organization
// @Accept json
// @Produce json
// @Param request body dto.CreateOrganizationRequest true "Create Organization Request"
// @Success 201 {object} response.Data[dto.OrganizationResponse] "Organization created"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/organizations [post]
// @Security BearerAuth
func (handler *Handler) CreateOrganization(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOrganization")
	defer scope.End()

	req := dto.CreateOrganizationRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create organization")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Organization created successfully")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetOrganizations lists organizations.
// @Summary Get all organizations
// @Description Retrieve all organizations with pagination.
// @Tags Organization
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetOrganizationsResponse] "List of organizations"
// @Failure 500 {object} response.Error
// @Router /v1/organizations [get]
// @Security BearerAuth
func (handler *Handler) GetOrganizations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOrganizations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	orgs, err := handler.service.GetAll(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get organizations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Organizations retrieved successfully")

	response.WithJSON(w, http.StatusOK, orgs)
}

// GetOrganizationByID retrieves a single organization.
// @Summary Get an organization by ID
// @Description Retrieve an organization by its unique identifier.
// @Tags Organization
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} response.Data[dto.OrganizationResponse] "Organization details"
// @Failure 404 {object} response.Error
// @Router /v1/organizations/{orgID} [get]
// @Security BearerAuth
func (handler *Handler) GetOrganizationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOrganizationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamOrgID)

	org, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get organization by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Organization retrieved successfully")

	response.WithJSON(w, http.StatusOK, org)
}

// UpdateOrganization updates an organization.
// @Summary Update an organization
// @Description Update the name or timezone of an organization.
// @Tags Organization
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param request body dto.UpdateOrganizationRequest true "Update Organization Request"
// @Success 200 {object} response.Data[dto.OrganizationResponse] "Updated organization"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/organizations/{orgID} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateOrganization")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamOrgID)

	req := dto.UpdateOrganizationRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update organization")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Organization updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// ArchiveOrganization archives an organization.
// @Summary Archive an organization
// @Description Archive an organization. Archived organizations reject new sites and slots.
// @Tags Organization
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} response.Message "Organization archived successfully"
// @Failure 404 {object} response.Error
// @Router /v1/organizations/{orgID} [delete]
// @Security BearerAuth
func (handler *Handler) ArchiveOrganization(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ArchiveOrganization")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamOrgID)

	if err := handler.service.Archive(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to archive organization")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Organization archived successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Organization archived successfully")
}

// CreateSite creates a site under an organization.
// @Summary Create a site
// @Description Create a new site belonging to the given organization.
// @Tags Site
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param request body siteDto.CreateSiteRequest true "Create Site Request"
// @Success 201 {object} response.Data[siteDto.SiteResponse] "Site created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/organizations/{orgID}/sites [post]
// @Security BearerAuth
func (handler *Handler) CreateSite(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSite")
	defer scope.End()

	orgID := chi.URLParam(r, constant.RequestParamOrgID)

	req := siteDto.CreateSiteRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.siteService.Create(ctx, req, orgID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create site")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Site created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetSites lists the sites of an organization.
// @Summary Get sites of an organization
// @Description Retrieve all sites belonging to the given organization.
// @Tags Site
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[siteDto.GetSitesResponse] "List of sites"
// @Failure 500 {object} response.Error
// @Router /v1/organizations/{orgID}/sites [get]
// @Security BearerAuth
func (handler *Handler) GetSites(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSites")
	defer scope.End()

	orgID := chi.URLParam(r, constant.RequestParamOrgID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	sites, err := handler.siteService.GetAllByOrg(ctx, queryParams, orgID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get sites")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Sites retrieved successfully")

	response.WithJSON(w, http.StatusOK, sites)
}
