package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"scheduleright/config"
	"scheduleright/internal/handlers/audit"
	"scheduleright/internal/handlers/auth"
	"scheduleright/internal/handlers/booking"
	"scheduleright/internal/handlers/embed"
	"scheduleright/internal/handlers/health"
	"scheduleright/internal/handlers/notification"
	"scheduleright/internal/handlers/organization"
	"scheduleright/internal/handlers/site"
	"scheduleright/transport/http/middleware"
)

type DomainHandlers struct {
	Auth         auth.Handler
	Organization organization.Handler
	Site         site.Handler
	Booking      booking.Handler
	Embed        embed.Handler
	Audit        audit.Handler
	Notification notification.Handler
	Health       health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AppMiddleware  middleware.AppMiddleware
	AuthMiddleware middleware.AuthRole
	Config         *config.Config
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, authMiddleware middleware.AuthRole, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AppMiddleware:  appMiddleware,
		AuthMiddleware: authMiddleware,
		Config:         cfg,
	}
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.AppMiddleware.Tracing)

	if r.Config.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   r.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   r.Config.App.CORS.AllowedHeaders,
			AllowCredentials: r.Config.App.CORS.AllowCredentials,
			MaxAge:           r.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Use(r.AppMiddleware.RateLimit())

	r.DomainHandlers.Health.Router(router)
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/public", func(routerGroup chi.Router) {
		r.DomainHandlers.Booking.PublicRouter(routerGroup)
		r.DomainHandlers.Embed.PublicRouter(routerGroup)
	})

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthMiddleware.APIKey)
		routerGroup.Use(r.AuthMiddleware.Auth)
		routerGroup.Use(r.AuthMiddleware.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Organization.Router(routerGroup)
		r.DomainHandlers.Site.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Embed.Router(routerGroup)
		r.DomainHandlers.Audit.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
	})
}
