//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"scheduleright/config"
	"scheduleright/infras/jwt"
	"scheduleright/infras/kafka"
	"scheduleright/infras/otel"
	"scheduleright/infras/redis"
	"scheduleright/internal/reminder"
	"scheduleright/permissions"
	"scheduleright/shared/cache"
	"scheduleright/transport/http"
	"scheduleright/transport/http/middleware"
	"scheduleright/transport/http/router"

	auditRepository "scheduleright/internal/domains/audit/repository"
	auditService "scheduleright/internal/domains/audit/service"
	authService "scheduleright/internal/domains/auth/service"
	availabilityRepository "scheduleright/internal/domains/availability/repository"
	availabilityService "scheduleright/internal/domains/availability/service"
	bookingRepository "scheduleright/internal/domains/booking/repository"
	bookingService "scheduleright/internal/domains/booking/service"
	embedRepository "scheduleright/internal/domains/embed/repository"
	embedService "scheduleright/internal/domains/embed/service"
	notificationRepository "scheduleright/internal/domains/notification/repository"
	notificationService "scheduleright/internal/domains/notification/service"
	organizationRepository "scheduleright/internal/domains/organization/repository"
	organizationService "scheduleright/internal/domains/organization/service"
	siteRepository "scheduleright/internal/domains/site/repository"
	siteService "scheduleright/internal/domains/site/service"
	userRepository "scheduleright/internal/domains/user/repository"

	auditHandler "scheduleright/internal/handlers/audit"
	authHandler "scheduleright/internal/handlers/auth"
	bookingHandler "scheduleright/internal/handlers/booking"
	embedHandler "scheduleright/internal/handlers/embed"
	healthHandler "scheduleright/internal/handlers/health"
	notificationHandler "scheduleright/internal/handlers/notification"
	organizationHandler "scheduleright/internal/handlers/organization"
	siteHandler "scheduleright/internal/handlers/site"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	ProvideStore,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	permissions.Get,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var auditDomain = wire.NewSet(
	auditRepository.New,
	auditService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var organizationDomain = wire.NewSet(
	organizationRepository.New,
	organizationService.New,
)

var siteDomain = wire.NewSet(
	siteRepository.New,
	siteService.New,
)

var availabilityDomain = wire.NewSet(
	availabilityRepository.New,
	availabilityService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	reminder.NewDispatcher,
)

var embedDomain = wire.NewSet(
	embedRepository.New,
	embedService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
)

var domains = wire.NewSet(
	auditDomain,
	authDomain,
	organizationDomain,
	siteDomain,
	availabilityDomain,
	bookingDomain,
	embedDomain,
	notificationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	organizationHandler.New,
	siteHandler.New,
	bookingHandler.New,
	embedHandler.New,
	auditHandler.New,
	notificationHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *reminder.Worker {
	wire.Build(
		configurations,
		wire.NewSet(
			otel.New,
			kafka.New,
			ProvideStore,
		),
		wire.NewSet(
			userRepository.New,
			notificationRepository.New,
		),
		reminder.NewSender,
		reminder.NewWorker,
	)

	return &reminder.Worker{}
}
