//go:build wireinject
// +build wireinject

package di

import (
	"rental/config"
	"rental/infras/jwt"
	"rental/infras/kafka"
	"rental/infras/mail"
	"rental/infras/otel"
	"rental/infras/postgres"
	"rental/infras/redis"
	"rental/infras/s3"
	"rental/permissions"
	"rental/shared/cache"
	"rental/shared/worker"
	"rental/transport/http"
	"rental/transport/http/middleware"
	"rental/transport/http/router"

	auditRepository "rental/internal/domains/audit/repository"
	auditService "rental/internal/domains/audit/service"
	listingRepository "rental/internal/domains/listing/repository"
	listingService "rental/internal/domains/listing/service"
	notificationService "rental/internal/domains/notification/service"
	"rental/internal/domains/reservation/event"
	reservationRepository "rental/internal/domains/reservation/repository"
	"rental/internal/domains/reservation/scheduler"
	reservationService "rental/internal/domains/reservation/service"
	userRepository "rental/internal/domains/user/repository"

	auditHandler "rental/internal/handlers/audit"
	listingHandler "rental/internal/handlers/listing"
	reservationHandler "rental/internal/handlers/reservation"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	mail.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	worker.New,
)

var auditDomain = wire.NewSet(
	auditRepository.New,
	auditService.New,
)

var listingDomain = wire.NewSet(
	listingRepository.New,
	listingService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	userRepository.New,
	notificationService.New,
	event.New,
	reservationService.New,
	scheduler.New,
)

var domains = wire.NewSet(
	auditDomain,
	listingDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	reservationHandler.New,
	listingHandler.New,
	auditHandler.New,
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
