//go:build wireinject
// +build wireinject

package di

import (
	"rolloff/config"
	"rolloff/infras/distance"
	"rolloff/infras/jwt"
	"rolloff/infras/kafka"
	"rolloff/infras/otel"
	"rolloff/infras/postgres"
	"rolloff/infras/redis"
	"rolloff/infras/s3"
	"rolloff/infras/sendgrid"
	"rolloff/infras/stripe"
	"rolloff/internal/jobs"
	"rolloff/permissions"
	"rolloff/shared/cache"
	"rolloff/transport/event"
	"rolloff/transport/http"
	"rolloff/transport/http/middleware"
	"rolloff/transport/http/router"

	containerRepository "rolloff/internal/domains/container/repository"
	containerService "rolloff/internal/domains/container/service"
	distanceService "rolloff/internal/domains/distance/service"
	notificationService "rolloff/internal/domains/notification/service"
	"rolloff/internal/domains/reservation/pricing"
	reservationRepository "rolloff/internal/domains/reservation/repository"
	reservationService "rolloff/internal/domains/reservation/service"

	containerHandler "rolloff/internal/handlers/container"
	distanceHandler "rolloff/internal/handlers/distance"
	reservationHandler "rolloff/internal/handlers/reservation"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
	stripe.New,
	distance.New,
)

var middlewares = wire.NewSet(
	jwt.New,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var containerDomain = wire.NewSet(
	containerRepository.New,
	containerService.New,
)

var distanceDomain = wire.NewSet(
	distanceService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	pricing.New,
	reservationService.New,
)

var domains = wire.NewSet(
	containerDomain,
	distanceDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	containerHandler.New,
	reservationHandler.New,
	distanceHandler.New,
	router.New,
)

var background = wire.NewSet(
	sendgrid.New,
	notificationService.New,
	jobs.New,
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

func InitializeWorker() *event.Worker {
	wire.Build(
		config.Get,
		infrastructures,
		sharedHelpers,
		domains,
		background,
		event.New,
	)

	return &event.Worker{}
}
