//go:build wireinject
// +build wireinject

package di

import (
	"innkeep/config"
	"innkeep/infras/jwt"
	"innkeep/infras/kafka"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/infras/redis"
	"innkeep/internal/events"
	"innkeep/permissions"
	"innkeep/shared/cache"
	"innkeep/transport/http"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/router"

	historyRepository "innkeep/internal/domains/history/repository"
	historyService "innkeep/internal/domains/history/service"
	hotelRepository "innkeep/internal/domains/hotel/repository"
	hotelService "innkeep/internal/domains/hotel/service"
	membershipRepository "innkeep/internal/domains/membership/repository"
	membershipService "innkeep/internal/domains/membership/service"
	noteRepository "innkeep/internal/domains/note/repository"
	noteService "innkeep/internal/domains/note/service"
	roomRepository "innkeep/internal/domains/room/repository"
	roomService "innkeep/internal/domains/room/service"

	historyHandler "innkeep/internal/handlers/history"
	hotelHandler "innkeep/internal/handlers/hotel"
	membershipHandler "innkeep/internal/handlers/membership"
	noteHandler "innkeep/internal/handlers/note"
	roomHandler "innkeep/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.TxRunner), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var historyDomain = wire.NewSet(
	historyRepository.New,
	historyService.New,
)

var hotelDomain = wire.NewSet(
	hotelRepository.New,
	hotelRepository.NewSettings,
	hotelService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var noteDomain = wire.NewSet(
	noteRepository.New,
	noteService.New,
)

var membershipDomain = wire.NewSet(
	membershipRepository.NewJoinRequest,
	membershipRepository.NewMembership,
	events.NewAdmissionNotifier,
	membershipService.New,
)

var domains = wire.NewSet(
	historyDomain,
	hotelDomain,
	roomDomain,
	noteDomain,
	membershipDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	hotelHandler.New,
	roomHandler.New,
	historyHandler.New,
	noteHandler.New,
	membershipHandler.New,
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
