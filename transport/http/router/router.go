package router

import (
	"innkeep/internal/handlers/history"
	"innkeep/internal/handlers/hotel"
	"innkeep/internal/handlers/membership"
	"innkeep/internal/handlers/note"
	"innkeep/internal/handlers/room"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Hotel      hotel.Handler
	Room       room.Handler
	History    history.Handler
	Note       note.Handler
	Membership membership.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Hotel.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.History.Router(routerGroup)
		r.DomainHandlers.Note.Router(routerGroup)
		r.DomainHandlers.Membership.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
