package router

import (
	"rental/internal/handlers/audit"
	"rental/internal/handlers/listing"
	"rental/internal/handlers/reservation"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Reservation reservation.Handler
	Listing     listing.Handler
	Audit       audit.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Listing.Router(routerGroup)
		r.DomainHandlers.Audit.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
