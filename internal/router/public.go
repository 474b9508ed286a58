package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/handler"
)

// RegisterPublic registers the unauthenticated catalog browse endpoints.
// The optional middlewares (typically the Redis response cache) apply to
// every route in the group; capacity counters are never exposed here, only
// derived availability.
func RegisterPublic(e *echo.Echo, h *handler.CatalogHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api/v1", mw...)
	g.GET("/tours", h.ListTours)
	g.GET("/events", h.ListEvents)
	g.GET("/transfers", h.ListTransfers)
	g.GET("/car-rentals", h.ListCarRentals)
	g.GET("/products/:id", h.GetProduct)
	g.GET("/products/:id/availability", h.GetAvailability)
}
