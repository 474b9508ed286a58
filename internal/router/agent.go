package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/handler"
	"github.com/iliyamo/travel-booking-platform/internal/middleware"
)

// RegisterAgent registers the back-office order endpoints under
// /api/v1/agents.  All routes require a valid JWT with the AGENT or ADMIN
// role.
func RegisterAgent(e *echo.Echo, h *handler.AgentHandler, jwtSecret string) {
	g := e.Group(
		"/api/v1/agents",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("AGENT", "ADMIN"),
	)

	g.GET("/orders", h.ListOrders)
	g.GET("/orders/:id", h.GetOrder)
	g.POST("/orders/:id/confirm", h.Confirm)
	g.POST("/orders/:id/paid", h.MarkPaid)
	g.POST("/orders/:id/complete", h.Complete)
	g.POST("/orders/:id/cancel", h.Cancel)
}
