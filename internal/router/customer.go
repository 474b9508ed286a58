package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/handler"
	"github.com/iliyamo/travel-booking-platform/internal/middleware"
)

// RegisterCustomer registers the cart and order endpoints under /api/v1.
// All routes require a valid JWT; agents and admins may use them for their
// own bookings as well, so every known role is accepted.
func RegisterCustomer(e *echo.Echo, cart *handler.CartHandler, orders *handler.OrderHandler, jwtSecret string) {
	g := e.Group(
		"/api/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "AGENT", "ADMIN"),
	)

	g.GET("/cart", cart.ListItems)
	g.POST("/cart/items", cart.AddItem)
	g.DELETE("/cart/items/:id", cart.RemoveItem)
	g.POST("/cart/items/:id/extend", cart.ExtendHold)
	g.POST("/cart/checkout", cart.Checkout)

	g.GET("/orders", orders.List)
	g.GET("/orders/:id", orders.Get)
	g.POST("/orders/:id/pay", orders.Pay)
	g.POST("/orders/:id/cancel", orders.Cancel)
}
