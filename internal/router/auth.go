package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/handler"
	"github.com/iliyamo/travel-booking-platform/internal/middleware"
)

// RegisterAuth registers the authentication routes.  Unauthenticated
// operations live under /api/v1/auth; /api/v1/me requires a valid access
// token with any known role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout takes the refresh token in the body, so it does not need a JWT.
	g.POST("/logout", a.Logout)

	auth := e.Group("/api/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("CUSTOMER", "AGENT", "ADMIN"))
	auth.GET("/me", a.Me)
}
