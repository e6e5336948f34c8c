package router // package router wires handlers, middleware and routes

import (
	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/handler"
)

// Handlers aggregates every handler the route tables need.
type Handlers struct {
	Auth      *handler.AuthHandler
	Files     *handler.FileHandler
	Plots     *handler.PublicPlotHandler
	Houses    *handler.PublicHouseHandler
	AdminP    *handler.AdminPlotHandler
	AdminH    *handler.AdminHouseHandler
	Features  *handler.FeatureHandler
	Inquiries *handler.InquiryHandler
	Settings  *handler.SettingHandler
	Dashboard *handler.DashboardHandler
}

// RegisterRoutes registers the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /api/auth.
// The rate limiter, when enabled, sits in front of every one of them; the
// login and refresh endpoints are the usual brute-force targets.
func RegisterAuth(e *echo.Echo, h Handlers, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/login", h.Auth.Login)
	g.POST("/register-admin", h.Auth.RegisterAdmin)
	g.POST("/refresh-token", h.Auth.Refresh)
	g.POST("/request-password-reset", h.Auth.ForgotPassword)
	g.POST("/reset-password", h.Auth.ResetPassword)
	g.POST("/logout", h.Auth.Logout)

	// session-bound endpoints; the global filter has already run
	g.GET("/me", h.Auth.Me)
	g.POST("/logout-all", h.Auth.LogoutAll)
}
