package router

import (
	"github.com/labstack/echo/v4"
)

// RegisterPublic registers the unauthenticated storefront endpoints under
// /api. The Redis response cache, when enabled, wraps the read-only
// browse routes; the inquiry form gets the rate limiter instead.
func RegisterPublic(e *echo.Echo, h Handlers, cache, limiter echo.MiddlewareFunc) {
	g := e.Group("/api")
	if cache != nil {
		g.Use(cache)
	}

	g.GET("/plots", h.Plots.List)
	g.GET("/plots/featured", h.Plots.Featured)
	g.GET("/plots/:id", h.Plots.Get)

	g.GET("/houses", h.Houses.List)
	g.GET("/houses/search", h.Houses.List)
	g.GET("/houses/featured", h.Houses.Featured)
	g.GET("/houses/:id", h.Houses.Get)

	g.GET("/features", h.Features.List)
	g.GET("/config/settings/public", h.Settings.Public)

	inq := e.Group("/api")
	if limiter != nil {
		inq.Use(limiter)
	}
	inq.POST("/contact/inquiries", h.Inquiries.Submit)
}
