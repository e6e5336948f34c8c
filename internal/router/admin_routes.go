package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/middleware"
	"github.com/iwacu250/landplots/internal/model"
)

// RegisterAdmin registers the management endpoints under /api/admin. The
// whole group sits behind the role gate; the authentication filter runs
// globally and only attaches the principal.
func RegisterAdmin(e *echo.Echo, h Handlers) {
	g := e.Group("/api/admin")
	g.Use(middleware.RequireRole(string(model.RoleAdmin)))

	g.GET("/dashboard/stats", h.Dashboard.Stats)

	g.POST("/plots", h.AdminP.Create)
	g.PUT("/plots/:id", h.AdminP.Update)
	g.PATCH("/plots/:id/status", h.AdminP.UpdateStatus)
	g.DELETE("/plots/:id", h.AdminP.Delete)
	g.POST("/plots/:id/images", h.AdminP.UploadImages)
	g.PUT("/plots/:id/images/order", h.AdminP.ReorderImages)
	g.PUT("/plots/:id/featured-image", h.AdminP.SetFeaturedImage)
	g.DELETE("/plots/:id/images/:imageID", h.AdminP.DeleteImage)
	g.POST("/plots/:id/video", h.AdminP.UploadVideo)

	g.POST("/houses", h.AdminH.Create)
	g.PUT("/houses/:id", h.AdminH.Update)
	g.PATCH("/houses/:id/status", h.AdminH.UpdateStatus)
	g.DELETE("/houses/:id", h.AdminH.Delete)
	g.POST("/houses/:id/images", h.AdminH.UploadImages)
	g.PUT("/houses/:id/images/order", h.AdminH.ReorderImages)
	g.PUT("/houses/:id/featured-image", h.AdminH.SetFeaturedImage)
	g.DELETE("/houses/:id/images/:imageID", h.AdminH.DeleteImage)
	g.POST("/houses/:id/video", h.AdminH.UploadVideo)

	g.POST("/features", h.Features.Create)
	g.PUT("/features/:id", h.Features.Update)
	g.DELETE("/features/:id", h.Features.Delete)

	g.GET("/inquiries", h.Inquiries.List)
	g.GET("/inquiries/:id", h.Inquiries.Get)
	g.PATCH("/inquiries/:id/status", h.Inquiries.UpdateStatus)

	g.GET("/settings", h.Settings.All)
	g.PUT("/settings", h.Settings.Update)

	g.POST("/files", h.Files.Upload)
	g.DELETE("/files", h.Files.Delete)
}
