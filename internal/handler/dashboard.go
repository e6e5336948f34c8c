package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/model"
	"github.com/iwacu250/landplots/internal/repository"
)

// DashboardHandler aggregates counters for the admin landing page.
type DashboardHandler struct {
	Plots     *repository.PlotRepo
	Houses    *repository.HouseRepo
	Inquiries *repository.InquiryRepo
}

func NewDashboardHandler(p *repository.PlotRepo, hs *repository.HouseRepo, i *repository.InquiryRepo) *DashboardHandler {
	return &DashboardHandler{Plots: p, Houses: hs, Inquiries: i}
}

type statusCounts struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Pending   int64 `json:"pending"`
	Sold      int64 `json:"sold"`
}

type dashboardStats struct {
	Plots        statusCounts `json:"plots"`
	Houses       statusCounts `json:"houses"`
	Inquiries    int64        `json:"inquiries"`
	NewInquiries int64        `json:"new_inquiries"`
}

// Stats counts listings per lifecycle state plus the inquiry backlog.
func (h *DashboardHandler) Stats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		out dashboardStats
		err error
	)
	if out.Plots, err = countProperty(ctx, h.Plots.Count, h.Plots.CountByStatus); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	if out.Houses, err = countProperty(ctx, h.Houses.Count, h.Houses.CountByStatus); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	if out.Inquiries, err = h.Inquiries.Count(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	if out.NewInquiries, err = h.Inquiries.CountByStatus(ctx, model.InquiryStatusNew); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	return c.JSON(http.StatusOK, out)
}

// countProperty runs the total plus the per-status counters for one
// listing table.
func countProperty(ctx context.Context,
	total func(context.Context) (int64, error),
	byStatus func(context.Context, model.PropertyStatus) (int64, error)) (statusCounts, error) {

	var sc statusCounts
	var err error
	if sc.Total, err = total(ctx); err != nil {
		return sc, err
	}
	if sc.Available, err = byStatus(ctx, model.StatusAvailable); err != nil {
		return sc, err
	}
	if sc.Pending, err = byStatus(ctx, model.StatusPending); err != nil {
		return sc, err
	}
	if sc.Sold, err = byStatus(ctx, model.StatusSold); err != nil {
		return sc, err
	}
	return sc, nil
}
