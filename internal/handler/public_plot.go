package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/model"
	"github.com/iwacu250/landplots/internal/repository"
)

// PublicPlotHandler serves the unauthenticated plot browse endpoints.
type PublicPlotHandler struct {
	Plots *repository.PlotRepo
}

func NewPublicPlotHandler(plots *repository.PlotRepo) *PublicPlotHandler {
	return &PublicPlotHandler{Plots: plots}
}

// plotQueryFrom maps query params onto the repository filter. Unknown
// status values are ignored rather than rejected so stale links keep
// working.
func plotQueryFrom(c echo.Context) repository.PlotQuery {
	q := repository.PlotQuery{
		Location:  strings.TrimSpace(c.QueryParam("location")),
		MinPrice:  queryFloat(c, "min_price"),
		MaxPrice:  queryFloat(c, "max_price"),
		MinSize:   queryFloat(c, "min_size"),
		MaxSize:   queryFloat(c, "max_size"),
		SortBy:    c.QueryParam("sort_by"),
		Direction: c.QueryParam("direction"),
	}
	if st, ok := model.ParsePropertyStatus(c.QueryParam("status")); ok {
		q.Status = st
	}
	q.Page, q.PageSize = pagination(c)
	return q
}

// List returns a filtered, paginated page of plots.
func (h *PublicPlotHandler) List(c echo.Context) error {
	q := plotQueryFrom(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	plots, total, err := h.Plots.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load plots"})
	}
	return c.JSON(http.StatusOK, pagedResponse{Items: plots, Total: total, Page: q.Page, PageSize: q.PageSize})
}

// Featured returns the latest available plots for the landing page.
func (h *PublicPlotHandler) Featured(c echo.Context) error {
	limit := queryInt(c, "limit", 6)
	if limit < 1 || limit > 24 {
		limit = 6
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	plots, err := h.Plots.Featured(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load plots"})
	}
	return c.JSON(http.StatusOK, plots)
}

// Get returns one plot with its images and features hydrated.
func (h *PublicPlotHandler) Get(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plot id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Plots.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load plot"})
	}
	return c.JSON(http.StatusOK, p)
}
