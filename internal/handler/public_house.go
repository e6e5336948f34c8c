package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/model"
	"github.com/iwacu250/landplots/internal/repository"
)

// PublicHouseHandler serves the unauthenticated house browse endpoints.
type PublicHouseHandler struct {
	Houses *repository.HouseRepo
}

func NewPublicHouseHandler(houses *repository.HouseRepo) *PublicHouseHandler {
	return &PublicHouseHandler{Houses: houses}
}

func houseQueryFrom(c echo.Context) repository.HouseQuery {
	q := repository.HouseQuery{
		Term:        strings.TrimSpace(c.QueryParam("q")),
		Location:    strings.TrimSpace(c.QueryParam("location")),
		MinPrice:    queryFloat(c, "min_price"),
		MaxPrice:    queryFloat(c, "max_price"),
		MinBedrooms: queryInt(c, "min_bedrooms", 0),
		SortBy:      c.QueryParam("sort_by"),
		Direction:   c.QueryParam("direction"),
	}
	if st, ok := model.ParsePropertyStatus(c.QueryParam("status")); ok {
		q.Status = st
	}
	if t, ok := model.ParsePropertyType(c.QueryParam("type")); ok {
		q.Type = t
	}
	q.Page, q.PageSize = pagination(c)
	return q
}

// List returns a filtered, paginated page of houses.
func (h *PublicHouseHandler) List(c echo.Context) error {
	q := houseQueryFrom(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	houses, total, err := h.Houses.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load houses"})
	}
	return c.JSON(http.StatusOK, pagedResponse{Items: houses, Total: total, Page: q.Page, PageSize: q.PageSize})
}

// Featured returns the latest available houses for the landing page.
func (h *PublicHouseHandler) Featured(c echo.Context) error {
	limit := queryInt(c, "limit", 6)
	if limit < 1 || limit > 24 {
		limit = 6
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	houses, err := h.Houses.Featured(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load houses"})
	}
	return c.JSON(http.StatusOK, houses)
}

// Get returns one house with its images and features hydrated.
func (h *PublicHouseHandler) Get(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	house, err := h.Houses.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "house not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load house"})
	}
	return c.JSON(http.StatusOK, house)
}
