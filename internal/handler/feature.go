package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/model"
	"github.com/iwacu250/landplots/internal/repository"
)

// FeatureHandler manages the reusable listing tags.
type FeatureHandler struct {
	Features *repository.FeatureRepo
}

func NewFeatureHandler(f *repository.FeatureRepo) *FeatureHandler {
	return &FeatureHandler{Features: f}
}

// List returns all features, optionally filtered by a search term.
func (h *FeatureHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	term := strings.TrimSpace(c.QueryParam("q"))
	var (
		items []model.Feature
		err   error
	)
	if term != "" {
		items, err = h.Features.Search(ctx, term)
	} else {
		items, err = h.Features.List(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load features"})
	}
	return c.JSON(http.StatusOK, items)
}

type featureReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (r *featureReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name is required"
	}
	if len(r.Name) > 100 {
		return "name is too long"
	}
	return ""
}

// Create adds a feature; names are unique.
func (h *FeatureHandler) Create(c echo.Context) error {
	var req featureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f := &model.Feature{Name: req.Name, Description: req.Description, Icon: req.Icon}
	if err := h.Features.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "feature already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create feature"})
	}
	return c.JSON(http.StatusCreated, f)
}

// Update renames or redescribes a feature.
func (h *FeatureHandler) Update(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid feature id"})
	}
	var req featureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f := &model.Feature{ID: id, Name: req.Name, Description: req.Description, Icon: req.Icon}
	if err := h.Features.Update(ctx, f); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "feature not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "feature already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update feature"})
	}
	return c.JSON(http.StatusOK, f)
}

// Delete removes a feature and its listing attachments.
func (h *FeatureHandler) Delete(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid feature id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Features.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "feature not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete feature"})
	}
	return c.NoContent(http.StatusNoContent)
}
