package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/model"
	"github.com/iwacu250/landplots/internal/repository"
	"github.com/iwacu250/landplots/internal/storage"
)

// AdminPlotHandler covers the write side of plot listings: CRUD, status
// transitions, feature attachment and media management.
type AdminPlotHandler struct {
	Plots  *repository.PlotRepo
	Images *repository.ImageRepo
	Store  storage.Store
}

func NewAdminPlotHandler(plots *repository.PlotRepo, images *repository.ImageRepo, store storage.Store) *AdminPlotHandler {
	return &AdminPlotHandler{Plots: plots, Images: images, Store: store}
}

type plotReq struct {
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Size        float64  `json:"size"`
	SizeUnit    string   `json:"size_unit"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	FeatureIDs  []uint64 `json:"feature_ids"`
}

func (r *plotReq) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	if r.Title == "" || r.Location == "" {
		return "title and location are required"
	}
	if r.Size <= 0 {
		return "size must be positive"
	}
	if r.Price < 0 {
		return "price cannot be negative"
	}
	return ""
}

func (r *plotReq) apply(p *model.Plot) {
	p.Title = r.Title
	p.Location = r.Location
	p.Size = r.Size
	p.SizeUnit = r.SizeUnit
	if p.SizeUnit == "" {
		p.SizeUnit = "sqm"
	}
	p.Price = r.Price
	p.Currency = r.Currency
	if p.Currency == "" {
		p.Currency = "RWF"
	}
	p.Description = r.Description
}

// Create adds a plot listing. New listings start AVAILABLE unless a
// valid status is supplied.
func (h *AdminPlotHandler) Create(c echo.Context) error {
	var req plotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	p := &model.Plot{Status: model.StatusAvailable}
	if req.Status != "" {
		st, ok := model.ParsePropertyStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		p.Status = st
	}
	req.apply(p)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Plots.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create plot"})
	}
	if len(req.FeatureIDs) > 0 {
		if err := h.Plots.ReplaceFeatures(ctx, p.ID, req.FeatureIDs); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to attach features"})
		}
	}
	return c.JSON(http.StatusCreated, p)
}

// Update rewrites the editable fields of a plot.
func (h *AdminPlotHandler) Update(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plot id"})
	}
	var req plotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
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
	req.apply(p)
	if req.Status != "" {
		st, ok := model.ParsePropertyStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		p.Status = st
	}

	if err := h.Plots.Update(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update plot"})
	}
	if req.FeatureIDs != nil {
		if err := h.Plots.ReplaceFeatures(ctx, p.ID, req.FeatureIDs); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to attach features"})
		}
	}
	return c.JSON(http.StatusOK, p)
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus moves a plot along the AVAILABLE/PENDING/SOLD lifecycle.
func (h *AdminPlotHandler) UpdateStatus(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plot id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	st, ok := model.ParsePropertyStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Plots.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated", "status": st})
}

// Delete removes a plot and its media records. Stored blobs are removed
// best-effort; a listing row never survives because of a blob error.
func (h *AdminPlotHandler) Delete(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plot id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	imgs, err := h.Images.ListByOwner(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete plot"})
	}
	if err := h.Plots.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete plot"})
	}
	for _, img := range imgs {
		_ = h.Store.Delete(ctx, img.StorageKey)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImages attaches one or more images to a plot.
func (h *AdminPlotHandler) UploadImages(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plot id"})
	}
	files, err := formFiles(c.Request())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no files attached"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Plots.ByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load plot"})
	}
	existing, err := h.Images.ListByOwner(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load images"})
	}

	saved, err := saveImages(ctx, h.Store, h.Images, id, "plots", files, len(existing))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "saved": saved})
	}
	// first image ever uploaded becomes the cover
	if len(existing) == 0 && len(saved) > 0 {
		_ = h.Plots.SetFeaturedImage(ctx, id, saved[0].URL)
	}
	return c.JSON(http.StatusCreated, saved)
}

type reorderReq struct {
	ImageIDs []uint64 `json:"image_ids"`
}

// ReorderImages rewrites the display order from the posted id list.
func (h *AdminPlotHandler) ReorderImages(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plot id"})
	}
	var req reorderReq
	if err := c.Bind(&req); err != nil || len(req.ImageIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image_ids is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Images.Reorder(ctx, id, req.ImageIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reorder images"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "images reordered"})
}

// DeleteImage removes one image row and its blob.
func (h *AdminPlotHandler) DeleteImage(c echo.Context) error {
	plotID := idParam(c, "id")
	imageID := idParam(c, "imageID")
	if plotID == 0 || imageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	img, err := h.Images.ByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load image"})
	}
	if img.OwnerID != plotID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
	}
	if err := h.Images.Delete(ctx, imageID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete image"})
	}
	_ = h.Store.Delete(ctx, img.StorageKey)
	return c.NoContent(http.StatusNoContent)
}

type featuredImageReq struct {
	ImageID uint64 `json:"image_id"`
}

// SetFeaturedImage picks which uploaded image fronts the listing.
func (h *AdminPlotHandler) SetFeaturedImage(c echo.Context) error {
	plotID := idParam(c, "id")
	if plotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plot id"})
	}
	var req featuredImageReq
	if err := c.Bind(&req); err != nil || req.ImageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image_id is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	img, err := h.Images.ByID(ctx, req.ImageID)
	if err != nil || img.OwnerID != plotID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
	}
	if err := h.Plots.SetFeaturedImage(ctx, plotID, img.URL); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to set featured image"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "featured image set", "url": img.URL})
}

// UploadVideo attaches a walkthrough video to a plot.
func (h *AdminPlotHandler) UploadVideo(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plot id"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file attached"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Plots.ByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load plot"})
	}

	url, err := saveVideo(ctx, h.Store, fh)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Plots.SetVideoURL(ctx, id, url); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save video"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
