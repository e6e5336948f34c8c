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

// AdminHouseHandler mirrors AdminPlotHandler for built properties.
type AdminHouseHandler struct {
	Houses *repository.HouseRepo
	Images *repository.ImageRepo
	Store  storage.Store
}

func NewAdminHouseHandler(houses *repository.HouseRepo, images *repository.ImageRepo, store storage.Store) *AdminHouseHandler {
	return &AdminHouseHandler{Houses: houses, Images: images, Store: store}
}

type houseReq struct {
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Size        float64  `json:"size"`
	SizeUnit    string   `json:"size_unit"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	YearBuilt   int      `json:"year_built"`
	Floors      int      `json:"floors"`
	Status      string   `json:"status"`
	FeatureIDs  []uint64 `json:"feature_ids"`
}

func (r *houseReq) validate() string {
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
	if r.Bedrooms < 0 || r.Bathrooms < 0 || r.Floors < 0 {
		return "room counts cannot be negative"
	}
	return ""
}

func (r *houseReq) apply(h *model.House) {
	h.Title = r.Title
	h.Location = r.Location
	h.Size = r.Size
	h.SizeUnit = r.SizeUnit
	if h.SizeUnit == "" {
		h.SizeUnit = "sqm"
	}
	h.Price = r.Price
	h.Currency = r.Currency
	if h.Currency == "" {
		h.Currency = "RWF"
	}
	h.Description = r.Description
	h.Bedrooms = r.Bedrooms
	h.Bathrooms = r.Bathrooms
	h.YearBuilt = r.YearBuilt
	h.Floors = r.Floors
}

// Create adds a house listing.
func (h *AdminHouseHandler) Create(c echo.Context) error {
	var req houseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	t, ok := model.ParsePropertyType(req.Type)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown property type"})
	}

	house := &model.House{Type: t, Status: model.StatusAvailable}
	if req.Status != "" {
		st, ok := model.ParsePropertyStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		house.Status = st
	}
	req.apply(house)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Houses.Create(ctx, house); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create house"})
	}
	if len(req.FeatureIDs) > 0 {
		if err := h.Houses.ReplaceFeatures(ctx, house.ID, req.FeatureIDs); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to attach features"})
		}
	}
	return c.JSON(http.StatusCreated, house)
}

// Update rewrites the editable fields of a house.
func (h *AdminHouseHandler) Update(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}
	var req houseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
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
	req.apply(house)
	if req.Type != "" {
		t, ok := model.ParsePropertyType(req.Type)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown property type"})
		}
		house.Type = t
	}
	if req.Status != "" {
		st, ok := model.ParsePropertyStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		house.Status = st
	}

	if err := h.Houses.Update(ctx, house); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update house"})
	}
	if req.FeatureIDs != nil {
		if err := h.Houses.ReplaceFeatures(ctx, house.ID, req.FeatureIDs); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to attach features"})
		}
	}
	return c.JSON(http.StatusOK, house)
}

// UpdateStatus moves a house along the sales lifecycle.
func (h *AdminHouseHandler) UpdateStatus(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
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

	if err := h.Houses.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "house not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated", "status": st})
}

// Delete removes a house, its media records and, best-effort, the blobs.
func (h *AdminHouseHandler) Delete(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	imgs, err := h.Images.ListByOwner(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete house"})
	}
	if err := h.Houses.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "house not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete house"})
	}
	for _, img := range imgs {
		_ = h.Store.Delete(ctx, img.StorageKey)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImages attaches one or more images to a house.
func (h *AdminHouseHandler) UploadImages(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}
	files, err := formFiles(c.Request())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no files attached"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Houses.ByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "house not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load house"})
	}
	existing, err := h.Images.ListByOwner(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load images"})
	}

	saved, err := saveImages(ctx, h.Store, h.Images, id, "houses", files, len(existing))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "saved": saved})
	}
	if len(existing) == 0 && len(saved) > 0 {
		_ = h.Houses.SetFeaturedImage(ctx, id, saved[0].URL)
	}
	return c.JSON(http.StatusCreated, saved)
}

// ReorderImages rewrites the display order from the posted id list.
func (h *AdminHouseHandler) ReorderImages(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
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
func (h *AdminHouseHandler) DeleteImage(c echo.Context) error {
	houseID := idParam(c, "id")
	imageID := idParam(c, "imageID")
	if houseID == 0 || imageID == 0 {
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
	if img.OwnerID != houseID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
	}
	if err := h.Images.Delete(ctx, imageID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete image"})
	}
	_ = h.Store.Delete(ctx, img.StorageKey)
	return c.NoContent(http.StatusNoContent)
}

// SetFeaturedImage picks which uploaded image fronts the listing.
func (h *AdminHouseHandler) SetFeaturedImage(c echo.Context) error {
	houseID := idParam(c, "id")
	if houseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}
	var req featuredImageReq
	if err := c.Bind(&req); err != nil || req.ImageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image_id is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	img, err := h.Images.ByID(ctx, req.ImageID)
	if err != nil || img.OwnerID != houseID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
	}
	if err := h.Houses.SetFeaturedImage(ctx, houseID, img.URL); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to set featured image"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "featured image set", "url": img.URL})
}

// UploadVideo attaches a walkthrough video to a house.
func (h *AdminHouseHandler) UploadVideo(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file attached"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Houses.ByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "house not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load house"})
	}

	url, err := saveVideo(ctx, h.Store, fh)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Houses.SetVideoURL(ctx, id, url); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save video"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
