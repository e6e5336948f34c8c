package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/model"
	"github.com/iwacu250/landplots/internal/queue"
	"github.com/iwacu250/landplots/internal/repository"
	queue_publisher "github.com/iwacu250/landplots/internal/service"
)

// InquiryHandler serves the public contact form and the admin inbox.
type InquiryHandler struct {
	Inquiries *repository.InquiryRepo
	Plots     *repository.PlotRepo
}

func NewInquiryHandler(inq *repository.InquiryRepo, plots *repository.PlotRepo) *InquiryHandler {
	return &InquiryHandler{Inquiries: inq, Plots: plots}
}

type inquiryReq struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	PlotID  *uint64 `json:"plot_id"`
	Message string  `json:"message"`
}

// Submit accepts a contact request from the public site. When the
// inquiry references a plot the plot must exist; the broker event is
// best-effort and never fails the request.
func (h *InquiryHandler) Submit(c echo.Context) error {
	var req inquiryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and message are required"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	propertyName := ""
	if req.PlotID != nil {
		p, err := h.Plots.ByID(ctx, *req.PlotID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown plot"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit inquiry"})
		}
		propertyName = p.Title
	}

	inq := &model.Inquiry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   strings.TrimSpace(req.Phone),
		PlotID:  req.PlotID,
		Message: req.Message,
	}
	if err := h.Inquiries.Create(ctx, inq); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit inquiry"})
	}

	// Detached context: the event should go out even if the client hangs up.
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishInquiryReceived(pubCtx, queue.InquiryReceivedEvent{
			InquiryID:    inq.ID,
			Name:         inq.Name,
			Email:        inq.Email,
			Phone:        inq.Phone,
			Message:      inq.Message,
			PlotID:       inq.PlotID,
			PropertyName: propertyName,
			ReceivedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusCreated, echo.Map{"message": "inquiry received", "id": inq.ID})
}

// List returns the admin inbox, optionally filtered by status.
func (h *InquiryHandler) List(c echo.Context) error {
	page, pageSize := pagination(c)
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	switch status {
	case "", model.InquiryStatusNew, model.InquiryStatusRead, model.InquiryStatusArchived:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Inquiries.List(ctx, page, pageSize, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load inquiries"})
	}
	return c.JSON(http.StatusOK, pagedResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

// Get returns one inquiry.
func (h *InquiryHandler) Get(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inquiry id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	inq, err := h.Inquiries.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "inquiry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load inquiry"})
	}
	return c.JSON(http.StatusOK, inq)
}

type inquiryStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus moves an inquiry between NEW, READ and ARCHIVED.
func (h *InquiryHandler) UpdateStatus(c echo.Context) error {
	id := idParam(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inquiry id"})
	}
	var req inquiryStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	switch status {
	case model.InquiryStatusNew, model.InquiryStatusRead, model.InquiryStatusArchived:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Inquiries.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "inquiry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update inquiry"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "inquiry updated"})
}
