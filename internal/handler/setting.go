package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/repository"
)

// SettingHandler serves site settings: a whitelisted public view for the
// storefront and full read/write access for the admin.
type SettingHandler struct {
	Settings *repository.SettingRepo
}

func NewSettingHandler(s *repository.SettingRepo) *SettingHandler {
	return &SettingHandler{Settings: s}
}

// Public returns the settings a guest may see (contact details).
func (h *SettingHandler) Public(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Settings.Public(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load settings"})
	}
	return c.JSON(http.StatusOK, out)
}

// All returns every setting for the admin panel.
func (h *SettingHandler) All(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Settings.All(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load settings"})
	}
	return c.JSON(http.StatusOK, out)
}

type settingsReq map[string]string

// Update upserts the posted key/value pairs in one request.
func (h *SettingHandler) Update(c echo.Context) error {
	var req settingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no settings provided"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	for k, v := range req {
		k = strings.TrimSpace(k)
		if k == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty setting key"})
		}
		if err := h.Settings.Upsert(ctx, k, v); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save settings"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "settings saved"})
}
