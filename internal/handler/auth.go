package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/auth"
	"github.com/iwacu250/landplots/internal/config"
	"github.com/iwacu250/landplots/internal/middleware"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg config.Config
	Svc *auth.Service
}

func NewAuthHandler(cfg config.Config, svc *auth.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Svc: svc}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Login verifies admin credentials and returns a token pair. Bad
// usernames and bad passwords share one generic message; only a disabled
// account and a non-admin account get their own statuses.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRequest):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
		case errors.Is(err, auth.ErrAccountDisabled):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account is disabled"})
		case errors.Is(err, auth.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// RegisterAdmin bootstraps the single admin account. Once any user row
// exists the endpoint is permanently closed.
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Svc.RegisterAdmin(ctx, auth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRequest):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email and password are required"})
		case errors.Is(err, auth.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username is already taken"})
		case errors.Is(err, auth.ErrEmailTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email is already in use"})
		case errors.Is(err, auth.ErrAdminExists), errors.Is(err, auth.ErrDuplicate):
			return c.JSON(http.StatusConflict, echo.Map{"error": "admin account already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	return c.JSON(http.StatusCreated, auth.UserSummary{
		ID: u.ID, Username: u.Username, Email: u.Email, Roles: u.RoleNames(),
	})
}

// Refresh rotates a refresh token into a fresh token pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRequest):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
		case errors.Is(err, auth.ErrInvalidRefresh), errors.Is(err, auth.ErrAccountDisabled):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// ForgotPassword issues a reset token. The response is identical whether
// or not the email exists, so the endpoint cannot be used to enumerate
// accounts. Outside production the token is logged for manual delivery;
// there is no mail sender wired up.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tok, err := h.Svc.RequestPasswordReset(ctx, req.Email)
	if err != nil && errors.Is(err, auth.ErrInvalidRequest) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	if err == nil && !h.Cfg.IsProd() {
		c.Logger().Infof("password reset token for %s: %s", req.Email, tok)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "if the email is registered, a reset link has been sent",
	})
}

// ResetPassword redeems a reset token for a new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Svc.ResetPassword(ctx, req.Token, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRequest):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "token and new_password are required"})
		case errors.Is(err, auth.ErrPasswordMismatch):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrAccountDisabled):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password has been reset"})
}

// Logout revokes the presented refresh token. Always succeeds from the
// client's perspective.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	_ = h.Svc.Logout(ctx, req.RefreshToken)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// LogoutAll ends every session of the authenticated admin.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	p := middleware.CurrentPrincipal(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Svc.LogoutAll(ctx, p.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "all sessions ended"})
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
	p := middleware.CurrentPrincipal(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, p)
}
