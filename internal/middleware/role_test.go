package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwacu250/landplots/internal/auth"
	"github.com/iwacu250/landplots/internal/middleware"
	"github.com/iwacu250/landplots/internal/model"
)

// gated wires /admin/ping behind Authenticate + RequireRole("ADMIN").
func gated(svc *auth.Service) *echo.Echo {
	e := echo.New()
	g := e.Group("/admin", middleware.Authenticate(svc), middleware.RequireRole("ADMIN"))
	g.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	return e
}

func hit(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireRole_AnonymousGets401(t *testing.T) {
	svc := testService(t, adminUser(t))

	rec := hit(gated(svc), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_AdminPasses(t *testing.T) {
	u := adminUser(t)
	svc := testService(t, u)
	tok, err := svc.Codec().IssueSession(u, 15*time.Minute)
	require.NoError(t, err)

	rec := hit(gated(svc), tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestRequireRole_WrongRoleGets403(t *testing.T) {
	u := adminUser(t)
	u.Roles = []model.Role{{ID: 2, Name: model.RoleUser}}
	svc := testService(t, u)
	tok, err := svc.Codec().IssueSession(u, 15*time.Minute)
	require.NoError(t, err)

	rec := hit(gated(svc), tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
