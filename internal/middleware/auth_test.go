package middleware_test

import (
	"context"
	"encoding/base64"
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
	"github.com/iwacu250/landplots/internal/utils"
)

var testSecret = base64.StdEncoding.EncodeToString(make([]byte, 32))

// stores just big enough for the filter path

type stubUsers struct{ user *model.User }

func (s *stubUsers) ByID(_ context.Context, id uint64) (*model.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, auth.ErrUserNotFound
}
func (s *stubUsers) ByUsername(_ context.Context, username string) (*model.User, error) {
	if s.user != nil && s.user.Username == username {
		return s.user, nil
	}
	return nil, auth.ErrUserNotFound
}
func (s *stubUsers) ByEmail(_ context.Context, email string) (*model.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, auth.ErrUserNotFound
}
func (s *stubUsers) UsernameExists(context.Context, string) (bool, error) { return false, nil }
func (s *stubUsers) EmailExists(context.Context, string) (bool, error)    { return false, nil }
func (s *stubUsers) Count(context.Context) (int64, error)                 { return 1, nil }
func (s *stubUsers) CreateFirstAdmin(context.Context, *model.User, uint64) error {
	return auth.ErrAdminExists
}
func (s *stubUsers) UpdatePassword(context.Context, uint64, string) error { return nil }

type stubRoles struct{}

func (stubRoles) FindOrCreate(_ context.Context, name model.RoleName) (*model.Role, error) {
	return &model.Role{ID: 1, Name: name}, nil
}

type stubTokens struct{}

func (stubTokens) Store(context.Context, uint64, string, time.Time) error { return nil }
func (stubTokens) Validate(context.Context, string) (uint64, error) {
	return 0, auth.ErrUserNotFound
}
func (stubTokens) RevokeByHash(context.Context, string) error     { return nil }
func (stubTokens) RevokeAllForUser(context.Context, uint64) error { return nil }

func testService(t *testing.T, u *model.User) *auth.Service {
	t.Helper()
	codec, err := auth.NewCodec(testSecret)
	require.NoError(t, err)
	return auth.NewService(&stubUsers{user: u}, stubRoles{}, stubTokens{}, codec,
		4, 15*time.Minute, 24*time.Hour, 30*time.Minute)
}

func adminUser(t *testing.T) *model.User {
	t.Helper()
	hash, err := utils.HashPassword("Secret123", 4)
	require.NoError(t, err)
	return &model.User{
		ID:           1,
		Username:     "karim",
		Email:        "karim@example.com",
		PasswordHash: hash,
		IsActive:     true,
		Roles:        []model.Role{{ID: 1, Name: model.RoleAdmin}},
	}
}

// run sends a request through Authenticate into a probe handler that
// reports whether a principal was attached.
func run(t *testing.T, svc *auth.Service, authorization string) (*httptest.ResponseRecorder, *auth.Principal) {
	t.Helper()
	e := echo.New()
	var got *auth.Principal
	e.GET("/probe", func(c echo.Context) error {
		got = middleware.CurrentPrincipal(c)
		return c.String(http.StatusOK, "ok")
	}, middleware.Authenticate(svc))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, got
}

func TestAuthenticate_ValidToken(t *testing.T) {
	u := adminUser(t)
	svc := testService(t, u)

	tok, err := svc.Codec().IssueSession(u, 15*time.Minute)
	require.NoError(t, err)

	rec, p := run(t, svc, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, p)
	assert.Equal(t, uint64(1), p.ID)
	assert.True(t, p.HasRole("ADMIN"))
}

func TestAuthenticate_NoHeaderIsAnonymous(t *testing.T) {
	svc := testService(t, adminUser(t))

	rec, p := run(t, svc, "")
	assert.Equal(t, http.StatusOK, rec.Code, "filter never rejects")
	assert.Nil(t, p)
}

func TestAuthenticate_GarbageTokenIsAnonymous(t *testing.T) {
	svc := testService(t, adminUser(t))

	rec, p := run(t, svc, "Bearer garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, p)
}

func TestAuthenticate_ExpiredTokenIsAnonymous(t *testing.T) {
	u := adminUser(t)
	svc := testService(t, u)

	issued := time.Now().Add(-time.Hour)
	svc.Codec().WithClock(func() time.Time { return issued })
	tok, err := svc.Codec().IssueSession(u, time.Minute)
	require.NoError(t, err)
	svc.Codec().WithClock(time.Now)

	rec, p := run(t, svc, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, p)
}

func TestAuthenticate_ResetTokenIsAnonymous(t *testing.T) {
	u := adminUser(t)
	svc := testService(t, u)

	tok, err := svc.Codec().IssueReset(u, 30*time.Minute)
	require.NoError(t, err)

	_, p := run(t, svc, "Bearer "+tok)
	assert.Nil(t, p, "a reset token must not open a session")
}

func TestAuthenticate_DeletedUserIsAnonymous(t *testing.T) {
	u := adminUser(t)
	svc := testService(t, nil) // store has no users

	tok, err := svc.Codec().IssueSession(u, 15*time.Minute)
	require.NoError(t, err)

	_, p := run(t, svc, "Bearer "+tok)
	assert.Nil(t, p)
}
