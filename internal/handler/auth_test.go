package handler_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwacu250/landplots/internal/auth"
	"github.com/iwacu250/landplots/internal/config"
	"github.com/iwacu250/landplots/internal/handler"
	"github.com/iwacu250/landplots/internal/model"
	"github.com/iwacu250/landplots/internal/utils"
)

var testSecret = base64.StdEncoding.EncodeToString(make([]byte, 32))

// minimal in-memory stores for driving the HTTP layer

type memUsers struct {
	nextID uint64
	byID   map[uint64]*model.User
}

func newMemUsers() *memUsers { return &memUsers{nextID: 1, byID: map[uint64]*model.User{}} }

func (m *memUsers) ByID(_ context.Context, id uint64) (*model.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}
func (m *memUsers) ByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}
func (m *memUsers) ByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}
func (m *memUsers) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := m.ByUsername(ctx, username)
	return err == nil, nil
}
func (m *memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.ByEmail(ctx, email)
	return err == nil, nil
}
func (m *memUsers) Count(_ context.Context) (int64, error) { return int64(len(m.byID)), nil }
func (m *memUsers) CreateFirstAdmin(_ context.Context, u *model.User, _ uint64) error {
	if len(m.byID) > 0 {
		return auth.ErrAdminExists
	}
	u.ID = m.nextID
	m.nextID++
	m.byID[u.ID] = u
	return nil
}
func (m *memUsers) UpdatePassword(_ context.Context, userID uint64, hash string) error {
	u, ok := m.byID[userID]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memRoles struct{}

func (memRoles) FindOrCreate(_ context.Context, name model.RoleName) (*model.Role, error) {
	return &model.Role{ID: 1, Name: name}, nil
}

type memTokens struct{ byHash map[string]uint64 }

func newMemTokens() *memTokens { return &memTokens{byHash: map[string]uint64{}} }

func (m *memTokens) Store(_ context.Context, userID uint64, hash string, _ time.Time) error {
	m.byHash[hash] = userID
	return nil
}
func (m *memTokens) Validate(_ context.Context, hash string) (uint64, error) {
	if id, ok := m.byHash[hash]; ok {
		return id, nil
	}
	return 0, auth.ErrUserNotFound
}
func (m *memTokens) RevokeByHash(_ context.Context, hash string) error {
	delete(m.byHash, hash)
	return nil
}
func (m *memTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	for h, id := range m.byHash {
		if id == userID {
			delete(m.byHash, h)
		}
	}
	return nil
}

func newTestHandler(t *testing.T) (*handler.AuthHandler, *memUsers) {
	t.Helper()
	codec, err := auth.NewCodec(testSecret)
	require.NoError(t, err)
	users := newMemUsers()
	svc := auth.NewService(users, memRoles{}, newMemTokens(), codec,
		4, 15*time.Minute, 7*24*time.Hour, 30*time.Minute)
	return handler.NewAuthHandler(config.Config{Env: "test"}, svc), users
}

func seedAdmin(t *testing.T, users *memUsers) {
	t.Helper()
	hash, err := utils.HashPassword("Secret123", 4)
	require.NoError(t, err)
	u := &model.User{
		Username:     "karim",
		Email:        "karim@example.com",
		PasswordHash: hash,
		IsActive:     true,
		Roles:        []model.Role{{ID: 1, Name: model.RoleAdmin}},
	}
	u.ID = users.nextID
	users.nextID++
	users.byID[u.ID] = u
}

func post(t *testing.T, fn echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, fn(e.NewContext(req, rec)))
	return rec
}

func TestLoginEndpoint_Success(t *testing.T) {
	h, users := newTestHandler(t)
	seedAdmin(t, users)

	rec := post(t, h.Login, `{"username":"karim","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res auth.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Bearer", res.TokenType)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "karim", res.User.Username)
}

func TestLoginEndpoint_BadCredentialsShareOneMessage(t *testing.T) {
	h, users := newTestHandler(t)
	seedAdmin(t, users)

	unknown := post(t, h.Login, `{"username":"ghost","password":"Secret123"}`)
	wrongPw := post(t, h.Login, `{"username":"karim","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.JSONEq(t, unknown.Body.String(), wrongPw.Body.String(),
		"unknown user and wrong password must be indistinguishable")
}

func TestLoginEndpoint_MissingFields(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h.Login, `{"username":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterEndpoint_OnlyOnce(t *testing.T) {
	h, _ := newTestHandler(t)

	first := post(t, h.RegisterAdmin,
		`{"username":"karim","email":"karim@example.com","password":"Secret123"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := post(t, h.RegisterAdmin,
		`{"username":"other","email":"other@example.com","password":"Other456"}`)
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestForgotPasswordEndpoint_IdenticalResponses(t *testing.T) {
	h, users := newTestHandler(t)
	seedAdmin(t, users)

	known := post(t, h.ForgotPassword, `{"email":"karim@example.com"}`)
	unknown := post(t, h.ForgotPassword, `{"email":"ghost@example.com"}`)

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.JSONEq(t, known.Body.String(), unknown.Body.String(),
		"responses must not reveal whether the email exists")
}

func TestRefreshEndpoint_InvalidToken(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h.Refresh, `{"refresh_token":"deadbeef"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPasswordEndpoint_BadToken(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h.ResetPassword,
		`{"token":"garbage","new_password":"NewPass456","confirm_password":"NewPass456"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
