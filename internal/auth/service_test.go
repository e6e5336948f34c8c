package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwacu250/landplots/internal/auth"
	"github.com/iwacu250/landplots/internal/model"
	"github.com/iwacu250/landplots/internal/utils"
)

const testBcryptCost = 4 // low cost for fast tests

// --- in-memory stores ---

type memUsers struct {
	nextID uint64
	byID   map[uint64]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, byID: map[uint64]*model.User{}}
}

func (m *memUsers) ByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) ByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *memUsers) ByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
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

func (m *memUsers) Count(_ context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

func (m *memUsers) CreateFirstAdmin(_ context.Context, u *model.User, _ uint64) error {
	if len(m.byID) > 0 {
		return auth.ErrAdminExists
	}
	u.ID = m.nextID
	m.nextID++
	cp := *u
	m.byID[u.ID] = &cp
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

// add seeds a user directly, bypassing the single-admin gate.
func (m *memUsers) add(u model.User) *model.User {
	u.ID = m.nextID
	m.nextID++
	m.byID[u.ID] = &u
	return &u
}

type memRoles struct{ nextID uint64 }

func (m *memRoles) FindOrCreate(_ context.Context, name model.RoleName) (*model.Role, error) {
	m.nextID++
	return &model.Role{ID: m.nextID, Name: name}, nil
}

type memTokenRec struct {
	userID  uint64
	expires time.Time
	revoked bool
}

type memTokens struct {
	byHash map[string]*memTokenRec
}

func newMemTokens() *memTokens { return &memTokens{byHash: map[string]*memTokenRec{}} }

func (m *memTokens) Store(_ context.Context, userID uint64, hash string, exp time.Time) error {
	m.byHash[hash] = &memTokenRec{userID: userID, expires: exp}
	return nil
}

func (m *memTokens) Validate(_ context.Context, hash string) (uint64, error) {
	rec, ok := m.byHash[hash]
	if !ok || rec.revoked || time.Now().After(rec.expires) {
		return 0, auth.ErrUserNotFound
	}
	return rec.userID, nil
}

func (m *memTokens) RevokeByHash(_ context.Context, hash string) error {
	if rec, ok := m.byHash[hash]; ok {
		rec.revoked = true
	}
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	for _, rec := range m.byHash {
		if rec.userID == userID {
			rec.revoked = true
		}
	}
	return nil
}

// --- setup ---

type fixture struct {
	svc    *auth.Service
	users  *memUsers
	tokens *memTokens
	codec  *auth.Codec
}

func setup(t *testing.T) *fixture {
	t.Helper()
	codec, err := auth.NewCodec(testSecret)
	require.NoError(t, err)

	users := newMemUsers()
	tokens := newMemTokens()
	svc := auth.NewService(users, &memRoles{}, tokens, codec,
		testBcryptCost, 15*time.Minute, 7*24*time.Hour, 30*time.Minute)
	return &fixture{svc: svc, users: users, tokens: tokens, codec: codec}
}

func (f *fixture) seedAdmin(t *testing.T, password string, active bool) *model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, testBcryptCost)
	require.NoError(t, err)
	return f.users.add(model.User{
		Username:     "karim",
		Email:        "karim@example.com",
		PasswordHash: hash,
		IsActive:     active,
		Roles:        []model.Role{{ID: 1, Name: model.RoleAdmin}},
	})
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	f := setup(t)
	f.seedAdmin(t, "Secret123", true)

	res, err := f.svc.Login(context.Background(), "karim", "Secret123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, "karim", res.User.Username)
	assert.Contains(t, res.User.Roles, "ADMIN")
	assert.NotEmpty(t, res.RefreshToken)
	assert.True(t, res.RefreshExpires.After(res.AccessExpires))

	claims, err := f.codec.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.False(t, claims.IsReset())
}

func TestLogin_UnknownUser(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Login(context.Background(), "nobody", "Secret123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := setup(t)
	f.seedAdmin(t, "Secret123", true)
	_, err := f.svc.Login(context.Background(), "karim", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	f := setup(t)
	f.seedAdmin(t, "Secret123", false)
	_, err := f.svc.Login(context.Background(), "karim", "Secret123")
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestLogin_NonAdmin(t *testing.T) {
	f := setup(t)
	hash, err := utils.HashPassword("Secret123", testBcryptCost)
	require.NoError(t, err)
	f.users.add(model.User{
		Username:     "visitor",
		Email:        "visitor@example.com",
		PasswordHash: hash,
		IsActive:     true,
		Roles:        []model.Role{{ID: 2, Name: model.RoleUser}},
	})

	_, err = f.svc.Login(context.Background(), "visitor", "Secret123")
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestLogin_BlankInput(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Login(context.Background(), "  ", "")
	assert.ErrorIs(t, err, auth.ErrInvalidRequest)
}

// --- RegisterAdmin ---

func TestRegisterAdmin_Success(t *testing.T) {
	f := setup(t)

	u, err := f.svc.RegisterAdmin(context.Background(), auth.RegisterInput{
		Username: "karim",
		Email:    "Karim@Example.com",
		Password: "Secret123",
		FullName: "Karim N.",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "karim@example.com", u.Email, "email is normalized to lower case")
	assert.True(t, u.HasRole(model.RoleAdmin))
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "Secret123", u.PasswordHash)

	// password round-trips through the stored hash
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "Secret123"))
}

func TestRegisterAdmin_SecondAttemptFails(t *testing.T) {
	f := setup(t)

	_, err := f.svc.RegisterAdmin(context.Background(), auth.RegisterInput{
		Username: "karim", Email: "karim@example.com", Password: "Secret123",
	})
	require.NoError(t, err)

	_, err = f.svc.RegisterAdmin(context.Background(), auth.RegisterInput{
		Username: "second", Email: "second@example.com", Password: "Other456",
	})
	assert.ErrorIs(t, err, auth.ErrAdminExists)
}

func TestRegisterAdmin_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cases := []auth.RegisterInput{
		{Username: "", Email: "a@b.c", Password: "x"},
		{Username: "u", Email: "", Password: "x"},
		{Username: "u", Email: "a@b.c", Password: ""},
		{Username: "u", Email: "not-an-email", Password: "x"},
		{Username: strings.Repeat("u", 51), Email: "a@b.c", Password: "x"},
	}
	for _, in := range cases {
		_, err := f.svc.RegisterAdmin(ctx, in)
		assert.ErrorIs(t, err, auth.ErrInvalidRequest, "input %+v", in)
	}
}

func TestRegisterAdmin_DuplicateUsername(t *testing.T) {
	f := setup(t)
	f.seedAdmin(t, "Secret123", true)

	_, err := f.svc.RegisterAdmin(context.Background(), auth.RegisterInput{
		Username: "karim", Email: "new@example.com", Password: "Other456",
	})
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)
}

// --- Refresh ---

func TestRefresh_RotatesToken(t *testing.T) {
	f := setup(t)
	f.seedAdmin(t, "Secret123", true)
	ctx := context.Background()

	first, err := f.svc.Login(ctx, "karim", "Secret123")
	require.NoError(t, err)

	second, err := f.svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the old refresh token is spent
	_, err = f.svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefresh)

	// the new one still works
	_, err = f.svc.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh_UnknownToken(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Refresh(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, auth.ErrInvalidRefresh)
}

func TestRefresh_BlankToken(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Refresh(context.Background(), "   ")
	assert.ErrorIs(t, err, auth.ErrInvalidRequest)
}

// --- Password reset ---

func TestPasswordReset_FullFlow(t *testing.T) {
	f := setup(t)
	f.seedAdmin(t, "Secret123", true)
	ctx := context.Background()

	tok, err := f.svc.RequestPasswordReset(ctx, "karim@example.com")
	require.NoError(t, err)

	claims, err := f.codec.Verify(tok)
	require.NoError(t, err)
	assert.True(t, claims.IsReset())

	err = f.svc.ResetPassword(ctx, tok, "NewPass456", "NewPass456")
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "karim", "Secret123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "old password must stop working")

	_, err = f.svc.Login(ctx, "karim", "NewPass456")
	require.NoError(t, err)
}

func TestPasswordReset_UnknownEmail(t *testing.T) {
	f := setup(t)
	_, err := f.svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestPasswordReset_SessionTokenRejected(t *testing.T) {
	f := setup(t)
	f.seedAdmin(t, "Secret123", true)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "karim", "Secret123")
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, res.AccessToken, "NewPass456", "NewPass456")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPasswordReset_MismatchLeavesHashIntact(t *testing.T) {
	f := setup(t)
	u := f.seedAdmin(t, "Secret123", true)
	ctx := context.Background()

	tok, err := f.svc.RequestPasswordReset(ctx, "karim@example.com")
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, tok, "NewPass456", "Different789")
	assert.ErrorIs(t, err, auth.ErrPasswordMismatch)

	stored, err := f.users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "Secret123"))
}

func TestPasswordReset_GarbageToken(t *testing.T) {
	f := setup(t)
	err := f.svc.ResetPassword(context.Background(), "garbage", "NewPass456", "NewPass456")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

// --- Logout ---

func TestLogout_RevokesRefreshToken(t *testing.T) {
	f := setup(t)
	f.seedAdmin(t, "Secret123", true)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "karim", "Secret123")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, res.RefreshToken))

	_, err = f.svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefresh)
}

func TestLogoutAll_EndsEverySession(t *testing.T) {
	f := setup(t)
	u := f.seedAdmin(t, "Secret123", true)
	ctx := context.Background()

	a, err := f.svc.Login(ctx, "karim", "Secret123")
	require.NoError(t, err)
	b, err := f.svc.Login(ctx, "karim", "Secret123")
	require.NoError(t, err)

	require.NoError(t, f.svc.LogoutAll(ctx, u.ID))

	_, err = f.svc.Refresh(ctx, a.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefresh)
	_, err = f.svc.Refresh(ctx, b.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefresh)
}

// --- LoadPrincipal ---

func TestLoadPrincipal(t *testing.T) {
	f := setup(t)
	u := f.seedAdmin(t, "Secret123", true)
	ctx := context.Background()

	p, err := f.svc.LoadPrincipal(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.ID)
	assert.True(t, p.HasRole("ADMIN"))
	assert.False(t, p.HasRole("USER"))

	_, err = f.svc.LoadPrincipal(ctx, 999)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestLoadPrincipal_InactiveUser(t *testing.T) {
	f := setup(t)
	u := f.seedAdmin(t, "Secret123", false)

	_, err := f.svc.LoadPrincipal(context.Background(), u.ID)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
