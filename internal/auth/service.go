package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwacu250/landplots/internal/model"
	"github.com/iwacu250/landplots/internal/utils"
)

// Service-level failures. Handlers map these onto HTTP statuses; the
// wording of client-facing messages stays generic so neither account
// existence nor role assignment can be probed.
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is not active")
	ErrForbidden          = errors.New("admin privileges required")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

const (
	maxUsernameLen = 50
	maxEmailLen    = 100
	refreshBytes   = 48 // raw refresh token entropy, hex-encoded to 96 chars
)

// Service is the authentication core. It orchestrates credential
// verification, token issuance and the single-admin bootstrap on top of
// the credential store, the bcrypt hasher and the token codec. All
// configuration is injected at construction.
type Service struct {
	users      UserStore
	roles      RoleStore
	tokens     RefreshTokenStore
	codec      *Codec
	bcryptCost int
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

// NewService wires the authentication core.
func NewService(users UserStore, roles RoleStore, tokens RefreshTokenStore, codec *Codec,
	bcryptCost int, accessTTL, refreshTTL, resetTTL time.Duration) *Service {
	return &Service{
		users:      users,
		roles:      roles,
		tokens:     tokens,
		codec:      codec,
		bcryptCost: bcryptCost,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
}

// UserSummary is the public projection of a user returned with a login.
// The password hash never crosses this boundary.
type UserSummary struct {
	ID       uint64   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// LoginResult carries the freshly issued token pair plus the user
// summary.
type LoginResult struct {
	AccessToken    string      `json:"token"`
	TokenType      string      `json:"tokenType"`
	AccessExpires  time.Time   `json:"expires"`
	RefreshToken   string      `json:"refreshToken"`
	RefreshExpires time.Time   `json:"refreshExpires"`
	User           UserSummary `json:"user"`
}

// RegisterInput is the payload for the one-time admin registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Address  string
}

// Login verifies the credentials and, for active admin accounts, issues a
// session token plus a rotating refresh token.
//
// Lookup misses and password mismatches both come back as
// ErrInvalidCredentials so callers cannot enumerate accounts. A correct
// password on a non-admin account yields ErrForbidden: distinct for audit
// logs, though the HTTP layer keeps its message generic.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidRequest
	}

	u, err := s.users.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	if !u.HasRole(model.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.issuePair(ctx, u)
}

// RegisterAdmin creates the one and only admin account. The credential
// store enforces the at-most-one-admin invariant transactionally; the
// uniqueness pre-checks here only produce friendlier errors ahead of the
// unique constraints.
func (s *Service) RegisterAdmin(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, ErrInvalidRequest
	}
	if len(in.Username) > maxUsernameLen || len(in.Email) > maxEmailLen {
		return nil, ErrInvalidRequest
	}
	if !strings.Contains(in.Email, "@") || strings.ContainsAny(in.Email, " \t") {
		return nil, ErrInvalidRequest
	}

	if taken, err := s.users.UsernameExists(ctx, in.Username); err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.users.EmailExists(ctx, in.Email); err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	} else if taken {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	adminRole, err := s.roles.FindOrCreate(ctx, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("resolving admin role: %w", err)
	}

	u := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		IsActive:     true,
		Roles:        []model.Role{*adminRole},
	}
	if err := s.users.CreateFirstAdmin(ctx, u, adminRole.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The old
// refresh token is revoked first (rotation), so each raw token is
// redeemable once. Expired, revoked and unknown tokens all come back as
// ErrInvalidRefresh.
func (s *Service) Refresh(ctx context.Context, rawRefresh string) (*LoginResult, error) {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return nil, ErrInvalidRequest
	}
	hash := utils.HashTokenRaw(rawRefresh)

	userID, err := s.tokens.Validate(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("validating refresh token: %w", err)
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return nil, fmt.Errorf("revoking refresh token: %w", err)
	}

	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.issuePair(ctx, u)
}

// RequestPasswordReset issues a short-lived reset-purpose token for the
// account behind the email. Delivery is the caller's concern (an
// out-of-band email collaborator); the token is returned, never logged
// here. ErrUserNotFound surfaces so the HTTP layer can decide whether to
// hide it from the client.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidRequest
	}
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("looking up email: %w", err)
	}
	if !u.IsActive {
		return "", ErrAccountDisabled
	}
	tok, err := s.codec.IssueReset(u, s.resetTTL)
	if err != nil {
		return "", fmt.Errorf("issuing reset token: %w", err)
	}
	return tok, nil
}

// ResetPassword validates a reset-purpose token and installs a new
// password. A session token is never accepted here: the "type" claim
// must mark the token as reset-purpose, regardless of who signed it.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword, confirmPassword string) error {
	if strings.TrimSpace(rawToken) == "" || newPassword == "" {
		return ErrInvalidRequest
	}
	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		return ErrInvalidToken
	}
	if !claims.IsReset() {
		return ErrInvalidToken
	}

	u, err := s.users.ByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("loading user: %w", err)
	}
	if !u.IsActive {
		return ErrAccountDisabled
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

// Logout revokes the given refresh token. Access tokens stay valid until
// expiry (they are stateless); unknown tokens are ignored so logout
// always succeeds from the client's perspective.
func (s *Service) Logout(ctx context.Context, rawRefresh string) error {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return nil
	}
	return s.tokens.RevokeByHash(ctx, utils.HashTokenRaw(rawRefresh))
}

// LogoutAll revokes every active refresh token of a user, ending all of
// their sessions across devices.
func (s *Service) LogoutAll(ctx context.Context, userID uint64) error {
	return s.tokens.RevokeAllForUser(ctx, userID)
}

// LoadPrincipal resolves a verified subject id to the request principal.
// Missing and inactive users both return ErrUserNotFound so the filter
// simply leaves the request anonymous.
func (s *Service) LoadPrincipal(ctx context.Context, userID uint64) (*Principal, error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserNotFound
	}
	return &Principal{ID: u.ID, Username: u.Username, Email: u.Email, Roles: u.RoleNames()}, nil
}

// Codec exposes the token codec for the request filter.
func (s *Service) Codec() *Codec { return s.codec }

func (s *Service) issuePair(ctx context.Context, u *model.User) (*LoginResult, error) {
	now := s.codec.now().UTC()
	access, err := s.codec.IssueSession(u, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}
	rawRefresh, err := utils.RandomHex(refreshBytes)
	if err != nil {
		return nil, fmt.Errorf("minting refresh token: %w", err)
	}
	refreshExp := now.Add(s.refreshTTL)
	if err := s.tokens.Store(ctx, u.ID, utils.HashTokenRaw(rawRefresh), refreshExp); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}
	return &LoginResult{
		AccessToken:    access,
		TokenType:      "Bearer",
		AccessExpires:  now.Add(s.accessTTL),
		RefreshToken:   rawRefresh,
		RefreshExpires: refreshExp,
		User: UserSummary{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Roles:    u.RoleNames(),
		},
	}, nil
}
