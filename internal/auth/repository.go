package auth

import (
	"context"
	"errors"
	"time"

	"github.com/iwacu250/landplots/internal/model"
)

// Store-level sentinels. Implementations translate their driver errors
// into these so the service never inspects SQL error codes.
var (
	// ErrUserNotFound is returned by lookups that matched no row.
	ErrUserNotFound = errors.New("user not found")
	// ErrAdminExists is returned by CreateFirstAdmin when any user row
	// already exists; the system allows exactly one bootstrap admin.
	ErrAdminExists = errors.New("admin user already exists")
	// ErrDuplicate is returned when a unique constraint on username or
	// email fires.
	ErrDuplicate = errors.New("username or email already in use")
)

// UserStore is the credential store consumed by the authentication core.
// It persists users and their role attachments; everything else about
// listings lives behind other repositories.
type UserStore interface {
	ByID(ctx context.Context, id uint64) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	// CreateFirstAdmin inserts the user with the given role attached,
	// inside a transaction that first asserts the users table is empty.
	// Returns ErrAdminExists otherwise.
	CreateFirstAdmin(ctx context.Context, u *model.User, roleID uint64) error
	UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error
}

// RoleStore resolves the closed role enumeration to persisted rows,
// creating the row lazily on first use.
type RoleStore interface {
	FindOrCreate(ctx context.Context, name model.RoleName) (*model.Role, error)
}

// RefreshTokenStore persists opaque refresh tokens by hash.
type RefreshTokenStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error
	// Validate returns the owning user id for a non-revoked, non-expired
	// token hash, or ErrUserNotFound.
	Validate(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}
