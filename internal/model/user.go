package model

import "time"

// RoleName is the closed set of role identifiers known to the system.
// New roles require a code change and a deploy; there is no dynamic
// role registration.
type RoleName string

const (
	RoleUser  RoleName = "USER"
	RoleAdmin RoleName = "ADMIN"
)

// Valid reports whether the name is one of the known roles.
func (r RoleName) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Role represents a row in the `roles` table. Exactly one row exists per
// RoleName value; rows are created lazily the first time a role is
// assigned.
type Role struct {
	ID   uint64   // roles.id
	Name RoleName // roles.name (unique)
}

// User represents an application user record as stored in the `users`
// table. PasswordHash holds a bcrypt digest; the plaintext password is
// never persisted and never serialized out of the repository layer.
//
// Roles is the deduplicated set of roles attached through the
// `user_roles` join table. A user with no roles is a valid record but
// cannot pass any role-gated check.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username (unique, max 50)
	Email        string    // users.email (unique, max 100)
	PasswordHash string    // users.password_hash (bcrypt)
	FullName     string    // users.full_name
	Phone        string    // users.phone
	Address      string    // users.address
	IsActive     bool      // users.is_active (default true)
	Roles        []Role    // attached via user_roles
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at, refreshed on every mutation
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames returns the role names as plain strings, in storage order.
// Used when embedding roles into token claims and API responses.
func (u *User) RoleNames() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, string(r.Name))
	}
	return out
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the raw token is stored; a stolen table row cannot be
// replayed as a token.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash (sha256 hex)
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
