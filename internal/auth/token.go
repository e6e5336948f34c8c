package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iwacu250/landplots/internal/model"
)

// Token purposes carried in the "type" claim. Session tokens omit the
// claim; reset tokens must carry it and are only honored by the
// password-reset flow.
const TokenTypePasswordReset = "password_reset"

// minKeyBytes is the minimum decoded secret length accepted for HS256.
const minKeyBytes = 32

// Typed verification failures. Every security-relevant caller branches on
// these through errors.Is rather than on raw jwt library errors.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrBadSignature     = errors.New("token signature invalid")
	ErrTokenUnsupported = errors.New("token unsupported")
)

// Claims is the verified payload of a session or reset token.
type Claims struct {
	UserID    uint64
	Username  string
	Email     string
	Roles     []string
	TokenType string // "" for session tokens
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsReset reports whether the token was minted for the password-reset
// flow.
func (c *Claims) IsReset() bool { return c.TokenType == TokenTypePasswordReset }

// Codec signs and verifies HS256 JWTs with a single server-held secret.
// The secret and clock are fixed at construction; there is no ambient
// global lookup at call time.
type Codec struct {
	key []byte
	now func() time.Time
}

// NewCodec decodes the base64 secret and builds a Codec. Secrets shorter
// than 32 raw bytes are rejected so a weak key fails at startup rather
// than at the first login.
func NewCodec(base64Secret string) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("jwt secret is not valid base64: %w", err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("jwt secret too short: got %d bytes, need at least %d", len(key), minKeyBytes)
	}
	return &Codec{key: key, now: time.Now}, nil
}

// WithClock replaces the codec's clock. Tests use this to drive tokens
// across their expiry.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Issue builds and signs a token with subject, issued-at = now and
// expiry = now+ttl, plus any extra claims.
func (c *Codec) Issue(subject string, extra map[string]any, ttl time.Duration) (string, error) {
	now := c.now().UTC()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.key)
}

// IssueSession mints a session token for a user: subject is the
// stringified user id, with username, email and role names as claims.
func (c *Codec) IssueSession(u *model.User, ttl time.Duration) (string, error) {
	return c.Issue(strconv.FormatUint(u.ID, 10), map[string]any{
		"username": u.Username,
		"email":    u.Email,
		"roles":    u.RoleNames(),
	}, ttl)
}

// IssueReset mints a password-reset token. The "type" claim marks it
// unusable as a session token.
func (c *Codec) IssueReset(u *model.User, ttl time.Duration) (string, error) {
	return c.Issue(strconv.FormatUint(u.ID, 10), map[string]any{
		"username": u.Username,
		"type":     TokenTypePasswordReset,
	}, ttl)
}

// Verify parses and validates a token string. It returns the claims only
// when the signature matches the server key and the token has not
// expired; otherwise one of the typed errors above. It never panics on
// attacker-controlled input.
func (c *Codec) Verify(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	tok, err := parser.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrTokenUnsupported
		}
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}
	return claimsFromMap(mc)
}

// ExtractSubject returns the subject of a token without validating the
// signature. The empty string means the token could not be decoded at
// all. Diagnostic use only; security decisions go through Verify.
func (c *Codec) ExtractSubject(raw string) string {
	tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

func claimsFromMap(mc jwt.MapClaims) (*Claims, error) {
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrTokenMalformed
	}
	uid, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, ErrTokenMalformed
	}
	out := &Claims{UserID: uid}
	if v, ok := mc["username"].(string); ok {
		out.Username = v
	}
	if v, ok := mc["email"].(string); ok {
		out.Email = v
	}
	if v, ok := mc["type"].(string); ok {
		out.TokenType = v
	}
	if vs, ok := mc["roles"].([]interface{}); ok {
		for _, v := range vs {
			if s, ok := v.(string); ok {
				out.Roles = append(out.Roles, s)
			}
		}
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	return out, nil
}
