package authkit

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose discriminates what an issued token may be used for.
type TokenPurpose string

const (
	// PurposeAccess authorizes API calls; access tokens are never persisted.
	PurposeAccess TokenPurpose = "access"
	// PurposeRefresh yields a new access/refresh pair; single use.
	PurposeRefresh TokenPurpose = "refresh"
	// PurposeResetPassword authorizes a one time password change.
	PurposeResetPassword TokenPurpose = "reset-password"
	// PurposeVerifyEmail authorizes flipping the email verified flag.
	PurposeVerifyEmail TokenPurpose = "verify-email"
)

// IsValid checks the purpose is one of the predefined tags
func (p TokenPurpose) IsValid() bool {
	switch p {
	case PurposeAccess, PurposeRefresh, PurposeResetPassword, PurposeVerifyEmail:
		return true
	default:
		return false
	}
}

// Persisted reports whether tokens of this purpose are backed by a store
// record. Access tokens are stateless.
func (p TokenPurpose) Persisted() bool {
	return p != PurposeAccess
}

// AuthClaims represents the decoded content of a signed token. It exists only
// for the duration of request handling and is never persisted.
type AuthClaims interface {
	Subject() string
	UserID() string
	Purpose() TokenPurpose
	Expires() time.Time
	IssuedAt() time.Time
}

// TokenClaims is the concrete implementation of AuthClaims
type TokenClaims struct {
	jwt.RegisteredClaims
	UID          string       `json:"uid,omitempty"`
	TokenPurpose TokenPurpose `json:"purpose,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*TokenClaims)(nil)

// Subject returns the subject claim
func (c *TokenClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *TokenClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Purpose returns the token's purpose tag
func (c *TokenClaims) Purpose() TokenPurpose {
	return c.TokenPurpose
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
