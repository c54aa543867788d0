package authkit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal
type Identity interface {
	ID() string
	Email() string
	Role() UserRole
	EmailVerified() bool
}

// Config holds process wide auth options, loaded once at startup and never
// mutated afterwards.
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetAccessTokenExpiration() time.Duration
	GetRefreshTokenExpiration() time.Duration
	GetResetPasswordTokenExpiration() time.Duration
	GetVerifyEmailTokenExpiration() time.Duration
}

// IdentityStore is the external user storage collaborator. The subsystem only
// ever references identities through it; it never owns user persistence.
type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (Identity, error)
	FindByID(ctx context.Context, id string) (Identity, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id string) error
	VerifyCredential(ctx context.Context, identity Identity, password string) error
}

// Mailer is the outbound email collaborator. Sends are fire and forget from
// the subsystem's point of view; delivery failures are logged, not retried.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TokenService creates and verifies signed, purpose tagged tokens
type TokenService interface {
	Issue(subject string, purpose TokenPurpose, expiresAt time.Time) (string, error)
	Validate(tokenString string) (AuthClaims, error)
	ValidateWithPurpose(tokenString string, purpose TokenPurpose) (AuthClaims, error)
}

// TokenStore persists issued refresh/reset/verify tokens. Access tokens are
// stateless and never stored. The store treats token values as opaque.
type TokenStore interface {
	Save(ctx context.Context, token, userID string, purpose TokenPurpose, expiresAt time.Time) (*IssuedToken, error)
	FindActive(ctx context.Context, token string, purpose TokenPurpose) (*IssuedToken, error)
	ConsumeActive(ctx context.Context, token string, purpose TokenPurpose) (*IssuedToken, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteAllByPurpose(ctx context.Context, userID string, purpose TokenPurpose) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(format string) string {
	if strings.HasSuffix(format, "\n") {
		return format
	}
	return format + "\n"
}
