package authkit

import (
	"time"

	"github.com/goliatone/go-errors"
)

// SimpleConfig is a concrete Config. Build it once at startup, call
// Validate, and treat it as read only afterwards.
type SimpleConfig struct {
	SigningKey            string
	Issuer                string
	Audience              []string
	AccessTokenTTL        time.Duration
	RefreshTokenTTL       time.Duration
	ResetPasswordTokenTTL time.Duration
	VerifyEmailTokenTTL   time.Duration
}

// NewDefaultConfig returns a config with the stock token durations: short
// lived access tokens, refresh tokens measured in days, and reset/verify
// tokens that expire within the hour.
func NewDefaultConfig(signingKey string) *SimpleConfig {
	return &SimpleConfig{
		SigningKey:            signingKey,
		AccessTokenTTL:        30 * time.Minute,
		RefreshTokenTTL:       30 * 24 * time.Hour,
		ResetPasswordTokenTTL: 10 * time.Minute,
		VerifyEmailTokenTTL:   10 * time.Minute,
	}
}

func (c *SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c *SimpleConfig) GetIssuer() string { return c.Issuer }

func (c *SimpleConfig) GetAudience() []string { return c.Audience }

func (c *SimpleConfig) GetAccessTokenExpiration() time.Duration { return c.AccessTokenTTL }

func (c *SimpleConfig) GetRefreshTokenExpiration() time.Duration { return c.RefreshTokenTTL }

func (c *SimpleConfig) GetResetPasswordTokenExpiration() time.Duration {
	return c.ResetPasswordTokenTTL
}

func (c *SimpleConfig) GetVerifyEmailTokenExpiration() time.Duration {
	return c.VerifyEmailTokenTTL
}

// Validate checks the config is usable before any token is issued
func (c *SimpleConfig) Validate() error {
	if c.SigningKey == "" {
		return errors.New("signing key must not be empty", errors.CategoryValidation)
	}

	durations := map[string]time.Duration{
		"access":         c.AccessTokenTTL,
		"refresh":        c.RefreshTokenTTL,
		"reset-password": c.ResetPasswordTokenTTL,
		"verify-email":   c.VerifyEmailTokenTTL,
	}

	for name, d := range durations {
		if d <= 0 {
			return errors.New("token expiration must be positive", errors.CategoryValidation).
				WithMetadata(map[string]any{"token": name})
		}
	}

	return nil
}

var _ Config = (*SimpleConfig)(nil)
