package authkit

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther validates login credentials and executes the logout, refresh,
// password reset, and email verification flows.
type Auther struct {
	identities IdentityStore
	tokens     *TokenManager
	mailer     Mailer
	cfg        Config
	logger     Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(identities IdentityStore, tokens *TokenManager, cfg Config) *Auther {
	return &Auther{
		identities: identities,
		tokens:     tokens,
		cfg:        cfg,
		mailer:     NewLoggerMailer(nil),
		logger:     defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *Auther) WithMailer(mailer Mailer) *Auther {
	if mailer != nil {
		s.mailer = mailer
	}
	return s
}

// TokenManager returns the TokenManager instance used by this Auther
func (s *Auther) TokenManager() *TokenManager {
	return s.tokens
}

// Login verifies the email/password pair and returns the identity. An
// unknown email and a wrong password both return the identical
// ErrUnauthenticated, so callers cannot enumerate accounts. Infrastructure
// failures are not collapsed; they surface to the boundary converter.
func (s *Auther) Login(ctx context.Context, email, password string) (Identity, error) {
	identity, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			s.logger.Debug("login rejected: unknown account")
			return nil, ErrUnauthenticated
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve account for login")
	}

	if err := s.identities.VerifyCredential(ctx, identity, password); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) || errors.Is(err, ErrIdentityNotFound) {
			s.logger.Debug("login rejected: credential mismatch")
			return nil, ErrUnauthenticated
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to verify credential")
	}

	return identity, nil
}

// LoginWithTokens verifies credentials and issues an access/refresh pair
func (s *Auther) LoginWithTokens(ctx context.Context, email, password string) (Identity, *AuthTokens, error) {
	identity, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.GenerateAuthTokens(ctx, identity)
	if err != nil {
		return nil, nil, err
	}

	return identity, pair, nil
}

// Logout invalidates the refresh token. ErrTokenNotFound when the token has
// no active record.
func (s *Auther) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Logout(ctx, refreshToken)
}

// RefreshAuth rotates the refresh token and returns a new pair
func (s *Auther) RefreshAuth(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	return s.tokens.Refresh(ctx, refreshToken)
}

// RequestPasswordReset issues a reset password token for the account and
// emails it. Unknown emails surface ErrIdentityNotFound; unlike login this
// lookup is not treated as an enumeration oracle.
func (s *Auther) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	identity, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return "", ErrIdentityNotFound
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to resolve account for password reset")
	}

	token, err := s.tokens.GenerateSingleUseToken(ctx, identity, PurposeResetPassword, s.cfg.GetResetPasswordTokenExpiration())
	if err != nil {
		return "", err
	}

	subject, body := resetPasswordEmail(token)
	if err := s.mailer.Send(ctx, identity.Email(), subject, body); err != nil {
		s.logger.Warn("failed to send reset password email", "error", err)
	}

	return token, nil
}

// ResetPassword consumes the reset token and replaces the account's
// credential. Consumption purges every outstanding reset token for the
// subject. Any failure collapses to ErrUnauthenticated.
func (s *Auther) ResetPassword(ctx context.Context, token, newPassword string) error {
	subject, err := s.tokens.ConsumeSingleUseToken(ctx, token, PurposeResetPassword)
	if err != nil {
		return ErrUnauthenticated
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid new password provided")
	}

	if err := s.identities.UpdatePasswordHash(ctx, subject, hash); err != nil {
		s.logger.Debug("reset rejected: could not persist new credential", "error", err)
		return ErrUnauthenticated
	}

	return nil
}

// RequestEmailVerification issues a verify email token for the identity and
// emails it.
func (s *Auther) RequestEmailVerification(ctx context.Context, identity Identity) (string, error) {
	token, err := s.tokens.GenerateSingleUseToken(ctx, identity, PurposeVerifyEmail, s.cfg.GetVerifyEmailTokenExpiration())
	if err != nil {
		return "", err
	}

	subject, body := verifyEmailEmail(token)
	if err := s.mailer.Send(ctx, identity.Email(), subject, body); err != nil {
		s.logger.Warn("failed to send verification email", "error", err)
	}

	return token, nil
}

// VerifyEmail consumes the verify token and flips the account's verified
// flag. Any failure collapses to ErrUnauthenticated.
func (s *Auther) VerifyEmail(ctx context.Context, token string) error {
	subject, err := s.tokens.ConsumeSingleUseToken(ctx, token, PurposeVerifyEmail)
	if err != nil {
		return ErrUnauthenticated
	}

	if err := s.identities.MarkEmailVerified(ctx, subject); err != nil {
		s.logger.Debug("verify rejected: could not update identity", "error", err)
		return ErrUnauthenticated
	}

	return nil
}
