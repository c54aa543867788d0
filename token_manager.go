package authkit

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// TokenInfo pairs a signed token value with its expiry
type TokenInfo struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires"`
}

// AuthTokens is the access/refresh pair returned from login and refresh
type AuthTokens struct {
	Access  TokenInfo `json:"access"`
	Refresh TokenInfo `json:"refresh"`
}

// TokenManager orchestrates token issuance, rotation, and consumption by
// composing the TokenService codec with the TokenStore.
type TokenManager struct {
	codec      TokenService
	store      TokenStore
	identities IdentityStore
	cfg        Config
	logger     Logger
}

// NewTokenManager creates a TokenManager. The config is read once here and
// never re-read per call.
func NewTokenManager(codec TokenService, store TokenStore, identities IdentityStore, cfg Config) *TokenManager {
	return &TokenManager{
		codec:      codec,
		store:      store,
		identities: identities,
		cfg:        cfg,
		logger:     defLogger{},
	}
}

func (tm *TokenManager) WithLogger(logger Logger) *TokenManager {
	if logger != nil {
		tm.logger = logger
	}
	return tm
}

// GenerateAuthTokens issues an access/refresh pair for the identity. The
// refresh token is persisted before the pair is returned; if persistence
// fails the whole operation fails, so a caller never holds a pair it cannot
// later refresh.
func (tm *TokenManager) GenerateAuthTokens(ctx context.Context, identity Identity) (*AuthTokens, error) {
	now := time.Now()

	accessExpires := now.Add(tm.cfg.GetAccessTokenExpiration())
	access, err := tm.codec.Issue(identity.ID(), PurposeAccess, accessExpires)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue access token")
	}

	refreshExpires := now.Add(tm.cfg.GetRefreshTokenExpiration())
	refresh, err := tm.codec.Issue(identity.ID(), PurposeRefresh, refreshExpires)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue refresh token")
	}

	if _, err := tm.store.Save(ctx, refresh, identity.ID(), PurposeRefresh, refreshExpires); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist refresh token")
	}

	return &AuthTokens{
		Access:  TokenInfo{Token: access, ExpiresAt: accessExpires},
		Refresh: TokenInfo{Token: refresh, ExpiresAt: refreshExpires},
	}, nil
}

// Refresh rotates a refresh token: the consumed record is deleted and a new
// pair is issued. Rotation is single use; replaying a rotated token fails.
// Every failure in the chain collapses to ErrUnauthenticated so callers
// cannot tell which step rejected them.
func (tm *TokenManager) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := tm.codec.ValidateWithPurpose(refreshToken, PurposeRefresh)
	if err != nil {
		tm.logger.Debug("refresh rejected: token validation failed", "error", err)
		return nil, ErrUnauthenticated
	}

	record, err := tm.store.ConsumeActive(ctx, refreshToken, PurposeRefresh)
	if err != nil {
		tm.logger.Debug("refresh rejected: no active store record", "error", err)
		return nil, ErrUnauthenticated
	}

	if record.UserID.String() != claims.UserID() {
		tm.logger.Warn("refresh rejected: store record subject mismatch", "subject", claims.UserID())
		return nil, ErrUnauthenticated
	}

	identity, err := tm.identities.FindByID(ctx, claims.UserID())
	if err != nil {
		tm.logger.Debug("refresh rejected: identity not resolvable", "error", err)
		return nil, ErrUnauthenticated
	}

	pair, err := tm.GenerateAuthTokens(ctx, identity)
	if err != nil {
		tm.logger.Error("refresh failed to issue replacement pair", "error", err)
		return nil, ErrUnauthenticated
	}

	return pair, nil
}

// GenerateSingleUseToken issues and persists a reset password or verify
// email token. Prior tokens of the same purpose stay valid until one of them
// is consumed.
func (tm *TokenManager) GenerateSingleUseToken(ctx context.Context, identity Identity, purpose TokenPurpose, ttl time.Duration) (string, error) {
	if !purpose.Persisted() || purpose == PurposeRefresh {
		return "", errors.New("purpose is not a single use token purpose", errors.CategoryBadInput).
			WithMetadata(map[string]any{"purpose": string(purpose)})
	}

	expiresAt := time.Now().Add(ttl)

	token, err := tm.codec.Issue(identity.ID(), purpose, expiresAt)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to issue single use token")
	}

	if _, err := tm.store.Save(ctx, token, identity.ID(), purpose, expiresAt); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to persist single use token")
	}

	return token, nil
}

// ConsumeSingleUseToken validates the token against its store record and, on
// success, deletes every record the subject holds for that purpose, so older
// still unexpired tokens cannot be replayed either. Returns the subject id.
func (tm *TokenManager) ConsumeSingleUseToken(ctx context.Context, token string, purpose TokenPurpose) (string, error) {
	claims, err := tm.codec.ValidateWithPurpose(token, purpose)
	if err != nil {
		tm.logger.Debug("consume rejected: token validation failed", "purpose", string(purpose), "error", err)
		return "", ErrUnauthenticated
	}

	record, err := tm.store.FindActive(ctx, token, purpose)
	if err != nil {
		tm.logger.Debug("consume rejected: no active store record", "purpose", string(purpose), "error", err)
		return "", ErrUnauthenticated
	}

	if record.UserID.String() != claims.UserID() {
		tm.logger.Warn("consume rejected: store record subject mismatch", "subject", claims.UserID())
		return "", ErrUnauthenticated
	}

	if err := tm.store.DeleteAllByPurpose(ctx, claims.UserID(), purpose); err != nil {
		tm.logger.Error("consume failed to purge token records", "error", err)
		return "", ErrUnauthenticated
	}

	return claims.UserID(), nil
}

// Logout deletes the active refresh token record. A missing record surfaces
// as ErrTokenNotFound; logout is not a security sensitive lookup. The paired
// access token stays valid until it expires naturally, it is stateless and
// cannot be revoked here.
func (tm *TokenManager) Logout(ctx context.Context, refreshToken string) error {
	record, err := tm.store.FindActive(ctx, refreshToken, PurposeRefresh)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return ErrTokenNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "logout failed to look up refresh token")
	}

	return tm.store.DeleteByID(ctx, record.ID.String())
}
