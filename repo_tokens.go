package authkit

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tokens is the persisted token store. It has no token format knowledge;
// values are opaque strings minted by the TokenService.
type Tokens interface {
	repository.Repository[*IssuedToken]
	TokenStore

	DeleteAllForUser(ctx context.Context, userID string) error
}

type tokens struct {
	repository.Repository[*IssuedToken]
	db *bun.DB
}

var (
	_ Tokens     = (*tokens)(nil)
	_ TokenStore = (*tokens)(nil)
)

func NewTokensRepository(db *bun.DB) Tokens {
	repo := repository.NewRepository[*IssuedToken](db, repository.ModelHandlers[*IssuedToken]{
		NewRecord: func() *IssuedToken { return &IssuedToken{} },
		GetID: func(t *IssuedToken) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *IssuedToken, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &tokens{
		Repository: repo,
		db:         db,
	}
}

// Save inserts a new token record with a future expiry
func (a *tokens) Save(ctx context.Context, token, userID string, purpose TokenPurpose, expiresAt time.Time) (*IssuedToken, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "token owner must be a valid user id")
	}

	record := &IssuedToken{
		ID:        uuid.New(),
		Token:     token,
		UserID:    uid,
		Purpose:   purpose,
		ExpiresAt: expiresAt,
	}

	return a.Repository.CreateTx(ctx, a.db, record)
}

// FindActive returns the non blacklisted record for the token value and
// purpose. A miss is a normal outcome and surfaces as ErrTokenNotFound.
func (a *tokens) FindActive(ctx context.Context, token string, purpose TokenPurpose) (*IssuedToken, error) {
	record := &IssuedToken{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Where("?TableAlias.purpose = ?", string(purpose)).
		Where("?TableAlias.blacklisted = ?", false).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrTokenNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "token lookup failed")
	}

	return record, nil
}

// ConsumeActive deletes and returns the active record for the token value in
// a single conditional statement, so two concurrent rotations of the same
// refresh token cannot both succeed.
func (a *tokens) ConsumeActive(ctx context.Context, token string, purpose TokenPurpose) (*IssuedToken, error) {
	record := &IssuedToken{}
	_, err := a.db.NewDelete().
		Model((*IssuedToken)(nil)).
		Where("?TableAlias.token = ?", token).
		Where("?TableAlias.purpose = ?", string(purpose)).
		Where("?TableAlias.blacklisted = ?", false).
		Returning("*").
		Exec(ctx, record)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrTokenNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "token consume failed")
	}

	if record.ID == uuid.Nil {
		return nil, ErrTokenNotFound
	}

	return record, nil
}

// DeleteByID removes a record; deleting a missing record is not an error
func (a *tokens) DeleteByID(ctx context.Context, id string) error {
	_, err := a.db.NewDelete().
		Model((*IssuedToken)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "token delete failed")
	}

	return nil
}

// DeleteAllByPurpose removes every record for the subject and purpose,
// including records that are still unexpired. Idempotent.
func (a *tokens) DeleteAllByPurpose(ctx context.Context, userID string, purpose TokenPurpose) error {
	_, err := a.db.NewDelete().
		Model((*IssuedToken)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.purpose = ?", string(purpose)).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "token purge failed")
	}

	return nil
}

// DeleteAllForUser removes every token the subject owns, regardless of
// purpose. Used when an account is destroyed.
func (a *tokens) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := a.db.NewDelete().
		Model((*IssuedToken)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "token purge failed")
	}

	return nil
}
