package authkit

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// UserProvider adapts the Users repository into the IdentityStore
// collaborator surface the auth components depend on.
type UserProvider struct {
	repo   RepositoryManager
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(repo RepositoryManager) *UserProvider {
	return &UserProvider{
		repo:   repo,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// FindByEmail resolves an identity by its case normalized email
func (u *UserProvider) FindByEmail(ctx context.Context, email string) (Identity, error) {
	user, err := u.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user by email")
	}

	return NewIdentityFromUser(user), nil
}

// FindByID resolves an identity by its unique identifier
func (u *UserProvider) FindByID(ctx context.Context, id string) (Identity, error) {
	user, err := u.repo.Users().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user by id")
	}

	return NewIdentityFromUser(user), nil
}

// UpdatePasswordHash replaces the stored credential for the subject
func (u *UserProvider) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid user id")
	}

	if err := u.repo.Users().ResetPassword(ctx, uid, passwordHash); err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to update password hash")
	}

	return nil
}

// MarkEmailVerified flips the subject's verified flag
func (u *UserProvider) MarkEmailVerified(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid user id")
	}

	if err := u.repo.Users().MarkEmailVerified(ctx, uid); err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to mark email verified")
	}

	return nil
}

// VerifyCredential compares a plaintext secret against the subject's stored
// hash. The plaintext never leaves this call.
func (u *UserProvider) VerifyCredential(ctx context.Context, identity Identity, password string) error {
	user, err := u.repo.Users().GetByID(ctx, identity.ID())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user for verification")
	}

	return ComparePasswordAndHash(password, user.PasswordHash)
}

var _ IdentityStore = (*UserProvider)(nil)
