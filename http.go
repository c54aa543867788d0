package authkit

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// IdentityContextKey is the router locals key the middleware stores the
// resolved identity under.
const IdentityContextKey = "identity"

// RouteAuthenticator gates protected routes: it authenticates the bearer
// token, resolves the caller's identity, and enforces a required rights set
// against the caller's role.
type RouteAuthenticator struct {
	codec        TokenService
	identities   IdentityStore
	permissions  PermissionSet
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

// NewRouteAuthenticator builds the middleware factory. The permission set is
// validated here, once, at startup.
func NewRouteAuthenticator(codec TokenService, identities IdentityStore, permissions PermissionSet) (*RouteAuthenticator, error) {
	if permissions == nil {
		permissions = DefaultPermissions()
	}

	if err := permissions.Validate(); err != nil {
		return nil, err
	}

	a := &RouteAuthenticator{
		codec:       codec,
		identities:  identities,
		permissions: permissions,
		Logger:      defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

// Protected returns middleware that rejects requests without a valid access
// token. When rights are given, the caller's role must hold every one of
// them, unless the route's ":id" parameter targets the caller's own account.
func (a *RouteAuthenticator) Protected(rights ...string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw, err := BearerTokenFromContext(ctx)
			if err != nil {
				return a.ErrorHandler(ctx, ErrUnauthenticated)
			}

			claims, err := a.codec.ValidateWithPurpose(raw, PurposeAccess)
			if err != nil {
				a.Logger.Debug("request rejected: token validation failed", "error", err)
				return a.ErrorHandler(ctx, ErrUnauthenticated)
			}

			// Covers deleted accounts holding a still valid access token.
			identity, err := a.identities.FindByID(ctx.Context(), claims.UserID())
			if err != nil {
				a.Logger.Debug("request rejected: identity not resolvable", "subject", claims.UserID())
				return a.ErrorHandler(ctx, ErrUnauthenticated)
			}

			if err := Authorize(a.permissions, identity, rights, ctx.Param("id")); err != nil {
				return a.ErrorHandler(ctx, err)
			}

			ctx.Locals(IdentityContextKey, identity)

			stdCtx := WithIdentity(ctx.Context(), identity)
			stdCtx = WithClaimsContext(stdCtx, claims)
			ctx.SetContext(stdCtx)

			return next(ctx)
		}
	}
}

// Authorize is the request time authorization decision: the caller must hold
// every required right, or be targeting their own account (self access
// override). An empty rights set always passes.
func Authorize(permissions PermissionSet, identity Identity, required []string, targetID string) error {
	if len(required) == 0 {
		return nil
	}

	if permissions.HasAll(identity.Role(), required) {
		return nil
	}

	if targetID != "" && targetID == identity.ID() {
		return nil
	}

	return ErrForbidden
}

// BearerTokenFromContext extracts the bearer token from the Authorization
// header.
func BearerTokenFromContext(ctx router.Context) (string, error) {
	const scheme = "Bearer"

	header := ctx.GetString(router.HeaderAuthorization, "")
	if len(header) > len(scheme)+1 && strings.EqualFold(header[:len(scheme)], scheme) {
		return strings.TrimSpace(header[len(scheme):]), nil
	}

	return "", ErrUnauthenticated
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Authorization middleware rejection",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	return c.JSON(richErr.Code, map[string]any{
		"error": map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		},
	})
}
