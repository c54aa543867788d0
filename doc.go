// Package authkit provides authentication and authorization primitives for
// HTTP APIs: credential verification, signed token issuance and rotation,
// persisted single-use tokens for password reset and email verification, and
// role based request gating.
//
// Access tokens are stateless JWTs that expire naturally. Refresh, reset
// password, and verify email tokens are persisted so they can be rotated and
// invalidated. The TokenManager composes the TokenService codec with the
// Tokens store to implement that lifecycle, and the Auther exposes the
// login/logout/refresh/reset/verify flows on top of it.
package authkit
