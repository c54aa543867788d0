package authkit

import (
	"github.com/goliatone/go-errors"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is the default role with no standing grants
	RoleUser UserRole = "user"
	// RoleAdmin can manage other accounts
	RoleAdmin UserRole = "admin"
)

// Rights granted through PermissionSet entries
const (
	RightUsersRead   = "users.read"
	RightUsersWrite  = "users.write"
	RightUsersDelete = "users.delete"
)

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{RoleUser, RoleAdmin}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// PermissionSet maps every role to the ordered set of rights it holds. A role
// with an empty entry is valid; a role with no entry is a configuration error.
type PermissionSet map[UserRole][]string

// DefaultPermissions returns the standard role to rights mapping: plain users
// hold no standing grants (self access is handled by the middleware
// override), admins can manage accounts.
func DefaultPermissions() PermissionSet {
	return PermissionSet{
		RoleUser:  {},
		RoleAdmin: {RightUsersRead, RightUsersWrite, RightUsersDelete},
	}
}

// Validate checks the permission set covers every predefined role. Run it at
// startup; the set is read only afterwards.
func (p PermissionSet) Validate() error {
	if len(p) == 0 {
		return errors.New("permission set must not be empty", errors.CategoryValidation)
	}

	for _, role := range GetAllRoles() {
		if _, ok := p[role]; !ok {
			return errors.New("permission set is missing a role entry", errors.CategoryValidation).
				WithTextCode(TextCodeInvalidRole).
				WithMetadata(map[string]any{"role": string(role)})
		}
	}

	return nil
}

// HasAll reports whether the role holds every one of the required rights
func (p PermissionSet) HasAll(role UserRole, required []string) bool {
	granted, ok := p[role]
	if !ok {
		return false
	}

	for _, want := range required {
		found := false
		for _, right := range granted {
			if right == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
