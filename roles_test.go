package authkit_test

import (
	"testing"

	"github.com/goliatone/go-authkit"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	role, ok := authkit.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, authkit.RoleAdmin, role)

	_, ok = authkit.ParseRole("superuser")
	assert.False(t, ok)
}

func TestPermissionSet_Validate(t *testing.T) {
	t.Run("default set covers every role", func(t *testing.T) {
		assert.NoError(t, authkit.DefaultPermissions().Validate())
	})

	t.Run("empty set is rejected", func(t *testing.T) {
		assert.Error(t, authkit.PermissionSet{}.Validate())
	})

	t.Run("a set missing a role entry is rejected", func(t *testing.T) {
		incomplete := authkit.PermissionSet{
			authkit.RoleAdmin: {authkit.RightUsersRead},
		}
		assert.Error(t, incomplete.Validate())
	})

	t.Run("an empty rights entry is still valid", func(t *testing.T) {
		set := authkit.PermissionSet{
			authkit.RoleUser:  {},
			authkit.RoleAdmin: {},
		}
		assert.NoError(t, set.Validate())
	})
}

func TestPermissionSet_HasAll(t *testing.T) {
	permissions := authkit.DefaultPermissions()

	assert.True(t, permissions.HasAll(authkit.RoleAdmin, []string{authkit.RightUsersRead, authkit.RightUsersDelete}))
	assert.True(t, permissions.HasAll(authkit.RoleUser, nil))
	assert.False(t, permissions.HasAll(authkit.RoleUser, []string{authkit.RightUsersRead}))
	assert.False(t, permissions.HasAll(authkit.UserRole("ghost"), nil))
}
