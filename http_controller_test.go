package authkit_test

import (
	"testing"

	"github.com/goliatone/go-authkit"
	"github.com/stretchr/testify/assert"
)

func TestRegisterPayload_Validate(t *testing.T) {
	valid := authkit.RegisterPayload{
		Name:     "Jane Doe",
		Email:    "jane.doe@example.com",
		Password: "secret-pa55",
	}

	t.Run("accepts a complete payload", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	tests := []struct {
		name    string
		mutate  func(p authkit.RegisterPayload) authkit.RegisterPayload
		message string
	}{
		{
			name:   "name is required",
			mutate: func(p authkit.RegisterPayload) authkit.RegisterPayload { p.Name = ""; return p },
		},
		{
			name:   "email must be well formed",
			mutate: func(p authkit.RegisterPayload) authkit.RegisterPayload { p.Email = "not-an-email"; return p },
		},
		{
			name:   "password must be at least 8 characters",
			mutate: func(p authkit.RegisterPayload) authkit.RegisterPayload { p.Password = "ab1"; return p },
		},
		{
			name:   "password must contain a letter",
			mutate: func(p authkit.RegisterPayload) authkit.RegisterPayload { p.Password = "12345678"; return p },
		},
		{
			name:   "password must contain a number",
			mutate: func(p authkit.RegisterPayload) authkit.RegisterPayload { p.Password = "abcdefgh"; return p },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.mutate(valid).Validate())
		})
	}
}

func TestLoginRequestPayload_Validate(t *testing.T) {
	assert.NoError(t, authkit.LoginRequestPayload{Email: "user@example.com", Password: "whatever"}.Validate())
	assert.Error(t, authkit.LoginRequestPayload{Email: "", Password: "whatever"}.Validate())
	assert.Error(t, authkit.LoginRequestPayload{Email: "user@example.com", Password: ""}.Validate())
}

func TestResetPasswordPayload_Validate(t *testing.T) {
	assert.NoError(t, authkit.ResetPasswordPayload{Password: "new-secret-9"}.Validate())
	assert.Error(t, authkit.ResetPasswordPayload{Password: "short1"}.Validate())
	assert.Error(t, authkit.ResetPasswordPayload{Password: "lettersonly"}.Validate())
}

func TestRefreshTokenPayload_Validate(t *testing.T) {
	assert.NoError(t, authkit.RefreshTokenPayload{RefreshToken: "some-token"}.Validate())
	assert.Error(t, authkit.RefreshTokenPayload{}.Validate())
}
