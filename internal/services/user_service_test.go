package services_test

import (
	"testing"

	"sweetshop/internal/apperr"
	"sweetshop/internal/models"
	"sweetshop/internal/services"
	"sweetshop/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService() *services.UserService {
	return services.NewUserService(storage.NewMemoryUserStore(), zerolog.Nop())
}

func TestRegister(t *testing.T) {
	svc := newUserService()

	user, err := svc.Register(&models.RegisterRequest{
		Username: " alice ",
		Email:    " Alice@Example.COM ",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	svc := newUserService()

	tests := []struct {
		name string
		req  *models.RegisterRequest
	}{
		{"missing username", &models.RegisterRequest{Email: "a@b.com", Password: "secret1"}},
		{"missing email", &models.RegisterRequest{Username: "alice", Password: "secret1"}},
		{"missing password", &models.RegisterRequest{Username: "alice", Email: "a@b.com"}},
		{"blank username", &models.RegisterRequest{Username: "  ", Email: "a@b.com", Password: "secret1"}},
		{"invalid email", &models.RegisterRequest{Username: "alice", Email: "not-an-email", Password: "secret1"}},
		{"email without domain dot", &models.RegisterRequest{Username: "alice", Email: "a@b", Password: "secret1"}},
		{"short password", &models.RegisterRequest{Username: "alice", Email: "a@b.com", Password: "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newUserService()

	_, err := svc.Register(&models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(&models.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterDuplicateEmailDifferentCase(t *testing.T) {
	svc := newUserService()

	_, err := svc.Register(&models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(&models.RegisterRequest{Username: "bob", Email: "ALICE@EXAMPLE.COM", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAuthenticate(t *testing.T) {
	svc := newUserService()

	registered, err := svc.Register(&models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.Authenticate(&models.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := newUserService()

	_, err := svc.Register(&models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Authenticate(&models.LoginRequest{Username: "alice", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := newUserService()

	_, err := svc.Authenticate(&models.LoginRequest{Username: "nobody", Password: "secret1"})
	require.Error(t, err)
	// Same error kind as a wrong password so usernames cannot be probed.
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAuthenticateMissingFields(t *testing.T) {
	svc := newUserService()

	_, err := svc.Authenticate(&models.LoginRequest{Username: "alice"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Authenticate(&models.LoginRequest{Password: "secret1"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
