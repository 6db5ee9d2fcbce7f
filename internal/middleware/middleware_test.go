package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sweetshop/internal/middleware"
	"sweetshop/internal/models"
	"sweetshop/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() *services.AuthService {
	return services.NewAuthService("test-secret", zerolog.Nop())
}

func TestAuthenticationSetsIdentity(t *testing.T) {
	auth := newAuthService()
	token, err := auth.GenerateToken(&models.User{ID: 5, Username: "alice", IsAdmin: true})
	require.NoError(t, err)

	var (
		called   bool
		userID   int
		username string
	)
	handler := middleware.Authentication(auth, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		userID, _ = middleware.GetUserID(r)
		username, _ = middleware.GetUsername(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
	assert.Equal(t, 5, userID)
	assert.Equal(t, "alice", username)
}

func TestAuthenticationRejectsBadCredentials(t *testing.T) {
	auth := newAuthService()
	other := services.NewAuthService("other-secret", zerolog.Nop())
	foreignToken, err := other.GenerateToken(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
		{"wrong signing key", "Bearer " + foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := middleware.Authentication(auth, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	auth := newAuthService()

	run := func(t *testing.T, token string) *httptest.ResponseRecorder {
		t.Helper()
		handler := middleware.Authentication(auth, zerolog.Nop())(
			middleware.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})),
		)
		req := httptest.NewRequest("POST", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	adminToken, err := auth.GenerateToken(&models.User{ID: 1, Username: "admin", IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, run(t, adminToken).Code)

	userToken, err := auth.GenerateToken(&models.User{ID: 2, Username: "alice", IsAdmin: false})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, run(t, userToken).Code)
}

func TestRequireAdminWithoutIdentity(t *testing.T) {
	// RequireAdmin behind a misconfigured chain (no Authentication) must
	// refuse rather than pass anonymous callers through.
	handler := middleware.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
