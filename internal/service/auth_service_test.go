package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/domain"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := auth.HashPassword("correct horse", 4)
	require.NoError(t, err)
	return NewAuthService(config.AuthConfig{
		Enabled:               true,
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		AdminEmail:            "admin@example.com",
		AdminPasswordHash:     hash,
	})
}

func TestAuthLogin(t *testing.T) {
	svc := newTestAuthService(t)

	admin, token, err := svc.Login(context.Background(), "Admin@Example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)

	claims, err := svc.TokenManager().ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeAdmin, claims.Subject)
}

func TestAuthLoginFailures(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "admin@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, _, err = svc.Login(ctx, "other@example.com", "correct horse")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, _, err = svc.Login(ctx, "", "")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestAuthLoginRejectsUnusableHash(t *testing.T) {
	ctx := context.Background()
	cfg := config.AuthConfig{JWTSecret: "test-secret", AdminEmail: "admin@example.com"}

	_, _, err := NewAuthService(cfg).Login(ctx, "admin@example.com", "anything")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	cfg.AdminPasswordHash = "not-a-bcrypt-hash"
	_, _, err = NewAuthService(cfg).Login(ctx, "admin@example.com", "anything")
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
}
