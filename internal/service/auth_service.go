package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/domain"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

// AuthService authenticates the configured admin.
type AuthService struct {
	adminEmail string
	adminHash  string
	tokenMgr   *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		adminEmail: cfg.AdminEmail,
		adminHash:  cfg.AdminPasswordHash,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// Login checks the admin credentials and issues an access token.
func (s *AuthService) Login(_ context.Context, email, password string) (*domain.Admin, *domain.Token, error) {
	if missing := apperrors.MissingFields(map[string]string{"email": email, "password": password}, "email", "password"); len(missing) > 0 {
		return nil, nil, apperrors.NewMissingFields(missing)
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.adminEmail) {
		return nil, nil, apperrors.NewUnauthorized("Invalid credentials")
	}
	if err := auth.ComparePassword(s.adminHash, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, nil, apperrors.NewUnauthorized("Invalid credentials")
		}
		return nil, nil, apperrors.NewInternalError("Failed to verify credentials", err)
	}

	token, err := s.tokenMgr.GenerateToken(s.adminEmail, domain.SubjectTypeAdmin)
	if err != nil {
		return nil, nil, apperrors.NewInternalError("Failed to issue token", err)
	}
	return &domain.Admin{Email: s.adminEmail}, token, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
