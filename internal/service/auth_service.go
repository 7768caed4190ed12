package service

import (
	"context"
	"fmt"
	"time"

	"passimpay-gateway/config"
	"passimpay-gateway/internal/core/ports"
	"passimpay-gateway/pkg/apperror"
)

// AuthServiceImpl implements ports.AuthService for the single configured
// operator account. There is no registration; the account comes from config.
type AuthServiceImpl struct {
	operator config.OperatorConfig
	hashSvc  ports.HashService
	tokenSvc ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(operator config.OperatorConfig, hashSvc ports.HashService, tokenSvc ports.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{
		operator: operator,
		hashSvc:  hashSvc,
		tokenSvc: tokenSvc,
	}
}

// Login validates operator credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if username != s.operator.Username {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, s.operator.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokenSvc.Generate(username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiresAt, nil
}
