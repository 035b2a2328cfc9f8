// Package account implements registration and login for the platform
// users that own stores.
package account

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/storepos/backend/internal/domain/account"
	"github.com/storepos/backend/internal/domain/shared"
	"github.com/storepos/backend/internal/infrastructure/auth"
)

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the payload for exchanging credentials for a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries a fresh access token and the account it
// belongs to
type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// AuthService handles account registration and credential exchange
type AuthService struct {
	users  account.Repository
	tokens *auth.TokenService
	logger *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users account.Repository, tokens *auth.TokenService, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: log,
	}
}

// Register creates an account and returns a fresh access token
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, shared.ErrAlreadyExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := account.NewUser(req.Email, req.Name, hash)
	if err != nil {
		return nil, err
	}
	if err := s.users.Add(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Login verifies credentials and returns a fresh access token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *account.User) (*TokenResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		Token:  token,
		UserID: user.ID.String(),
		Name:   user.Name,
	}, nil
}
