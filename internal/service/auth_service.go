package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/pkg/errorutil"
)

// ErrInvalidCredentials is returned on bad username/password pairs without
// revealing which half failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService coordinates signup, login and logout for dashboard accounts.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	revocation auth.RevocationStore
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, revocation auth.RevocationStore) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		revocation: revocation,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates an account and signs the user in. Uniqueness is checked
// by the signup form before this runs, but the unique indexes still back it.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, time.Time, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates a user by username and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Logout revokes the session token so it stops working before its natural
// expiry.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil {
		return errorutil.NewUnauthorized("no active session")
	}
	if s.revocation == nil {
		return nil
	}
	return s.revocation.Revoke(ctx, principal.TokenID, time.Unix(principal.TokenExp, 0))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
