package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts repository.AccountStore
	hasher   *auth.Hasher
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountStore) *AuthService {
	return &AuthService{
		accounts: accounts,
		hasher:   auth.NewHasher(cfg.BcryptCost),
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL(), cfg.ClockSkew()),
	}
}

// Register creates a new account with a salted password digest.
//
// A role outside the enumerated set is a validation failure; no account is
// created for it. Username conflicts come back from the store as Conflict.
func (s *AuthService) Register(ctx context.Context, username, password, rawRole string) (*domain.Account, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password required", nil)
	}
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": rawRole})
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.accounts.Insert(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Login verifies credentials and issues a signed token.
//
// An unknown username surfaces as NotFound and a wrong password as
// InvalidCredentials; the two stay distinct here so the transport layer can
// decide whether to merge them externally.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Account, string, time.Time, error) {
	if username == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("username and password required", nil)
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	match, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !match {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, expiresAt, err := s.tokenMgr.Issue(account.Username, account.Role, s.tokenMgr.TTL())
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, expiresAt, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
