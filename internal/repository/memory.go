package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// MemoryAccountStore is a map-backed AccountStore used in tests and when no
// database DSN is configured. The mutex makes Insert atomic with respect to
// the uniqueness check.
type MemoryAccountStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
}

// NewMemoryAccountStore initializes an empty store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: make(map[string]domain.Account)}
}

func (s *MemoryAccountStore) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[username]
	if !ok {
		return nil, apperrors.NewNotFound("account")
	}
	return &account, nil
}

func (s *MemoryAccountStore) Insert(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.Username]; exists {
		return apperrors.NewConflict("username already registered", map[string]any{"username": account.Username})
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.Username] = *account
	return nil
}

// MemoryUploadStore keeps upload metadata in memory.
type MemoryUploadStore struct {
	mu      sync.Mutex
	records []domain.UploadRecord
}

// NewMemoryUploadStore initializes an empty store.
func NewMemoryUploadStore() *MemoryUploadStore {
	return &MemoryUploadStore{}
}

func (s *MemoryUploadStore) Create(_ context.Context, record *domain.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.CreatedAt = time.Now()
	s.records = append(s.records, *record)
	return nil
}

func (s *MemoryUploadStore) ListByOwner(_ context.Context, ownerID string) ([]domain.UploadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []domain.UploadRecord
	for _, record := range s.records {
		if record.OwnerID == ownerID {
			result = append(result, record)
		}
	}
	return result, nil
}
