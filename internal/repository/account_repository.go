package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AccountStore defines persistence access for accounts. Implementations
// guarantee that Insert is atomic with respect to the username uniqueness
// check.
type AccountStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	Insert(ctx context.Context, account *domain.Account) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation. The
// accounts table carries a unique constraint on username; violations
// surface as Conflict.
func NewAccountRepository(pool *pgxpool.Pool) AccountStore {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	const query = `
        SELECT id, username, password_hash, role, created_at, updated_at
        FROM accounts WHERE username=$1`

	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account")
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return &account, nil
}

func (r *accountRepository) Insert(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (id, username, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at`

	if err := r.pool.QueryRow(ctx, query,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.Role,
	).Scan(&account.CreatedAt, &account.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperrors.NewConflict("username already registered", map[string]any{"username": account.Username})
		}
		return apperrors.NewStoreUnavailable(err)
	}
	return nil
}
