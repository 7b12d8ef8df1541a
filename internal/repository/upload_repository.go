package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// UploadStore persists upload metadata.
type UploadStore interface {
	Create(ctx context.Context, record *domain.UploadRecord) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.UploadRecord, error)
}

type uploadRepository struct {
	pool *pgxpool.Pool
}

// NewUploadRepository constructs repository.
func NewUploadRepository(pool *pgxpool.Pool) UploadStore {
	return &uploadRepository{pool: pool}
}

func (r *uploadRepository) Create(ctx context.Context, record *domain.UploadRecord) error {
	const query = `
        INSERT INTO uploads (id, owner_id, storage_key, file_name, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`

	if err := r.pool.QueryRow(ctx, query,
		record.ID,
		record.OwnerID,
		record.StorageKey,
		record.FileName,
		record.MimeType,
		record.SizeBytes,
	).Scan(&record.CreatedAt); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	return nil
}

func (r *uploadRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.UploadRecord, error) {
	const query = `
        SELECT id, owner_id, storage_key, file_name, mime_type, size_bytes, created_at
        FROM uploads WHERE owner_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	var result []domain.UploadRecord
	for rows.Next() {
		var record domain.UploadRecord
		if err := rows.Scan(
			&record.ID,
			&record.OwnerID,
			&record.StorageKey,
			&record.FileName,
			&record.MimeType,
			&record.SizeBytes,
			&record.CreatedAt,
		); err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return result, nil
}
