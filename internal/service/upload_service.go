package service

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// UploadService stores uploaded files on disk and records their metadata.
type UploadService struct {
	uploads repository.UploadStore
	dir     string
	maxSize int64
}

// NewUploadService builds the service and ensures the upload directory exists.
func NewUploadService(cfg config.UploadConfig, uploads repository.UploadStore) (*UploadService, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	return &UploadService{uploads: uploads, dir: cfg.Dir, maxSize: cfg.MaxSizeBytes}, nil
}

// Save writes the file under a generated storage key, preserving the
// original extension, and persists its metadata.
func (s *UploadService) Save(ctx context.Context, ownerID string, header *multipart.FileHeader) (*domain.UploadRecord, error) {
	if header == nil {
		return nil, apperrors.NewValidationError("file is required", nil)
	}
	if s.maxSize > 0 && header.Size > s.maxSize {
		return nil, apperrors.NewValidationError("file too large", map[string]any{"max_bytes": s.maxSize})
	}

	src, err := header.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable file", nil)
	}
	defer src.Close()

	storageKey := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(s.dir, storageKey))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	record := &domain.UploadRecord{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		StorageKey: storageKey,
		FileName:   header.Filename,
		MimeType:   header.Header.Get("Content-Type"),
		SizeBytes:  header.Size,
	}
	if err := s.uploads.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListByOwner returns the metadata of files stored for the owner.
func (s *UploadService) ListByOwner(ctx context.Context, ownerID string) ([]domain.UploadRecord, error) {
	return s.uploads.ListByOwner(ctx, ownerID)
}
