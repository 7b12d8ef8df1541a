package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

func multipartFile(t *testing.T, fieldName, fileName string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File[fieldName]
	require.Len(t, files, 1)
	return files[0]
}

func TestUploadSaveStoresFileAndMetadata(t *testing.T) {
	dir := t.TempDir()
	store := repository.NewMemoryUploadStore()
	svc, err := NewUploadService(config.UploadConfig{Dir: dir, MaxSizeBytes: 1 << 20}, store)
	require.NoError(t, err)

	header := multipartFile(t, "file", "notes.txt", []byte("hello"))
	record, err := svc.Save(context.Background(), "alice", header)
	require.NoError(t, err)

	require.Equal(t, "notes.txt", record.FileName)
	require.Equal(t, ".txt", filepath.Ext(record.StorageKey))
	require.Equal(t, int64(5), record.SizeBytes)

	stored, err := os.ReadFile(filepath.Join(dir, record.StorageKey))
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), stored)

	records, err := svc.ListByOwner(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, record.StorageKey, records[0].StorageKey)
}

func TestUploadSaveGeneratesDistinctStorageKeys(t *testing.T) {
	svc, err := NewUploadService(config.UploadConfig{Dir: t.TempDir()}, repository.NewMemoryUploadStore())
	require.NoError(t, err)

	first, err := svc.Save(context.Background(), "alice", multipartFile(t, "file", "a.txt", []byte("1")))
	require.NoError(t, err)
	second, err := svc.Save(context.Background(), "alice", multipartFile(t, "file", "a.txt", []byte("2")))
	require.NoError(t, err)

	require.NotEqual(t, first.StorageKey, second.StorageKey)
}

func TestUploadSaveRejectsOversizedFile(t *testing.T) {
	svc, err := NewUploadService(config.UploadConfig{Dir: t.TempDir(), MaxSizeBytes: 3}, repository.NewMemoryUploadStore())
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), "alice", multipartFile(t, "file", "big.bin", []byte("too large")))
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed), "got %v", err)
}

func TestUploadSaveRequiresFile(t *testing.T) {
	svc, err := NewUploadService(config.UploadConfig{Dir: t.TempDir()}, repository.NewMemoryUploadStore())
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), "alice", nil)
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed), "got %v", err)
}
