package domain

import "time"

// UploadRecord describes a stored file. The bytes live on disk under the
// configured upload directory; only metadata is persisted.
type UploadRecord struct {
	ID         string
	OwnerID    string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
