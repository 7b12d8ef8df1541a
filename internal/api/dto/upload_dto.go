package dto

import "time"

// UploadResponse describes a stored file.
type UploadResponse struct {
	ID         string    `json:"id"`
	StorageKey string    `json:"storage_key"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}
