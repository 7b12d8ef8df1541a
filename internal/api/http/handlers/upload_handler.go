package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// UploadHandler stores files for authenticated callers.
type UploadHandler struct {
	uploads *service.UploadService
}

// NewUploadHandler constructs handler.
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploadService}
}

// Upload handles POST /api/upload.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("multipart field 'file' required", nil)
	}

	record, err := h.uploads.Save(c.UserContext(), identity.Subject, header)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"message": "file uploaded successfully",
			"file": dto.UploadResponse{
				ID:         record.ID,
				StorageKey: record.StorageKey,
				FileName:   record.FileName,
				MimeType:   record.MimeType,
				SizeBytes:  record.SizeBytes,
				CreatedAt:  record.CreatedAt,
			},
		},
	})
}

// List handles GET /api/upload.
func (h *UploadHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	records, err := h.uploads.ListByOwner(c.UserContext(), identity.Subject)
	if err != nil {
		return err
	}

	files := make([]dto.UploadResponse, 0, len(records))
	for _, record := range records {
		files = append(files, dto.UploadResponse{
			ID:         record.ID,
			StorageKey: record.StorageKey,
			FileName:   record.FileName,
			MimeType:   record.MimeType,
			SizeBytes:  record.SizeBytes,
			CreatedAt:  record.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"files": files}})
}
