package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
	"alfredoptarigan/skillsync/internal/services"
)

const resumeFileType = "resume"

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile(resumeFileType)
	if err != nil {
		return badRequest(c, "No resume uploaded. Please upload a 'resume' file (.pdf, .docx or .txt).")
	}

	data, contentType, err := readUpload(file, h.maxFileSize)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.UserContext()
	filename, location, err := h.storageService.SaveFile(ctx, data, services.StorageName(file.Filename, contentType), resumeFileType)
	if err != nil {
		return respondError(c, fmt.Errorf("failed to save resume file: %w", err))
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: file.Filename,
		FileType:         resumeFileType,
		ContentType:      contentType,
		Location:         location,
		Size:             int64(len(data)),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup uploaded file if database insert fails
		_ = h.storageService.DeleteFile(ctx, location)
		return respondError(c, fmt.Errorf("failed to save resume document record: %w", err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Resume uploaded successfully",
		"document": models.UploadResponse{
			ID:           doc.ID.String(),
			Filename:     doc.Filename,
			OriginalName: doc.OriginalFileName,
			FileType:     doc.FileType,
		},
	})
}

type fileTooLargeError struct {
	max int64
}

func (e fileTooLargeError) Error() string {
	return fmt.Sprintf("Resume file too large. Max size: %d bytes", e.max)
}

// readUpload checks size and type and returns the file bytes with their
// detected content type.
func readUpload(file *multipart.FileHeader, maxFileSize int64) ([]byte, string, error) {
	if maxFileSize > 0 && file.Size > maxFileSize {
		return nil, "", fileTooLargeError{max: maxFileSize}
	}

	contentType, err := services.DetectContentType(file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, "", err
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return data, contentType, nil
}
