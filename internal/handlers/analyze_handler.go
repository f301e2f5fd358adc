package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
	"alfredoptarigan/skillsync/internal/services"
)

type AnalyzeHandler struct {
	analyzer       services.AnalyzerService
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	extractor      services.TextExtractor
	defaults       services.GenerationOptions
	maxFileSize    int64
}

func NewAnalyzeHandler(
	analyzer services.AnalyzerService,
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	extractor services.TextExtractor,
	defaults services.GenerationOptions,
	maxFileSize int64,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:       analyzer,
		docRepo:        docRepo,
		storageService: storageService,
		extractor:      extractor,
		defaults:       defaults,
		maxFileSize:    maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	input := services.AnalyzeInput{
		JobDescription: req.JobDescription,
		ResumeText:     req.ResumeText,
		Options:        h.defaults,
	}
	if req.Temperature != nil {
		input.Options.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		input.Options.MaxTokens = *req.MaxTokens
	}

	if err := h.resolveResume(c, &req, &input); err != nil {
		return respondError(c, err)
	}

	result, err := h.analyzer.Analyze(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	resp := models.AnalyzeResponse{
		Report: result.Report,
		View:   models.NewReportView(result.Report),
	}
	if result.ID != uuid.Nil {
		resp.ID = result.ID.String()
	}

	return c.JSON(resp)
}

// resolveResume fills input.ResumeText from an uploaded file or a stored
// document when one is given. Pasted text is used otherwise.
func (h *AnalyzeHandler) resolveResume(c *fiber.Ctx, req *models.AnalyzeRequest, input *services.AnalyzeInput) error {
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		if file, err := c.FormFile(resumeFileType); err == nil {
			data, contentType, err := readUpload(file, h.maxFileSize)
			if err != nil {
				return err
			}
			text, err := h.extractor.ExtractText(data, file.Filename, contentType)
			if err != nil {
				return err
			}
			input.ResumeText = text
			return nil
		}
	}

	if req.ResumeDocumentID == "" {
		return nil
	}

	docID, err := uuid.Parse(req.ResumeDocumentID)
	if err != nil {
		return err
	}

	doc, err := h.docRepo.FindByID(docID)
	if err != nil {
		return err
	}

	data, err := h.storageService.ReadFile(c.UserContext(), doc.Location)
	if err != nil {
		return err
	}

	text, err := h.extractor.ExtractText(data, doc.OriginalFileName, doc.ContentType)
	if err != nil {
		return err
	}

	input.ResumeText = text
	input.ResumeDocumentID = &docID
	return nil
}
