package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
	"alfredoptarigan/skillsync/internal/services"
)

type ReportHandler struct {
	analysisRepo repositories.AnalysisRepository
}

func NewReportHandler(analysisRepo repositories.AnalysisRepository) *ReportHandler {
	return &ReportHandler{
		analysisRepo: analysisRepo,
	}
}

// HandleListReports handles GET /reports
func (h *ReportHandler) HandleListReports(c *fiber.Ctx) error {
	analyses, err := h.analysisRepo.ListRecent(c.QueryInt("limit", 20))
	if err != nil {
		return respondError(c, err)
	}

	summaries := make([]models.ReportSummary, 0, len(analyses))
	for _, analysis := range analyses {
		score := 0
		if analysis.MatchScore != nil {
			score = *analysis.MatchScore
		}
		summaries = append(summaries, models.ReportSummary{
			ID:         analysis.ID.String(),
			MatchScore: max(0, min(score, 100)),
			CreatedAt:  analysis.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{
		"reports": summaries,
	})
}

// HandleGetReport handles GET /reports/:id
func (h *ReportHandler) HandleGetReport(c *fiber.Ctx) error {
	analysis, report, err := h.load(c)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.AnalyzeResponse{
		ID:     analysis.ID.String(),
		Report: report,
		View:   models.NewReportView(report),
	})
}

// HandleDownloadReport handles GET /reports/:id/download
func (h *ReportHandler) HandleDownloadReport(c *fiber.Ctx) error {
	_, report, err := h.load(c)
	if err != nil {
		return respondError(c, err)
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return respondError(c, fmt.Errorf("failed to encode report: %w", err))
	}

	c.Attachment("report.json")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (h *ReportHandler) load(c *fiber.Ctx) (*models.Analysis, *models.Report, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid report ID format")
	}

	analysis, err := h.analysisRepo.FindByID(id)
	if err != nil {
		return nil, nil, err
	}

	report, err := services.DecodeStoredReport(analysis)
	if err != nil {
		return nil, nil, err
	}

	return analysis, report, nil
}
