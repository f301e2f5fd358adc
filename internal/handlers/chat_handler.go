package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
	"alfredoptarigan/skillsync/internal/services"
)

const noChatResponse = "No response available. Please try again."

type ChatHandler struct {
	chat         services.ChatService
	analysisRepo repositories.AnalysisRepository
}

func NewChatHandler(chat services.ChatService, analysisRepo repositories.AnalysisRepository) *ChatHandler {
	return &ChatHandler{
		chat:         chat,
		analysisRepo: analysisRepo,
	}
}

// HandleChat handles POST /chat
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	var report *models.Report
	if req.ReportID != "" {
		analysis, err := h.analysisRepo.FindByID(uuid.MustParse(req.ReportID))
		if err != nil {
			return respondError(c, err)
		}
		if report, err = services.DecodeStoredReport(analysis); err != nil {
			return respondError(c, err)
		}
	}

	reply, err := h.chat.Send(c.UserContext(), req.SessionID, req.Message, report)
	if err != nil {
		return respondError(c, err)
	}

	if reply.Reply == "" {
		reply.Reply = noChatResponse
	}

	return c.JSON(models.ChatResponse{
		SessionID: reply.SessionID,
		Reply:     reply.Reply,
	})
}

// HandleResetChat handles DELETE /chat/:session_id
func (h *ChatHandler) HandleResetChat(c *fiber.Ctx) error {
	if err := h.chat.Reset(c.UserContext(), c.Params("session_id")); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
