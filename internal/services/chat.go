package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"alfredoptarigan/skillsync/internal/models"
)

const (
	chatAppName      = "skillsync_chat"
	chatUserID       = "skillsync_user"
	defaultChatModel = "gemini-2.5-flash"
)

type ChatReply struct {
	SessionID string
	Reply     string
}

// ChatService holds multi-turn career-advice conversations.
type ChatService interface {
	// Send forwards one message. An empty sessionID starts a new
	// conversation. A model failure yields an empty reply, not an error.
	Send(ctx context.Context, sessionID, message string, report *models.Report) (ChatReply, error)
	Reset(ctx context.Context, sessionID string) error
}

// chatBackend is the agent runtime a conversation runs on.
type chatBackend interface {
	CreateSession(ctx context.Context, sessionID string) error
	Ask(ctx context.Context, sessionID, message string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type chatService struct {
	backend       chatBackend
	promptBuilder *PromptBuilder

	mu       sync.Mutex
	sessions map[string]struct{}
}

// NewChatService builds the Gemini-backed chat. Without an API key every
// call returns ErrChatUnavailable.
func NewChatService(ctx context.Context, apiKey, modelName string) (ChatService, error) {
	if apiKey == "" {
		return unavailableChat{}, nil
	}

	backend, err := newADKBackend(ctx, apiKey, modelName)
	if err != nil {
		return nil, err
	}
	return newChatService(backend), nil
}

func newChatService(backend chatBackend) *chatService {
	return &chatService{
		backend:       backend,
		promptBuilder: NewPromptBuilder(),
		sessions:      make(map[string]struct{}),
	}
}

func (c *chatService) Send(ctx context.Context, sessionID, message string, report *models.Report) (ChatReply, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	c.mu.Lock()
	_, known := c.sessions[sessionID]
	if !known {
		if err := c.backend.CreateSession(ctx, sessionID); err != nil {
			c.mu.Unlock()
			return ChatReply{}, fmt.Errorf("failed to create chat session: %w", err)
		}
		c.sessions[sessionID] = struct{}{}
	}
	c.mu.Unlock()

	if !known {
		message = c.promptBuilder.BuildChatContext(report, message)
	}

	reply, err := c.backend.Ask(ctx, sessionID, message)
	if err != nil {
		log.Printf("⚠️ Chat reply failed for session %s: %v\n", sessionID, err)
		reply = ""
	}

	return ChatReply{SessionID: sessionID, Reply: reply}, nil
}

func (c *chatService) Reset(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[sessionID]; !ok {
		return fmt.Errorf("%s: %w", sessionID, ErrSessionNotFound)
	}

	if err := c.backend.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	delete(c.sessions, sessionID)
	return nil
}

type unavailableChat struct{}

func (unavailableChat) Send(context.Context, string, string, *models.Report) (ChatReply, error) {
	return ChatReply{}, ErrChatUnavailable
}

func (unavailableChat) Reset(context.Context, string) error {
	return ErrChatUnavailable
}

type adkBackend struct {
	runner   *runner.Runner
	sessions session.Service
}

func newADKBackend(ctx context.Context, apiKey, modelName string) (*adkBackend, error) {
	if modelName == "" {
		modelName = defaultChatModel
	}

	model, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	advisor, err := llmagent.New(llmagent.Config{
		Name:        chatAppName,
		Model:       model,
		Description: "Career advice chat",
		Instruction: NewPromptBuilder().ChatInstruction(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat agent: %w", err)
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        chatAppName,
		Agent:          advisor,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat runner: %w", err)
	}

	return &adkBackend{runner: r, sessions: sessions}, nil
}

func (a *adkBackend) CreateSession(ctx context.Context, sessionID string) error {
	_, err := a.sessions.Create(ctx, &session.CreateRequest{
		AppName:   chatAppName,
		UserID:    chatUserID,
		SessionID: sessionID,
	})
	return err
}

func (a *adkBackend) Ask(ctx context.Context, sessionID, message string) (string, error) {
	stream := a.runner.Run(ctx, chatUserID, sessionID, &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: message},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", err
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}

	if output == "" {
		return "", fmt.Errorf("empty agent response")
	}
	return output, nil
}

func (a *adkBackend) DeleteSession(ctx context.Context, sessionID string) error {
	return a.sessions.Delete(ctx, &session.DeleteRequest{
		AppName:   chatAppName,
		UserID:    chatUserID,
		SessionID: sessionID,
	})
}
