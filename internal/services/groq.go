package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"alfredoptarigan/skillsync/internal/config"
)

const defaultGroqModel = "llama-3.1-8b-instant"

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int32         `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// groqService talks to Groq's OpenAI-compatible chat completions endpoint.
type groqService struct {
	apiKey    string
	baseURL   string
	modelName string
	client    *http.Client
}

func NewGroqService(apiKey, baseURL, modelName string, client *http.Client) LLMService {
	if modelName == "" {
		modelName = defaultGroqModel
	}
	if client == nil {
		client = &http.Client{Timeout: 90 * time.Second}
	}

	return &groqService{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		modelName: modelName,
		client:    client,
	}
}

func (g *groqService) Provider() string {
	return config.ProviderGroq
}

// GenerateText implements LLMService.
func (g *groqService) GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	body, err := json.Marshal(groqRequest{
		Model:       g.modelName,
		Messages:    []groqMessage{{Role: "user", Content: prompt}},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode groq request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build groq request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call groq: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read groq response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq api returned status %d: %s", resp.StatusCode, truncate(string(payload), 200))
	}

	var decoded groqResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode groq response: %w", err)
	}

	if decoded.Error != nil {
		return "", fmt.Errorf("groq api error: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no text content in groq response")
	}

	return decoded.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
