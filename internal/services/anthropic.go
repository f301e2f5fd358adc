package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"alfredoptarigan/skillsync/internal/config"
)

const defaultAnthropicModel = "claude-3-7-sonnet-latest"

type anthropicService struct {
	client    anthropic.Client
	modelName string
}

func NewAnthropicService(apiKey, modelName string) LLMService {
	if modelName == "" {
		modelName = defaultAnthropicModel
	}

	return &anthropicService{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		modelName: modelName,
	}
}

func (a *anthropicService) Provider() string {
	return config.ProviderAnthropic
}

// GenerateText implements LLMService.
func (a *anthropicService) GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	response, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.modelName),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(float64(opts.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	var parts []string
	for _, block := range response.Content {
		if block.Type == "text" {
			parts = append(parts, block.AsText().Text)
		}
	}

	text := strings.Join(parts, "\n")
	if text == "" {
		return "", fmt.Errorf("no text content in Claude response")
	}
	return text, nil
}
