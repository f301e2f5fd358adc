package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"alfredoptarigan/skillsync/internal/config"
)

const (
	MinTemperature float32 = 0.0
	MaxTemperature float32 = 1.0
	MinMaxTokens   int32   = 100
	MaxMaxTokens   int32   = 2000
)

type GenerationOptions struct {
	Temperature float32
	MaxTokens   int32
}

// Clamp keeps the options inside the ranges the UI exposes.
func (o GenerationOptions) Clamp() GenerationOptions {
	return GenerationOptions{
		Temperature: max(MinTemperature, min(o.Temperature, MaxTemperature)),
		MaxTokens:   max(MinMaxTokens, min(o.MaxTokens, MaxMaxTokens)),
	}
}

// LLMService sends one prompt to a model provider and returns its raw text.
type LLMService interface {
	GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
	Provider() string
}

// NewLLMService builds the provider selected by cfg.LLM.Provider, wrapped in
// a retry loop when more than one attempt is configured.
func NewLLMService(cfg *config.Config) (LLMService, error) {
	var (
		svc LLMService
		err error
	)

	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		svc, err = NewGeminiService(cfg.Gemini.APIKey, cfg.LLM.Model)
	case config.ProviderAnthropic:
		svc = NewAnthropicService(cfg.Anthropic.APIKey, cfg.LLM.Model)
	case config.ProviderGroq:
		svc = NewGroqService(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.LLM.Model, nil)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.LLM.MaxAttempts > 1 {
		svc = WithRetry(svc, cfg.LLM.MaxAttempts)
	}
	return svc, nil
}

const (
	defaultRetryInitialWait = 500 * time.Millisecond
	defaultRetryMaxWait     = 5 * time.Second
)

type retryingLLM struct {
	next        LLMService
	maxRetries  int
	initialWait time.Duration
	maxWait     time.Duration
}

// WithRetry makes up to maxRetries attempts, doubling the wait between them.
func WithRetry(next LLMService, maxRetries int) LLMService {
	return &retryingLLM{
		next:        next,
		maxRetries:  maxRetries,
		initialWait: defaultRetryInitialWait,
		maxWait:     defaultRetryMaxWait,
	}
}

func (r *retryingLLM) Provider() string {
	return r.next.Provider()
}

// GenerateText implements LLMService.
func (r *retryingLLM) GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	var lastErr error
	wait := r.initialWait

	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		result, err := r.next.GenerateText(ctx, prompt, opts)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		if attempt == r.maxRetries {
			break
		}

		log.Printf("⚠️ Attempt %d failed: %v. Retrying in %s...\n", attempt, err, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-timer.C:
		}

		wait = min(wait*2, r.maxWait)
	}

	return "", fmt.Errorf("failed after %d attempts: %w", r.maxRetries, lastErr)
}
