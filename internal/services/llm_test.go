package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/skillsync/internal/config"
)

func TestGenerationOptionsClamp(t *testing.T) {
	tests := []struct {
		in   GenerationOptions
		want GenerationOptions
	}{
		{GenerationOptions{0.5, 1024}, GenerationOptions{0.5, 1024}},
		{GenerationOptions{-1, 10}, GenerationOptions{0, 100}},
		{GenerationOptions{1.7, 5000}, GenerationOptions{1, 2000}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Clamp())
	}
}

func fastRetry(next LLMService, attempts int) *retryingLLM {
	return &retryingLLM{next: next, maxRetries: attempts, initialWait: time.Millisecond, maxWait: 4 * time.Millisecond}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds after failure", func(t *testing.T) {
		llm := &fakeLLM{errs: []error{errors.New("timeout")}, replies: []string{"", "ok"}}

		out, err := fastRetry(llm, 3).GenerateText(context.Background(), "p", GenerationOptions{})

		require.NoError(t, err)
		assert.Equal(t, "ok", out)
		assert.Equal(t, 2, llm.calls())
	})

	t.Run("gives up", func(t *testing.T) {
		llm := &fakeLLM{errs: []error{errors.New("a"), errors.New("b")}}

		_, err := fastRetry(llm, 2).GenerateText(context.Background(), "p", GenerationOptions{})

		assert.ErrorContains(t, err, "failed after 2 attempts: b")
		assert.Equal(t, 2, llm.calls())
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		llm := &fakeLLM{errs: []error{errors.New("a"), errors.New("b")}}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fastRetry(llm, 5).GenerateText(ctx, "p", GenerationOptions{})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, llm.calls())
	})

	t.Run("does not retry deadline errors", func(t *testing.T) {
		llm := &fakeLLM{errs: []error{context.DeadlineExceeded, errors.New("b")}}

		_, err := fastRetry(llm, 3).GenerateText(context.Background(), "p", GenerationOptions{})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 1, llm.calls())
	})

	assert.Equal(t, "fake", WithRetry(&fakeLLM{}, 2).Provider())
}

func TestWithRetryWaitsBetweenAttempts(t *testing.T) {
	llm := &fakeLLM{errs: []error{errors.New("a"), errors.New("b")}, replies: []string{"", "", "ok"}}
	r := &retryingLLM{next: llm, maxRetries: 3, initialWait: 20 * time.Millisecond, maxWait: 30 * time.Millisecond}

	start := time.Now()
	out, err := r.GenerateText(context.Background(), "p", GenerationOptions{})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestWithRetryCancelledDuringWait(t *testing.T) {
	llm := &fakeLLM{errs: []error{errors.New("a"), errors.New("b")}}
	r := &retryingLLM{next: llm, maxRetries: 3, initialWait: time.Minute, maxWait: time.Minute}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.GenerateText(ctx, "p", GenerationOptions{})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, llm.calls())
}

func TestWithRetryDefaults(t *testing.T) {
	r := WithRetry(&fakeLLM{}, 2).(*retryingLLM)

	assert.Equal(t, defaultRetryInitialWait, r.initialWait)
	assert.Equal(t, defaultRetryMaxWait, r.maxWait)
}

func TestNewLLMServiceSelectsProvider(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{Provider: config.ProviderGroq, MaxAttempts: 1}}
	svc, err := NewLLMService(cfg)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderGroq, svc.Provider())

	cfg.LLM.Provider = config.ProviderAnthropic
	cfg.LLM.MaxAttempts = 3
	svc, err = NewLLMService(cfg)
	require.NoError(t, err)
	assert.IsType(t, &retryingLLM{}, svc)
	assert.Equal(t, config.ProviderAnthropic, svc.Provider())

	cfg.LLM.Provider = "openai"
	_, err = NewLLMService(cfg)
	assert.ErrorContains(t, err, "unsupported llm provider")
}

func TestGroqGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		var req groqRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, defaultGroqModel, req.Model)
		assert.Equal(t, float32(0.2), req.Temperature)
		assert.Equal(t, int32(300), req.MaxTokens)
		assert.Equal(t, "analyze this", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"match_score\": 70}"}}]}`))
	}))
	defer server.Close()

	groq := NewGroqService("gsk_test", server.URL+"/", "", server.Client())
	out, err := groq.GenerateText(context.Background(), "analyze this", GenerationOptions{Temperature: 0.2, MaxTokens: 300})

	require.NoError(t, err)
	assert.Equal(t, `{"match_score": 70}`, out)
}

func TestGroqGenerateTextErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key"}}`))
	}))
	defer server.Close()

	_, err := NewGroqService("bad", server.URL, "", server.Client()).
		GenerateText(context.Background(), "p", GenerationOptions{})

	assert.ErrorContains(t, err, "status 401")
}
