package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		LLM:        LLMConfig{Provider: ProviderGemini},
		Gemini:     GeminiConfig{APIKey: "gemini-key"},
		JobSearch:  JobSearchConfig{APIKey: "rapid-key"},
		Storage:    StorageConfig{Driver: StorageDriverLocal},
		Extraction: ExtractionConfig{Mode: ExtractionBalanced},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr []string
	}{
		{
			name:   "valid gemini config",
			mutate: func(c *Config) {},
		},
		{
			name: "missing both secrets",
			mutate: func(c *Config) {
				c.Gemini.APIKey = ""
				c.JobSearch.APIKey = ""
			},
			wantErr: []string{"GEMINI_API_KEY is required", "JOBSEARCH_API_KEY is required"},
		},
		{
			name: "groq provider needs groq key",
			mutate: func(c *Config) {
				c.LLM.Provider = ProviderGroq
			},
			wantErr: []string{"GROQ_API_KEY is required"},
		},
		{
			name: "anthropic provider with key",
			mutate: func(c *Config) {
				c.LLM.Provider = ProviderAnthropic
				c.Anthropic.APIKey = "sk-ant"
			},
		},
		{
			name: "unknown provider",
			mutate: func(c *Config) {
				c.LLM.Provider = "openai"
			},
			wantErr: []string{`unsupported provider "openai"`},
		},
		{
			name: "s3 driver needs credentials",
			mutate: func(c *Config) {
				c.Storage.Driver = StorageDriverS3
			},
			wantErr: []string{"S3_BUCKET is required", "S3_ACCESS_KEY is required", "S3_SECRET_KEY is required"},
		},
		{
			name: "unknown extraction mode",
			mutate: func(c *Config) {
				c.Extraction.Mode = "lazy"
			},
			wantErr: []string{`unsupported mode "lazy"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			for _, msg := range tt.wantErr {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_TEMPERATURE", "")
	t.Setenv("LLM_MAX_TOKENS", "")
	t.Setenv("JOBSEARCH_COUNTRY", "")
	t.Setenv("EXTRACTION_MODE", "")

	cfg := Load()

	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.InDelta(t, 0.5, cfg.LLM.DefaultTemperature, 1e-6)
	assert.Equal(t, int32(1024), cfg.LLM.DefaultMaxTokens)
	assert.Equal(t, 1, cfg.LLM.MaxAttempts)
	assert.Equal(t, "in", cfg.JobSearch.Country)
	assert.Equal(t, ExtractionBalanced, cfg.Extraction.Mode)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Groq")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("EXTRACTION_MODE", "GREEDY")

	cfg := Load()

	assert.Equal(t, ProviderGroq, cfg.LLM.Provider)
	assert.Equal(t, "5s", cfg.LLM.Timeout.String())
	assert.Equal(t, int64(2048), cfg.Storage.MaxFileSize)
	assert.Equal(t, ExtractionGreedy, cfg.Extraction.Mode)
}
