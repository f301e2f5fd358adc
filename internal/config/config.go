package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"

	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	ExtractionBalanced = "balanced"
	ExtractionGreedy   = "greedy"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	LLM        LLMConfig
	Gemini     GeminiConfig
	Anthropic  AnthropicConfig
	Groq       GroqConfig
	JobSearch  JobSearchConfig
	Qdrant     QdrantConfig
	Storage    StorageConfig
	Redis      RedisConfig
	RabbitMQ   RabbitMQConfig
	Extraction ExtractionConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type LLMConfig struct {
	Provider           string
	Model              string
	DefaultTemperature float32
	DefaultMaxTokens   int32
	MaxAttempts        int
	Timeout            time.Duration
}

type GeminiConfig struct {
	APIKey string
}

type AnthropicConfig struct {
	APIKey string
}

type GroqConfig struct {
	APIKey  string
	BaseURL string
}

type JobSearchConfig struct {
	APIKey    string
	Host      string
	Country   string
	NumPages  int
	RateLimit float64
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type StorageConfig struct {
	Driver      string
	UploadPath  string
	MaxFileSize int64
	S3          S3Config
}

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type ExtractionConfig struct {
	Mode string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "skillsync"),
		},
		LLM: LLMConfig{
			Provider:           strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
			Model:              getEnv("LLM_MODEL", ""),
			DefaultTemperature: float32(getEnvAsFloat("LLM_TEMPERATURE", 0.5)),
			DefaultMaxTokens:   int32(getEnvAsInt("LLM_MAX_TOKENS", 1024)),
			MaxAttempts:        getEnvAsInt("LLM_MAX_ATTEMPTS", 1),
			Timeout:            getEnvAsDuration("LLM_TIMEOUT", "60s"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Anthropic: AnthropicConfig{
			APIKey: getEnv("ANTHROPIC_API_KEY", ""),
		},
		Groq: GroqConfig{
			APIKey:  getEnv("GROQ_API_KEY", ""),
			BaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		},
		JobSearch: JobSearchConfig{
			APIKey:    getEnv("JOBSEARCH_API_KEY", ""),
			Host:      getEnv("JOBSEARCH_HOST", "jsearch.p.rapidapi.com"),
			Country:   getEnv("JOBSEARCH_COUNTRY", "in"),
			NumPages:  getEnvAsInt("JOBSEARCH_NUM_PAGES", 1),
			RateLimit: getEnvAsFloat("JOBSEARCH_RATE_LIMIT", 1),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "skillsync_courses"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverLocal)),
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", ""),
				Region:    getEnv("S3_REGION", "auto"),
				Bucket:    getEnv("S3_BUCKET", ""),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
			},
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			CacheTTL: getEnvAsDuration("JOBSEARCH_CACHE_TTL", "30m"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "skillsync.reports"),
		},
		Extraction: ExtractionConfig{
			Mode: strings.ToLower(getEnv("EXTRACTION_MODE", ExtractionBalanced)),
		},
	}
}

// Validate reports every missing or malformed required setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case ProviderGemini:
		errs = appendMissing(errs, "GEMINI_API_KEY", c.Gemini.APIKey)
	case ProviderAnthropic:
		errs = appendMissing(errs, "ANTHROPIC_API_KEY", c.Anthropic.APIKey)
	case ProviderGroq:
		errs = appendMissing(errs, "GROQ_API_KEY", c.Groq.APIKey)
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER: unsupported provider %q", c.LLM.Provider))
	}

	errs = appendMissing(errs, "JOBSEARCH_API_KEY", c.JobSearch.APIKey)

	switch c.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverS3:
		errs = appendMissing(errs, "S3_BUCKET", c.Storage.S3.Bucket)
		errs = appendMissing(errs, "S3_ACCESS_KEY", c.Storage.S3.AccessKey)
		errs = appendMissing(errs, "S3_SECRET_KEY", c.Storage.S3.SecretKey)
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER: unsupported driver %q", c.Storage.Driver))
	}

	if c.Extraction.Mode != ExtractionBalanced && c.Extraction.Mode != ExtractionGreedy {
		errs = append(errs, fmt.Errorf("EXTRACTION_MODE: unsupported mode %q", c.Extraction.Mode))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// ChatEnabled reports whether the Gemini-backed chatbot can be built.
func (c *Config) ChatEnabled() bool {
	return c.Gemini.APIKey != ""
}

// CatalogEnabled reports whether course catalog retrieval is configured.
func (c *Config) CatalogEnabled() bool {
	return c.Qdrant.URL != "" && c.Gemini.APIKey != ""
}

func appendMissing(errs []error, key, value string) []error {
	if strings.TrimSpace(value) == "" {
		return append(errs, fmt.Errorf("%s is required", key))
	}
	return errs
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
