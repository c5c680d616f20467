package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kapu/instaplanner-ai-go/internal/constants"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	AI      AIConfig
	Gemini  GeminiConfig
	OpenAI  OpenAIConfig
	Redis   RedisConfig
	Batch   BatchConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

type AIConfig struct {
	Provider string
	Timeout  time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type BatchConfig struct {
	TotalDuration time.Duration
	StepInterval  time.Duration
	DoneDisplay   time.Duration
}

type LoggingConfig struct {
	Level string
	File  string
}

type MetricsConfig struct {
	Addr string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AI: AIConfig{
			Provider: strings.ToLower(getEnv("AI_PROVIDER", ProviderGemini)),
			Timeout:  getEnvSeconds("AI_TIMEOUT_SECONDS", constants.AIConfig.RequestTimeout),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", constants.AIConfig.DefaultGeminiModel),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", constants.AIConfig.DefaultOpenAIModel),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("ANALYSIS_CACHE_TTL_MINUTES", int(constants.CacheTTL.AnalysisResult/time.Minute))) * time.Minute,
		},
		Batch: BatchConfig{
			TotalDuration: getEnvMillis("BATCH_TOTAL_MS", constants.BatchConfig.TotalDuration),
			StepInterval:  getEnvMillis("BATCH_STEP_MS", constants.BatchConfig.StepInterval),
			DoneDisplay:   getEnvMillis("BATCH_DONE_DISPLAY_MS", constants.BatchConfig.DoneDisplay),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AI.Provider)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT_SECONDS must be positive")
	}
	if c.Batch.StepInterval <= 0 || c.Batch.TotalDuration <= 0 {
		return fmt.Errorf("BATCH_TOTAL_MS and BATCH_STEP_MS must be positive")
	}
	if c.Batch.TotalDuration < c.Batch.StepInterval {
		return fmt.Errorf("BATCH_TOTAL_MS must be at least BATCH_STEP_MS")
	}
	if c.Batch.DoneDisplay < 0 {
		return fmt.Errorf("BATCH_DONE_DISPLAY_MS must not be negative")
	}
	if c.Redis.Enabled && c.Redis.TTL <= 0 {
		return fmt.Errorf("ANALYSIS_CACHE_TTL_MINUTES must be positive when REDIS_ENABLED")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvMillis(key string, defaultValue time.Duration) time.Duration {
	return time.Duration(getEnvInt(key, int(defaultValue/time.Millisecond))) * time.Millisecond
}

func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	return time.Duration(getEnvInt(key, int(defaultValue/time.Second))) * time.Second
}
