package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

var (
	ErrMissingGeminiKey     = errors.New("GEMINI_API_KEY is required for gemini provider")
	ErrMissingOpenRouterKey = errors.New("OPENROUTER_API_KEY is required for openrouter provider")
	ErrMissingDB            = errors.New("DATABASE_URL is required for postgres storage")
	ErrInvalidOracle        = errors.New("invalid oracle provider")
	ErrInvalidGeneration    = errors.New("invalid generation provider")
	ErrInvalidStorage       = errors.New("invalid storage type")
	ErrInvalidConcurrency   = errors.New("BATCH_CONCURRENCY must be at least 1")
	ErrMissingBotToken      = errors.New("TELEGRAM_BOT_TOKEN is required for the bot")
)

const (
	OracleOffline    = "offline"
	OracleGemini     = "gemini"
	OracleOpenRouter = "openrouter"

	GenerationSynthetic = "synthetic"
	GenerationImagen    = "imagen"

	StorageFile     = "file"
	StoragePostgres = "postgres"
)

type Config struct {
	Oracle     OracleConfig
	Generation GenerationConfig
	Storage    StorageConfig
	Critique   domain.CritiqueThresholds
	Workflow   WorkflowConfig
	Timeouts   TimeoutConfig
	Batch      BatchConfig
	Upload     UploadConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	HTTP       HTTPConfig
	Telegram   TelegramConfig
	Log        LogConfig
	RubricFile string
}

type OracleConfig struct {
	Provider   string
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GenerationConfig struct {
	Provider    string
	ImagenModel string
	OutputDir   string
}

type StorageConfig struct {
	Type        string
	DatabaseURL string
	BrandDir    string
	ApprovalDir string
}

type WorkflowConfig struct {
	MaxIterations  int
	ScoreThreshold float64
}

type TimeoutConfig struct {
	Oracle     time.Duration
	Generation time.Duration
}

type BatchConfig struct {
	Concurrency int
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

type CacheConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type HTTPConfig struct {
	Addr string
}

type TelegramConfig struct {
	Token string
	Debug bool
}

type LogConfig struct {
	Level  string
	Format string // json или console, пусто - по уровню
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func FromEnv() *Config {
	return &Config{
		Oracle: OracleConfig{
			Provider: strings.ToLower(getEnvOrDefault("ORACLE_PROVIDER", OracleOffline)),
			Gemini: GeminiConfig{
				APIKey: os.Getenv("GEMINI_API_KEY"),
				Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			},
			OpenRouter: OpenRouterConfig{
				APIKey:  os.Getenv("OPENROUTER_API_KEY"),
				Model:   getEnvOrDefault("OPENROUTER_MODEL", "google/gemini-2.0-flash-001"),
				BaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			},
		},
		Generation: GenerationConfig{
			Provider:    strings.ToLower(getEnvOrDefault("GENERATION_PROVIDER", GenerationSynthetic)),
			ImagenModel: getEnvOrDefault("IMAGEN_MODEL", "imagen-3.0-generate-002"),
			OutputDir:   getEnvOrDefault("GENERATED_ADS_DIR", "generated_ads"),
		},
		Storage: StorageConfig{
			Type:        strings.ToLower(getEnvOrDefault("STORAGE_TYPE", StorageFile)),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			BrandDir:    getEnvOrDefault("BRAND_KIT_DIR", "brand_kits"),
			ApprovalDir: getEnvOrDefault("APPROVAL_DIR", "approvals"),
		},
		Critique: domain.CritiqueThresholds{
			MinBrand:         getEnvFloatOrDefault("MIN_BRAND_SCORE", 0.7),
			MinQuality:       getEnvFloatOrDefault("MIN_QUALITY_SCORE", 0.6),
			MinSafety:        getEnvFloatOrDefault("MIN_SAFETY_SCORE", 0.9),
			MinClarity:       getEnvFloatOrDefault("MIN_CLARITY_SCORE", 0.7),
			ReviewConfidence: getEnvFloatOrDefault("REVIEW_CONFIDENCE_CUTOFF", 0.65),
			LowConfidence:    getEnvFloatOrDefault("LOW_CONFIDENCE_CUTOFF", 0.70),
			FallbackBrand:    getEnvFloatOrDefault("FALLBACK_BRAND_SCORE", 0.5),
			FallbackSafety:   getEnvFloatOrDefault("FALLBACK_SAFETY_SCORE", 0.7),
		},
		Workflow: WorkflowConfig{
			MaxIterations:  getEnvIntOrDefault("MAX_ITERATIONS", domain.DefaultMaxIterations),
			ScoreThreshold: getEnvFloatOrDefault("SCORE_THRESHOLD", domain.DefaultScoreThreshold),
		},
		Timeouts: TimeoutConfig{
			Oracle:     time.Duration(getEnvIntOrDefault("ORACLE_TIMEOUT_SEC", 60)) * time.Second,
			Generation: time.Duration(getEnvIntOrDefault("GENERATION_TIMEOUT_SEC", 120)) * time.Second,
		},
		Batch: BatchConfig{
			Concurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 4),
		},
		Upload: UploadConfig{
			Dir:      getEnvOrDefault("UPLOAD_DIR", "uploads"),
			MaxBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 50_000_000)),
		},
		Cache: CacheConfig{
			TTL: time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 3600)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 20),
		},
		HTTP: HTTPConfig{
			Addr: getEnvOrDefault("HTTP_ADDR", ":8000"),
		},
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
			Debug: strings.EqualFold(os.Getenv("TELEGRAM_DEBUG"), "true"),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: os.Getenv("LOG_FORMAT"),
		},
		RubricFile: os.Getenv("RUBRIC_FILE"),
	}
}

func (c *Config) Validate() error {
	switch c.Oracle.Provider {
	case OracleOffline:
	case OracleGemini:
		if c.Oracle.Gemini.APIKey == "" {
			return ErrMissingGeminiKey
		}
	case OracleOpenRouter:
		if c.Oracle.OpenRouter.APIKey == "" {
			return ErrMissingOpenRouterKey
		}
	default:
		return ErrInvalidOracle
	}

	switch c.Generation.Provider {
	case GenerationSynthetic:
	case GenerationImagen:
		if c.Oracle.Gemini.APIKey == "" {
			return ErrMissingGeminiKey
		}
	default:
		return ErrInvalidGeneration
	}

	switch c.Storage.Type {
	case StorageFile:
	case StoragePostgres:
		if c.Storage.DatabaseURL == "" {
			return ErrMissingDB
		}
	default:
		return ErrInvalidStorage
	}

	if err := c.Critique.Validate(); err != nil {
		return err
	}
	if c.Workflow.ScoreThreshold < 0 || c.Workflow.ScoreThreshold > 1 {
		return domain.ErrInvalidThreshold
	}
	if c.Workflow.MaxIterations < 1 || c.Workflow.MaxIterations > domain.MaxAllowedIterations {
		return domain.ErrInvalidMaxIterations
	}
	if c.Batch.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
