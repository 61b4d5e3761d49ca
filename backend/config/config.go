package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	ServerPort string

	DBDriver   string // postgres, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret       string
	JWTAccessTTL    time.Duration
	JWTRefreshTTL   time.Duration
	CORSAllowOrigin string

	LLM LLMConfig

	RedisURL            string
	TranslationCacheTTL time.Duration
}

// LLMConfig selects and configures the text-completion provider behind the
// AI features.
type LLMConfig struct {
	Provider string // gemini, openai, anthropic, mock
	Timeout  time.Duration

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	AnthropicAPIKey string
	AnthropicModel  string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	geminiKey := getEnv("GEMINI_API_KEY", "")
	if geminiKey == "" {
		geminiKey = getEnv("GOOGLE_API_KEY", "")
	}

	return &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "german_learning"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		JWTAccessTTL:    getDuration("JWT_ACCESS_TTL", 60*time.Minute),
		JWTRefreshTTL:   getDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		CORSAllowOrigin: getEnv("CORS_ORIGINS", "*"),

		LLM: LLMConfig{
			Provider:        strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
			Timeout:         getDuration("LLM_TIMEOUT", 30*time.Second),
			GeminiAPIKey:    geminiKey,
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001"),
		},

		RedisURL:            getEnv("REDIS_URL", ""),
		TranslationCacheTTL: getDuration("TRANSLATION_CACHE_TTL", 24*time.Hour),
	}, nil
}

func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDuration accepts Go duration strings ("90s", "2h") or a bare number of
// seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
