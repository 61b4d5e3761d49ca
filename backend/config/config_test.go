package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsProduction(t *testing.T) {
	for env, want := range map[string]bool{
		"production":  true,
		"PROD":        true,
		"development": false,
		"":            false,
		"staging":     false,
	} {
		cfg := &Config{AppEnv: env}
		assert.Equal(t, want, cfg.IsProduction(), env)
	}
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_ACCESS_TTL", "90")
	t.Setenv("LLM_TIMEOUT", "2m")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 90*time.Second, cfg.JWTAccessTTL)
	assert.Equal(t, 2*time.Minute, cfg.LLM.Timeout)
	assert.Equal(t, "g-key", cfg.LLM.GeminiAPIKey)
}
