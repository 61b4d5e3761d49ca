package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestLoggerRedactsSecrets(t *testing.T) {
	log, logs := observedLogger()

	log.Info("login", "email", "a@b.de", "password", "hunter2", "Authorization", "Bearer x", "openai_api_key", "sk-1")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "a@b.de", fields["email"])
		assert.Equal(t, "[REDACTED]", fields["password"])
		assert.Equal(t, "[REDACTED]", fields["Authorization"])
		assert.Equal(t, "[REDACTED]", fields["openai_api_key"])
	}
}

func TestLoggerWithRedacts(t *testing.T) {
	log, logs := observedLogger()

	log.With("refresh_token", "abc", "user_id", 3).Warn("refresh failed")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["refresh_token"])
	assert.EqualValues(t, 3, fields["user_id"])
}

func TestInitLoggerLevels(t *testing.T) {
	prod, err := InitLogger(true)
	require.NoError(t, err)
	assert.False(t, prod.SugaredLogger.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, prod.SugaredLogger.Desugar().Core().Enabled(zapcore.InfoLevel))

	dev, err := InitLogger(false)
	require.NoError(t, err)
	assert.True(t, dev.SugaredLogger.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestRedactKVsOddLength(t *testing.T) {
	out := redactKVs([]interface{}{"path", "/api", "dangling"})
	assert.Equal(t, []interface{}{"path", "/api", "dangling"}, out)
}
