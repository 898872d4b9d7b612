package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVsRedactsCredentials(t *testing.T) {
	out := sanitizeKVs([]interface{}{"provider", "openai", "api_key", "sk-123", "Authorization", "Bearer x"})

	assert.Equal(t, []interface{}{"provider", "openai", "api_key", "[REDACTED]", "Authorization", "[REDACTED]"}, out)
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"status", 200, "orphan"})

	assert.Equal(t, []interface{}{"status", 200, "orphan"}, out)
}

func TestLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.With("component", "relay").Warn("generation failed", "code", "GENERATION_FAILED", "api_key", "secret")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "generation failed", entries[0].Message)
		assert.Equal(t, "relay", ctx["component"])
		assert.Equal(t, "GENERATION_FAILED", ctx["code"])
		assert.Equal(t, "[REDACTED]", ctx["api_key"])
	}
}

func TestNewSelectsMode(t *testing.T) {
	prod, err := New("prod")
	assert.NoError(t, err)
	assert.False(t, prod.SugaredLogger.Desugar().Core().Enabled(zap.DebugLevel))

	dev, err := New("dev")
	assert.NoError(t, err)
	assert.True(t, dev.SugaredLogger.Desugar().Core().Enabled(zap.DebugLevel))
}
