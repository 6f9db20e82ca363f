package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, 10, cfg.DBConnectRetries)
	assert.Equal(t, 5*time.Second, cfg.DBConnectDelay)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 1000, cfg.LLMMaxTokens)
	assert.False(t, cfg.StorageEnabled())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("LLM_MODEL", "llama-3.3-70b-versatile")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLMModel)
	assert.True(t, cfg.StorageEnabled())
}

func TestParseRejectsBadDuration(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "thirty")

	_, err := Parse()
	assert.Error(t, err)
}
