package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("HOMEHERO_API_URL", "")
	t.Setenv("API_TIMEOUT", "")
	t.Setenv("SESSION_STORE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 2*time.Hour, cfg.LeadTime)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.True(t, cfg.IsTest())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("HOMEHERO_API_URL", "https://api.example.com/api/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_RejectsUnknownStore(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("SESSION_STORE", "cookie")

	_, err := Load()
	assert.Error(t, err)
}
