package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = strings.Repeat("k", MinSecretLength)

func TestFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestFromEnvRejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "12345")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least")
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_TTL", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.edu, https://b.edu,")
	t.Setenv("ADMIN_EMAIL", "  Admin@Uni.EDU ")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.edu", "https://b.edu"}, cfg.AllowedOrigins)
	assert.Equal(t, "admin@uni.edu", cfg.AdminEmail)
}

func TestFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("RATE_LIMIT_LOGIN", "soon")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_LOGIN")
}
