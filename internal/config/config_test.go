package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_TTL_MINUTES", "30")
	t.Setenv("RATE_LIMIT_RESOURCE", "2m")
	t.Setenv("RATE_LIMIT_COMMENT", "5s")
	t.Setenv("PORT", "9090")
	t.Setenv("FRONTEND_URL", "https://skillnest.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 2*time.Minute, cfg.RateLimitResource)
	assert.Equal(t, 5*time.Second, cfg.RateLimitComment)
	assert.Equal(t, "https://skillnest.test", cfg.FrontendURL)
	assert.Equal(t, 5*time.Minute, cfg.JobTimeout)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("JWT_TTL_MINUTES", "60")
	t.Setenv("RATE_LIMIT_RESOURCE", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_RESOURCE")
}

func TestLoadInvalidTTL(t *testing.T) {
	t.Setenv("JWT_TTL_MINUTES", "zero")

	_, err := Load()
	require.Error(t, err)
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: "http://a.test, http://b.test,,"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{AppEnv: "Production"}).IsProduction())
	assert.False(t, (&Config{AppEnv: "development"}).IsProduction())
}

func TestLoadRequiresJWTSecretInProduction(t *testing.T) {
	t.Setenv("JWT_TTL_MINUTES", "60")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "change-me")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cr3t-from-vault")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t-from-vault", cfg.JWTSecret)

	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "change-me", cfg.JWTSecret)
}
