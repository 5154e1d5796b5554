package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "strict", cfg.ContactValidationMode)
	assert.True(t, cfg.ContactCORSEnabled)
}

func TestNewAppConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "7")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("CONTACT_VALIDATION_MODE", "permissive")
	t.Setenv("CONTACT_CORS_ENABLED", "false")

	cfg, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, "permissive", cfg.ContactValidationMode)
	assert.False(t, cfg.ContactCORSEnabled)
}

func TestNewAppConfig_NormalizesValidationMode(t *testing.T) {
	for raw, want := range map[string]string{" Permissive ": "permissive", "STRICT": "strict"} {
		t.Setenv("CONTACT_VALIDATION_MODE", raw)

		cfg, err := NewAppConfig()
		require.NoError(t, err, raw)
		assert.Equal(t, want, cfg.ContactValidationMode)
	}
}

func TestNewAppConfig_RejectsUnknownValidationMode(t *testing.T) {
	t.Setenv("CONTACT_VALIDATION_MODE", "lenient")

	_, err := NewAppConfig()
	assert.ErrorContains(t, err, "invalid app config")
}

func TestNewAppConfig_RejectsMalformedDuration(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := NewAppConfig()
	assert.ErrorContains(t, err, "parse app config")
}

func TestNewAppConfig_RejectsNonPositiveLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "0")

	_, err := NewAppConfig()
	assert.Error(t, err)
}
