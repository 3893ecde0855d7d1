package config

import (
	"errors"
	"testing"
	"time"

	"github.com/oranjParker/mlapi/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"HOST", "HTTP_PORT", "PORT", "GRPC_PORT", "MAX_CONNECTIONS",
		"PROCESSING_DELAY", "SCRAPE_CALLBACK_URL", "CALLBACK_TIMEOUT",
		"NATS_URL", "NATS_SUBJECT", "REDIS_URL", "REDIS_CHANNEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.HTTPPort)
	assert.Equal(t, ":5001", cfg.Addr())
	assert.Equal(t, "", cfg.GRPCPort)
	assert.Equal(t, "http://127.0.0.1:8000/scrape", cfg.ScrapeCallbackURL)
	assert.Equal(t, 2*time.Second, cfg.ProcessingDelay)
	assert.Equal(t, 5*time.Second, cfg.CallbackTimeout)
	assert.Equal(t, 256, cfg.MaxConnections)
	assert.Equal(t, "scrape.completed", cfg.NatsSubject)
	assert.Equal(t, "mlapi:scrape", cfg.RedisChannel)
	assert.Empty(t, cfg.NatsURL)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("HTTP_PORT", "6001")
	t.Setenv("GRPC_PORT", "50051")
	t.Setenv("PROCESSING_DELAY", "0s")
	t.Setenv("CALLBACK_TIMEOUT", "250ms")
	t.Setenv("SCRAPE_CALLBACK_URL", "http://node.internal:8000/scrape")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:6001", cfg.Addr())
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.Equal(t, time.Duration(0), cfg.ProcessingDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.CallbackTimeout)
	assert.Equal(t, "http://node.internal:8000/scrape", cfg.ScrapeCallbackURL)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
}

func TestLoadPortFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7001", cfg.HTTPPort)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad delay", "PROCESSING_DELAY", "soon"},
		{"negative delay", "PROCESSING_DELAY", "-1s"},
		{"zero timeout", "CALLBACK_TIMEOUT", "0s"},
		{"bad port", "HTTP_PORT", "http"},
		{"bad grpc port", "GRPC_PORT", "grpc"},
		{"bad max connections", "MAX_CONNECTIONS", "many"},
		{"zero max connections", "MAX_CONNECTIONS", "0"},
		{"relative callback", "SCRAPE_CALLBACK_URL", "/scrape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.key, cfgErr.Field)
			assert.True(t, errors.Is(err, core.ErrInvalidConfig))
		})
	}
}
