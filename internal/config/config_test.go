package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE", "")
	t.Setenv("REQUEST_TIMEOUT_MS", "")
	cfg := Load()
	require.Equal(t, "sqlite", cfg.Storage)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
	require.Equal(t, "none", cfg.IdempotencyBackend)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORAGE", "pg")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("POLICY_FILE", "/etc/txboundary/policies.yaml")
	cfg := Load()
	require.Equal(t, "pg", cfg.Storage)
	require.Equal(t, 0, cfg.RedisDB)
	require.Equal(t, "/etc/txboundary/policies.yaml", cfg.PolicyFile)
}
