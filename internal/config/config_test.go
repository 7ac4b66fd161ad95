package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "formedit.db", cfg.DBPath)
	require.Equal(t, "dntel-form-", cfg.KeyPrefix)
	require.Equal(t, "form-", cfg.LegacyPrefix)
	require.Equal(t, "warn", cfg.LogLevel)
	require.False(t, cfg.StrictIDs)
	require.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	require.Len(t, cfg.BridgeOptions(), 2)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FORMEDIT_DB", "/tmp/state.db")
	t.Setenv("FORMEDIT_KEY_PREFIX", "claims-")
	t.Setenv("FORMEDIT_LOG_LEVEL", "debug")
	t.Setenv("FORMEDIT_STRICT_IDS", "true")
	t.Setenv("FORMEDIT_HTTP_TIMEOUT", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/state.db", cfg.DBPath)
	require.Equal(t, "claims-", cfg.KeyPrefix)
	require.Equal(t, "debug", cfg.LogLevel)
	require.True(t, cfg.StrictIDs)
	require.Equal(t, 250*time.Millisecond, cfg.HTTPTimeout)
}

func TestLoadRejectsMalformed(t *testing.T) {
	t.Setenv("FORMEDIT_HTTP_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
}
