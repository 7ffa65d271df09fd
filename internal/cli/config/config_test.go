package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearSessionDropsCredentials(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &Config{
		Server:      "http://store.example:8080",
		AccessToken: "stale-token",
		Username:    "alice",
		UserID:      "u-1",
	}
	require.NoError(t, cfg.Save())

	require.NoError(t, cfg.ClearSession())

	reloaded, err := Load()
	require.NoError(t, err)
	assert.False(t, reloaded.IsAuthenticated())
	assert.Empty(t, reloaded.AccessToken)
	assert.Empty(t, reloaded.Username)
	assert.Empty(t, reloaded.UserID)
	// The server address survives so the next login targets the same store
	assert.Equal(t, "http://store.example:8080", reloaded.Server)
}

func TestLoadReturnsDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Server)
	assert.False(t, cfg.IsAuthenticated())
}
