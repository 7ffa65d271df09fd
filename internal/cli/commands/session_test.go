package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoebot/storefront/internal/cart"
	"github.com/shoebot/storefront/internal/cli/config"
)

func savedTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg := &config.Config{
		Server:      "http://store.example:8080",
		AccessToken: "stale-token",
		Username:    "alice",
		UserID:      "u-1",
	}
	require.NoError(t, cfg.Save())
	return cfg
}

func TestRequestErrorRejectedTokenTearsDownSession(t *testing.T) {
	cfg := savedTestConfig(t)

	err := requestError(cfg, "fetch cart", cart.NewOpError(cart.OpFetch, cart.ErrUnauthorized))
	require.Error(t, err)

	reloaded, loadErr := config.Load()
	require.NoError(t, loadErr)
	assert.False(t, reloaded.IsAuthenticated(), "rejected token must be cleared from the config file")
	assert.Equal(t, "http://store.example:8080", reloaded.Server)
}

func TestRequestErrorTransportFailureKeepsSession(t *testing.T) {
	cfg := savedTestConfig(t)

	err := requestError(cfg, "fetch cart", cart.NewOpError(cart.OpFetch, cart.ErrTransport))
	require.Error(t, err)

	reloaded, loadErr := config.Load()
	require.NoError(t, loadErr)
	assert.True(t, reloaded.IsAuthenticated(), "a transport failure must not log the user out")
	assert.Equal(t, "stale-token", reloaded.AccessToken)
}
