//go:build acceptance
// +build acceptance

// Package acceptance runs the workflows against the real marketplace.
//
// The tests only run with the acceptance build tag and marketplace
// credentials in the environment:
//
//	WHMCSMP_LOGIN=... WHMCSMP_PASSWORD=... WHMCSMP_PRODUCTID=... \
//	  go test -tags acceptance ./acceptance/...
//
// Set WHMCSMP_HEADLESS=0 to watch the browser for debugging.
package acceptance

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/whmcsmp"
	"github.com/networkteam/whmcsmp/marketplace"
)

func liveConfig(t *testing.T) marketplace.Config {
	t.Helper()

	cfg := whmcsmp.ResolveConfig(whmcsmp.EnvironMap(os.Environ()))
	if cfg.Login == "" || cfg.Password == "" || cfg.ProductID == "" {
		t.Skip("WHMCSMP_LOGIN, WHMCSMP_PASSWORD and WHMCSMP_PRODUCTID must be set for acceptance tests")
	}
	return marketplace.Config{
		BaseURL:    cfg.BaseURL,
		Login:      cfg.Login,
		Password:   cfg.Password,
		ProductID:  cfg.ProductID,
		MinVersion: cfg.MinVersion,
		Headless:   cfg.Headless,
		Timeouts:   cfg.Timeouts,
	}
}

func TestListVersions(t *testing.T) {
	client := marketplace.NewClient(liveConfig(t))

	versions, err := client.Versions(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, versions, "a listed product has at least one version")
	t.Logf("marketplace versions: %v", versions)
}

func TestLoginWithWrongPassword(t *testing.T) {
	cfg := liveConfig(t)
	cfg.Password = "definitely-not-the-password"
	client := marketplace.NewClient(cfg)

	_, err := client.Versions(context.Background())
	require.ErrorIs(t, err, marketplace.ErrLoginFailed)
}

func TestUpdateCompatibility(t *testing.T) {
	if os.Getenv("WHMCSMP_ACCEPTANCE_WRITE") == "" {
		t.Skip("set WHMCSMP_ACCEPTANCE_WRITE=1 to run workflows that change the listing")
	}
	client := marketplace.NewClient(liveConfig(t))

	require.NoError(t, client.UpdateCompatibility(context.Background()))
}
