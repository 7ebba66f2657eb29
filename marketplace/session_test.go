package marketplace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/whmcsmp/browser"
	"github.com/networkteam/whmcsmp/marketplace"
)

func TestLogin_NoPostLoginSignalFailsAndClosesSession(t *testing.T) {
	// The form is present but submitting neither redirects nor reveals the
	// post-login marker, and no error banner is shown.
	page := browser.NewScriptedPage()
	page.SetField("#email", "")
	page.SetField("#password", "")
	page.SetVisible(loginSubmitSel, true)

	launcher := browser.NewScriptedLauncher(page)
	client := newClient(testConfig(), launcher)

	_, err := client.Versions(context.Background())
	require.ErrorIs(t, err, marketplace.ErrLoginFailed)
	assert.True(t, launcher.AllClosed(), "browser must be closed on login failure")
}

func TestLogin_ErrorBannerFailsWithSameResult(t *testing.T) {
	page := browser.NewScriptedPage()
	page.SetField("#email", "")
	page.SetField("#password", "")
	page.HandleClick(loginSubmitSel, func(p *browser.ScriptedPage) {
		p.SetVisible(errorBanner, true)
	})

	launcher := browser.NewScriptedLauncher(page)
	client := newClient(testConfig(), launcher)

	// The banner-present case differs from the timeout case only in logged
	// diagnostics, not in the returned failure.
	_, err := client.Versions(context.Background())
	require.ErrorIs(t, err, marketplace.ErrLoginFailed)
	assert.True(t, launcher.AllClosed())
}

func TestLogin_MarkerWithoutRedirectSucceeds(t *testing.T) {
	page := newLoginPage()
	page.HandleClick(loginSubmitSel, func(p *browser.ScriptedPage) {
		// In-place re-render: no URL change, but the logout link appears.
		p.SetVisible(`a[href*="logout"]`, true)
	})
	page.SetElements(versionCellsSel, &browser.ScriptedElement{TextContent: "Version 1.0.0"})

	launcher := browser.NewScriptedLauncher(page)
	client := newClient(testConfig(), launcher)

	versions, err := client.Versions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0"}, versions)
}

func TestLogin_InvalidProductIDFailsAfterLogin(t *testing.T) {
	for _, productID := range []string{"", "0", "12ab"} {
		page := newLoginPage()
		launcher := browser.NewScriptedLauncher(page)

		cfg := testConfig()
		cfg.ProductID = productID
		client := newClient(cfg, launcher)

		_, err := client.Versions(context.Background())
		require.ErrorIs(t, err, marketplace.ErrInvalidProductID, "product id %q", productID)
		assert.True(t, launcher.AllClosed())
	}
}

func TestLogin_MissingFormIsFatal(t *testing.T) {
	launcher := browser.NewScriptedLauncher(browser.NewScriptedPage())
	client := newClient(testConfig(), launcher)

	_, err := client.Versions(context.Background())
	require.ErrorIs(t, err, marketplace.ErrLoginFailed)
	assert.True(t, launcher.AllClosed())
}

func TestScrape_ReturnsVersionsOldestFirst(t *testing.T) {
	page := newLoginPage()
	page.SetElements(versionCellsSel,
		&browser.ScriptedElement{TextContent: "Version 1.2.0"},
		&browser.ScriptedElement{TextContent: "Version 1.1.0"},
		&browser.ScriptedElement{TextContent: "Version 1.0.0"},
	)

	launcher := browser.NewScriptedLauncher(page)
	client := newClient(testConfig(), launcher)

	versions, err := client.Versions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0", "1.1.0", "1.2.0"}, versions)
	assert.True(t, launcher.AllClosed())
}
