package marketplace_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/whmcsmp/browser"
	"github.com/networkteam/whmcsmp/marketplace"
)

func outcomeOptions() marketplace.OutcomeOptions {
	return marketplace.OutcomeOptions{
		Timeout:      50 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	}
}

func TestAwaitOutcome_SuccessBanner(t *testing.T) {
	page := browser.NewScriptedPage()
	page.SetVisible(successBanner, true)

	outcome, err := marketplace.AwaitOutcome(context.Background(), page, outcomeOptions())
	require.NoError(t, err)
	assert.Equal(t, marketplace.OutcomeSuccess, outcome)
}

func TestAwaitOutcome_ErrorBanner(t *testing.T) {
	page := browser.NewScriptedPage()
	page.SetVisible(errorBanner, true)

	outcome, err := marketplace.AwaitOutcome(context.Background(), page, outcomeOptions())
	require.NoError(t, err)
	assert.Equal(t, marketplace.OutcomeError, outcome)
}

func TestAwaitOutcome_LateBanner(t *testing.T) {
	page := browser.NewScriptedPage()
	go func() {
		time.Sleep(15 * time.Millisecond)
		page.SetVisible(successBanner, true)
	}()

	outcome, err := marketplace.AwaitOutcome(context.Background(), page, outcomeOptions())
	require.NoError(t, err)
	assert.Equal(t, marketplace.OutcomeSuccess, outcome)
}

func TestAwaitOutcome_NoBannerIsNone(t *testing.T) {
	page := browser.NewScriptedPage()

	outcome, err := marketplace.AwaitOutcome(context.Background(), page, outcomeOptions())
	require.NoError(t, err)
	assert.Equal(t, marketplace.OutcomeNone, outcome)
}

func TestAwaitOutcome_ContextCancellation(t *testing.T) {
	page := browser.NewScriptedPage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := marketplace.AwaitOutcome(ctx, page, marketplace.OutcomeOptions{
		Timeout:      time.Minute,
		PollInterval: 5 * time.Millisecond,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestAwaitNavigationOrSelector_Redirect(t *testing.T) {
	page := browser.NewScriptedPage()
	page.SetURL(testBase + "/user/dashboard")

	res, err := marketplace.AwaitNavigationOrSelector(context.Background(), page, marketplace.NavigationOrSelectorOptions{
		URLFragment:  "/user/dashboard",
		Selector:     "#marker",
		Timeout:      50 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.True(t, res.Redirected)
	assert.False(t, res.SelectorFound)
	assert.Equal(t, testBase+"/user/dashboard", res.URL)
}

func TestAwaitNavigationOrSelector_Marker(t *testing.T) {
	page := browser.NewScriptedPage()
	page.SetURL(testBase + "/user/login")
	go func() {
		time.Sleep(15 * time.Millisecond)
		page.SetVisible("#marker", true)
	}()

	res, err := marketplace.AwaitNavigationOrSelector(context.Background(), page, marketplace.NavigationOrSelectorOptions{
		URLFragment:  "/user/dashboard",
		Selector:     "#marker",
		Timeout:      time.Second,
		PollInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.False(t, res.Redirected)
	assert.True(t, res.SelectorFound)
}

func TestAwaitNavigationOrSelector_Timeout(t *testing.T) {
	page := browser.NewScriptedPage()
	page.SetURL(testBase + "/user/login")

	res, err := marketplace.AwaitNavigationOrSelector(context.Background(), page, marketplace.NavigationOrSelectorOptions{
		URLFragment:  "/user/dashboard",
		Selector:     "#marker",
		Timeout:      30 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.False(t, res.Redirected)
	assert.False(t, res.SelectorFound)
}
