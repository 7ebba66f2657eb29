package marketplace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/whmcsmp/browser"
	"github.com/networkteam/whmcsmp/marketplace"
)

func versionRow(label string, controls ...*browser.ScriptedElement) *browser.ScriptedElement {
	return &browser.ScriptedElement{
		TextContent: label,
		Children:    map[string][]*browser.ScriptedElement{"a, button": controls},
	}
}

func TestDeleteVersion_EmptyVersionFailsWithoutBrowserInteraction(t *testing.T) {
	launcher := browser.NewScriptedLauncher()
	client := newClient(testConfig(), launcher)

	err := client.DeleteVersion(context.Background(), "")
	require.ErrorIs(t, err, marketplace.ErrMissingVersion)
	assert.Zero(t, launcher.Launches)
}

func TestDeleteVersion_RowGoneAfterClickSequence(t *testing.T) {
	page := newLoginPage()
	page.SetVisible("div#versions", true)
	page.SetVisible(listingSubmit, true)

	keep := versionRow("Version 2.4.0", &browser.ScriptedElement{TextContent: "Delete"})
	editControl := &browser.ScriptedElement{TextContent: "Edit"}
	deleteControl := &browser.ScriptedElement{TextContent: "Delete"}
	target := versionRow("Version 2.3.0", editControl, deleteControl)
	// Deleting removes the target row; no result banner is shown, so the
	// workflow must infer success from the rescan.
	deleteControl.OnClick = func() {
		page.SetElements(versionRowsSel, keep)
		page.Navigate(testBase + "/product/4242/versions/confirm")
	}
	page.SetElements(versionRowsSel, target, keep)

	launcher := browser.NewScriptedLauncher(page)
	client := newClient(testConfig(), launcher)

	err := client.DeleteVersion(context.Background(), "2.3.0")
	require.NoError(t, err)
	assert.Equal(t, 1, deleteControl.Clicks)
	assert.Zero(t, editControl.Clicks, "only the control labeled Delete may be clicked")
	assert.True(t, launcher.AllClosed())
}

func TestDeleteVersion_RowPersistsWithoutBannerFails(t *testing.T) {
	page := newLoginPage()
	page.SetVisible("div#versions", true)
	page.SetVisible(listingSubmit, true)

	deleteControl := &browser.ScriptedElement{TextContent: "Delete"}
	page.SetElements(versionRowsSel, versionRow("Version 2.3.0", deleteControl))

	launcher := browser.NewScriptedLauncher(page)
	client := newClient(testConfig(), launcher)

	err := client.DeleteVersion(context.Background(), "2.3.0")
	require.ErrorIs(t, err, marketplace.ErrDeleteStuck)
	assert.Equal(t, 1, deleteControl.Clicks, "the non-progress guard must stop after one fruitless pass")
	assert.True(t, launcher.AllClosed())
}

func TestDeleteVersion_NoMatchingRowIsNoopSuccess(t *testing.T) {
	page := newLoginPage()
	page.SetVisible("div#versions", true)
	page.SetElements(versionRowsSel, versionRow("Version 9.9.9", &browser.ScriptedElement{TextContent: "Delete"}))

	launcher := browser.NewScriptedLauncher(page)
	client := newClient(testConfig(), launcher)

	require.NoError(t, client.DeleteVersion(context.Background(), "2.3.0"))
	assert.True(t, launcher.AllClosed())
}

func TestDeleteVersion_RemovesDuplicateRows(t *testing.T) {
	page := newLoginPage()
	page.SetVisible("div#versions", true)
	page.SetVisible(listingSubmit, true)

	second := versionRow("Version 2.3.0", &browser.ScriptedElement{TextContent: "Delete"})
	secondControl := second.Children["a, button"][0]
	secondControl.OnClick = func() {
		page.SetElements(versionRowsSel)
	}
	firstControl := &browser.ScriptedElement{TextContent: "Delete"}
	first := versionRow("Version 2.3.0", firstControl)
	firstControl.OnClick = func() {
		// A retried publish left a duplicate listing; the first deletion
		// only removes one of the rows.
		page.SetElements(versionRowsSel, second)
	}
	page.SetElements(versionRowsSel, first, second)

	launcher := browser.NewScriptedLauncher(page)
	client := newClient(testConfig(), launcher)

	require.NoError(t, client.DeleteVersion(context.Background(), "2.3.0"))
	assert.Equal(t, 1, firstControl.Clicks)
	assert.Equal(t, 1, secondControl.Clicks)
}

func TestDeleteVersion_ErrorBannerFails(t *testing.T) {
	page := newLoginPage()
	page.SetVisible("div#versions", true)
	deleteControl := &browser.ScriptedElement{TextContent: "Delete"}
	page.SetElements(versionRowsSel, versionRow("Version 2.3.0", deleteControl))
	page.HandleClick(listingSubmit, func(p *browser.ScriptedPage) {
		p.SetVisible(errorBanner, true)
	})

	launcher := browser.NewScriptedLauncher(page)
	client := newClient(testConfig(), launcher)

	err := client.DeleteVersion(context.Background(), "2.3.0")
	require.ErrorIs(t, err, marketplace.ErrDeleteRejected)
	assert.True(t, launcher.AllClosed())
}

func TestDeleteVersion_RowWithoutDeleteControlFails(t *testing.T) {
	page := newLoginPage()
	page.SetVisible("div#versions", true)
	page.SetElements(versionRowsSel, versionRow("Version 2.3.0", &browser.ScriptedElement{TextContent: "Edit"}))

	launcher := browser.NewScriptedLauncher(page)
	client := newClient(testConfig(), launcher)

	err := client.DeleteVersion(context.Background(), "2.3.0")
	require.ErrorIs(t, err, marketplace.ErrNoDeleteControl)
	assert.True(t, launcher.AllClosed())
}
