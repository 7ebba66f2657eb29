package marketplace_test

import (
	"io"
	"log/slog"
	"time"

	"github.com/networkteam/whmcsmp/browser"
	"github.com/networkteam/whmcsmp/marketplace"
)

const (
	testBase        = "https://mp.test"
	loginSubmitSel  = `div.login-leftcol form button[type="submit"]`
	listingSubmit   = `div.listing-edit-container form button[type="submit"]`
	compatCheckbox  = `input[name="versionIds[]"]`
	compatSubmitSel = `div#compatibility button[type="submit"]`
	versionRowsSel  = "div#versions tr"
	versionCellsSel = "div#versions tr strong"
	successBanner   = ".alert-success"
	errorBanner     = ".alert-danger"
)

// testConfig uses short timeouts so negative waits do not slow the suite.
func testConfig() marketplace.Config {
	return marketplace.Config{
		BaseURL:    testBase,
		Login:      "jane@example.com",
		Password:   "secret",
		ProductID:  "4242",
		MinVersion: "7.10",
		Timeouts: marketplace.Timeouts{
			Navigation:   200 * time.Millisecond,
			Selector:     50 * time.Millisecond,
			SubmitResult: 50 * time.Millisecond,
			PollInterval: 5 * time.Millisecond,
		},
	}
}

func newClient(cfg marketplace.Config, launcher browser.Launcher) *marketplace.Client {
	return marketplace.NewClientWithOptions(cfg, marketplace.ClientOptions{
		Launcher: launcher,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// newLoginPage scripts a page on which the login workflow succeeds: the
// credential form is present and submitting it redirects into the
// authenticated area.
func newLoginPage() *browser.ScriptedPage {
	p := browser.NewScriptedPage()
	p.SetField("#email", "")
	p.SetField("#password", "")
	p.HandleClick(loginSubmitSel, func(p *browser.ScriptedPage) {
		p.Navigate(testBase + "/user/dashboard")
	})
	return p
}

// newCompatibilityPage scripts a page for a successful compatibility update.
func newCompatibilityPage(checkboxes ...*browser.ScriptedElement) *browser.ScriptedPage {
	p := newLoginPage()
	p.SetElements(compatCheckbox, checkboxes...)
	p.HandleClick(compatSubmitSel, func(p *browser.ScriptedPage) {
		p.SetVisible(successBanner, true)
	})
	return p
}

func checkbox(class string) *browser.ScriptedElement {
	return &browser.ScriptedElement{
		Attrs: map[string]string{"class": class},
	}
}
