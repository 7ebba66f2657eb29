package browser

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Install downloads the Playwright driver and browsers if they are missing.
// It is exposed so the CLI can offer an explicit install step for CI runners.
func Install() error {
	return playwright.Install()
}

// PlaywrightLauncher launches Chromium through playwright-go.
type PlaywrightLauncher struct{}

func NewPlaywrightLauncher() *PlaywrightLauncher {
	return &PlaywrightLauncher{}
}

func (l *PlaywrightLauncher) Launch(options LaunchOptions) (Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(options.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return &playwrightBrowser{pw: pw, browser: b, options: options}, nil
}

type playwrightBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	options LaunchOptions
}

func (b *playwrightBrowser) NewPage() (Page, error) {
	contextOptions := playwright.BrowserNewContextOptions{}
	if b.options.Locale != "" {
		contextOptions.Locale = playwright.String(b.options.Locale)
	}
	if b.options.UserAgent != "" {
		contextOptions.UserAgent = playwright.String(b.options.UserAgent)
	}

	browserContext, err := b.browser.NewContext(contextOptions)
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	if len(b.options.BlockedResourceTypes) > 0 {
		blocked := make(map[string]bool, len(b.options.BlockedResourceTypes))
		for _, resourceType := range b.options.BlockedResourceTypes {
			blocked[resourceType] = true
		}
		err = page.Route("**/*", func(route playwright.Route) {
			if blocked[route.Request().ResourceType()] {
				route.Abort()
				return
			}
			route.Continue()
		})
		if err != nil {
			return nil, fmt.Errorf("installing request filter: %w", err)
		}
	}

	p := &playwrightPage{page: page}
	page.OnFrameNavigated(func(frame playwright.Frame) {
		// Only main frame navigations count as page navigations.
		if frame.ParentFrame() == nil {
			p.notifyNavigation()
		}
	})
	return p, nil
}

func (b *playwrightBrowser) Close() error {
	err := b.browser.Close()
	stopErr := b.pw.Stop()
	if err != nil {
		return err
	}
	return stopErr
}

type playwrightPage struct {
	page playwright.Page

	mu         sync.Mutex
	navPending bool
	navCh      chan struct{}
}

func (p *playwrightPage) notifyNavigation() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navPending = true
	if p.navCh != nil {
		close(p.navCh)
		p.navCh = nil
	}
}

func (p *playwrightPage) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   pwTimeout(timeout),
	})
	p.mu.Lock()
	p.navPending = false
	p.mu.Unlock()
	if err != nil {
		return mapTimeout(fmt.Errorf("goto %s: %w", url, err), err)
	}
	return nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) WaitForSelector(selector string, timeout time.Duration) error {
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: pwTimeout(timeout),
	})
	if err != nil {
		return mapTimeout(fmt.Errorf("waiting for %q: %w", selector, err), err)
	}
	return nil
}

func (p *playwrightPage) IsVisible(selector string) (bool, error) {
	return p.page.Locator(selector).First().IsVisible()
}

func (p *playwrightPage) IsDisabled(selector string) (bool, error) {
	return p.page.Locator(selector).First().IsDisabled()
}

func (p *playwrightPage) Count(selector string) (int, error) {
	return p.page.Locator(selector).Count()
}

func (p *playwrightPage) Type(selector, value string) error {
	loc := p.page.Locator(selector).First()
	if err := loc.Click(); err != nil {
		return err
	}
	if err := loc.Clear(); err != nil {
		return err
	}
	return loc.PressSequentially(value, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(30),
	})
}

func (p *playwrightPage) InputValue(selector string) (string, error) {
	return p.page.Locator(selector).First().InputValue()
}

func (p *playwrightPage) SetValue(selector, value string) error {
	_, err := p.page.Locator(selector).First().Evaluate(`(el, value) => { el.value = value }`, value)
	return err
}

func (p *playwrightPage) Click(selector string) error {
	return p.page.Locator(selector).First().Click()
}

func (p *playwrightPage) ScrollIntoView(selector string) error {
	return p.page.Locator(selector).First().ScrollIntoViewIfNeeded()
}

func (p *playwrightPage) WaitForNavigation(timeout time.Duration) error {
	p.mu.Lock()
	if p.navPending {
		p.navPending = false
		p.mu.Unlock()
		return nil
	}
	if p.navCh == nil {
		p.navCh = make(chan struct{})
	}
	ch := p.navCh
	p.mu.Unlock()

	select {
	case <-ch:
		p.mu.Lock()
		p.navPending = false
		p.mu.Unlock()
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("no navigation within %s: %w", timeout, ErrTimeout)
	}
}

func (p *playwrightPage) Elements(selector string) ([]Element, error) {
	locators, err := p.page.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	return wrapLocators(locators), nil
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}

type playwrightElement struct {
	locator playwright.Locator
}

func wrapLocators(locators []playwright.Locator) []Element {
	elements := make([]Element, len(locators))
	for i, loc := range locators {
		elements[i] = &playwrightElement{locator: loc}
	}
	return elements
}

func (e *playwrightElement) Text() (string, error) {
	return e.locator.TextContent()
}

func (e *playwrightElement) Attribute(name string) (string, error) {
	return e.locator.GetAttribute(name)
}

func (e *playwrightElement) Click() error {
	return e.locator.Click()
}

func (e *playwrightElement) ScrollIntoView() error {
	return e.locator.ScrollIntoViewIfNeeded()
}

func (e *playwrightElement) SetChecked(checked bool) error {
	return e.locator.SetChecked(checked)
}

func (e *playwrightElement) Elements(selector string) ([]Element, error) {
	locators, err := e.locator.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	return wrapLocators(locators), nil
}

func pwTimeout(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// mapTimeout keeps the detailed error but makes playwright timeouts
// recognizable as ErrTimeout for callers using errors.Is.
func mapTimeout(wrapped, original error) error {
	if errors.Is(original, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s", ErrTimeout, wrapped)
	}
	return wrapped
}
