package marketplace

import (
	"errors"
	"fmt"
	"time"

	"github.com/networkteam/whmcsmp/browser"
)

// ErrControlDisabled is returned when a control stayed disabled, which
// signals an unsatisfied form precondition rather than a transport problem.
var ErrControlDisabled = errors.New("marketplace: control is disabled")

// RobustType fills a form field and verifies the result. Direct typing is
// flaky on some marketplace fields; when the read-back value does not match,
// the value is force-set on the DOM property and read back again. The final
// observed value is returned so callers can assert on it.
func RobustType(page browser.Page, selector, value string) (string, error) {
	if err := page.Type(selector, value); err != nil {
		return "", fmt.Errorf("typing into %q: %w", selector, err)
	}
	actual, err := page.InputValue(selector)
	if err != nil {
		return "", fmt.Errorf("reading back %q: %w", selector, err)
	}
	if actual != value {
		if err := page.SetValue(selector, value); err != nil {
			return actual, fmt.Errorf("force-setting %q: %w", selector, err)
		}
		actual, err = page.InputValue(selector)
		if err != nil {
			return "", fmt.Errorf("reading back %q: %w", selector, err)
		}
	}
	return actual, nil
}

type ClickOptions struct {
	// Timeout bounds both the wait for the control and the optional
	// navigation after the click.
	// Default: 0, will use DefaultTimeouts().Selector
	Timeout time.Duration
}

// ClickAndWaitForResult waits for the control to be visible and enabled,
// scrolls it into view, clicks it and waits for an optional navigation.
// A missing navigation is not an error; the marketplace frequently reacts
// in place. Callers classify the result with AwaitOutcome afterwards.
func ClickAndWaitForResult(page browser.Page, selector string, options ClickOptions) (navigated bool, err error) {
	if options.Timeout == 0 {
		options.Timeout = DefaultTimeouts().Selector
	}

	if err := page.WaitForSelector(selector, options.Timeout); err != nil {
		return false, err
	}
	disabled, err := page.IsDisabled(selector)
	if err != nil {
		return false, err
	}
	if disabled {
		return false, fmt.Errorf("%w: %q", ErrControlDisabled, selector)
	}

	if err := page.ScrollIntoView(selector); err != nil {
		return false, err
	}
	if err := page.Click(selector); err != nil {
		return false, fmt.Errorf("clicking %q: %w", selector, err)
	}

	err = page.WaitForNavigation(options.Timeout)
	if err != nil {
		if errors.Is(err, browser.ErrTimeout) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
