package marketplace

import (
	"context"
	"strings"
	"time"

	"github.com/networkteam/whmcsmp/browser"
)

// Outcome classifies the visible effect of a remote action. The marketplace
// sometimes navigates after an action and sometimes renders an in-place
// banner without navigating, so neither navigation nor the absence of an
// error can be trusted on its own.
type Outcome int

const (
	// OutcomeNone means neither banner appeared within the timeout. Not an
	// error by itself; each workflow defines its own fallback check.
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	default:
		return "none"
	}
}

type OutcomeOptions struct {
	// Timeout bounds the wait for a result banner.
	// Default: 0, will use DefaultTimeouts().SubmitResult
	Timeout time.Duration
	// PollInterval between banner checks.
	// Default: 0, will use DefaultTimeouts().PollInterval
	PollInterval time.Duration
}

// AwaitOutcome waits for the first of the two mutually exclusive result
// banners to appear and returns the corresponding outcome, or OutcomeNone
// when the timeout elapses with neither present.
func AwaitOutcome(ctx context.Context, page browser.Page, options OutcomeOptions) (Outcome, error) {
	if options.Timeout == 0 {
		options.Timeout = DefaultTimeouts().SubmitResult
	}
	if options.PollInterval == 0 {
		options.PollInterval = DefaultTimeouts().PollInterval
	}

	deadline := time.Now().Add(options.Timeout)
	for {
		if success, err := page.IsVisible(successBanner); err != nil {
			return OutcomeNone, err
		} else if success {
			return OutcomeSuccess, nil
		}
		if failure, err := page.IsVisible(errorBanner); err != nil {
			return OutcomeNone, err
		} else if failure {
			return OutcomeError, nil
		}

		if time.Now().After(deadline) {
			return OutcomeNone, nil
		}
		select {
		case <-ctx.Done():
			return OutcomeNone, ctx.Err()
		case <-time.After(options.PollInterval):
		}
	}
}

type NavigationOrSelectorOptions struct {
	// URLFragment completes the wait when the current URL contains it.
	URLFragment string
	// Selector completes the wait when a matching element exists.
	Selector string
	// Timeout bounds the whole wait.
	// Default: 0, will use DefaultTimeouts().Selector
	Timeout time.Duration
	// PollInterval between checks.
	// Default: 0, will use DefaultTimeouts().PollInterval
	PollInterval time.Duration
}

type NavigationOrSelectorResult struct {
	Redirected    bool
	SelectorFound bool
	// URL is the page URL at the end of the wait.
	URL string
}

// AwaitNavigationOrSelector polls until the page URL contains the target
// fragment or the marker element exists, whichever comes first. Used where
// no banner convention applies (login in particular). Running out the
// timeout is not an error; the zero result reports that neither signal
// appeared.
func AwaitNavigationOrSelector(ctx context.Context, page browser.Page, options NavigationOrSelectorOptions) (NavigationOrSelectorResult, error) {
	if options.Timeout == 0 {
		options.Timeout = DefaultTimeouts().Selector
	}
	if options.PollInterval == 0 {
		options.PollInterval = DefaultTimeouts().PollInterval
	}

	deadline := time.Now().Add(options.Timeout)
	res := NavigationOrSelectorResult{}
	for {
		res.URL = page.URL()
		if options.URLFragment != "" && strings.Contains(res.URL, options.URLFragment) {
			res.Redirected = true
			return res, nil
		}
		if options.Selector != "" {
			count, err := page.Count(options.Selector)
			if err != nil {
				return res, err
			}
			if count > 0 {
				res.SelectorFound = true
				res.URL = page.URL()
				return res, nil
			}
		}

		if time.Now().After(deadline) {
			return res, nil
		}
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-time.After(options.PollInterval):
		}
	}
}
