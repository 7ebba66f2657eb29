package browser

import (
	"errors"
	"time"
)

// ErrTimeout is returned by waits that ran out of time. Callers that treat a
// missing navigation or element as non-fatal must check for it with errors.Is.
var ErrTimeout = errors.New("browser: timeout")

// LaunchOptions configure a browser launch. The zero value launches a plain
// headful browser without any request filtering.
type LaunchOptions struct {
	Headless bool

	// Locale is the browser locale (e.g. "en-US"). Fixing it keeps
	// locale-dependent form values (dates in particular) deterministic.
	Locale string

	// UserAgent overrides the browser identity string.
	UserAgent string

	// BlockedResourceTypes lists resource types (e.g. "image", "stylesheet")
	// whose fetches are aborted to reduce latency and flakiness.
	BlockedResourceTypes []string
}

// Launcher starts browser instances.
type Launcher interface {
	Launch(options LaunchOptions) (Browser, error)
}

// Browser is a running browser instance that can open pages.
type Browser interface {
	NewPage() (Page, error)
	Close() error
}

// Page is the capability a workflow needs from a browser page: navigate,
// wait, read and manipulate form fields, click, and enumerate elements.
// Implementations are not safe for concurrent use; a page is driven by a
// single workflow at a time.
//
// Navigation tracking: WaitForNavigation reports whether the page navigated
// since the last call to Goto or WaitForNavigation, waiting up to the given
// timeout. Goto resets the pending-navigation state so that earlier page
// loads are not mistaken for the result of a click.
type Page interface {
	Goto(url string, timeout time.Duration) error
	URL() string

	// WaitForSelector waits until at least one element matching selector is
	// attached to the page. Returns an error wrapping ErrTimeout when the
	// element does not appear in time.
	WaitForSelector(selector string, timeout time.Duration) error

	IsVisible(selector string) (bool, error)
	IsDisabled(selector string) (bool, error)
	Count(selector string) (int, error)

	// Type clears the field and types the value into it key by key.
	Type(selector, value string) error
	// InputValue reads the current value of a form field.
	InputValue(selector string) (string, error)
	// SetValue assigns the field value directly on the DOM property,
	// bypassing key events. Fallback for fields where typing is flaky.
	SetValue(selector, value string) error

	Click(selector string) error
	ScrollIntoView(selector string) error
	WaitForNavigation(timeout time.Duration) error

	// Elements returns all elements currently matching selector.
	Elements(selector string) ([]Element, error)

	Close() error
}

// Element is a handle to a single element, used where workflows must pick one
// of several matches (table rows, per-row action buttons, checkbox groups).
type Element interface {
	Text() (string, error)
	Attribute(name string) (string, error)
	Click() error
	ScrollIntoView() error
	SetChecked(checked bool) error
	// Elements returns the descendants of this element matching selector.
	Elements(selector string) ([]Element, error)
}
