package marketplace

import "time"

const defaultBaseURL = "https://marketplace.whmcs.com"

// The marketplace renders dates according to the browser locale. Launching
// with a fixed locale keeps the release-date string deterministic.
const (
	browserLocale    = "en-US"
	dateFormat       = "01/02/2006"
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4280.141 Safari/537.36"
)

// blockedResourceTypes are aborted on every page to reduce latency and
// rendering flakiness. The workflows only need the DOM and scripts.
var blockedResourceTypes = []string{"image", "stylesheet", "font", "other"}

// Timeouts are the per-phase waits of a session. The zero value of a field
// falls back to its default.
type Timeouts struct {
	// Navigation bounds full page loads.
	Navigation time.Duration
	// Selector bounds waits for an element to appear.
	Selector time.Duration
	// SubmitResult bounds the wait for a result banner after an action.
	SubmitResult time.Duration
	// PollInterval is the polling interval of outcome and navigation waits.
	PollInterval time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Navigation:   240 * time.Second,
		Selector:     10 * time.Second,
		SubmitResult: 10 * time.Second,
		PollInterval: 300 * time.Millisecond,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	defaults := DefaultTimeouts()
	if t.Navigation == 0 {
		t.Navigation = defaults.Navigation
	}
	if t.Selector == 0 {
		t.Selector = defaults.Selector
	}
	if t.SubmitResult == 0 {
		t.SubmitResult = defaults.SubmitResult
	}
	if t.PollInterval == 0 {
		t.PollInterval = defaults.PollInterval
	}
	return t
}

// Config is the immutable per-invocation session configuration.
type Config struct {
	// BaseURL of the marketplace. Defaults to the public site; overridable
	// for tests and staging setups.
	BaseURL string

	// Login and Password are the marketplace account credentials.
	Login    string
	Password string

	// ProductID is the numeric id of the listed product.
	ProductID string

	// MinVersion is the minimum compatible platform version ("major.minor").
	MinVersion string

	Headless bool

	// KeepOpenOnError leaves the browser open when a workflow fails, for
	// interactive debugging of the remote UI state.
	KeepOpenOnError bool

	Timeouts Timeouts
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return defaultBaseURL
}

func (c Config) loginURL() string {
	return c.baseURL() + "/user/login"
}

func (c Config) productURL() string {
	return c.baseURL() + "/product/" + c.ProductID
}

func (c Config) newVersionURL() string {
	return c.productURL() + "/versions/new"
}

func (c Config) versionsURL() string {
	return c.productURL() + "/edit#versions"
}

func (c Config) compatibilityURL() string {
	return c.productURL() + "/edit#compatibility"
}
