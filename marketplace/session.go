package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/gofrs/uuid"

	"github.com/networkteam/whmcsmp/browser"
)

var (
	// ErrLoginFailed is returned when the marketplace did not accept the
	// login or never showed a post-login signal.
	ErrLoginFailed = errors.New("marketplace: login failed")

	// ErrInvalidProductID is returned when the configured product id is not
	// a non-zero number. Checked after login: it is about target validity,
	// not credential validity.
	ErrInvalidProductID = errors.New("marketplace: invalid product id")
)

var productIDPattern = regexp.MustCompile(`^[0-9]+$`)

// session owns one browser instance and one page for the duration of a
// single workflow invocation. It is closed exactly once on every exit path.
type session struct {
	id      uuid.UUID
	cfg     Config
	lg      *slog.Logger
	browser browser.Browser
	page    browser.Page

	closed bool
	failed bool
}

// openSession launches a browser with automation-stable settings and binds a
// fresh page to the session.
func (c *Client) openSession(ctx context.Context) (*session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.Must(uuid.NewV7())
	lg := c.lg.With("session", id)

	b, err := c.launcher.Launch(browser.LaunchOptions{
		Headless:             c.cfg.Headless,
		Locale:               browserLocale,
		UserAgent:            browserUserAgent,
		BlockedResourceTypes: blockedResourceTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("opening session: %w", err)
	}

	page, err := b.NewPage()
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	lg.Debug("Session opened")
	return &session{
		id:      id,
		cfg:     c.cfg,
		lg:      lg,
		browser: b,
		page:    page,
	}, nil
}

// loginSession opens a session and logs in. On login failure the session is
// already closed when the error is returned.
func (c *Client) loginSession(ctx context.Context) (*session, error) {
	s, err := c.openSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.login(ctx); err != nil {
		s.fail()
		s.close()
		return nil, err
	}
	return s, nil
}

// login performs the one login attempt of this session. Retries belong to
// the outer pipeline, never to the session.
func (s *session) login(ctx context.Context) error {
	to := s.cfg.Timeouts

	if err := s.page.Goto(s.cfg.loginURL(), to.Navigation); err != nil {
		return fmt.Errorf("%w: %s", ErrLoginFailed, err)
	}
	for _, selector := range []string{emailField, passwordField, loginSubmit} {
		if err := s.page.WaitForSelector(selector, to.Selector); err != nil {
			return fmt.Errorf("%w: login form did not appear: %s", ErrLoginFailed, err)
		}
	}
	s.lg.Debug("Login form loaded", "url", s.cfg.loginURL())

	if _, err := RobustType(s.page, emailField, s.cfg.Login); err != nil {
		return fmt.Errorf("%w: %s", ErrLoginFailed, err)
	}
	if _, err := RobustType(s.page, passwordField, s.cfg.Password); err != nil {
		return fmt.Errorf("%w: %s", ErrLoginFailed, err)
	}

	if _, err := ClickAndWaitForResult(s.page, loginSubmit, ClickOptions{Timeout: to.Selector}); err != nil {
		return fmt.Errorf("%w: %s", ErrLoginFailed, err)
	}

	// The site either redirects into the authenticated area or re-renders
	// in place; race the URL against the post-login marker.
	res, err := AwaitNavigationOrSelector(ctx, s.page, NavigationOrSelectorOptions{
		URLFragment:  authenticatedPath,
		Selector:     loggedInMarker,
		Timeout:      to.SubmitResult,
		PollInterval: to.PollInterval,
	})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrLoginFailed, err)
	}
	if !res.Redirected && !res.SelectorFound {
		// Distinguish a rejected login from a dead page in the logs only;
		// the caller sees the same failure either way.
		if bannerShown, _ := s.page.IsVisible(errorBanner); bannerShown {
			s.lg.Error("Login rejected by the marketplace", "url", res.URL)
		} else {
			s.lg.Error("No post-login signal within timeout", "url", res.URL)
		}
		return ErrLoginFailed
	}
	s.lg.Info("Logged in to marketplace", "url", res.URL)

	if !productIDPattern.MatchString(s.cfg.ProductID) {
		return fmt.Errorf("%w: %q", ErrInvalidProductID, s.cfg.ProductID)
	}
	if id, err := strconv.Atoi(s.cfg.ProductID); err != nil || id == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidProductID, s.cfg.ProductID)
	}
	return nil
}

// fail marks the session as failed, which lets the keep-open debug flag
// suppress the browser teardown in close.
func (s *session) fail() {
	s.failed = true
}

// close releases the browser exactly once. Errors are swallowed: teardown
// must never mask the workflow result.
func (s *session) close() {
	if s.closed {
		return
	}
	s.closed = true

	if s.failed && s.cfg.KeepOpenOnError {
		s.lg.Warn("Keeping browser open after failure (debug flag set)")
		return
	}
	if err := s.browser.Close(); err != nil {
		s.lg.Debug("Closing browser failed", "error", err)
	}
	s.lg.Debug("Session closed")
}
