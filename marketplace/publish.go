package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingReleaseData is returned before any session is opened when
	// version or notes are empty.
	ErrMissingReleaseData = errors.New("marketplace: missing version or release notes")

	// ErrPublishRejected is returned when the marketplace showed an error
	// banner for the new-version form.
	ErrPublishRejected = errors.New("marketplace: publishing new product version rejected")
)

// VersionRecord is one product version to publish.
type VersionRecord struct {
	Version string
	// Notes is the changelog in markdown. Markdown links are stripped
	// before submission.
	Notes string
	// ReleaseDate of the version. The zero value means now.
	ReleaseDate time.Time
}

// PublishResult describes a published version.
type PublishResult struct {
	Name string
	URL  string
	// Verified is true when the marketplace confirmed the publish with a
	// success banner. Without a banner the publish is assumed successful
	// but unconfirmed, since no independent verification is available at
	// this step.
	Verified bool
}

// Publish lists a new product version on the marketplace and marks its
// compatible platform versions as a follow-up step (a freshly published
// version is otherwise uncategorized).
func (c *Client) Publish(ctx context.Context, rec VersionRecord) (*PublishResult, error) {
	if rec.Version == "" || rec.Notes == "" {
		return nil, ErrMissingReleaseData
	}

	lg := c.lg.With("version", rec.Version)
	lg.Info("Publishing new product version", "productID", c.cfg.ProductID)

	s, err := c.loginSession(ctx)
	if err != nil {
		return nil, err
	}
	defer s.close()

	verified, err := c.submitNewVersion(ctx, s, rec)
	if err != nil {
		s.fail()
		return nil, err
	}
	s.close()

	// The compatibility update runs in its own session so a failure there
	// cannot leave the publish form half-submitted. It does not revoke the
	// publish itself.
	if err := c.UpdateCompatibility(ctx); err != nil {
		lg.Error("Updating compatibility after publish failed", "error", err)
	}

	if verified {
		lg.Info("Publishing new product version succeeded")
	} else {
		lg.Warn("Publish not confirmed by the marketplace, assuming success")
	}
	return &PublishResult{
		Name:     "WHMCS Marketplace Product Version",
		URL:      c.cfg.productURL(),
		Verified: verified,
	}, nil
}

func (c *Client) submitNewVersion(ctx context.Context, s *session, rec VersionRecord) (verified bool, err error) {
	to := c.cfg.Timeouts

	url := c.cfg.newVersionURL()
	if err := s.page.Goto(url, to.Navigation); err != nil {
		return false, err
	}
	if err := s.page.WaitForSelector(listingSubmit, to.Selector); err != nil {
		return false, fmt.Errorf("new version form did not appear: %w", err)
	}
	s.lg.Debug("New version form loaded", "url", url)

	if _, err := RobustType(s.page, versionField, rec.Version); err != nil {
		return false, err
	}

	releaseDate := rec.ReleaseDate
	if releaseDate.IsZero() {
		releaseDate = time.Now()
	}
	if _, err := RobustType(s.page, releasedAtField, releaseDate.Format(dateFormat)); err != nil {
		return false, err
	}

	if _, err := RobustType(s.page, descriptionField, StripMarkdownLinks(rec.Notes)); err != nil {
		return false, err
	}
	s.lg.Debug("New version form filled")

	navigated, err := ClickAndWaitForResult(s.page, listingSubmit, ClickOptions{Timeout: to.Selector})
	if err != nil {
		return false, err
	}
	s.lg.Debug("New version form submitted", "navigated", navigated)

	outcome, err := AwaitOutcome(ctx, s.page, OutcomeOptions{
		Timeout:      to.SubmitResult,
		PollInterval: to.PollInterval,
	})
	if err != nil {
		return false, err
	}
	switch outcome {
	case OutcomeError:
		return false, ErrPublishRejected
	case OutcomeSuccess:
		return true, nil
	default:
		s.lg.Warn("No result banner after publishing", "outcome", outcome)
		return false, nil
	}
}
