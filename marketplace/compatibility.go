package marketplace

import (
	"context"
	"errors"
	"fmt"
)

// ErrCompatibilityRejected is returned when the marketplace showed an error
// banner for the compatibility form.
var ErrCompatibilityRejected = errors.New("marketplace: updating compatibility list rejected")

// UpdateCompatibility marks every platform version at or above the
// configured minimum version as compatible and everything below as
// incompatible, then submits the compatibility form.
func (c *Client) UpdateCompatibility(ctx context.Context) error {
	lg := c.lg.With("minVersion", c.cfg.MinVersion)
	lg.Info("Updating compatibility list", "productID", c.cfg.ProductID)

	s, err := c.loginSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if err := c.submitCompatibility(ctx, s); err != nil {
		s.fail()
		return err
	}
	lg.Info("Updating compatibility list succeeded")
	return nil
}

func (c *Client) submitCompatibility(ctx context.Context, s *session) error {
	to := c.cfg.Timeouts

	url := c.cfg.compatibilityURL()
	if err := s.page.Goto(url, to.Navigation); err != nil {
		return err
	}
	if err := s.page.WaitForSelector(compatCheckboxes, to.Selector); err != nil {
		return fmt.Errorf("compatibility checkboxes did not appear: %w", err)
	}
	if err := s.page.WaitForSelector(compatSubmit, to.Selector); err != nil {
		return fmt.Errorf("compatibility submit did not appear: %w", err)
	}
	s.lg.Debug("Compatibility editor loaded", "url", url)

	minVersion := ParseMajorMinor(c.cfg.MinVersion)
	checkboxes, err := s.page.Elements(compatCheckboxes)
	if err != nil {
		return err
	}
	for _, checkbox := range checkboxes {
		class, err := checkbox.Attribute("class")
		if err != nil {
			return err
		}
		version := parseCheckboxVersion(class)
		if err := checkbox.SetChecked(version.AtLeast(minVersion)); err != nil {
			return fmt.Errorf("setting checkbox %q: %w", class, err)
		}
	}
	s.lg.Debug("Compatibility selection computed", "checkboxes", len(checkboxes))

	navigated, err := ClickAndWaitForResult(s.page, compatSubmit, ClickOptions{Timeout: to.Selector})
	if err != nil {
		return err
	}
	s.lg.Debug("Compatibility form submitted", "navigated", navigated)

	outcome, err := AwaitOutcome(ctx, s.page, OutcomeOptions{
		Timeout:      to.SubmitResult,
		PollInterval: to.PollInterval,
	})
	if err != nil {
		return err
	}
	if outcome == OutcomeError {
		return ErrCompatibilityRejected
	}
	if outcome == OutcomeNone {
		s.lg.Warn("No result banner after compatibility update, assuming success")
	}
	return nil
}
