package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/networkteam/whmcsmp/browser"
)

var (
	// ErrMissingVersion is returned before any session is opened when the
	// version label is empty.
	ErrMissingVersion = errors.New("marketplace: missing version")

	// ErrNoDeleteControl is returned when the matching row has no control
	// labeled exactly "Delete".
	ErrNoDeleteControl = errors.New("marketplace: no delete control in version row")

	// ErrDeleteRejected is returned when the marketplace showed an error
	// banner for the deletion.
	ErrDeleteRejected = errors.New("marketplace: deleting product version rejected")

	// ErrDeleteStuck is returned when a deletion pass did not reduce the
	// row count although the target row is still present.
	ErrDeleteStuck = errors.New("marketplace: version row persists after deletion")
)

// maxDeletePasses bounds the delete-until-gone loop. Retried publishes can
// leave duplicate listings, so a single pass is not enough; the bound and
// the non-progress check keep persistent UI state from spinning forever.
const maxDeletePasses = 3

// DeleteVersion removes every listed row of the given version label from the
// marketplace. Deleting a version that is not listed is a no-op success,
// which makes the operation safe to invoke repeatedly.
func (c *Client) DeleteVersion(ctx context.Context, version string) error {
	if version == "" {
		return ErrMissingVersion
	}

	lg := c.lg.With("version", version)
	lg.Info("Deleting product version", "productID", c.cfg.ProductID)

	s, err := c.loginSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if err := c.deleteAllRows(ctx, s, version); err != nil {
		s.fail()
		return err
	}
	lg.Info("Deleting product version succeeded")
	return nil
}

func (c *Client) deleteAllRows(ctx context.Context, s *session, version string) error {
	to := c.cfg.Timeouts
	label := versionLabelPrefix + version
	previousCount := -1

	for pass := 0; pass < maxDeletePasses; pass++ {
		if err := s.page.Goto(c.cfg.versionsURL(), to.Navigation); err != nil {
			return err
		}
		if err := s.page.WaitForSelector(versionsContainer, to.Selector); err != nil {
			return fmt.Errorf("version list did not appear: %w", err)
		}

		rows, err := s.page.Elements(versionRows)
		if err != nil {
			return err
		}
		row, err := findVersionRow(rows, label)
		if err != nil {
			return err
		}
		if row == nil {
			// No matching row left: done. This is also the fallback
			// verification after a deletion without a result banner.
			return nil
		}
		if previousCount >= 0 && len(rows) >= previousCount {
			return fmt.Errorf("%w: %q", ErrDeleteStuck, version)
		}
		previousCount = len(rows)

		if err := c.deleteRow(ctx, s, row); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %q still listed after %d passes", ErrDeleteStuck, version, maxDeletePasses)
}

func (c *Client) deleteRow(ctx context.Context, s *session, row browser.Element) error {
	to := c.cfg.Timeouts

	control, err := findDeleteControl(row)
	if err != nil {
		return err
	}
	if control == nil {
		return ErrNoDeleteControl
	}

	if err := control.ScrollIntoView(); err != nil {
		return err
	}
	if err := control.Click(); err != nil {
		return fmt.Errorf("clicking delete control: %w", err)
	}
	// The delete control usually navigates to a confirmation form, but a
	// missing navigation is not fatal.
	if err := s.page.WaitForNavigation(to.Selector); err != nil && !errors.Is(err, browser.ErrTimeout) {
		return err
	}

	if err := s.page.WaitForSelector(listingSubmit, to.Selector); err != nil {
		return fmt.Errorf("confirmation form did not appear: %w", err)
	}
	if _, err := ClickAndWaitForResult(s.page, listingSubmit, ClickOptions{Timeout: to.Selector}); err != nil {
		return err
	}
	s.lg.Debug("Deletion confirmed")

	outcome, err := AwaitOutcome(ctx, s.page, OutcomeOptions{
		Timeout:      to.SubmitResult,
		PollInterval: to.PollInterval,
	})
	if err != nil {
		return err
	}
	if outcome == OutcomeError {
		return ErrDeleteRejected
	}
	// Success and none both fall through to the next row scan: deletions
	// often complete without any banner, so presence of the row is the
	// only reliable signal either way.
	s.lg.Debug("Deletion submitted", "outcome", outcome.String())
	return nil
}

// findVersionRow returns the first row whose text contains the label, or nil.
func findVersionRow(rows []browser.Element, label string) (browser.Element, error) {
	for _, row := range rows {
		text, err := row.Text()
		if err != nil {
			return nil, err
		}
		if strings.Contains(text, label) {
			return row, nil
		}
	}
	return nil, nil
}

// findDeleteControl locates the delete control within a row by its exact
// text. Rows carry multiple action buttons; matching on a style class would
// risk acting on the wrong one.
func findDeleteControl(row browser.Element) (browser.Element, error) {
	controls, err := row.Elements(rowActionControls)
	if err != nil {
		return nil, err
	}
	for _, control := range controls {
		text, err := control.Text()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == deleteControlText {
			return control, nil
		}
	}
	return nil, nil
}
