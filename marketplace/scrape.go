package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Versions scrapes the product versions currently listed on the marketplace
// and returns them oldest first (the listing shows newest first).
func (c *Client) Versions(ctx context.Context) ([]string, error) {
	c.lg.Info("Scraping marketplace versions", "productID", c.cfg.ProductID)

	s, err := c.loginSession(ctx)
	if err != nil {
		return nil, err
	}
	defer s.close()

	versions, err := c.scrapeVersionLabels(s)
	if err != nil {
		s.fail()
		return nil, err
	}
	for _, version := range versions {
		c.lg.Debug("Detected marketplace version", "version", version)
	}
	return versions, nil
}

func (c *Client) scrapeVersionLabels(s *session) ([]string, error) {
	to := c.cfg.Timeouts

	if err := s.page.Goto(c.cfg.versionsURL(), to.Navigation); err != nil {
		return nil, err
	}
	if err := s.page.WaitForSelector(versionLabels, to.Selector); err != nil {
		return nil, fmt.Errorf("version table did not appear: %w", err)
	}

	cells, err := s.page.Elements(versionLabels)
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(cells))
	for _, cell := range cells {
		text, err := cell.Text()
		if err != nil {
			return nil, err
		}
		versions = append(versions, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), versionLabelPrefix)))
	}
	return lo.Reverse(versions), nil
}
