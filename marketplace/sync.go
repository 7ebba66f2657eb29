package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
)

// Release is one upstream release of the product.
type Release struct {
	// Tag is the release tag, conventionally prefixed with a single
	// character (e.g. "v1.2.3").
	Tag string
	// Notes is the release body in markdown.
	Notes       string
	PublishedAt time.Time
}

// Version is the marketplace version the tag maps to: the tag with its
// one-character prefix stripped.
func (r Release) Version() string {
	if len(r.Tag) > 0 {
		return r.Tag[1:]
	}
	return ""
}

// ReleaseLister lists the upstream releases of the product, newest first.
type ReleaseLister interface {
	ListReleases(ctx context.Context) ([]Release, error)
}

// SyncVersions publishes every upstream release that is not yet listed on
// the marketplace, oldest first. Each missing release is attempted
// independently; one failed publish does not abort the remaining ones.
func (c *Client) SyncVersions(ctx context.Context, lister ReleaseLister) error {
	releases, err := lister.ListReleases(ctx)
	if err != nil {
		return fmt.Errorf("listing upstream releases: %w", err)
	}

	listed, err := c.Versions(ctx)
	if err != nil {
		return fmt.Errorf("scraping marketplace versions: %w", err)
	}

	missing := lo.Filter(lo.Reverse(releases), func(r Release, _ int) bool {
		return !lo.Contains(listed, r.Version())
	})
	if len(missing) == 0 {
		c.lg.Info("Marketplace is up to date", "releases", len(releases))
		return nil
	}

	var failed int
	for _, release := range missing {
		c.lg.Info("Adding missing version", "version", release.Version())
		_, err := c.Publish(ctx, VersionRecord{
			Version:     release.Version(),
			Notes:       release.Notes,
			ReleaseDate: release.PublishedAt,
		})
		if err != nil {
			c.lg.Error("Publishing missing version failed", "version", release.Version(), "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("sync: %d of %d missing versions failed to publish", failed, len(missing))
	}
	return nil
}
