// Package whmcsmp automates product listings on the WHMCS Marketplace. The
// marketplace exposes no API, so every state change is performed by driving
// a headless browser through the public web UI.
package whmcsmp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/networkteam/whmcsmp/browser"
	"github.com/networkteam/whmcsmp/marketplace"
	"github.com/networkteam/whmcsmp/releases"
)

// Pipeline exposes the release pipeline hooks. Verification state is an
// explicit field with a documented lifecycle: it is set by the first
// successful Verify of a run and cleared by the host with Reset between
// releases. A Pipeline is not safe for concurrent use.
type Pipeline struct {
	cfg    Config
	lg     *slog.Logger
	client *marketplace.Client
	lister marketplace.ReleaseLister

	verified bool
}

type PipelineOptions struct {
	// Logger for all hooks and workflows.
	// Default: nil, will use slog.Default()
	Logger *slog.Logger

	// Launcher creates browser instances.
	// Default: nil, will use browser.NewPlaywrightLauncher()
	Launcher browser.Launcher

	// Lister provides the upstream releases for SyncVersions.
	// Default: nil, will use releases.NewGitHubLister with the configured
	// repository and token
	Lister marketplace.ReleaseLister
}

// NewPipeline creates a pipeline with default options.
func NewPipeline(cfg Config) *Pipeline {
	return NewPipelineWithOptions(cfg, PipelineOptions{})
}

// NewPipelineWithOptions creates a pipeline with the specified options.
func NewPipelineWithOptions(cfg Config, options PipelineOptions) *Pipeline {
	lg := options.Logger
	if lg == nil {
		lg = slog.Default()
	}
	client := marketplace.NewClientWithOptions(cfg.marketplaceConfig(), marketplace.ClientOptions{
		Launcher: options.Launcher,
		Logger:   lg,
	})
	return &Pipeline{
		cfg:    cfg,
		lg:     lg,
		client: client,
		lister: options.Lister,
	}
}

// Verify checks the configuration and records success, so later hooks in the
// same run skip re-verification. It returns the aggregate
// *VerificationError of all violated conditions.
func (p *Pipeline) Verify() error {
	if p.verified {
		return nil
	}
	if err := Verify(p.cfg); err != nil {
		return err
	}
	p.verified = true
	return nil
}

// Reset clears the verification state. Hosts call it between releases.
func (p *Pipeline) Reset() {
	p.verified = false
}

// Publish lists a new product version on the marketplace.
func (p *Pipeline) Publish(ctx context.Context, rec marketplace.VersionRecord) (*marketplace.PublishResult, error) {
	if err := p.Verify(); err != nil {
		return nil, err
	}
	return p.client.Publish(ctx, rec)
}

// DeleteVersion removes a listed product version from the marketplace.
func (p *Pipeline) DeleteVersion(ctx context.Context, version string) error {
	if err := p.Verify(); err != nil {
		return err
	}
	return p.client.DeleteVersion(ctx, version)
}

// UpdateCompatibility recomputes the compatible platform versions from the
// configured minimum version.
func (p *Pipeline) UpdateCompatibility(ctx context.Context) error {
	if err := p.Verify(); err != nil {
		return err
	}
	return p.client.UpdateCompatibility(ctx)
}

// SyncVersions publishes all upstream releases missing from the marketplace.
func (p *Pipeline) SyncVersions(ctx context.Context) error {
	if err := p.Verify(); err != nil {
		return err
	}
	lister := p.lister
	if lister == nil {
		if p.cfg.GitHubRepo == "" {
			return fmt.Errorf("no GitHub repository configured, set GH_REPO")
		}
		var err error
		lister, err = releases.NewGitHubListerWithOptions(p.cfg.GitHubRepo, p.cfg.GitHubToken, releases.GitHubListerOptions{
			Logger: p.lg,
		})
		if err != nil {
			return err
		}
	}
	return p.client.SyncVersions(ctx, lister)
}
