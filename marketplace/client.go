package marketplace

import (
	"log/slog"

	"github.com/networkteam/whmcsmp/browser"
)

// Client runs workflows against the marketplace. Each workflow invocation
// opens its own browser session and closes it before returning; sessions are
// never shared or pooled.
type Client struct {
	cfg      Config
	launcher browser.Launcher
	lg       *slog.Logger
}

type ClientOptions struct {
	// Launcher creates browser instances.
	// Default: nil, will use browser.NewPlaywrightLauncher()
	Launcher browser.Launcher

	// Logger for workflow diagnostics.
	// Default: nil, will use slog.Default()
	Logger *slog.Logger
}

// NewClient creates a client with default options.
func NewClient(cfg Config) *Client {
	return NewClientWithOptions(cfg, ClientOptions{})
}

// NewClientWithOptions creates a client with the specified options.
func NewClientWithOptions(cfg Config, options ClientOptions) *Client {
	launcher := options.Launcher
	if launcher == nil {
		launcher = browser.NewPlaywrightLauncher()
	}
	lg := options.Logger
	if lg == nil {
		lg = slog.Default()
	}
	cfg.Timeouts = cfg.Timeouts.withDefaults()
	return &Client{
		cfg:      cfg,
		launcher: launcher,
		lg:       lg,
	}
}
