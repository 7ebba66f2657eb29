package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"

	"github.com/networkteam/whmcsmp"
	"github.com/networkteam/whmcsmp/browser"
	"github.com/networkteam/whmcsmp/marketplace"
)

const debugLogFile = "whmcsmp-debug.log"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "whmcsmp",
		Short:         "Publish and maintain product versions on the WHMCS Marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newPublishCmd(),
		newSyncCmd(),
		newDelCmd(),
		newCompatibilityCmd(),
		newInstallCmd(),
	)
	return root
}

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <ver> <notes>",
		Short: "Publish the specified version to the marketplace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPipeline()
			result, err := p.Publish(cmd.Context(), marketplace.VersionRecord{
				Version: args[0],
				Notes:   args[1],
			})
			if err == nil && !result.Verified {
				slog.Warn("Publish not confirmed by the marketplace", "version", args[0])
			}
			return report(err)
		},
	}
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Add missing versions to the marketplace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPipeline()
			return report(p.SyncVersions(cmd.Context()))
		},
	}
}

func newDelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "del <ver>",
		Short: "Delete the specified version from the marketplace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPipeline()
			return report(p.DeleteVersion(cmd.Context(), args[0]))
		},
	}
}

func newCompatibilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compatibility",
		Short: "Set the compatible platform versions on the marketplace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPipeline()
			return report(p.UpdateCompatibility(cmd.Context()))
		},
	}
}

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install the browser driver and browsers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return browser.Install()
		},
	}
}

func newPipeline() *whmcsmp.Pipeline {
	cfg := whmcsmp.ResolveConfig(whmcsmp.EnvironMap(os.Environ()))
	lg := newLogger(cfg.Debug)
	slog.SetDefault(lg)
	return whmcsmp.NewPipelineWithOptions(cfg, whmcsmp.PipelineOptions{Logger: lg})
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	terminal := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	if !debug {
		return slog.New(terminal)
	}

	f, err := os.OpenFile(debugLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.New(terminal).Warn("Cannot open debug log file", "file", debugLogFile, "error", err)
		return slog.New(terminal)
	}
	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(slogmulti.Fanout(terminal, fileHandler))
}

// report prints the binary outcome the pipeline scripting expects on stdout.
func report(err error) error {
	if err != nil {
		slog.Error("Command failed", "error", err)
		fmt.Println("Failed")
		return err
	}
	fmt.Println("Successful")
	return nil
}
