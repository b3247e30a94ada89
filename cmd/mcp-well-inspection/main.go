package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/a3tai/mcp-well-inspection/internal/assetcache"
	"github.com/a3tai/mcp-well-inspection/internal/config"
	"github.com/a3tai/mcp-well-inspection/internal/form"
	"github.com/a3tai/mcp-well-inspection/internal/geo"
	"github.com/a3tai/mcp-well-inspection/internal/logging"
	"github.com/a3tai/mcp-well-inspection/internal/mcp"
	"github.com/a3tai/mcp-well-inspection/internal/report"
	"github.com/a3tai/mcp-well-inspection/internal/session"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, logger logrus.FieldLogger) {
	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-signalCh:
		logger.WithField("signal", sig.String()).Info("initiating graceful shutdown")
		cancel()

		if err := <-serverErrCh; err != nil {
			logger.WithError(err).Error("server shutdown with error")
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			logger.WithError(err).Error("server error")
			os.Exit(1)
		}
	}

	logger.Info("server stopped successfully")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, server *mcp.Server, logger logrus.FieldLogger) {
	// In stdio mode, the parent process controls our lifecycle
	if err := server.Run(ctx); err != nil {
		logger.WithError(err).Error("server error")
		os.Exit(1)
	}
}

// newAssetCache opens the offline cache, installs the configured manifest
// and evicts older cache versions. Install failures leave the cache usable
// with whatever it already holds.
func newAssetCache(ctx context.Context, cfg *config.Config, fs afero.Fs, logger logrus.FieldLogger) (*assetcache.Cache, error) {
	fetcher := assetcache.NewHTTPFetcher(cfg.CacheBaseURL, cfg.MaxFileSize)
	cache, err := assetcache.New(fs, cfg.CacheDirectory, cfg.CacheVersion, cfg.CacheManifest, fetcher, logger)
	if err != nil {
		return nil, err
	}

	if len(cfg.CacheManifest) > 0 {
		if err := cache.Install(ctx); err != nil {
			logger.WithError(err).Warn("asset cache install incomplete, continuing offline")
			return cache, nil
		}
	}
	if _, err := cache.Activate(); err != nil {
		logger.WithError(err).Warn("could not evict stale asset cache versions")
	}
	return cache, nil
}

// buildServer wires the inspection session, the report exporter and the
// MCP tool server from the configuration.
func buildServer(ctx context.Context, cfg *config.Config, fs afero.Fs, logger logrus.FieldLogger) (*mcp.Server, error) {
	sess, err := session.New(form.DefaultCatalog(), cfg.Locator(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create inspection session: %w", err)
	}
	// A failed first reading only changes the GPS placeholder
	_, _ = sess.SetGPSMode(ctx, geo.Mode(cfg.GPSMode))

	cache, err := newAssetCache(ctx, cfg, fs, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset cache: %w", err)
	}
	photos := session.NewPhotoLoader(fs, cfg.PhotoBaseDir, cfg.MaxFileSize, cache)

	compositor := report.NewCompositor(report.DefaultLayout(),
		report.WithStrictImages(cfg.StrictImages),
		report.WithMaxImagePixels(cfg.MaxImagePixels),
		report.WithLogger(logger),
	)
	exporter := report.NewExporter(compositor, fs, cfg.OutputDirectory, cfg.ServerName+" "+cfg.Version, logger)

	return mcp.NewServer(cfg, sess, photos, exporter, logger)
}

func main() {
	// Load configuration from flags, environment and .env
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger := logging.New(cfg)
	logger.WithField("config", cfg.String()).Debug("starting with configuration")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := buildServer(ctx, cfg, afero.NewOsFs(), logger)
	if err != nil {
		logger.WithError(err).Error("failed to create MCP server")
		fmt.Fprintf(os.Stderr, "Failed to create MCP server: %v\n", err)
		os.Exit(1)
	}

	// Handle different modes
	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server, logger)
	} else {
		runStdioMode(ctx, server, logger)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("MCP Well Inspection\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
