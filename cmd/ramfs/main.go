package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marmos91/ramfs/internal/logger"
	"github.com/marmos91/ramfs/pkg/config"
	"github.com/marmos91/ramfs/pkg/fs"
	"github.com/marmos91/ramfs/pkg/metrics"
)

// createInitialStructure seeds the filesystem with a small sample tree so a
// freshly started instance has something to serve.
func createInitialStructure(filesystem *fs.Filesystem) error {
	root := filesystem.Root()

	docs, err := filesystem.Mkdir(root, "docs", 0o755, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}

	for _, name := range []string{"readme.txt", "notes.txt"} {
		if _, err := filesystem.CreateFile(docs, name, 0o644, 0, 0); err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
	}

	if _, err := filesystem.CreateSymlink(root, "latest", "docs/readme.txt", 0, 0); err != nil {
		return fmt.Errorf("failed to create symlink: %w", err)
	}

	return nil
}

func setupLogging(cfg *config.Config) error {
	logger.SetLevel(cfg.Logging.Level)
	logger.SetFormat(cfg.Logging.Format)

	switch cfg.Logging.Output {
	case "stdout":
		logger.SetOutput(os.Stdout)
	case "stderr":
		logger.SetOutput(os.Stderr)
	default:
		file, err := os.OpenFile(cfg.Logging.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(file)
	}
	return nil
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := setupLogging(cfg); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	// Metrics are optional; without InitRegistry the filesystem uses its
	// no-op implementation.
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metricsServer = metrics.NewServer(cfg.Metrics.Listen)
	}

	filesystem := fs.New(fs.Config{
		BlockSize:      cfg.Filesystem.BlockSize,
		CapacityBlocks: cfg.Filesystem.CapacityBlocks,
		Cursors: fs.CursorTableConfig{
			TTL:        cfg.Readdir.CursorTTL,
			MaxCursors: cfg.Readdir.MaxCursors,
		},
		Metrics: metrics.NewFSMetrics(),
	})

	if err := createInitialStructure(filesystem); err != nil {
		log.Fatalf("Failed to create initial structure: %v", err)
	}

	if metricsServer != nil {
		go metricsServer.Start()
	}

	stats := filesystem.Stats()
	logger.Info("ramfs ready: block_size=%d capacity_blocks=%d inodes=%d",
		stats.BlockSize, stats.CapacityBlocks, stats.Inodes)

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received %s, shutting down", sig)

	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown: %v", err)
		}
	}
}
