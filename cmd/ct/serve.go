package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/commtrack/internal/config"
	"github.com/groblegark/commtrack/internal/events"
	"github.com/groblegark/commtrack/internal/report"
	"github.com/groblegark/commtrack/internal/server"
	"github.com/groblegark/commtrack/internal/store/postgres"
	commsync "github.com/groblegark/commtrack/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the commtrack server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create an HTTP client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (CT_NATS_URL not set)")
		}

		// Create server components.
		commServer := server.NewCommServer(store, publisher)

		// Start HTTP server.
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: commServer.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the overdue-trend snapshotter.
		var snapshotter *report.Snapshotter
		if cfg.SnapshotSchedule != "" {
			snapshotter, err = report.NewSnapshotter(store, cfg.SnapshotSchedule)
			if err != nil {
				logger.Error("failed to create snapshotter", "err", err)
			} else {
				snapshotter.Start()
				logger.Info("overdue snapshotter started", "schedule", cfg.SnapshotSchedule)
			}
		}

		// Start sync scheduler if any destinations are configured.
		var scheduler *commsync.Scheduler
		if cfg.SyncInterval > 0 {
			var dests []commsync.Destination

			if cfg.SyncS3Bucket != "" {
				s3Dest, err := commsync.NewS3Destination(
					context.Background(),
					cfg.SyncS3Bucket,
					cfg.SyncS3Key,
					cfg.SyncS3Region,
					cfg.SyncS3Endpoint,
				)
				if err != nil {
					logger.Error("failed to create S3 sync destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("sync S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key)
				}
			}

			if cfg.SyncGitRepo != "" {
				gitDest := commsync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch)
				dests = append(dests, gitDest)
				logger.Info("sync git destination enabled", "repo", cfg.SyncGitRepo, "file", cfg.SyncGitFile)
			}

			if len(dests) > 0 {
				scheduler = commsync.NewScheduler(store, dests, cfg.SyncInterval, logger)
				scheduler.Start()
				logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
			}
		}

		logger.Info("commtrack server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if snapshotter != nil {
			snapshotter.Stop()
			logger.Info("overdue snapshotter stopped")
		}

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
