package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/IvubaServices/FarmSecure-sub000/internal/alert"
	"github.com/IvubaServices/FarmSecure-sub000/internal/config"
	"github.com/IvubaServices/FarmSecure-sub000/internal/events"
	"github.com/IvubaServices/FarmSecure-sub000/internal/feedwatch"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/server"
	"github.com/IvubaServices/FarmSecure-sub000/internal/snapshot"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store/postgres"
)

// alertRulesFile is the TOML schema of the --alert-rules file.
type alertRulesFile struct {
	Rules []struct {
		Name        string   `toml:"name"`
		Collections []string `toml:"collections"`
		Kinds       []string `toml:"kinds"`
		Command     string   `toml:"command"`
		TimeoutSecs int      `toml:"timeout_secs"`
	} `toml:"rules"`
}

func loadAlertRules(path string) ([]alert.Rule, error) {
	var file alertRulesFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("loading alert rules: %w", err)
	}
	rules := make([]alert.Rule, 0, len(file.Rules))
	for _, r := range file.Rules {
		rule := alert.Rule{Name: r.Name, Command: r.Command, TimeoutSecs: r.TimeoutSecs}
		for _, c := range r.Collections {
			rule.Collections = append(rule.Collections, model.Collection(c))
		}
		for _, k := range r.Kinds {
			rule.Kinds = append(rule.Kinds, model.ChangeKind(k))
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the farms server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create a client connection.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		alertRulesPath, _ := cmd.Flags().GetString("alert-rules")
		var alertRules []alert.Rule
		if alertRulesPath != "" {
			alertRules, err = loadAlertRules(alertRulesPath)
			if err != nil {
				return err
			}
			logger.Info("alert rules loaded", "path", alertRulesPath, "count", len(alertRules))
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("change events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = events.NoopPublisher{}
			logger.Info("change events disabled (FARMS_NATS_URL not set)")
		}

		farmServer := server.NewFarmServer(store, publisher)

		// A feed that stops heartbeating gets flipped offline in the store,
		// which publishes a change event like any other mutation.
		farmServer.Feeds.StartWatchdog(&feedwatch.WatchdogConfig{
			OfflineThreshold: cfg.FeedOfflineAfter,
			EvictAfter:       cfg.FeedEvictAfter,
			OnOffline: func(feedID string) {
				farmServer.MarkFeedOffline(context.Background(), feedID)
			},
		})

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: farmServer.NewHTTPHandler(cfg.AuthToken),
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Snapshot exports, if any destination is configured.
		var scheduler *snapshot.Scheduler
		if cfg.SnapshotInterval > 0 {
			var dests []snapshot.Destination

			if cfg.SnapshotS3Bucket != "" {
				s3Dest, err := snapshot.NewS3Destination(context.Background(), snapshot.S3Config{
					Bucket:   cfg.SnapshotS3Bucket,
					Key:      cfg.SnapshotS3Key,
					Region:   cfg.SnapshotS3Region,
					Endpoint: cfg.SnapshotS3Endpoint,
				})
				if err != nil {
					logger.Error("failed to create S3 snapshot destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("snapshot S3 destination enabled", "bucket", cfg.SnapshotS3Bucket, "key", cfg.SnapshotS3Key)
				}
			}

			if cfg.SnapshotGitRepo != "" {
				gitDest := snapshot.NewGitDestination(cfg.SnapshotGitRepo, cfg.SnapshotGitFile, cfg.SnapshotGitBranch)
				dests = append(dests, gitDest)
				logger.Info("snapshot git destination enabled", "repo", cfg.SnapshotGitRepo, "file", cfg.SnapshotGitFile)
			}

			if len(dests) > 0 {
				scheduler = snapshot.NewScheduler(store, dests, cfg.SnapshotInterval, logger)
				scheduler.Start()
				logger.Info("snapshot scheduler started", "interval", cfg.SnapshotInterval)
			}
		}

		// Alert subscriber, if NATS is available.
		var alertCancel context.CancelFunc
		if cfg.NATSURL != "" {
			alertSub, err := events.NewNATSSubscriber(cfg.NATSURL)
			if err != nil {
				logger.Error("failed to create alert subscriber", "err", err)
			} else {
				alertHandler := alert.NewHandler(store, logger, alertRules)
				var alertCtx context.Context
				alertCtx, alertCancel = context.WithCancel(context.Background())
				go func() {
					if err := alertHandler.StartSubscriber(alertCtx, alertSub); err != nil {
						logger.Error("alert subscriber error", "err", err)
					}
					alertSub.Close()
				}()
			}
		}

		logger.Info("farms server started", "http_addr", cfg.HTTPAddr)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if alertCancel != nil {
			alertCancel()
			logger.Info("alert subscriber stopped")
		}

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("snapshot scheduler stopped")
		}

		farmServer.Feeds.Stop()
		logger.Info("feed watchdog stopped")

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
		return nil
	},
}

func init() {
	serveCmd.Flags().String("alert-rules", "", "path to a TOML file of alert command rules")
}
