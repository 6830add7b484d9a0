package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // FARMS_DATABASE_URL (required)
	HTTPAddr    string // FARMS_HTTP_ADDR (default ":8080")
	NATSURL     string // FARMS_NATS_URL (optional, empty = no change events)
	AuthToken   string // FARMS_AUTH_TOKEN (optional, empty = auth disabled)

	// Feed watchdog settings
	FeedOfflineAfter time.Duration // FARMS_FEED_OFFLINE_AFTER (default 2m)
	FeedEvictAfter   time.Duration // FARMS_FEED_EVICT_AFTER (default 30m)

	// Snapshot export settings
	SnapshotInterval   time.Duration // FARMS_SNAPSHOT_INTERVAL (default 5m; 0 = disabled)
	SnapshotS3Bucket   string        // FARMS_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Endpoint string        // FARMS_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
	SnapshotS3Region   string        // FARMS_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Key      string        // FARMS_SNAPSHOT_S3_KEY (default "farms/export.jsonl")
	SnapshotGitRepo    string        // FARMS_SNAPSHOT_GIT_REPO (enables git when set; path to clone)
	SnapshotGitFile    string        // FARMS_SNAPSHOT_GIT_FILE (default "farms.jsonl")
	SnapshotGitBranch  string        // FARMS_SNAPSHOT_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:        os.Getenv("FARMS_DATABASE_URL"),
		HTTPAddr:           envOrDefault("FARMS_HTTP_ADDR", ":8080"),
		NATSURL:            os.Getenv("FARMS_NATS_URL"),
		AuthToken:          os.Getenv("FARMS_AUTH_TOKEN"),
		SnapshotS3Bucket:   os.Getenv("FARMS_SNAPSHOT_S3_BUCKET"),
		SnapshotS3Endpoint: os.Getenv("FARMS_SNAPSHOT_S3_ENDPOINT"),
		SnapshotS3Region:   envOrDefault("FARMS_SNAPSHOT_S3_REGION", "us-east-1"),
		SnapshotS3Key:      envOrDefault("FARMS_SNAPSHOT_S3_KEY", "farms/export.jsonl"),
		SnapshotGitRepo:    os.Getenv("FARMS_SNAPSHOT_GIT_REPO"),
		SnapshotGitFile:    envOrDefault("FARMS_SNAPSHOT_GIT_FILE", "farms.jsonl"),
		SnapshotGitBranch:  envOrDefault("FARMS_SNAPSHOT_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("FARMS_DATABASE_URL is required")
	}

	var err error
	if c.SnapshotInterval, err = envDuration("FARMS_SNAPSHOT_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if c.FeedOfflineAfter, err = envDuration("FARMS_FEED_OFFLINE_AFTER", 2*time.Minute); err != nil {
		return nil, err
	}
	if c.FeedEvictAfter, err = envDuration("FARMS_FEED_EVICT_AFTER", 30*time.Minute); err != nil {
		return nil, err
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
