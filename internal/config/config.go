package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // CT_DATABASE_URL (required)
	HTTPAddr    string // CT_HTTP_ADDR (default ":8080")
	NATSURL     string // CT_NATS_URL (optional, empty = no events)
	AuthToken   string // CT_AUTH_TOKEN (optional, empty = auth disabled)

	// SnapshotSchedule is the cron expression for the daily overdue-trend
	// snapshot job (CT_SNAPSHOT_SCHEDULE, default "@daily"; empty = disabled).
	SnapshotSchedule string

	// Backup sync settings
	SyncInterval   time.Duration // CT_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // CT_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // CT_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // CT_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // CT_SYNC_S3_KEY (default "commtrack/backup.jsonl")
	SyncGitRepo    string        // CT_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // CT_SYNC_GIT_FILE (default "commtrack.jsonl")
	SyncGitBranch  string        // CT_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:      os.Getenv("CT_DATABASE_URL"),
		HTTPAddr:         envOrDefault("CT_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("CT_NATS_URL"),
		AuthToken:        os.Getenv("CT_AUTH_TOKEN"),
		SnapshotSchedule: envOrDefault("CT_SNAPSHOT_SCHEDULE", "@daily"),
		SyncS3Bucket:     os.Getenv("CT_SYNC_S3_BUCKET"),
		SyncS3Endpoint:   os.Getenv("CT_SYNC_S3_ENDPOINT"),
		SyncS3Region:     envOrDefault("CT_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:        envOrDefault("CT_SYNC_S3_KEY", "commtrack/backup.jsonl"),
		SyncGitRepo:      os.Getenv("CT_SYNC_GIT_REPO"),
		SyncGitFile:      envOrDefault("CT_SYNC_GIT_FILE", "commtrack.jsonl"),
		SyncGitBranch:    envOrDefault("CT_SYNC_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("CT_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("CT_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("CT_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
