package config

import (
	"testing"
	"time"
)

// syncEnvVars lists all sync-related env vars that must be cleared between tests.
var syncEnvVars = []string{
	"CT_SYNC_INTERVAL", "CT_SYNC_S3_BUCKET", "CT_SYNC_S3_ENDPOINT",
	"CT_SYNC_S3_REGION", "CT_SYNC_S3_KEY", "CT_SYNC_GIT_REPO",
	"CT_SYNC_GIT_FILE", "CT_SYNC_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CT_DATABASE_URL", "CT_HTTP_ADDR", "CT_NATS_URL", "CT_AUTH_TOKEN", "CT_SNAPSHOT_SCHEDULE"} {
		t.Setenv(key, "")
	}
	for _, key := range syncEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "DefaultAddresses",
			env:          map[string]string{"CT_DATABASE_URL": "postgres://localhost/commtrack"},
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"CT_DATABASE_URL": "postgres://db:5432/commtrack",
				"CT_HTTP_ADDR":    ":3000",
				"CT_NATS_URL":     "nats://localhost:4222",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseURL != tc.env["CT_DATABASE_URL"] {
				t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, tc.env["CT_DATABASE_URL"])
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoad_SyncDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("CT_DATABASE_URL", "postgres://localhost/commtrack")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 3*time.Minute {
		t.Errorf("SyncInterval = %v, want 3m", cfg.SyncInterval)
	}
	if cfg.SyncS3Key != "commtrack/backup.jsonl" {
		t.Errorf("SyncS3Key = %q, want default", cfg.SyncS3Key)
	}
	if cfg.SnapshotSchedule != "@daily" {
		t.Errorf("SnapshotSchedule = %q, want @daily", cfg.SnapshotSchedule)
	}
}

func TestLoad_BadSyncInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("CT_DATABASE_URL", "postgres://localhost/commtrack")
	t.Setenv("CT_SYNC_INTERVAL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad CT_SYNC_INTERVAL")
	}
}
