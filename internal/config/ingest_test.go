package config_test

import (
	"testing"
	"time"

	"github.com/capraCoder/mamadoc/internal/config"
)

func TestIngestConfigDefaults(t *testing.T) {
	var cfg config.IngestConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.InboxDir != "inbox" {
		t.Errorf("InboxDir = %q, want %q", cfg.InboxDir, "inbox")
	}
	if cfg.MaxPages != 20 {
		t.Errorf("MaxPages = %d, want 20", cfg.MaxPages)
	}
	if cfg.DPI != 150 {
		t.Errorf("DPI = %d, want 150", cfg.DPI)
	}
	if cfg.RetryAttempts != 2 {
		t.Errorf("RetryAttempts = %d, want 2", cfg.RetryAttempts)
	}
	if got := cfg.RetryDelayDuration(); got != 30*time.Second {
		t.Errorf("RetryDelayDuration() = %v, want 30s", got)
	}
	if got := cfg.SettleTimeoutDuration(); got != 2*time.Minute {
		t.Errorf("SettleTimeoutDuration() = %v, want 2m", got)
	}
}

func TestIngestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.IngestConfig)
		wantErr bool
	}{
		{"defaults valid", func(c *config.IngestConfig) {}, false},
		{"dpi too low", func(c *config.IngestConfig) { c.DPI = 49 }, true},
		{"dpi too high", func(c *config.IngestConfig) { c.DPI = 601 }, true},
		{"dpi boundary low", func(c *config.IngestConfig) { c.DPI = 50 }, false},
		{"dpi boundary high", func(c *config.IngestConfig) { c.DPI = 600 }, false},
		{"bad retry delay", func(c *config.IngestConfig) { c.RetryDelay = "soon" }, true},
		{"bad settle timeout", func(c *config.IngestConfig) { c.SettleTimeout = "later" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.IngestConfig
			tt.mutate(&cfg)
			err := cfg.Finalize()
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIngestConfigMerge(t *testing.T) {
	base := config.IngestConfig{
		InboxDir: "inbox",
		MaxPages: 20,
		DPI:      150,
	}
	base.Merge(&config.IngestConfig{DPI: 300, RetryDelay: "10s"})

	if base.DPI != 300 {
		t.Errorf("DPI = %d, want 300", base.DPI)
	}
	if base.RetryDelay != "10s" {
		t.Errorf("RetryDelay = %q, want %q", base.RetryDelay, "10s")
	}
	if base.InboxDir != "inbox" || base.MaxPages != 20 {
		t.Errorf("unrelated fields changed: %+v", base)
	}
}

func TestIngestConfigEnvOverride(t *testing.T) {
	t.Setenv(config.EnvIngestInboxDir, "/srv/scans")
	t.Setenv(config.EnvIngestDPI, "200")
	t.Setenv(config.EnvIngestMaxPages, "not a number")

	var cfg config.IngestConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.InboxDir != "/srv/scans" {
		t.Errorf("InboxDir = %q, want %q", cfg.InboxDir, "/srv/scans")
	}
	if cfg.DPI != 200 {
		t.Errorf("DPI = %d, want 200", cfg.DPI)
	}
	if cfg.MaxPages != 20 {
		t.Errorf("MaxPages = %d, want default 20", cfg.MaxPages)
	}
}
