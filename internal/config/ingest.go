package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvIngestInboxDir      = "MAMADOC_INGEST_INBOX_DIR"
	EnvIngestMaxPages      = "MAMADOC_INGEST_MAX_PAGES"
	EnvIngestDPI           = "MAMADOC_INGEST_DPI"
	EnvIngestRetryAttempts = "MAMADOC_INGEST_RETRY_ATTEMPTS"
	EnvIngestRetryDelay    = "MAMADOC_INGEST_RETRY_DELAY"
	EnvIngestSettlePoll    = "MAMADOC_INGEST_SETTLE_POLL"
	EnvIngestSettleTimeout = "MAMADOC_INGEST_SETTLE_TIMEOUT"
)

// IngestConfig holds document ingestion parameters shared by the process
// command, the watcher, and the upload endpoint.
type IngestConfig struct {
	InboxDir      string `toml:"inbox_dir"`
	MaxPages      int    `toml:"max_pages"`
	DPI           int    `toml:"dpi"`
	RetryAttempts int    `toml:"retry_attempts"`
	RetryDelay    string `toml:"retry_delay"`
	SettlePoll    string `toml:"settle_poll"`
	SettleTimeout string `toml:"settle_timeout"`
}

// RetryDelayDuration returns RetryDelay as a time.Duration.
func (c *IngestConfig) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// SettlePollDuration returns SettlePoll as a time.Duration.
func (c *IngestConfig) SettlePollDuration() time.Duration {
	d, _ := time.ParseDuration(c.SettlePoll)
	return d
}

// SettleTimeoutDuration returns SettleTimeout as a time.Duration.
func (c *IngestConfig) SettleTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.SettleTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *IngestConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *IngestConfig) Merge(overlay *IngestConfig) {
	if overlay.InboxDir != "" {
		c.InboxDir = overlay.InboxDir
	}
	if overlay.MaxPages != 0 {
		c.MaxPages = overlay.MaxPages
	}
	if overlay.DPI != 0 {
		c.DPI = overlay.DPI
	}
	if overlay.RetryAttempts != 0 {
		c.RetryAttempts = overlay.RetryAttempts
	}
	if overlay.RetryDelay != "" {
		c.RetryDelay = overlay.RetryDelay
	}
	if overlay.SettlePoll != "" {
		c.SettlePoll = overlay.SettlePoll
	}
	if overlay.SettleTimeout != "" {
		c.SettleTimeout = overlay.SettleTimeout
	}
}

func (c *IngestConfig) loadDefaults() {
	if c.InboxDir == "" {
		c.InboxDir = "inbox"
	}
	if c.MaxPages == 0 {
		c.MaxPages = 20
	}
	if c.DPI == 0 {
		c.DPI = 150
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 2
	}
	if c.RetryDelay == "" {
		c.RetryDelay = "30s"
	}
	if c.SettlePoll == "" {
		c.SettlePoll = "1s"
	}
	if c.SettleTimeout == "" {
		c.SettleTimeout = "2m"
	}
}

func (c *IngestConfig) loadEnv() {
	if v := os.Getenv(EnvIngestInboxDir); v != "" {
		c.InboxDir = v
	}
	if v := os.Getenv(EnvIngestMaxPages); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxPages = n
		}
	}
	if v := os.Getenv(EnvIngestDPI); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.DPI = n
		}
	}
	if v := os.Getenv(EnvIngestRetryAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RetryAttempts = n
		}
	}
	if v := os.Getenv(EnvIngestRetryDelay); v != "" {
		c.RetryDelay = v
	}
	if v := os.Getenv(EnvIngestSettlePoll); v != "" {
		c.SettlePoll = v
	}
	if v := os.Getenv(EnvIngestSettleTimeout); v != "" {
		c.SettleTimeout = v
	}
}

func (c *IngestConfig) validate() error {
	if c.InboxDir == "" {
		return fmt.Errorf("inbox_dir required")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be positive")
	}
	if c.DPI < 50 || c.DPI > 600 {
		return fmt.Errorf("dpi out of range: %d", c.DPI)
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return fmt.Errorf("invalid retry_delay: %w", err)
	}
	if _, err := time.ParseDuration(c.SettlePoll); err != nil {
		return fmt.Errorf("invalid settle_poll: %w", err)
	}
	if _, err := time.ParseDuration(c.SettleTimeout); err != nil {
		return fmt.Errorf("invalid settle_timeout: %w", err)
	}
	return nil
}
