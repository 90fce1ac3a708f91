// Package config loads runtime settings for the jobkeeper CLI.
package config

import (
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/syncer"
)

// Config holds runtime settings.
//
// Fields:
//   - FirestoreProjectID: GCP project hosting the remote document store.
//     Empty means offline-only operation (no sign-in possible).
//   - DatabasePath: path of the local SQLite database file.
//   - SyncDebounce: quiet period after a local mutation before a sync runs.
//   - SyncThrottle: minimum spacing between completed syncs.
type Config struct {
	FirestoreProjectID string
	DatabasePath       string
	SyncDebounce       time.Duration
	SyncThrottle       time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.FirestoreProjectID = ""
	c.DatabasePath = "jobkeeper.db"
	c.SyncDebounce = syncer.DefaultDebounce
	c.SyncThrottle = syncer.DefaultThrottle
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
