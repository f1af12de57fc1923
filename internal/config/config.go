package config

import "time"

// Config holds runtime settings for the authkeeper CLI.
//
// Fields:
//   - DatabaseDSN: path/DSN of the local SQLite database file.
//   - StorageNamespace: prefix for the persisted session-state root key.
//   - SessionTTL: how long an issued session token stays fresh.
type Config struct {
	DatabaseDSN      string
	StorageNamespace string
	SessionTTL       time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "UserDB.db"
	c.StorageNamespace = "authkeeper"
	c.SessionTTL = 24 * time.Hour
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
