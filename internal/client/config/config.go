package config

import "time"

// Config holds runtime settings for the balance CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DatabasePath: SQLite file holding the session and chat history.
//   - DownloadsDir: directory that receives encoded and decoded files.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DatabasePath        string
	DownloadsDir        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "balance.db"
	c.DownloadsDir = "downloads"
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
