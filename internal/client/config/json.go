package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/balance/internal/flagx"
	"github.com/dmitrijs2005/balance/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// may be strings like "3s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	DatabasePath        string         `json:"database_path"`
	DownloadsDir        string         `json:"downloads_dir"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// Keys missing from the file keep their current value. Read or unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	jc := JsonConfig{
		ServerEndpointAddr:  cfg.ServerEndpointAddr,
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
		DatabasePath:        cfg.DatabasePath,
		DownloadsDir:        cfg.DownloadsDir,
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	cfg.DatabasePath = jc.DatabasePath
	cfg.DownloadsDir = jc.DownloadsDir
}
