package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/balance/internal/flagx"
)

var cliFlags = []string{"-a", "-i", "-f", "-o"}

// parseFlags overlays command-line flags onto cfg.
//
//	-a  server address (host:port)
//	-i  online check interval, seconds
//	-f  local SQLite file
//	-o  directory for encoded and decoded files
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("balance", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "server address")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval/time.Second), "online check interval (seconds)")
	fs.StringVar(&cfg.DatabasePath, "f", cfg.DatabasePath, "local database file")
	fs.StringVar(&cfg.DownloadsDir, "o", cfg.DownloadsDir, "output directory")

	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], cliFlags)); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
}
