package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/balance/internal/flagx"
)

// serverFlags lists the short flags owned by the server. Anything else on
// the command line (for example -c) is left to other parsers.
var serverFlags = []string{"-a", "-d", "-s", "-t", "-r", "-x", "-u", "-p", "-b", "-g", "-e", "-m"}

// parseFlags overlays command-line flags onto config. Token lifetimes and
// the purge interval are given in whole minutes.
//
//	-a  gRPC bind address          -u  S3 access key
//	-d  PostgreSQL DSN             -p  S3 secret key
//	-s  JWT secret                 -b  S3 bucket, empty disables the archive
//	-t  access token minutes       -g  S3 region
//	-r  refresh token minutes      -e  S3 endpoint
//	-x  token purge minutes        -m  /metrics address, empty disables it
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("balance-server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC listen address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT signing secret")

	access := minutesFlag(fs, "t", config.AccessTokenValidityDuration, "access token lifetime (minutes)")
	refresh := minutesFlag(fs, "r", config.RefreshTokenValidityDuration, "refresh token lifetime (minutes)")
	purge := minutesFlag(fs, "x", config.TokenPurgeInterval, "expired token purge interval (minutes, 0 disables)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 access key")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "attachment archive bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 endpoint")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics listen address")

	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], serverFlags)); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*access) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refresh) * time.Minute
	config.TokenPurgeInterval = time.Duration(*purge) * time.Minute
}

func minutesFlag(fs *flag.FlagSet, name string, current time.Duration, usage string) *int {
	return fs.Int(name, int(current/time.Minute), usage)
}
