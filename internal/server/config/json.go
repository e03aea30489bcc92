package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/balance/internal/flagx"
	"github.com/dmitrijs2005/balance/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept either a Go
// duration string ("15m") or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	MetricsAddr                  string         `json:"metrics_addr"`
	TokenPurgeInterval           timex.Duration `json:"token_purge_interval"`
}

func fromConfig(c *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrGRPC:             c.EndpointAddrGRPC,
		DatabaseDSN:                  c.DatabaseDSN,
		SecretKey:                    c.SecretKey,
		AccessTokenValidityDuration:  timex.Duration{Duration: c.AccessTokenValidityDuration},
		RefreshTokenValidityDuration: timex.Duration{Duration: c.RefreshTokenValidityDuration},
		S3RootUser:                   c.S3RootUser,
		S3RootPassword:               c.S3RootPassword,
		S3Bucket:                     c.S3Bucket,
		S3Region:                     c.S3Region,
		S3BaseEndpoint:               c.S3BaseEndpoint,
		MetricsAddr:                  c.MetricsAddr,
		TokenPurgeInterval:           timex.Duration{Duration: c.TokenPurgeInterval},
	}
}

// parseJson overlays values from the file named by -c/-config onto config.
// Keys missing from the file keep their current value. An unreadable file
// or invalid JSON panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := fromConfig(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.MetricsAddr = c.MetricsAddr
	config.TokenPurgeInterval = c.TokenPurgeInterval.Duration
}
