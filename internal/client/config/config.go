package config

import "time"

// Config holds runtime settings for the Handluz client.
//
// Fields:
//   - RemoteDSN: Postgres connection string of the hosted backend.
//   - LocalDBPath: path of the local SQLite database (session, install id).
//   - PushGatewayURL: push registration endpoint; empty disables push.
//   - RemoteTimeout: ceiling for a single remote call.
//   - RemoteMaxRetries: bounded retries on the read paths (bootstrap, refresh).
//   - S3*: object storage settings for profile photo upload.
type Config struct {
	RemoteDSN        string
	LocalDBPath      string
	PushGatewayURL   string
	RemoteTimeout    time.Duration
	RemoteMaxRetries uint64

	S3Region        string
	S3BaseEndpoint  string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RemoteDSN = "postgres://localhost:5432/handluz"
	c.LocalDBPath = "handluz.db"
	c.PushGatewayURL = ""
	c.RemoteTimeout = 10 * time.Second
	c.RemoteMaxRetries = 2
	c.S3Bucket = "club-media"
	c.S3Region = "us-east-1"
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
