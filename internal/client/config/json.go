package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/BrasserTech/handluz/internal/flagx"
	"github.com/BrasserTech/handluz/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be written either as strings like "10s" or as integer nanoseconds; parsed
// values are copied into the runtime Config.
type JsonConfig struct {
	RemoteDSN        string         `json:"remote_dsn"`
	LocalDBPath      string         `json:"local_db_path"`
	PushGatewayURL   string         `json:"push_gateway_url"`
	RemoteTimeout    timex.Duration `json:"remote_timeout"`
	RemoteMaxRetries *uint64        `json:"remote_max_retries"`

	S3Region        string `json:"s3_region"`
	S3BaseEndpoint  string `json:"s3_base_endpoint"`
	S3Bucket        string `json:"s3_bucket"`
	S3AccessKey     string `json:"s3_access_key"`
	S3SecretKey     string `json:"s3_secret_key"`
	S3PublicBaseURL string `json:"s3_public_base_url"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flags. Absent file path means no overlay. Read or unmarshal
// errors panic; the caller runs before any state exists worth preserving.
// Only fields present in the file override the current values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.RemoteDSN != "" {
		cfg.RemoteDSN = jc.RemoteDSN
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.PushGatewayURL != "" {
		cfg.PushGatewayURL = jc.PushGatewayURL
	}
	if jc.RemoteTimeout.Duration != 0 {
		cfg.RemoteTimeout = time.Duration(jc.RemoteTimeout.Duration)
	}
	if jc.RemoteMaxRetries != nil {
		cfg.RemoteMaxRetries = *jc.RemoteMaxRetries
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.S3PublicBaseURL != "" {
		cfg.S3PublicBaseURL = jc.S3PublicBaseURL
	}
}
