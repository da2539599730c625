package config

import (
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/avasilyev/notekeep/internal/flagx"
	"github.com/avasilyev/notekeep/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	StoreCallTimeout      timex.Duration `json:"store_call_timeout"`
	StoreConnectBackoff   timex.Duration `json:"store_connect_backoff"`
	StoreConnectRetries   uint64         `json:"store_connect_retries"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. An unreadable file or
// invalid JSON panics, the server should not start on a broken config.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFilePath()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	config.StoreCallTimeout = time.Duration(c.StoreCallTimeout.Duration)
	config.StoreConnectBackoff = time.Duration(c.StoreConnectBackoff.Duration)
	config.StoreConnectRetries = c.StoreConnectRetries
}
