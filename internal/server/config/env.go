package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Unset
// variables leave the current value in place; unparseable values are
// ignored rather than fatal, flags still get the last word.
//
// Supported variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	SECRET_KEY               token signing secret
//	TOKEN_VALIDITY_DURATION  Go duration string, e.g. "30m"
//	STORE_CALL_TIMEOUT       Go duration string, e.g. "3s"
//	STORE_CONNECT_BACKOFF    Go duration string, e.g. "1s"
//	STORE_CONNECT_RETRIES    integer
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY_DURATION"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("STORE_CALL_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.StoreCallTimeout = d
		}
	}
	if v, ok := os.LookupEnv("STORE_CONNECT_BACKOFF"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.StoreConnectBackoff = d
		}
	}
	if v, ok := os.LookupEnv("STORE_CONNECT_RETRIES"); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.StoreConnectRetries = n
		}
	}
}
