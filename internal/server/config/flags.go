package config

import (
	"flag"
	"os"
	"time"

	"github.com/avasilyev/notekeep/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//	-t int      session token validity, minutes
//	-o int      store call timeout, seconds
//	-w int      store connect backoff, seconds
//	-n uint     store connect retries
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-o", "-w", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")
	storeCallTimeout := fs.Int("o", int(config.StoreCallTimeout.Seconds()), "store_call_timeout (in seconds)")
	storeConnectBackoff := fs.Int("w", int(config.StoreConnectBackoff.Seconds()), "store_connect_backoff (in seconds)")

	fs.Uint64Var(&config.StoreConnectRetries, "n", config.StoreConnectRetries, "store connect retries")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	config.StoreCallTimeout = time.Duration(*storeCallTimeout) * time.Second
	config.StoreConnectBackoff = time.Duration(*storeConnectBackoff) * time.Second
}
