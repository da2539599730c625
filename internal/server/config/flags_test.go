package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin",
		"-a", ":7070",
		"-d", "postgres://flags/notekeep",
		"-s", "flag-secret",
		"-t", "20",
		"-o", "9",
		"-w", "2",
		"-n", "7",
		"-unrelated", "x", // must be filtered out, not a parse error
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, "postgres://flags/notekeep", cfg.DatabaseDSN)
	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, 20*time.Minute, cfg.TokenValidityDuration)
	assert.Equal(t, 9*time.Second, cfg.StoreCallTimeout)
	assert.Equal(t, 2*time.Second, cfg.StoreConnectBackoff)
	assert.Equal(t, uint64(7), cfg.StoreConnectRetries)
}

func Test_parseFlags_NoFlagsKeepDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, 30*time.Minute, cfg.TokenValidityDuration)
}
