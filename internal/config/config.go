// Package config centralizes how the blobgrant CLI reads environment
// variables and exposes them as strongly typed Go values. The library
// packages never touch the environment themselves; credentials always arrive
// as explicit arguments.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/dharsanguruparan/BlobGrant/internal/sas"
)

// Config represents runtime configuration for the CLI.
type Config struct {
	Account    string
	AccountKey string
	Endpoint   string
	SASTTL     time.Duration
	APIVersion string
}

const (
	defaultSASTTL = 15 * time.Minute
)

// ErrMissingCredentials is returned when the account name or key is absent.
var ErrMissingCredentials = errors.New("BLOBGRANT_ACCOUNT and BLOBGRANT_ACCOUNT_KEY must be set")

// Load reads configuration from environment variables falling back to
// defaults. The account key stays a string here; decoding and validation
// happen in the signing package so a bad key fails in exactly one place.
func Load() (*Config, error) {
	cfg := &Config{
		Account:    readEnv("BLOBGRANT_ACCOUNT", ""),
		AccountKey: readEnv("BLOBGRANT_ACCOUNT_KEY", ""),
		Endpoint:   readEnv("BLOBGRANT_ENDPOINT", ""),
		SASTTL:     parseDuration("BLOBGRANT_SAS_TTL", defaultSASTTL),
		APIVersion: readEnv("BLOBGRANT_API_VERSION", sas.VersionDefault),
	}
	if cfg.Account == "" || cfg.AccountKey == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.SASTTL <= 0 {
		cfg.SASTTL = defaultSASTTL
	}
	return cfg, nil
}

func readEnv(key, def string) string {
	// LookupEnv returns (value, true) when the variable is present; an empty
	// value falls back to the default like an unset one.
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	// time.ParseDuration understands inputs like "15m" or "90s".
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
