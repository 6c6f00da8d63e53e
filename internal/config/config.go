package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

const defaultPairCacheTTL = 10 * time.Minute
const defaultPairCacheMaxEntries = 65536

type Config struct {
	matcherAPIURL       string
	sentryDSN           string
	port                string
	pairCacheTTL        time.Duration
	pairCacheMaxEntries uint64
	env                 environment
}

func (c *Config) MatcherAPIURL() string {
	return c.matcherAPIURL
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) PairCacheTTL() time.Duration {
	return c.pairCacheTTL
}

func (c *Config) PairCacheMaxEntries() uint64 {
	return c.pairCacheMaxEntries
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, matcherAPIURL: %s, port: %s, pairCacheTTL: %s, pairCacheMaxEntries: %d, ...}",
		string(c.env), c.matcherAPIURL, c.port, c.pairCacheTTL, c.pairCacheMaxEntries,
	)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("MATCHGATE_ENVIRONMENT")
	if !ok {
		return missingKey("MATCHGATE_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: MATCHGATE_ENVIRONMENT (%s)", ErrInvalidValue, rawEnv)
	}

	matcherAPIURL := os.Getenv("MATCHER_API_URL")
	sentryDSN := os.Getenv("SENTRY_DSN")
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	pairCacheTTL := defaultPairCacheTTL
	if rawTTL := os.Getenv("PAIR_CACHE_TTL"); rawTTL != "" {
		parsed, err := time.ParseDuration(rawTTL)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("%w: PAIR_CACHE_TTL (%s)", ErrInvalidValue, rawTTL)
		}
		pairCacheTTL = parsed
	}

	pairCacheMaxEntries := uint64(defaultPairCacheMaxEntries)
	if rawMax := os.Getenv("PAIR_CACHE_MAX_ENTRIES"); rawMax != "" {
		parsed, err := strconv.ParseUint(rawMax, 10, 64)
		if err != nil || parsed == 0 {
			return Config{}, fmt.Errorf("%w: PAIR_CACHE_MAX_ENTRIES (%s)", ErrInvalidValue, rawMax)
		}
		pairCacheMaxEntries = parsed
	}

	if env == production || env == staging {
		if matcherAPIURL == "" {
			return missingKey("MATCHER_API_URL")
		}
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	return Config{
		matcherAPIURL:       matcherAPIURL,
		sentryDSN:           sentryDSN,
		port:                port,
		pairCacheTTL:        pairCacheTTL,
		pairCacheMaxEntries: pairCacheMaxEntries,
		env:                 env,
	}, nil
}
