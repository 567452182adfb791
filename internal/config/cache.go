package config

import (
	"strings"
	"time"
)

// CacheConfig controls the read-path response cache.  Only idempotent
// staff queries (roster listing, class attendance) sit behind it; the
// TTL stays short so a fresh mark shows up within seconds.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* environment variables with defaults.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      boolDefault("CACHE_ENABLED", true),
		Methods:      parseMethods(getenvDefault("CACHE_METHODS", "GET")),
		TTL:          durDefault("CACHE_TTL", 15*time.Second),
		Prefix:       getenvDefault("CACHE_PREFIX", "attendance:cache"),
		MaxBodyBytes: intDefault("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
