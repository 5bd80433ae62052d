package config

import (
    "os"
    "strconv"
    "time"
)

// CacheConfig controls the response cache on public catalog routes.
// Caching is skipped entirely when Enabled is false or no Redis client
// was constructed.
type CacheConfig struct {
    Enabled      bool          // master switch
    TTL          time.Duration // lifetime of a cached response
    Prefix       string        // key namespace in Redis
    MaxBodyBytes int           // responses larger than this are not cached
}

// LoadCacheConfig reads cache settings with sensible defaults: 30s TTL,
// 1 MiB body cap.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        Prefix:       envStr("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}

// env helpers shared by cache and rate-limit config.

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

func envBool(k string, d bool) bool {
    switch os.Getenv(k) {
    case "1", "true", "TRUE", "True", "yes", "on":
        return true
    case "0", "false", "FALSE", "False", "no", "off":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    if v := os.Getenv(k); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            return n
        }
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    if v := os.Getenv(k); v != "" {
        if dur, err := time.ParseDuration(v); err == nil {
            return dur
        }
    }
    return d
}
