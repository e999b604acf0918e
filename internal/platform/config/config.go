// Package config builds process configuration from environment variables so
// main stays lean. Plain env reads with defaults; no config framework.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string
	LogLevel string

	// MaxBatchSize caps records per /validate call. The anomaly layer's
	// duplicate pass is O(n^2) in batch size, so the cap is enforced
	// explicitly at the transport and reported to the caller, never applied
	// silently.
	MaxBatchSize int

	// JWTSigningKey enables bearer auth on /validate when set.
	JWTSigningKey string

	RateLimit RateLimitConfig
	Redis     RedisConfig
	Findings  FindingsConfig
}

// RateLimitConfig controls the request limiter in front of the engine.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

// RedisConfig controls the optional Redis connection used by the distributed
// rate limiter. Empty URL means Redis is not configured.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FindingsConfig controls publishing of findings to the issue-tracking topic.
// Empty broker list means publishing is disabled.
type FindingsConfig struct {
	Brokers           []string
	Topic             string
	SeverityThreshold string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:          envString("SHELFCHECK_ADDR", ":8080"),
		LogLevel:      envString("SHELFCHECK_LOG_LEVEL", "info"),
		MaxBatchSize:  envInt("SHELFCHECK_MAX_BATCH_SIZE", 5000),
		JWTSigningKey: os.Getenv("SHELFCHECK_JWT_SIGNING_KEY"),
		RateLimit: RateLimitConfig{
			Enabled: envString("SHELFCHECK_RATELIMIT_ENABLED", "true") == "true",
			Limit:   envInt("SHELFCHECK_RATELIMIT_LIMIT", 30),
			Window:  envDuration("SHELFCHECK_RATELIMIT_WINDOW", time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("SHELFCHECK_REDIS_URL"),
			PoolSize:     envInt("SHELFCHECK_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("SHELFCHECK_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("SHELFCHECK_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("SHELFCHECK_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("SHELFCHECK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Findings: FindingsConfig{
			Brokers:           envList("SHELFCHECK_KAFKA_BROKERS"),
			Topic:             envString("SHELFCHECK_FINDINGS_TOPIC", "shelfcheck.findings"),
			SeverityThreshold: envString("SHELFCHECK_FINDINGS_SEVERITY", "high"),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
