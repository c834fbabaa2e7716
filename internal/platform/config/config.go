package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

// Gateway captures configuration for the edge process. Everything is sourced
// from the environment so main stays lean.
type Gateway struct {
	Addr           string
	WebUpstreamURL string
	Authority      Authority
	Redis          Redis
	DatabaseURL    string
	Kafka          Kafka
	Lockout        Lockout
}

// Authority describes how to reach the credential authority. Two addresses
// exist because the authority is reachable under different names from the
// client's network and from the gateway's network.
type Authority struct {
	PublicURL     string
	InternalURL   string
	VerifyTimeout time.Duration
}

// BaseURL returns the address the gateway should use: the internal variant
// when set, otherwise the client-facing one.
func (a Authority) BaseURL() string {
	if a.InternalURL != "" {
		return a.InternalURL
	}
	return a.PublicURL
}

// Redis holds connection settings for the lockout store. An empty URL means
// Redis is not configured and the in-memory store is used instead.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka holds settings for the audit event pipeline. Empty brokers disable
// publishing.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

// Lockout tunes the login attempt guard on the proxied login endpoint.
type Lockout struct {
	Disabled    bool
	MaxFailures int
	Window      time.Duration
	TTL         time.Duration
}

// FromEnv builds a Gateway config from environment variables.
func FromEnv() Gateway {
	return Gateway{
		Addr:           envString("GATEWAY_ADDR", ":8080"),
		WebUpstreamURL: os.Getenv("WEB_UPSTREAM_URL"),
		Authority: Authority{
			PublicURL:     os.Getenv("AUTHORITY_URL"),
			InternalURL:   os.Getenv("AUTHORITY_INTERNAL_URL"),
			VerifyTimeout: envDuration("VERIFY_TIMEOUT", 3*time.Second),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Kafka: Kafka{
			Brokers:    splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: envString("KAFKA_AUDIT_TOPIC", "taskgate.audit"),
		},
		Lockout: Lockout{
			Disabled:    os.Getenv("LOCKOUT_DISABLED") == "true",
			MaxFailures: envInt("LOCKOUT_MAX_FAILURES", 5),
			Window:      envDuration("LOCKOUT_WINDOW", 15*time.Minute),
			TTL:         envDuration("LOCKOUT_TTL", 15*time.Minute),
		},
	}
}

// Validate checks the parts of the config the gateway cannot run without.
func (g Gateway) Validate() error {
	if g.WebUpstreamURL == "" {
		return fmt.Errorf("WEB_UPSTREAM_URL is required")
	}
	if !govalidator.IsURL(g.WebUpstreamURL) {
		return fmt.Errorf("WEB_UPSTREAM_URL is not a valid URL: %q", g.WebUpstreamURL)
	}
	base := g.Authority.BaseURL()
	if base == "" {
		return fmt.Errorf("AUTHORITY_INTERNAL_URL or AUTHORITY_URL is required")
	}
	if !govalidator.IsURL(base) {
		return fmt.Errorf("authority URL is not a valid URL: %q", base)
	}
	if g.Authority.VerifyTimeout <= 0 {
		return fmt.Errorf("VERIFY_TIMEOUT must be positive")
	}
	return nil
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

func splitNonEmpty(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
