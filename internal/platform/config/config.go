package config

import (
	"os"
	"strconv"
	"time"
)

// SequenceBackend selects the durable store behind issuance counters.
type SequenceBackend string

const (
	BackendFile     SequenceBackend = "file"
	BackendPostgres SequenceBackend = "postgres"
	BackendRedis    SequenceBackend = "redis"
	BackendMemory   SequenceBackend = "memory"
)

// Server captures process-level configuration.
type Server struct {
	Addr       string
	AdminToken string

	Backend      SequenceBackend
	SequenceFile string
	PostgresDSN  string
	Redis        RedisConfig
}

// RedisConfig captures Redis client settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	cfg := Server{
		Addr:         envOr("CHASSISD_ADDR", ":8080"),
		AdminToken:   os.Getenv("CHASSISD_ADMIN_TOKEN"),
		Backend:      SequenceBackend(envOr("SEQUENCE_BACKEND", string(BackendFile))),
		SequenceFile: envOr("SEQUENCE_FILE", "sequences.json"),
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
