package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	pstrings "onboard/pkg/platform/strings"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devSigningKey = "dev-secret-key-change-in-production"
)

// Config is the full process configuration.
type Config struct {
	Environment string
	LogLevel    string
	Server      Server
	Auth        AuthConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Submission  SubmissionConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig configures staff bearer-token validation.
type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// RedisConfig configures the shared Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the verification request dispatcher. No brokers
// means payloads are only logged.
type KafkaConfig struct {
	Brokers          []string
	Topic            string
	FailureThreshold int
	Cooldown         time.Duration
	SpoolKey         string
}

// SubmissionConfig bounds duplicate-submission protection.
type SubmissionConfig struct {
	TTL time.Duration
}

// IsProduction reports whether the process runs in production.
func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// FromEnv builds the configuration from environment variables, loading a
// .env file first when one exists.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Load(os.Getenv)
}

// Load builds the configuration from a lookup function.
func Load(getenv func(string) string) (Config, error) {
	r := reader{getenv: getenv}
	cfg := Config{
		Environment: r.str("ONBOARD_ENV", EnvDevelopment),
		LogLevel:    r.str("LOG_LEVEL", "info"),
		Server: Server{
			Addr:            r.str("ONBOARD_ADDR", ":8080"),
			ReadTimeout:     r.duration("ONBOARD_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    r.duration("ONBOARD_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: r.duration("ONBOARD_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSigningKey: r.str("JWT_SIGNING_KEY", devSigningKey),
			JWTIssuer:     r.str("JWT_ISSUER", "onboard"),
			JWTAudience:   r.str("JWT_AUDIENCE", "onboard-staff"),
		},
		Redis: RedisConfig{
			URL:          r.str("REDIS_URL", ""),
			PoolSize:     r.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: r.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  r.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  r.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: r.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:          r.list("KAFKA_BROKERS"),
			Topic:            r.str("KAFKA_TOPIC", "verification.requests"),
			FailureThreshold: r.integer("DISPATCH_FAILURE_THRESHOLD", 5),
			Cooldown:         r.duration("DISPATCH_COOLDOWN", 30*time.Second),
			SpoolKey:         r.str("DISPATCH_SPOOL_KEY", "onboard:dispatch:spool"),
		},
		Submission: SubmissionConfig{
			TTL: r.duration("SUBMISSION_TTL", 10*time.Minute),
		},
	}
	if len(r.errs) > 0 {
		return Config{}, errors.Join(r.errs...)
	}
	if cfg.IsProduction() && cfg.Auth.JWTSigningKey == devSigningKey {
		return Config{}, errors.New("JWT_SIGNING_KEY must be set in production")
	}
	if cfg.Submission.TTL <= 0 {
		return Config{}, errors.New("SUBMISSION_TTL must be positive")
	}
	return cfg, nil
}

type reader struct {
	getenv func(string) string
	errs   []error
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (r *reader) integer(key string, def int) int {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *reader) list(key string) []string {
	return pstrings.DedupeAndTrim(strings.Split(r.getenv(key), ","))
}
