package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dedezuli/mocha-API-sub002/internal/environment"
)

// Config is the harness configuration, built once in main and injected.
type Config struct {
	Env             string
	BaseURLOverride string
	EnvFile         string
	Strict          bool
	HTTPTimeout     time.Duration
	BatchLimit      int

	NewCore    Credentials
	Legacy     Credentials
	APISync    BasicAuth
	Backoffice BasicAuth

	OTP      OTPConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
}

// Credentials is an API key/secret pair used for request signing.
type Credentials struct {
	Key    string
	Secret string
}

// BasicAuth is a username/password pair.
type BasicAuth struct {
	Username string
	Password string
}

// OTPConfig selects where the OTP verification step reads its code from.
// StaticCode wins when both are set.
type OTPConfig struct {
	StaticCode string
}

// RedisConfig describes the shared OTP cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds DSNs for direct database assertions.
type DatabaseConfig struct {
	NewCoreURL string
	LegacyURL  string
}

// KafkaConfig locates the legacy sync topic.
type KafkaConfig struct {
	Brokers   []string
	SyncTopic string
	GroupID   string
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string
	Format string // text|json
}

const (
	defaultHTTPTimeout   = 30 * time.Second
	defaultBatchLimit    = 3
	defaultOTPCode       = "123456"
	defaultSyncTopic     = "legacy.customer.sync"
	defaultSyncGroup     = "mocha-syncwatch"
	defaultLoggingLevel  = "info"
	defaultLoggingFormat = "text"
)

// FromEnv builds a Config from environment variables. ENV is required; a
// missing ENV fails before anything touches the network.
func FromEnv() (Config, error) {
	env := strings.TrimSpace(os.Getenv("ENV"))
	if env == "" {
		return Config{}, environment.ErrMissingEnv
	}

	timeout, err := parseDurationWithDefault("MOCHA_HTTP_TIMEOUT", defaultHTTPTimeout)
	if err != nil {
		return Config{}, err
	}
	batch, err := parseIntWithDefault("MOCHA_BATCH_LIMIT", defaultBatchLimit)
	if err != nil {
		return Config{}, err
	}
	if batch < 1 {
		return Config{}, fmt.Errorf("MOCHA_BATCH_LIMIT must be positive, got %d", batch)
	}

	cfg := Config{
		Env:             env,
		BaseURLOverride: os.Getenv("MOCHA_BASE_URL"),
		EnvFile:         os.Getenv("MOCHA_ENV_FILE"),
		Strict:          parseBoolWithDefault("MOCHA_STRICT", true),
		HTTPTimeout:     timeout,
		BatchLimit:      batch,
		NewCore: Credentials{
			Key:    os.Getenv("NEWCORE_API_KEY"),
			Secret: os.Getenv("NEWCORE_API_SECRET"),
		},
		Legacy: Credentials{
			Key:    os.Getenv("LEGACY_API_KEY"),
			Secret: os.Getenv("LEGACY_API_SECRET"),
		},
		APISync: BasicAuth{
			Username: os.Getenv("APISYNC_USERNAME"),
			Password: os.Getenv("APISYNC_PASSWORD"),
		},
		Backoffice: BasicAuth{
			Username: os.Getenv("BACKOFFICE_USERNAME"),
			Password: os.Getenv("BACKOFFICE_PASSWORD"),
		},
		OTP: OTPConfig{
			StaticCode: valueOrDefault("MOCHA_OTP_CODE", ""),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("MOCHA_REDIS_URL"),
			PoolSize:     4,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Database: DatabaseConfig{
			NewCoreURL: os.Getenv("NEWCORE_DATABASE_URL"),
			LegacyURL:  os.Getenv("LEGACY_DATABASE_URL"),
		},
		Kafka: KafkaConfig{
			Brokers:   splitCSV(os.Getenv("KAFKA_BROKERS")),
			SyncTopic: valueOrDefault("SYNC_TOPIC", defaultSyncTopic),
			GroupID:   valueOrDefault("SYNC_GROUP_ID", defaultSyncGroup),
		},
		Logging: LoggingConfig{
			Level:  valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format: valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
		},
	}
	if cfg.OTP.StaticCode == "" && cfg.Redis.URL == "" {
		cfg.OTP.StaticCode = defaultOTPCode
	}
	return cfg, nil
}

// MockCore captures the fake new-core backend configuration.
type MockCore struct {
	Addr          string
	JWTSigningKey string
	TokenTTL      time.Duration
	NewCore       Credentials
	Backoffice    BasicAuth
	OTPCode       string
	Redis         RedisConfig
	Kafka         KafkaConfig
	Logging       LoggingConfig
}

// MockCoreFromEnv builds the fake backend config so main stays lean.
func MockCoreFromEnv() (MockCore, error) {
	ttl, err := parseDurationWithDefault("MOCKCORE_TOKEN_TTL", time.Hour)
	if err != nil {
		return MockCore{}, err
	}
	return MockCore{
		Addr:          valueOrDefault("MOCKCORE_ADDR", ":8080"),
		JWTSigningKey: valueOrDefault("MOCKCORE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:      ttl,
		NewCore: Credentials{
			Key:    os.Getenv("NEWCORE_API_KEY"),
			Secret: os.Getenv("NEWCORE_API_SECRET"),
		},
		Backoffice: BasicAuth{
			Username: valueOrDefault("BACKOFFICE_USERNAME", "admin"),
			Password: valueOrDefault("BACKOFFICE_PASSWORD", "admin"),
		},
		OTPCode: valueOrDefault("MOCHA_OTP_CODE", defaultOTPCode),
		Redis: RedisConfig{
			URL:          os.Getenv("MOCHA_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:   splitCSV(os.Getenv("KAFKA_BROKERS")),
			SyncTopic: valueOrDefault("SYNC_TOPIC", defaultSyncTopic),
		},
		Logging: LoggingConfig{
			Level:  valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format: valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
		},
	}, nil
}

func valueOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBoolWithDefault(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func parseIntWithDefault(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func parseDurationWithDefault(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
