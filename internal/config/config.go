package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Pickup       PickupConfig
	Bootstrap    BootstrapConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN selects the in-memory store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// NotificationConfig controls email delivery and the delivery worker pool.
type NotificationConfig struct {
	EmailFrom          string
	SenderName         string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	Workers            int
	MaxAttempts        int
	RetryBackoffMillis int
	SendTimeoutSeconds int
	QueueKey           string
}

// PickupConfig tunes the per-pickup critical section.
type PickupConfig struct {
	LockTTLSeconds  int
	LockWaitSeconds int
}

// BootstrapConfig describes the default admin account.
type BootstrapConfig struct {
	Enabled       bool
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "life-bridge-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60*24),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Notification: NotificationConfig{
			EmailFrom:          getEnv("NOTIFY_EMAIL_FROM", "noreply@lifebridge.com"),
			SenderName:         getEnv("NOTIFY_SENDER_NAME", "Life Bridge"),
			SMTPHost:           os.Getenv("SMTP_HOST"),
			SMTPPort:           smtpPort,
			SMTPUsername:       os.Getenv("SMTP_USERNAME"),
			SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
			Workers:            getEnvAsInt("NOTIFY_WORKERS", 4),
			MaxAttempts:        getEnvAsInt("NOTIFY_MAX_ATTEMPTS", 3),
			RetryBackoffMillis: getEnvAsInt("NOTIFY_RETRY_BACKOFF_MS", 500),
			SendTimeoutSeconds: getEnvAsInt("NOTIFY_SEND_TIMEOUT_SECONDS", 15),
			QueueKey:           getEnv("NOTIFY_QUEUE_KEY", "lifebridge:notifications"),
		},
		Pickup: PickupConfig{
			LockTTLSeconds:  getEnvAsInt("PICKUP_LOCK_TTL_SECONDS", 30),
			LockWaitSeconds: getEnvAsInt("PICKUP_LOCK_WAIT_SECONDS", 5),
		},
		Bootstrap: BootstrapConfig{
			Enabled:       getEnvAsBool("ADMIN_BOOTSTRAP", true),
			AdminName:     getEnv("ADMIN_NAME", "Admin"),
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@lifebridge.com"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RetryBackoff is the delay before the first redelivery; it doubles per attempt.
func (n NotificationConfig) RetryBackoff() time.Duration {
	if n.RetryBackoffMillis <= 0 {
		return 0
	}
	return time.Duration(n.RetryBackoffMillis) * time.Millisecond
}

// SendTimeout bounds a single delivery attempt.
func (n NotificationConfig) SendTimeout() time.Duration {
	if n.SendTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(n.SendTimeoutSeconds) * time.Second
}

// LockTTL returns how long a pickup lock is held before it expires on its own.
func (p PickupConfig) LockTTL() time.Duration {
	if p.LockTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.LockTTLSeconds) * time.Second
}

// LockWait returns how long a caller waits for a busy pickup lock.
func (p PickupConfig) LockWait() time.Duration {
	if p.LockWaitSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.LockWaitSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
