package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	AppEnv string

	HTTP         HTTPConfig
	DB           DBConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Cache        CacheConfig
	Notification NotificationConfig
	Sync         SyncConfig

	JWTSecret          string
	OutboxPollInterval time.Duration
	ExportDir          string
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// how long in-flight requests get to finish after SIGTERM
	ShutdownTimeout time.Duration

	// per client IP, applied before authentication
	RatePerSecond float64
	Burst         int
}

type DBConfig struct {
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	MaxRetries int
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Broker  string
	GroupID string
}

type CacheConfig struct {
	Backend    string
	RuleTTL    time.Duration
	SweepEvery string // cron spec
}

type NotificationConfig struct {
	Workers        int
	QueueSize      int
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

type SyncConfig struct {
	RatePerSecond float64
	Burst         int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("HTTP_READ_TIMEOUT", 5*time.Second)
	v.SetDefault("HTTP_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("HTTP_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("HTTP_RATE_PER_SECOND", 20.0)
	v.SetDefault("HTTP_BURST", 40)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "madrasah")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_RETRIES", 5)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("KAFKA_GROUP_ID", "go-madrasah")

	v.SetDefault("CACHE_BACKEND", CacheBackendMemory)
	v.SetDefault("CACHE_RULE_TTL", 5*time.Minute)
	v.SetDefault("CACHE_SWEEP_CRON", "@every 1m")

	v.SetDefault("NOTIFICATION_WORKERS", 2)
	v.SetDefault("NOTIFICATION_QUEUE_SIZE", 256)
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("NOTIFICATION_FROM_EMAIL", "noreply@localhost")
	v.SetDefault("NOTIFICATION_FROM_NAME", "Madrasah")

	v.SetDefault("SYNC_RATE_PER_SECOND", 2.0)
	v.SetDefault("SYNC_BURST", 5)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("OUTBOX_POLL_INTERVAL", 3*time.Second)
	v.SetDefault("EXPORT_DIR", "storage/exports")
}

// Load reads configuration from the environment. godotenv is expected to have
// populated the process env from .env before this is called.
func Load() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Port:         v.GetString("PORT"),
			ReadTimeout:  v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("HTTP_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("HTTP_IDLE_TIMEOUT"),

			ShutdownTimeout: v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),

			RatePerSecond: v.GetFloat64("HTTP_RATE_PER_SECOND"),
			Burst:         v.GetInt("HTTP_BURST"),
		},
		DB: DBConfig{
			Host:       v.GetString("DB_HOST"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			Port:       v.GetString("DB_PORT"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			MaxRetries: v.GetInt("DB_MAX_RETRIES"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Broker:  v.GetString("KAFKA_BROKER"),
			GroupID: v.GetString("KAFKA_GROUP_ID"),
		},
		Cache: CacheConfig{
			Backend:    strings.ToLower(v.GetString("CACHE_BACKEND")),
			RuleTTL:    v.GetDuration("CACHE_RULE_TTL"),
			SweepEvery: v.GetString("CACHE_SWEEP_CRON"),
		},
		Notification: NotificationConfig{
			Workers:        v.GetInt("NOTIFICATION_WORKERS"),
			QueueSize:      v.GetInt("NOTIFICATION_QUEUE_SIZE"),
			SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
			FromEmail:      v.GetString("NOTIFICATION_FROM_EMAIL"),
			FromName:       v.GetString("NOTIFICATION_FROM_NAME"),
		},
		Sync: SyncConfig{
			RatePerSecond: v.GetFloat64("SYNC_RATE_PER_SECOND"),
			Burst:         v.GetInt("SYNC_BURST"),
		},
		JWTSecret:          v.GetString("JWT_SECRET"),
		OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
		ExportDir:          v.GetString("EXPORT_DIR"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("config: unsupported CACHE_BACKEND %q", c.Cache.Backend)
	}
	if c.Notification.Workers < 1 {
		return fmt.Errorf("config: NOTIFICATION_WORKERS must be >= 1")
	}
	if c.Notification.QueueSize < 1 {
		return fmt.Errorf("config: NOTIFICATION_QUEUE_SIZE must be >= 1")
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
