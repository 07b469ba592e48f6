// Package config loads service configuration the way the rest of this
// codebase's ancestry does: viper, environment-variable driven, with
// sensible defaults and a validation pass. Unlike a generic config layer,
// the env var names are fixed by the external contract the three binaries
// share (spec'd exactly: DB_*, RABBITMQ_*, SERVICE_PORT, WS_*).
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database      DatabaseConfig
	RabbitMQ      RabbitMQConfig
	Redis         RedisConfig
	ServicePort   int
	WSHost        string
	WSPort        int
	Observability ObservabilityConfig
	Dispatcher    DispatcherConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string

	MaxConnections  int
	MinConnections  int
	ConnMaxLifetime time.Duration
}

type RabbitMQConfig struct {
	Host string
	Port int
	User string
	Pass string
}

type RedisConfig struct {
	Host string
	Port int
	DB   int
}

type ObservabilityConfig struct {
	LogLevel       string
	JaegerEndpoint string
	EnableTracing  bool
}

type DispatcherConfig struct {
	BatchSize      int
	PollInterval   time.Duration
	MaxBackoff     time.Duration
	BreakerFailures uint32
}

// Load reads configuration from the environment, applying the defaults
// spec.md documents per-variable (e.g. DB_HOST defaults to "localhost").
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			Name:            v.GetString("DB_NAME"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConnections:  v.GetInt("DB_MAX_CONNECTIONS"),
			MinConnections:  v.GetInt("DB_MIN_CONNECTIONS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		RabbitMQ: RabbitMQConfig{
			Host: v.GetString("RABBITMQ_HOST"),
			Port: v.GetInt("RABBITMQ_PORT"),
			User: v.GetString("RABBITMQ_USER"),
			Pass: v.GetString("RABBITMQ_PASS"),
		},
		Redis: RedisConfig{
			Host: v.GetString("REDIS_HOST"),
			Port: v.GetInt("REDIS_PORT"),
			DB:   v.GetInt("REDIS_DB"),
		},
		ServicePort: v.GetInt("SERVICE_PORT"),
		WSHost:      v.GetString("WS_HOST"),
		WSPort:      v.GetInt("WS_PORT"),
		Observability: ObservabilityConfig{
			LogLevel:       v.GetString("LOG_LEVEL"),
			JaegerEndpoint: v.GetString("JAEGER_ENDPOINT"),
			EnableTracing:  v.GetBool("ENABLE_TRACING"),
		},
		Dispatcher: DispatcherConfig{
			BatchSize:       v.GetInt("OUTBOX_BATCH_SIZE"),
			PollInterval:    v.GetDuration("OUTBOX_POLL_INTERVAL"),
			MaxBackoff:      v.GetDuration("OUTBOX_MAX_BACKOFF"),
			BreakerFailures: uint32(v.GetInt("OUTBOX_BREAKER_FAILURES")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.ServicePort <= 0 || c.ServicePort > 65535 {
		errs = append(errs, fmt.Errorf("service_port must be between 1 and 65535, got %d", c.ServicePort))
	}
	if c.Database.Host == "" {
		errs = append(errs, fmt.Errorf("db_host is required"))
	}
	if c.Database.Port <= 0 {
		errs = append(errs, fmt.Errorf("db_port must be positive"))
	}
	if c.RabbitMQ.Host == "" {
		errs = append(errs, fmt.Errorf("rabbitmq_host is required"))
	}
	if c.Dispatcher.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("outbox_batch_size must be positive"))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "payments_db")
	v.SetDefault("DB_USER", "microservice")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNECTIONS", 25)
	v.SetDefault("DB_MIN_CONNECTIONS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")

	v.SetDefault("RABBITMQ_HOST", "localhost")
	v.SetDefault("RABBITMQ_PORT", 5672)
	v.SetDefault("RABBITMQ_USER", "admin")
	v.SetDefault("RABBITMQ_PASS", "password")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SERVICE_PORT", 8080)
	v.SetDefault("WS_HOST", "0.0.0.0")
	v.SetDefault("WS_PORT", 8080)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JAEGER_ENDPOINT", "http://localhost:14268/api/traces")
	v.SetDefault("ENABLE_TRACING", false)

	v.SetDefault("OUTBOX_BATCH_SIZE", 10)
	v.SetDefault("OUTBOX_POLL_INTERVAL", "1s")
	v.SetDefault("OUTBOX_MAX_BACKOFF", "30s")
	v.SetDefault("OUTBOX_BREAKER_FAILURES", 5)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func (c *RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.User, c.Pass, c.Host, c.Port)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
