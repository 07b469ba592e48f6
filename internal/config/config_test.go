package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ServicePort: 8080,
		Database: DatabaseConfig{
			Host: "localhost",
			Port: 5432,
			Name: "orders_db",
			User: "microservice",
		},
		RabbitMQ: RabbitMQConfig{
			Host: "localhost",
			Port: 5672,
		},
		Dispatcher: DispatcherConfig{
			BatchSize:    10,
			PollInterval: time.Second,
			MaxBackoff:   30 * time.Second,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestConfig_Validate_InvalidServicePort(t *testing.T) {
	cfg := validConfig()
	cfg.ServicePort = 0
	assert.Error(t, cfg.Validate())

	cfg.ServicePort = 70000
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_MissingDBHost(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_MissingRabbitMQHost(t *testing.T) {
	cfg := validConfig()
	cfg.RabbitMQ.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_InvalidBatchSize(t *testing.T) {
	cfg := validConfig()
	cfg.Dispatcher.BatchSize = 0
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_AccumulatesAllErrors(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service_port")
	assert.Contains(t, err.Error(), "db_host")
	assert.Contains(t, err.Error(), "rabbitmq_host")
	assert.Contains(t, err.Error(), "outbox_batch_size")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "orders_db", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=orders_db sslmode=disable", c.DSN())
}

func TestRabbitMQConfig_URL(t *testing.T) {
	c := RabbitMQConfig{Host: "mq", Port: 5672, User: "admin", Pass: "secret"}
	assert.Equal(t, "amqp://admin:secret@mq:5672/", c.URL())
}

func TestRedisConfig_Addr(t *testing.T) {
	c := RedisConfig{Host: "redis", Port: 6379}
	assert.Equal(t, "redis:6379", c.Addr())
}
