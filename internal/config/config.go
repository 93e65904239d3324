package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type PaymentConfig struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	GRPCServer `yaml:"grpc_server"`
	PaymentDB  `yaml:"payment_db"`
	LogConfig  `yaml:"log_config"`
	Razorpay   `yaml:"razorpay"`
	Kafka      `yaml:"kafka"`
	Queue      `yaml:"queue"`
	Reconciler `yaml:"reconciler"`
	Booking    `yaml:"booking"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

type PaymentDB struct {
	Dsn            string `yaml:"dsn" env:"PAYMENT_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"PAYMENT_DB_MIGRATIONS_PATH"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
}

// Razorpay carries two distinct secrets: KeySecret authenticates order
// creation and signs checkout results, WebhookSecret signs webhook bodies.
type Razorpay struct {
	BaseURL         string        `yaml:"base_url" env:"RAZORPAY_BASE_URL" env-default:"https://api.razorpay.com"`
	KeyID           string        `yaml:"key_id" env:"RAZORPAY_KEY_ID"`
	KeySecret       string        `yaml:"key_secret" env:"RAZORPAY_KEY_SECRET"`
	WebhookSecret   string        `yaml:"webhook_secret" env:"RAZORPAY_WEBHOOK_SECRET"`
	Timeout         time.Duration `yaml:"timeout" env:"RAZORPAY_TIMEOUT" env-default:"10s"`
	DefaultCurrency string        `yaml:"default_currency" env:"RAZORPAY_DEFAULT_CURRENCY" env-default:"INR"`
}

type Kafka struct {
	Brokers       []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	PaymentTopic  string   `yaml:"payment_topic" env:"KAFKA_PAYMENT_TOPIC" env-default:"payment-events"`
	OperatorTopic string   `yaml:"operator_topic" env:"KAFKA_OPERATOR_TOPIC" env-default:"payment-operator-alerts"`
}

type Queue struct {
	Driver        string `yaml:"driver" env:"QUEUE_DRIVER" env-default:"memory"`
	RedisAddr     string `yaml:"redis_addr" env:"QUEUE_REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"QUEUE_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"QUEUE_REDIS_DB"`
	ConsumerGroup string `yaml:"consumer_group" env:"QUEUE_CONSUMER_GROUP" env-default:"payment-service"`
	MaxRetries    int    `yaml:"max_retries" env:"QUEUE_MAX_RETRIES" env-default:"5"`
}

type Reconciler struct {
	Interval    time.Duration `yaml:"interval" env:"RECONCILER_INTERVAL" env-default:"1m"`
	MaxAttempts int           `yaml:"max_attempts" env:"RECONCILER_MAX_ATTEMPTS" env-default:"5"`
	BatchSize   int           `yaml:"batch_size" env:"RECONCILER_BATCH_SIZE" env-default:"50"`
	// RECEIVED events older than this are treated as lost by the worker
	StaleAfter  time.Duration `yaml:"stale_after" env:"RECONCILER_STALE_AFTER" env-default:"5m"`
}

type Booking struct {
	CodeLength int `yaml:"code_length" env:"BOOKING_CODE_LENGTH" env-default:"10"`
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*PaymentConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg PaymentConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *PaymentConfig) Validate() error {
	if c.Razorpay.KeyID == "" {
		return errors.New("razorpay.key_id is required")
	}
	if c.Razorpay.KeySecret == "" {
		return errors.New("razorpay.key_secret is required")
	}
	if c.Razorpay.WebhookSecret == "" {
		return errors.New("razorpay.webhook_secret is required")
	}
	if c.PaymentDB.Dsn == "" {
		return errors.New("payment_db.dsn is required")
	}
	switch c.Queue.Driver {
	case "memory":
	case "redis":
		if c.Queue.RedisAddr == "" {
			return errors.New("queue.redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown queue driver %q", c.Queue.Driver)
	}
	if c.Booking.CodeLength < 6 {
		return fmt.Errorf("booking.code_length must be at least 6, got %d", c.Booking.CodeLength)
	}
	return nil
}

func MustLoad() *PaymentConfig {
	// .env is optional
	_ = godotenv.Load()

	configPath := os.Getenv("PAYMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("PAYMENT_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}
